// Package cli provides the interactive SessionKeeper command-line client.
//
// It wires configuration, a persisted session store, the identity service
// client, and an interactive REPL. On startup the app hydrates the session
// from its backend, reconciles it with the token state, and then executes
// user commands.
//
// Key features:
//   - Login / Logout against the identity service
//   - Whoami: show the current session snapshot
//   - Refresh: re-fetch the remote profile
//   - Update: edit local profile fields
//   - Reset: wipe the session without a remote call
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
