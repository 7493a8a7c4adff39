// Package session keeps the persisted session record and the remote
// auth-token state from silently disagreeing.
//
// # Overview
//
// The package provides:
//  1. The session record model (Record, User): the durable truth of "is the
//     user authenticated, and with what credentials".
//  2. A per-context Store holding one Record, optionally backed by a
//     Persister for reload durability. Server-side deployments must create
//     one Store per request/render context; sharing a Store across contexts
//     for different users is the most severe misuse of this package.
//  3. CredentialStorage, the adapter satisfying identity.TokenStorage so the
//     remote client reads its token out of the session record instead of
//     keeping a store of its own.
//  4. Actions — Login, Logout, GetUser, UpdateUser, ResetState — the only
//     legitimate writers of the record.
//  5. Reconciler, a one-shot consistency pass run per execution context that
//     resolves the two divergence failure modes: a live remote credential
//     the local record does not know about, and a local "logged in" claim
//     with no usable remote credential behind it.
//
// # Error Handling
//
// Failures surface as sentinel errors matched with errors.Is:
// ErrAuthenticationFailed, ErrProfileFetch, ErrLogoutPartial,
// ErrStateInconsistent. Login and logout never leak raw transport error text
// to callers; detail goes to the logger.
//
// # Ordering
//
// Run Store.Hydrate and then Reconciler.Run to completion before treating
// IsLoggedIn as authoritative for rendering anything protected.
package session
