// Package identity contains the client-side boundary to the remote identity
// service.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for the four
//     operations this system consumes: Login, Logout, GetToken, and
//     ReadCurrentUser.
//  2. The TokenStorage hook through which a concrete client reads the current
//     credential and publishes credentials it obtained on its own (e.g. after
//     a transparent refresh).
//  3. A concrete REST/JSON implementation (see RESTClient) that attaches the
//     access token to outgoing requests, transparently refreshes an expired
//     token using an in-memory refresh token, and maps HTTP statuses to
//     sentinel errors.
//
// # Error Handling
//
// Common conditions are exposed as sentinel errors that callers can match
// with errors.Is: ErrInvalidCredentials, ErrUnauthorized, ErrUnavailable.
//
// All operations accept context.Context and honor cancellation/timeouts.
package identity
