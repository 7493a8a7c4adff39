package identity

import "errors"

var (
	// ErrInvalidCredentials means the login was rejected by the remote service.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized means the current credential was rejected and could not
	// be refreshed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable covers network failures and server-side errors.
	ErrUnavailable = errors.New("identity service unavailable")
)
