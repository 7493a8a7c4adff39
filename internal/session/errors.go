package session

import "errors"

var (
	// ErrAuthenticationFailed is the normalized login failure. The message is
	// deliberately generic; transport detail stays in the logs.
	ErrAuthenticationFailed = errors.New("wrong email address or password")

	// ErrProfileFetch means the session is authenticated but the profile
	// could not be retrieved.
	ErrProfileFetch = errors.New("profile fetch failed")

	// ErrLogoutPartial marks a remote logout failure after which local state
	// was cleared anyway. It is logged, never returned as a blocking error.
	ErrLogoutPartial = errors.New("remote logout failed")

	// ErrStateInconsistent means an internal invariant was violated, e.g. a
	// persisted record claiming login with an empty user.
	ErrStateInconsistent = errors.New("session state inconsistent")
)
