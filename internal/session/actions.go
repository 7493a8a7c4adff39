package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/sessionkeeper/internal/identity"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
)

// Navigator performs post-action navigation. Routing lives outside this
// package; embedders plug their own implementation.
type Navigator interface {
	Navigate(path string)
}

// NopNavigator ignores navigation requests.
type NopNavigator struct{}

func (NopNavigator) Navigate(string) {}

// ExpiryTracker mirrors the credential expiry into an external place (a
// cookie in browser deployments) so outer layers can check it cheaply.
type ExpiryTracker interface {
	Track(expiresAt time.Time) error
	Clear() error
}

// NopExpiryTracker tracks nothing.
type NopExpiryTracker struct{}

func (NopExpiryTracker) Track(time.Time) error { return nil }
func (NopExpiryTracker) Clear() error          { return nil }

// AnonymousRoute is where logout navigates to.
const AnonymousRoute = "/"

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Actions is the mutation surface of the session record. Nothing else
// writes it.
type Actions struct {
	store    *Store
	client   identity.Client
	nav      Navigator
	expiry   ExpiryTracker
	validate *validator.Validate
	log      logging.Logger

	loginGroup singleflight.Group
}

type ActionsOption func(*Actions)

func WithNavigator(n Navigator) ActionsOption {
	return func(a *Actions) { a.nav = n }
}

func WithExpiryTracker(t ExpiryTracker) ActionsOption {
	return func(a *Actions) { a.expiry = t }
}

func WithActionsLogger(l logging.Logger) ActionsOption {
	return func(a *Actions) { a.log = l }
}

func NewActions(store *Store, client identity.Client, opts ...ActionsOption) *Actions {
	a := &Actions{
		store:    store,
		client:   client,
		nav:      NopNavigator{},
		expiry:   NopExpiryTracker{},
		validate: validator.New(),
		log:      logging.NewNop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Login authenticates against the remote service and writes the session in
// two phases: first the bare credential with LoggedIn set, then the full
// profile via GetUser. A phase-two failure keeps the session authenticated
// with an incomplete profile; it is never rolled back.
//
// Failures of any kind surface as ErrAuthenticationFailed with a generic
// message; the underlying cause is logged, never returned.
//
// Concurrent calls share a single flight: a second Login while one is
// pending waits for and receives the first call's outcome, so two
// interleaved responses can never tear the stored credential.
func (a *Actions) Login(ctx context.Context, email, password, redirect string) error {
	_, err, _ := a.loginGroup.Do("login", func() (any, error) {
		return nil, a.doLogin(ctx, email, password, redirect)
	})
	return err
}

func (a *Actions) doLogin(ctx context.Context, email, password, redirect string) error {
	if err := a.validate.Struct(loginInput{Email: email, Password: password}); err != nil {
		a.log.Warn(ctx, "login input rejected", "error", err)
		return ErrAuthenticationFailed
	}

	cred, err := a.client.Login(ctx, email, password)
	if err != nil {
		a.log.Error(ctx, "login failed", "error", err)
		return ErrAuthenticationFailed
	}

	var expires int64
	if !cred.ExpiresAt.IsZero() {
		expires = cred.ExpiresAt.UnixMilli()
	}

	// Phase one: mark authenticated with the bare credential.
	err = a.store.apply(ctx, func(r *Record) {
		r.LoggedIn = true
		r.User = User{Email: email, Token: cred.AccessToken, Expires: expires}
	})
	if err != nil {
		return err
	}

	if !cred.ExpiresAt.IsZero() {
		if terr := a.expiry.Track(cred.ExpiresAt); terr != nil {
			a.log.Warn(ctx, "failed to track session expiry", "error", terr)
		}
	}

	// Phase two: populate the profile. "Authenticated, profile incomplete"
	// beats "silently not authenticated", so failure here is log-only.
	if cred.AccessToken != "" {
		if gerr := a.GetUser(ctx); gerr != nil {
			a.log.Warn(ctx, "profile fetch after login failed, session stays authenticated", "error", gerr)
		}
	}

	if redirect != "" {
		a.nav.Navigate(redirect)
	}
	return nil
}

// Logout invalidates the remote token, then clears local state
// unconditionally. A remote failure is logged as ErrLogoutPartial and never
// blocks the local logout; an error is returned only when the local reset
// itself fails.
func (a *Actions) Logout(ctx context.Context) error {
	if err := a.client.Logout(ctx); err != nil {
		a.log.Warn(ctx, "clearing local session despite remote failure",
			"error", fmt.Errorf("%w: %v", ErrLogoutPartial, err))
	}

	if err := a.expiry.Clear(); err != nil {
		a.log.Warn(ctx, "failed to clear session expiry tracker", "error", err)
	}

	if err := a.ResetState(ctx); err != nil {
		return err
	}

	a.nav.Navigate(AnonymousRoute)
	return nil
}

// GetUser fetches the current profile and merges it into the session record.
// Remote fields win for profile content; the locally held token and expiry
// survive unless the response itself carries newer credential data.
// Transport-only secrets are stripped before the merge.
//
// Called standalone, a failure is re-raised as ErrProfileFetch. The internal
// call sites (login phase two, the reconciler) swallow it.
func (a *Actions) GetUser(ctx context.Context) error {
	raw, err := a.client.ReadCurrentUser(ctx)
	if err != nil {
		a.log.Error(ctx, "profile fetch failed", "error", err)
		return fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}

	return a.store.apply(ctx, func(r *Record) {
		r.User = mergeProfile(r.User, raw)
		r.LoggedIn = true
	})
}

// RefreshUser is GetUser under the name UI layers tend to call it by.
func (a *Actions) RefreshUser(ctx context.Context) error {
	return a.GetUser(ctx)
}

// UpdateUser merges partial profile edits into the current user. It never
// touches LoggedIn or the credential fields, and it makes no remote call;
// pushing edits to the remote service is the embedder's concern.
func (a *Actions) UpdateUser(ctx context.Context, patch UserPatch) error {
	return a.store.apply(ctx, func(r *Record) {
		r.User.applyPatch(patch)
	})
}

// ResetState unconditionally restores the empty initial record. Idempotent.
func (a *Actions) ResetState(ctx context.Context) error {
	return a.store.reset(ctx)
}
