package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sessionkeeper/internal/identity"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
)

// Reconciler resolves divergence between the persisted session record and
// the remote client's token. Run it once per new execution context (a fresh
// server render pass or client hydration) before the record is read as
// authoritative.
type Reconciler struct {
	store   *Store
	actions *Actions
	client  identity.Client
	log     logging.Logger
}

type ReconcilerOption func(*Reconciler)

func WithReconcilerLogger(l logging.Logger) ReconcilerOption {
	return func(r *Reconciler) { r.log = l }
}

func NewReconciler(store *Store, actions *Actions, client identity.Client, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{store: store, actions: actions, client: client, log: logging.NewNop()}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run executes one reconciliation pass. It is idempotent: with no
// intervening action a second pass finds a consistent state and does
// nothing.
//
// A GetToken transport failure establishes neither divergence case, so the
// record is left untouched and the error returned.
func (r *Reconciler) Run(ctx context.Context) error {
	cred, err := r.client.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("reconcile: read token: %w", err)
	}

	loggedIn := r.store.IsLoggedIn()

	switch {
	case !loggedIn && cred != nil:
		// A usable remote credential the local record does not know about:
		// adopt it. A profile fetch failure here is non-fatal and the
		// context proceeds anonymous.
		r.log.Info(ctx, "reconcile: adopting remote credential")
		if gerr := r.actions.GetUser(ctx); gerr != nil {
			r.log.Warn(ctx, "reconcile: profile fetch failed, staying anonymous", "error", gerr)
		}

	case loggedIn && cred == nil:
		// Local state claims authentication with no usable credential behind
		// it: the primary defense against phantom-logged-in after expiry.
		r.log.Info(ctx, "reconcile: no usable credential for logged-in record, resetting")
		if rerr := r.actions.ResetState(ctx); rerr != nil {
			return fmt.Errorf("reconcile: reset: %w", rerr)
		}

	default:
		// Both sides agree.
	}

	return nil
}
