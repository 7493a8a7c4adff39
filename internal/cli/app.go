package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/dmitrijs2005/sessionkeeper/internal/config"
	"github.com/dmitrijs2005/sessionkeeper/internal/identity"
	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/repositories/sessions"
	"github.com/dmitrijs2005/sessionkeeper/internal/session"
)

type App struct {
	config     *config.Config
	store      *session.Store
	actions    *session.Actions
	reconciler *session.Reconciler
	client     identity.Client
	db         *sql.DB
	log        logging.Logger
	reader     *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	repo, db, err := newRepository(ctx, c)
	if err != nil {
		log.Error(ctx, "error initializing session backend", "error", err)
		return nil, err
	}

	store := session.NewStore(
		session.WithPersister(sessions.ForStore(repo, c.SessionStoreID)),
		session.WithStoreLogger(log),
	)

	storage := session.NewCredentialStorage(store, session.WithCredentialStorageLogger(log))

	client := identity.NewRESTClient(c.EndpointURL, storage,
		identity.WithHTTPClient(&http.Client{Timeout: c.RequestTimeout}),
		identity.WithLogger(log),
	)

	actions := session.NewActions(store, client, session.WithActionsLogger(log))
	reconciler := session.NewReconciler(store, actions, client, session.WithReconcilerLogger(log))

	return &App{
		config:     c,
		store:      store,
		actions:    actions,
		reconciler: reconciler,
		client:     client,
		db:         db,
		log:        log,
		reader:     bufio.NewReader(os.Stdin),
	}, nil
}

// newRepository selects the session backend from config. The returned *sql.DB
// is non-nil only for the sqlite backend and must be closed by the caller.
func newRepository(ctx context.Context, c *config.Config) (sessions.Repository, *sql.DB, error) {
	switch c.SessionBackend {
	case config.BackendSQLite:
		db, err := sessions.InitDatabase(ctx, c.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return sessions.NewSQLiteRepository(db), db, nil

	case config.BackendRedis:
		rc, err := sessions.Connect(ctx, sessions.RedisConfig{Addr: c.RedisAddr, DB: c.RedisDB})
		if err != nil {
			return nil, nil, err
		}
		return sessions.NewRedisRepository(rc), nil, nil

	case config.BackendMemory:
		return sessions.NewMemoryRepository(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.IsLoggedIn()
}

// Run hydrates the session, reconciles it with the token state and starts the
// REPL. It blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if err := a.store.Hydrate(ctx); err != nil {
		a.log.Warn(ctx, "session hydration failed, starting anonymous", "error", err)
	}
	if err := a.reconciler.Run(ctx); err != nil {
		a.log.Warn(ctx, "session reconciliation incomplete", "error", err)
	}

	printlnFn("SessionKeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) Close() {
	if err := a.client.Close(); err != nil {
		a.log.Warn(context.Background(), "error closing identity client", "error", err)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(context.Background(), "error closing database", "error", err)
		}
	}
}

func (a *App) getStatus() string {
	if !a.isLoggedIn() {
		return "(anonymous)"
	}
	u := a.store.UserData()
	if u.Email != "" {
		return fmt.Sprintf("(%s)", u.Email)
	}
	return "(logged in)"
}
