package session

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/identity"
)

// ---- fake identity client ----

type fakeClient struct {
	mu sync.Mutex

	LoginCred  *identity.Credential
	LoginErr   error
	LoginCalls int
	LoginGate  chan struct{} // when non-nil, Login blocks until closed

	LastLoginEmail    string
	LastLoginPassword string

	LogoutErr   error
	LogoutCalls int

	TokenCred *identity.Credential
	TokenErr  error

	RawUser   *identity.RawUser
	ReadErr   error
	ReadCalls int
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Login(ctx context.Context, email, password string) (*identity.Credential, error) {
	f.mu.Lock()
	f.LoginCalls++
	f.LastLoginEmail = email
	f.LastLoginPassword = password
	gate := f.LoginGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	cred := *f.LoginCred
	return &cred, nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.mu.Lock()
	f.LogoutCalls++
	f.mu.Unlock()
	return f.LogoutErr
}

func (f *fakeClient) GetToken(ctx context.Context) (*identity.Credential, error) {
	if f.TokenErr != nil {
		return nil, f.TokenErr
	}
	if f.TokenCred == nil {
		return nil, nil
	}
	cred := *f.TokenCred
	return &cred, nil
}

func (f *fakeClient) ReadCurrentUser(ctx context.Context) (*identity.RawUser, error) {
	f.mu.Lock()
	f.ReadCalls++
	f.mu.Unlock()
	if f.ReadErr != nil {
		return nil, f.ReadErr
	}
	raw := *f.RawUser
	return &raw, nil
}

// ---- fake persister ----

type fakePersister struct {
	mu sync.Mutex

	Rec *Record

	LoadErr  error
	SaveErr  error
	ClearErr error

	SaveCalls  int
	ClearCalls int
}

func (p *fakePersister) Load(ctx context.Context) (*Record, error) {
	if p.LoadErr != nil {
		return nil, p.LoadErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Rec == nil {
		return nil, nil
	}
	rec := p.Rec.Clone()
	return &rec, nil
}

func (p *fakePersister) Save(ctx context.Context, rec *Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SaveCalls++
	if p.SaveErr != nil {
		return p.SaveErr
	}
	cl := rec.Clone()
	p.Rec = &cl
	return nil
}

func (p *fakePersister) Clear(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ClearCalls++
	if p.ClearErr != nil {
		return p.ClearErr
	}
	p.Rec = nil
	return nil
}

// ---- fake navigator / expiry tracker ----

type fakeNavigator struct {
	mu    sync.Mutex
	Paths []string
}

func (n *fakeNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Paths = append(n.Paths, path)
}

type fakeExpiryTracker struct {
	Tracked    []time.Time
	ClearCalls int
	TrackErr   error
	ClearErr   error
}

func (t *fakeExpiryTracker) Track(at time.Time) error {
	t.Tracked = append(t.Tracked, at)
	return t.TrackErr
}

func (t *fakeExpiryTracker) Clear() error {
	t.ClearCalls++
	return t.ClearErr
}

// ---- data helpers ----

func strPtr(s string) *string { return &s }

func validCredential() *identity.Credential {
	return &identity.Credential{
		AccessToken: "at-1",
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func sampleRawUser() *identity.RawUser {
	return &identity.RawUser{
		ID:        "u1",
		FirstName: "Ann",
		LastName:  "Lee",
		Email:     "a@b.com",
		Password:  strPtr("plaintext-should-never-persist"),
		TFASecret: strPtr("totp-seed"),
		Location:  strPtr("Riga"),
		Role:      strPtr("editor"),
		Tags:      []string{"alpha", "beta"},
	}
}

// seed installs a record directly, bypassing actions. Test-only.
func seed(s *Store, rec Record) {
	s.mu.Lock()
	s.rec = rec
	s.mu.Unlock()
}
