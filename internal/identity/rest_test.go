package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// ---- fake storage ----

type fakeStorage struct {
	cred     *Credential
	setCalls []Credential
	setErr   error
}

func (s *fakeStorage) Get() *Credential { return s.cred }

func (s *fakeStorage) Set(c Credential) error {
	s.setCalls = append(s.setCalls, c)
	if s.setErr != nil {
		return s.setErr
	}
	s.cred = &c
	return nil
}

// ---- helpers ----

func writeAuthGrant(t *testing.T, w http.ResponseWriter, token string, expires int64, refresh string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{
			"access_token":  token,
			"expires":       expires,
			"refresh_token": refresh,
		},
	})
	require.NoError(t, err)
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "u1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// ---- tests ----

func TestRESTClient_Login_Success(t *testing.T) {
	expires := time.Now().Add(time.Hour).UnixMilli()
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeAuthGrant(t, w, "at-1", expires, "rt-1")
	}))
	defer srv.Close()

	st := &fakeStorage{}
	c := NewRESTClient(srv.URL, st)

	cred, err := c.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "at-1", cred.AccessToken)
	require.Equal(t, time.UnixMilli(expires), cred.ExpiresAt)
	require.Equal(t, "a@b.com", gotBody["email"])
	require.Equal(t, "pw", gotBody["password"])
}

func TestRESTClient_Login_InvalidCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL, &fakeStorage{})

	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRESTClient_Login_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewRESTClient(srv.URL, &fakeStorage{})

	_, err := c.Login(context.Background(), "a@b.com", "pw")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestRESTClient_Login_MissingExpiry_FallsBackToJWTClaim(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	token := signedToken(t, exp)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeAuthGrant(t, w, token, 0, "rt-1")
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL, &fakeStorage{})

	cred, err := c.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.Equal(t, exp.Unix(), cred.ExpiresAt.Unix())
}

func TestRESTClient_ReadCurrentUser_AttachesBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		require.Equal(t, "/users/me", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"id": "u1", "email": "a@b.com", "first_name": "Ann"},
		})
	}))
	defer srv.Close()

	st := &fakeStorage{cred: &Credential{AccessToken: "at-1", ExpiresAt: time.Now().Add(time.Hour)}}
	c := NewRESTClient(srv.URL, st)

	u, err := c.ReadCurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Equal(t, "Ann", u.FirstName)
}

func TestRESTClient_ReadCurrentUser_RefreshesOnUnauthorized(t *testing.T) {
	var meCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeAuthGrant(t, w, "at-old", time.Now().Add(time.Hour).UnixMilli(), "rt-1")
		case "/auth/refresh":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "rt-1", body["refresh_token"])
			writeAuthGrant(t, w, "at-new", time.Now().Add(time.Hour).UnixMilli(), "rt-2")
		case "/users/me":
			meCalls++
			if r.Header.Get("Authorization") != "Bearer at-new" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"id": "u1"}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	st := &fakeStorage{}
	c := NewRESTClient(srv.URL, st)

	cred, err := c.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)
	require.NoError(t, st.Set(*cred))

	u, err := c.ReadCurrentUser(context.Background())
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Equal(t, 2, meCalls)

	// The refreshed credential was published through the storage hook.
	require.Equal(t, "at-new", st.cred.AccessToken)
}

func TestRESTClient_GetToken_ReturnsStoredCredential(t *testing.T) {
	st := &fakeStorage{cred: &Credential{AccessToken: "at-1", ExpiresAt: time.Now().Add(time.Hour)}}
	c := NewRESTClient("http://127.0.0.1:0", st)

	cred, err := c.GetToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "at-1", cred.AccessToken)
}

func TestRESTClient_GetToken_NothingUsable(t *testing.T) {
	c := NewRESTClient("http://127.0.0.1:0", &fakeStorage{})

	cred, err := c.GetToken(context.Background())
	require.NoError(t, err)
	require.Nil(t, cred)
}

func TestRESTClient_GetToken_AutoRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeAuthGrant(t, w, "at-old", time.Now().Add(time.Hour).UnixMilli(), "rt-1")
		case "/auth/refresh":
			writeAuthGrant(t, w, "at-new", time.Now().Add(time.Hour).UnixMilli(), "rt-2")
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	st := &fakeStorage{}
	c := NewRESTClient(srv.URL, st)

	_, err := c.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	// Storage is empty (nothing persisted the login), but the client still
	// holds a refresh token: GetToken mints a fresh credential.
	cred, err := c.GetToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "at-new", cred.AccessToken)
	require.Len(t, st.setCalls, 1)
}

func TestRESTClient_GetToken_DeadRefreshTokenMeansAnonymous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeAuthGrant(t, w, "at-old", time.Now().Add(time.Hour).UnixMilli(), "rt-1")
		case "/auth/refresh":
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	st := &fakeStorage{}
	c := NewRESTClient(srv.URL, st)

	_, err := c.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	cred, err := c.GetToken(context.Background())
	require.NoError(t, err)
	require.Nil(t, cred)
}

func TestRESTClient_Logout_SendsAndDiscardsRefreshToken(t *testing.T) {
	var logoutCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeAuthGrant(t, w, "at-1", time.Now().Add(time.Hour).UnixMilli(), "rt-1")
		case "/auth/logout":
			logoutCalls++
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "rt-1", body["refresh_token"])
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL, &fakeStorage{})

	_, err := c.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	require.NoError(t, c.Logout(context.Background()))
	require.Equal(t, 1, logoutCalls)

	// Second logout has nothing to invalidate and stays local.
	require.NoError(t, c.Logout(context.Background()))
	require.Equal(t, 1, logoutCalls)
}

func TestRESTClient_Logout_DiscardsRefreshTokenOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeAuthGrant(t, w, "at-1", time.Now().Add(time.Hour).UnixMilli(), "rt-1")
		case "/auth/logout":
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewRESTClient(srv.URL, &fakeStorage{})

	_, err := c.Login(context.Background(), "a@b.com", "pw")
	require.NoError(t, err)

	require.ErrorIs(t, c.Logout(context.Background()), ErrUnavailable)

	// The refresh token is gone regardless: the client cannot silently
	// re-authenticate after a user-initiated logout.
	cred, err := c.GetToken(context.Background())
	require.NoError(t, err)
	require.Nil(t, cred)
}

func TestCredential_Expired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		cred Credential
		want bool
	}{
		{"future expiry", Credential{AccessToken: "t", ExpiresAt: now.Add(time.Minute)}, false},
		{"past expiry", Credential{AccessToken: "t", ExpiresAt: now.Add(-time.Minute)}, true},
		{"exact instant", Credential{AccessToken: "t", ExpiresAt: now}, true},
		{"unknown expiry", Credential{AccessToken: "t"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.cred.Expired(now))
		})
	}
}
