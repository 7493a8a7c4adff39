package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
)

const defaultRequestTimeout = 15 * time.Second

// RESTClient talks to the identity service's JSON API. The access token is
// read from TokenStorage on every request; the refresh token is held in
// memory only and never persisted.
type RESTClient struct {
	baseURL string
	httpc   *http.Client
	storage TokenStorage
	log     logging.Logger

	mu           sync.Mutex
	refreshToken string
}

type RESTOption func(*RESTClient)

// WithHTTPClient replaces the default HTTP client, e.g. to impose a custom
// transport timeout.
func WithHTTPClient(h *http.Client) RESTOption {
	return func(c *RESTClient) { c.httpc = h }
}

func WithLogger(l logging.Logger) RESTOption {
	return func(c *RESTClient) { c.log = l }
}

func NewRESTClient(baseURL string, storage TokenStorage, opts ...RESTOption) *RESTClient {
	c := &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultRequestTimeout},
		storage: storage,
		log:     logging.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// authPayload is the token grant shape returned by login and refresh.
// Expires is an absolute instant in Unix milliseconds; when the server omits
// it, the expiry is recovered from the access token's exp claim.
type authPayload struct {
	AccessToken  string `json:"access_token"`
	Expires      int64  `json:"expires"`
	RefreshToken string `json:"refresh_token"`
}

type authEnvelope struct {
	Data authPayload `json:"data"`
}

type userEnvelope struct {
	Data RawUser `json:"data"`
}

func (c *RESTClient) Login(ctx context.Context, email, password string) (*Credential, error) {
	body := map[string]string{"email": email, "password": password, "mode": "json"}

	var env authEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &env, ""); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	c.setRefreshToken(env.Data.RefreshToken)
	cred := credentialFrom(env.Data)
	return &cred, nil
}

// Logout invalidates the refresh token on the server. The in-memory refresh
// token is discarded before the call so a transport failure cannot leave the
// client able to silently re-authenticate.
func (c *RESTClient) Logout(ctx context.Context) error {
	c.mu.Lock()
	rt := c.refreshToken
	c.refreshToken = ""
	c.mu.Unlock()

	if rt == "" {
		return nil
	}

	body := map[string]string{"refresh_token": rt, "mode": "json"}
	return c.do(ctx, http.MethodPost, "/auth/logout", body, nil, "")
}

// GetToken returns the credential the client would attach to a request. If
// the storage holds nothing usable but a refresh token is available, the
// token is refreshed and the result published to the storage. A (nil, nil)
// return means the session is anonymous.
func (c *RESTClient) GetToken(ctx context.Context) (*Credential, error) {
	if cred := c.storage.Get(); cred != nil && !cred.Expired(time.Now()) {
		return cred, nil
	}

	c.mu.Lock()
	rt := c.refreshToken
	c.mu.Unlock()
	if rt == "" {
		return nil, nil
	}

	cred, err := c.refresh(ctx)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			// Dead refresh token: the session is anonymous, not broken.
			return nil, nil
		}
		return nil, err
	}
	return cred, nil
}

func (c *RESTClient) ReadCurrentUser(ctx context.Context) (*RawUser, error) {
	token := ""
	if cred := c.storage.Get(); cred != nil {
		token = cred.AccessToken
	}

	var env userEnvelope
	err := c.do(ctx, http.MethodGet, "/users/me?fields=*", nil, &env, token)
	if err == nil {
		return &env.Data, nil
	}
	if !errors.Is(err, ErrUnauthorized) {
		return nil, err
	}

	// Token rejected: refresh once and retry with the new credential.
	cred, rerr := c.refresh(ctx)
	if rerr != nil {
		return nil, err
	}
	if err := c.do(ctx, http.MethodGet, "/users/me?fields=*", nil, &env, cred.AccessToken); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

func (c *RESTClient) Close() error {
	c.httpc.CloseIdleConnections()
	return nil
}

// refresh exchanges the in-memory refresh token for a fresh credential and
// publishes it to the storage, since this is a credential write the storage
// did not initiate.
func (c *RESTClient) refresh(ctx context.Context) (*Credential, error) {
	c.mu.Lock()
	rt := c.refreshToken
	c.mu.Unlock()
	if rt == "" {
		return nil, ErrUnauthorized
	}

	body := map[string]string{"refresh_token": rt, "mode": "json"}

	var env authEnvelope
	if err := c.do(ctx, http.MethodPost, "/auth/refresh", body, &env, ""); err != nil {
		return nil, err
	}

	c.setRefreshToken(env.Data.RefreshToken)
	cred := credentialFrom(env.Data)
	if err := c.storage.Set(cred); err != nil {
		c.log.Warn(ctx, "failed to publish refreshed credential", "error", err)
	}
	return &cred, nil
}

func (c *RESTClient) setRefreshToken(token string) {
	c.mu.Lock()
	c.refreshToken = token
	c.mu.Unlock()
}

func (c *RESTClient) do(ctx context.Context, method, path string, body any, out any, token string) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return mapStatus(resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapStatus(code int) error {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrUnauthorized
	case code >= 500:
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}

func credentialFrom(p authPayload) Credential {
	cred := Credential{AccessToken: p.AccessToken}
	if p.Expires > 0 {
		cred.ExpiresAt = time.UnixMilli(p.Expires)
	} else {
		cred.ExpiresAt = expiryFromToken(p.AccessToken)
	}
	return cred
}

// expiryFromToken recovers the expiry from a JWT exp claim. The token is not
// verified here; the server is the authority on validity, we only need the
// instant for local bookkeeping.
func expiryFromToken(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
