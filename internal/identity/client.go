package identity

import (
	"context"
	"time"
)

// Credential is the minimal token+expiry pair the remote client needs to
// authenticate a request. It is a projection of the session record, never a
// store of its own.
type Credential struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Expired reports whether the credential is unusable at the given instant.
// A zero ExpiresAt means the expiry is unknown and the credential is assumed
// usable; the server remains the final authority.
func (c Credential) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !c.ExpiresAt.After(now)
}

// TokenStorage is the storage hook a Client reads credentials from and writes
// credentials to. Set is called when the client obtains a credential the
// storage did not initiate, e.g. after a transparent token refresh.
type TokenStorage interface {
	Get() *Credential
	Set(Credential) error
}

// RawUser is the wire-level profile returned by the identity service.
//
// Password and TFASecret are transport-only fields: they may appear on a
// response but must never be persisted. Optional attributes are pointers so
// "not returned" is distinguishable from "explicitly blank".
type RawUser struct {
	ID                  string         `json:"id"`
	FirstName           string         `json:"first_name"`
	LastName            string         `json:"last_name"`
	Email               string         `json:"email"`
	Password            *string        `json:"password,omitempty"`
	Location            *string        `json:"location,omitempty"`
	Title               *string        `json:"title,omitempty"`
	Description         *string        `json:"description,omitempty"`
	Tags                []string       `json:"tags,omitempty"`
	Avatar              *string        `json:"avatar,omitempty"`
	Language            *string        `json:"language,omitempty"`
	Appearance          *string        `json:"appearance,omitempty"`
	ThemeLight          *string        `json:"theme_light,omitempty"`
	ThemeDark           *string        `json:"theme_dark,omitempty"`
	ThemeLightOverrides map[string]any `json:"theme_light_overrides,omitempty"`
	ThemeDarkOverrides  map[string]any `json:"theme_dark_overrides,omitempty"`
	TFASecret           *string        `json:"tfa_secret,omitempty"`
	Status              *string        `json:"status,omitempty"`
	Role                *string        `json:"role,omitempty"`
	LastAccess          *string        `json:"last_access,omitempty"`
	LastPage            *string        `json:"last_page,omitempty"`
	Provider            *string        `json:"provider,omitempty"`
	ExternalIdentifier  *string        `json:"external_identifier,omitempty"`
	AuthData            map[string]any `json:"auth_data,omitempty"`
	EmailNotifications  *bool          `json:"email_notifications,omitempty"`

	// Some deployments echo a static token and its expiry on the profile
	// itself. When present they are newer credential data, not profile
	// content.
	Token   *string `json:"token,omitempty"`
	Expires *int64  `json:"expires,omitempty"`
}

// Client is the remote identity service contract consumed by the session
// layer.
type Client interface {
	Close() error

	// Login exchanges credentials for an access token. Invalid credentials
	// surface as ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (*Credential, error)

	// Logout invalidates the remote-side token. It fails on transport errors
	// only; local state is not its concern.
	Logout(ctx context.Context) error

	// GetToken returns the credential the client would attach to a request,
	// refreshing it if possible. A nil credential with nil error means the
	// client holds nothing usable and the session is anonymous.
	GetToken(ctx context.Context) (*Credential, error)

	// ReadCurrentUser fetches the profile of the authenticated user. The
	// result is raw wire data and may carry transport-only secrets.
	ReadCurrentUser(ctx context.Context) (*RawUser, error)
}
