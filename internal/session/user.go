package session

import (
	"maps"
	"slices"

	"github.com/dmitrijs2005/sessionkeeper/internal/identity"
)

// User is the profile half of the session record. Optional attributes are
// pointers so "not set" is distinguishable from "explicitly blank".
//
// There is intentionally no password or TFA-secret field: those are
// transport-only and are stripped before anything reaches this type.
type User struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`

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
	Status              *string        `json:"status,omitempty"`
	Role                *string        `json:"role,omitempty"`
	LastAccess          *string        `json:"last_access,omitempty"`
	LastPage            *string        `json:"last_page,omitempty"`
	Provider            *string        `json:"provider,omitempty"`
	ExternalIdentifier  *string        `json:"external_identifier,omitempty"`
	AuthData            map[string]any `json:"auth_data,omitempty"`
	EmailNotifications  *bool          `json:"email_notifications,omitempty"`

	// Denormalized copy of the remote credential, kept inline for token
	// continuity across reloads.
	Token   string `json:"token,omitempty"`
	Expires int64  `json:"expires,omitempty"` // Unix milliseconds; 0 = unknown
}

// IsEmpty reports whether the profile carries neither an identity nor a
// credential.
func (u User) IsEmpty() bool {
	return u.ID == "" && u.Email == "" && u.Token == ""
}

func (u User) clone() User {
	c := u
	c.Tags = slices.Clone(u.Tags)
	c.ThemeLightOverrides = maps.Clone(u.ThemeLightOverrides)
	c.ThemeDarkOverrides = maps.Clone(u.ThemeDarkOverrides)
	c.AuthData = maps.Clone(u.AuthData)
	return c
}

// mergeProfile builds the post-fetch user: remote fields are authoritative
// for profile content, local credential fields survive unless the response
// itself carries newer credential data. Transport-only secrets (password,
// TFA secret) are dropped here and never stored.
func mergeProfile(local User, raw *identity.RawUser) User {
	u := User{
		ID:                  raw.ID,
		FirstName:           raw.FirstName,
		LastName:            raw.LastName,
		Email:               raw.Email,
		Location:            raw.Location,
		Title:               raw.Title,
		Description:         raw.Description,
		Tags:                slices.Clone(raw.Tags),
		Avatar:              raw.Avatar,
		Language:            raw.Language,
		Appearance:          raw.Appearance,
		ThemeLight:          raw.ThemeLight,
		ThemeDark:           raw.ThemeDark,
		ThemeLightOverrides: maps.Clone(raw.ThemeLightOverrides),
		ThemeDarkOverrides:  maps.Clone(raw.ThemeDarkOverrides),
		Status:              raw.Status,
		Role:                raw.Role,
		LastAccess:          raw.LastAccess,
		LastPage:            raw.LastPage,
		Provider:            raw.Provider,
		ExternalIdentifier:  raw.ExternalIdentifier,
		AuthData:            maps.Clone(raw.AuthData),
		EmailNotifications:  raw.EmailNotifications,

		Token:   local.Token,
		Expires: local.Expires,
	}

	if raw.Token != nil && *raw.Token != "" {
		u.Token = *raw.Token
	}
	if raw.Expires != nil && *raw.Expires > 0 {
		u.Expires = *raw.Expires
	}

	return u
}

// UserPatch carries partial profile edits for UpdateUser. Nil fields are left
// untouched. Credential fields are deliberately absent.
type UserPatch struct {
	FirstName          *string
	LastName           *string
	Email              *string
	Location           *string
	Title              *string
	Description        *string
	Tags               []string
	Avatar             *string
	Language           *string
	Appearance         *string
	ThemeLight         *string
	ThemeDark          *string
	LastPage           *string
	EmailNotifications *bool
}

func (u *User) applyPatch(p UserPatch) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Location != nil {
		u.Location = p.Location
	}
	if p.Title != nil {
		u.Title = p.Title
	}
	if p.Description != nil {
		u.Description = p.Description
	}
	if p.Tags != nil {
		u.Tags = slices.Clone(p.Tags)
	}
	if p.Avatar != nil {
		u.Avatar = p.Avatar
	}
	if p.Language != nil {
		u.Language = p.Language
	}
	if p.Appearance != nil {
		u.Appearance = p.Appearance
	}
	if p.ThemeLight != nil {
		u.ThemeLight = p.ThemeLight
	}
	if p.ThemeDark != nil {
		u.ThemeDark = p.ThemeDark
	}
	if p.LastPage != nil {
		u.LastPage = p.LastPage
	}
	if p.EmailNotifications != nil {
		u.EmailNotifications = p.EmailNotifications
	}
}
