package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/session"
)

// Whoami prints the current session snapshot: login state, identity fields
// and, when present, the token expiry.
func (a *App) Whoami(ctx context.Context) error {
	rec := a.store.Snapshot()
	if !rec.LoggedIn {
		printlnFn("Not logged in.")
		return nil
	}

	u := rec.User
	printlnFn(fmt.Sprintf("ID:        %s", u.ID))
	printlnFn(fmt.Sprintf("Email:     %s", u.Email))
	if u.FirstName != "" || u.LastName != "" {
		printlnFn(fmt.Sprintf("Name:      %s %s", u.FirstName, u.LastName))
	}
	if u.Location != nil {
		printlnFn(fmt.Sprintf("Location:  %s", *u.Location))
	}
	if u.Title != nil {
		printlnFn(fmt.Sprintf("Title:     %s", *u.Title))
	}
	if u.Expires > 0 {
		printlnFn(fmt.Sprintf("Token expires: %s", time.UnixMilli(u.Expires).Format(time.RFC3339)))
	}
	return nil
}

// Refresh re-fetches the remote profile into the session.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.actions.RefreshUser(ctx); err != nil {
		printlnFn("Refresh failed:", err.Error())
		return err
	}
	printlnFn("Profile refreshed.")
	return nil
}

// Update prompts for profile fields and applies them locally. Empty input
// leaves a field unchanged.
func (a *App) Update(ctx context.Context) error {
	var patch session.UserPatch

	firstName, err := getSimpleText(a.reader, "First name (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if firstName != "" {
		patch.FirstName = &firstName
	}

	lastName, err := getSimpleText(a.reader, "Last name (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if lastName != "" {
		patch.LastName = &lastName
	}

	location, err := getSimpleText(a.reader, "Location (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if location != "" {
		patch.Location = &location
	}

	title, err := getSimpleText(a.reader, "Title (empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if title != "" {
		patch.Title = &title
	}

	if err := a.actions.UpdateUser(ctx, patch); err != nil {
		printlnFn("Update failed:", err.Error())
		return err
	}
	printlnFn("Profile updated.")
	return nil
}
