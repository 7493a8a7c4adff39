package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/sessionkeeper/internal/session"
	"github.com/dmitrijs2005/sessionkeeper/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts the user for an email and password and authenticates against
// the identity service. On failure it prints the generic authentication
// message; the real cause stays in the logs. The password byte slice is
// securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer shared.WipeByteArray(password)

	if err := a.actions.Login(ctx, email, string(password), ""); err != nil {
		if errors.Is(err, session.ErrAuthenticationFailed) {
			printlnFn(err.Error())
			return err
		}
		printlnFn("Login failed:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("Logged in as %s", a.store.UserData().Email))
	return nil
}

// Logout ends the session. The local session is cleared even when the remote
// call fails; an error here means the local reset itself failed.
func (a *App) Logout(ctx context.Context) error {
	if err := a.actions.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	printlnFn("Logged out.")
	return nil
}

// Reset wipes the session without contacting the identity service.
func (a *App) Reset(ctx context.Context) error {
	if err := a.actions.ResetState(ctx); err != nil {
		printlnFn("Reset failed:", err.Error())
		return err
	}
	printlnFn("Session cleared.")
	return nil
}
