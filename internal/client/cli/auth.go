package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and password and creates an account.
func (a *App) Register(ctx context.Context, args []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Register(ctx, email, password); err != nil {
		return a.report(err)
	}

	a.okf("Account created. You can login now.\n")
	return nil
}

// Login authenticates, loads the profile key and decrypts the vault.
func (a *App) Login(ctx context.Context, args []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.auth.Login(ctx, a.profile, email, password); err != nil {
		return a.report(err)
	}
	a.okf("Logged in as %s\n", a.profile.Email)

	return a.report(a.loadVault(ctx))
}

// Logout forgets the session and the decrypted vault. The profile key stays.
func (a *App) Logout(ctx context.Context, args []string) error {
	a.guard.Cancel()
	if err := a.auth.Logout(ctx, a.profile); err != nil {
		return a.report(err)
	}
	a.printf("Logged out.\n")
	return nil
}

// resume restores a saved session, if any, and loads the vault.
func (a *App) resume(ctx context.Context) error {
	err := a.auth.Resume(ctx, a.profile)
	if errors.Is(err, common.ErrUnauthenticated) {
		return nil
	}
	if err != nil {
		return a.report(err)
	}
	a.printf("Session restored for %s\n", a.profile.Email)
	return a.report(a.loadVault(ctx))
}
