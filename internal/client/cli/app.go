package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/api"
	"github.com/dmitrijs2005/passvault/internal/client/clipboard"
	"github.com/dmitrijs2005/passvault/internal/client/config"
	"github.com/dmitrijs2005/passvault/internal/client/keys"
	"github.com/dmitrijs2005/passvault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/passvault/internal/client/services"
	"github.com/dmitrijs2005/passvault/internal/client/session"
	"github.com/dmitrijs2005/passvault/internal/client/storage"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

// App is one client profile plus the services acting on it.
type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	keys    *keys.Manager
	auth    *services.AuthService
	vault   *services.VaultService
	sync    *services.SyncService
	guard   *clipboard.Guard
	profile *session.Profile
	reader  *bufio.Reader
	out     io.Writer
}

// NewApp opens the profile database at c.ProfilePath and wires the
// services against the server at c.ServerURL.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, c.ProfilePath)
	if err != nil {
		return nil, fmt.Errorf("error opening profile: %w", err)
	}

	client := api.New(c.ServerURL, c.RequestTimeout)
	sessions := session.NewStore(metadata.NewSQLiteRepository(db))

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		keys:    keys.NewManager(db, logger),
		auth:    services.NewAuthService(client, sessions, logger),
		vault:   services.NewVaultService(client, logger),
		sync:    services.NewSyncService(client, client, logger),
		guard:   clipboard.NewGuard(c.ClipboardDelay),
		profile: &session.Profile{},
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Close clears any secret still on the clipboard, wipes the in-memory key
// and closes the profile database.
func (a *App) Close() error {
	if err := a.guard.Flush(); err != nil {
		a.logger.Warn(context.Background(), "clipboard not cleared", "error", err)
	}
	a.profile.Close()
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.profile.LoggedIn()
}

// unlock makes sure the profile key is loaded. A corrupt key is reported
// here and blocks every vault operation.
func (a *App) unlock(ctx context.Context) error {
	if a.profile.Key != nil {
		return nil
	}
	k, err := a.keys.GetOrCreateKey(ctx)
	if err != nil {
		return err
	}
	a.profile.Key = k
	return nil
}

// loadVault fetches and decrypts the vault into the profile.
func (a *App) loadVault(ctx context.Context) error {
	if err := a.unlock(ctx); err != nil {
		return err
	}
	items, err := a.vault.Load(ctx, a.profile)
	if err != nil {
		return err
	}

	broken := 0
	for _, it := range items {
		if it.Broken {
			broken++
		}
	}
	a.printf("Vault loaded: %d entries", len(items))
	if broken > 0 {
		a.warnf(" (%d unreadable)", broken)
	}
	fmt.Fprintln(a.out)
	return nil
}

// requireVault is the precondition for entry commands.
func (a *App) requireVault(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrUnauthenticated
	}
	if a.profile.Items == nil {
		return a.loadVault(ctx)
	}
	return a.unlock(ctx)
}

// report prints err in user terms. It returns err so handlers can
// `return a.report(err)`.
func (a *App) report(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, common.ErrKeyCorrupt):
		a.errorf("The local encryption key is corrupt. Your vault is NOT empty, but it cannot be decrypted on this profile.\n")
		a.errorf("Restore the profile database from a backup, or run 'reset-key' to start over (existing entries stay unreadable).\n")
	case errors.Is(err, common.ErrKeyInvalid):
		a.errorf("No usable encryption key is loaded.\n")
	case errors.Is(err, common.ErrInvalidCredentials):
		a.errorf("Invalid credentials\n")
	case errors.Is(err, common.ErrUnauthenticated):
		a.errorf("Not logged in or session expired. Please login.\n")
	case errors.Is(err, common.ErrNotFound):
		a.errorf("Entry not found.\n")
	case errors.Is(err, common.ErrStorageFailure):
		a.errorf("Server or storage unavailable, try again: %v\n", err)
	default:
		a.errorf("Error: %v\n", err)
	}
	return err
}

// waitClipboard blocks until the clipboard guard has cleared the copied
// secret. One-shot commands use it so the process outlives the timer.
func (a *App) waitClipboard(ctx context.Context) {
	if !a.guard.Pending() {
		return
	}
	dimColor.Fprintf(a.out, "Waiting %s to clear the clipboard (Ctrl+C to clear now)...\n", a.config.ClipboardDelay)

	t := time.NewTicker(200 * time.Millisecond)
	defer t.Stop()
	for a.guard.Pending() {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
