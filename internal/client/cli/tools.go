package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/passvault/internal/client/generator"
	"github.com/dmitrijs2005/passvault/internal/client/services"
	"github.com/dmitrijs2005/passvault/internal/common"
)

// Generate prints a random password and copies it to the clipboard.
func (a *App) Generate(ctx context.Context, opts generator.Options) error {
	pw, err := generator.Generate(opts)
	if err != nil {
		return a.report(fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}

	a.printf("%s\n", pw)
	if err := a.guard.Copy(pw); err != nil {
		a.warnf("Could not copy to clipboard: %v\n", err)
		return nil
	}
	a.okf("Copied. Clipboard clears in %s.\n", a.config.ClipboardDelay)
	return nil
}

// generateArgs is the REPL form: generate [length].
func (a *App) generateArgs(ctx context.Context, args []string) error {
	opts := generator.DefaultOptions()
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return a.report(fmt.Errorf("%w: length must be a number", common.ErrInvalidInput))
		}
		opts.Length = n
	}
	return a.Generate(ctx, opts)
}

// Export writes the vault, re-encrypted under the profile key, to path and
// optionally uploads the same bytes to backup storage.
func (a *App) Export(ctx context.Context, path string, upload bool) error {
	if err := a.requireVault(ctx); err != nil {
		return a.report(err)
	}
	if path == "" {
		path = services.BackupFileName
	}

	items, err := a.sync.Export(ctx, a.profile)
	if err != nil {
		return a.report(err)
	}
	data, err := services.MarshalBackup(items)
	if err != nil {
		return a.report(err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return a.report(err)
	}
	a.okf("Exported %d entries to %s\n", len(items), path)

	if upload {
		key, err := a.sync.UploadBackup(ctx, a.profile, data)
		if err != nil {
			return a.report(err)
		}
		a.okf("Uploaded backup: %s\n", key)
	}
	return nil
}

// Import merges a backup file, or a stored backup when remoteKey is set.
func (a *App) Import(ctx context.Context, path, remoteKey string) error {
	if err := a.requireVault(ctx); err != nil {
		return a.report(err)
	}

	var (
		data []byte
		err  error
	)
	switch {
	case remoteKey != "":
		data, err = a.sync.DownloadBackup(ctx, a.profile, remoteKey)
	case path != "":
		data, err = os.ReadFile(path)
	default:
		data, err = os.ReadFile(services.BackupFileName)
	}
	if err != nil {
		return a.report(err)
	}

	res, err := a.sync.Import(ctx, a.profile, data)
	if err != nil {
		a.warnf("Import stopped: imported=%d skipped=%d failed=%d\n", res.Imported, res.Skipped, res.Failed)
		return a.report(err)
	}

	a.okf("Import done: imported=%d skipped=%d failed=%d\n", res.Imported, res.Skipped, res.Failed)
	if res.Failed > 0 {
		a.warnf("Items that could not be decrypted (0-based positions in file): %v\n", res.FailedAt)
	}
	return nil
}

// importArgs is the REPL form: import [file].
func (a *App) importArgs(ctx context.Context, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	return a.Import(ctx, path, "")
}

// exportArgs is the REPL form: export [file].
func (a *App) exportArgs(ctx context.Context, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	return a.Export(ctx, path, false)
}

// ResetKey deletes the profile key after an explicit confirmation. Entries
// encrypted under it can never be read again.
func (a *App) ResetKey(ctx context.Context, args []string) error {
	a.warnf("This deletes the local encryption key. Every existing entry and backup made with it becomes permanently unreadable.\n")
	answer, err := getSimpleText(a.reader, "Type RESET to continue", a.out)
	if err != nil {
		return err
	}
	if answer != "RESET" {
		a.printf("Cancelled.\n")
		return nil
	}

	if err := a.keys.Reset(ctx); err != nil {
		return a.report(err)
	}
	if a.profile.Key != nil {
		a.profile.Key.Destroy()
		a.profile.Key = nil
	}
	a.profile.Items = nil
	a.okf("Key deleted. A new key is created on next use.\n")
	return nil
}
