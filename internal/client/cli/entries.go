package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/passvault/internal/client/generator"
	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/common"
)

// List prints the vault, newest first, numbered from 1.
func (a *App) List(ctx context.Context, args []string) error {
	if err := a.requireVault(ctx); err != nil {
		return a.report(err)
	}

	if len(a.profile.Items) == 0 {
		a.printf("Vault is empty.\n")
		return nil
	}

	for i, it := range a.profile.Items {
		if it.Broken {
			a.errorf("%3d. %s", i+1, it.Entry.Title)
			a.printf("  id=%s\n", it.ID)
			continue
		}
		a.printf("%3d. %s  (%s)", i+1, it.Entry.Title, it.Entry.Username)
		if it.Entry.URL != "" {
			dimColor.Fprintf(a.out, "  %s", it.Entry.URL)
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

// findItem resolves a 1-based list number or a record id.
func (a *App) findItem(arg string) (int, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n >= 1 && n <= len(a.profile.Items) {
			return n - 1, nil
		}
	}
	for i, it := range a.profile.Items {
		if it.ID == arg {
			return i, nil
		}
	}
	return -1, common.ErrNotFound
}

func (a *App) selectItem(ctx context.Context, args []string, prompt string) (int, error) {
	if err := a.requireVault(ctx); err != nil {
		return -1, err
	}

	var ref string
	if len(args) > 0 {
		ref = args[0]
	} else {
		var err error
		ref, err = getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return -1, err
		}
	}
	return a.findItem(ref)
}

// Show prints one entry with its password masked.
func (a *App) Show(ctx context.Context, args []string) error {
	return a.show(ctx, args, false)
}

// Reveal prints one entry including its password.
func (a *App) Reveal(ctx context.Context, args []string) error {
	return a.show(ctx, args, true)
}

func (a *App) show(ctx context.Context, args []string, reveal bool) error {
	i, err := a.selectItem(ctx, args, "Entry number or id")
	if err != nil {
		return a.report(err)
	}
	it := a.profile.Items[i]

	if it.Broken {
		a.errorf("%s\n", models.PlaceholderTitle)
		a.printf("id:      %s\nreason:  %v\n", it.ID, it.Err)
		return nil
	}

	secret := strings.Repeat("*", 8)
	if reveal {
		secret = it.Entry.Secret
	}
	a.printf("id:       %s\ntitle:    %s\nusername: %s\npassword: %s\nurl:      %s\nnotes:    %s\ncreated:  %s\nupdated:  %s\n",
		it.ID, it.Entry.Title, it.Entry.Username, secret, it.Entry.URL, it.Entry.Notes,
		it.CreatedAt.Local().Format("2006-01-02 15:04"), it.UpdatedAt.Local().Format("2006-01-02 15:04"))
	return nil
}

// Copy puts an entry's password on the clipboard for the configured delay.
func (a *App) Copy(ctx context.Context, args []string) error {
	i, err := a.selectItem(ctx, args, "Entry number or id")
	if err != nil {
		return a.report(err)
	}
	it := a.profile.Items[i]
	if it.Broken {
		return a.report(fmt.Errorf("%w: entry is unreadable", common.ErrInvalidInput))
	}

	if err := a.guard.Copy(it.Entry.Secret); err != nil {
		return a.report(err)
	}
	a.okf("Password copied. Clipboard clears in %s.\n", a.config.ClipboardDelay)
	return nil
}

// readEntry prompts for entry fields. Fields left empty keep the values
// of base; an empty password on a new entry is generated.
func (a *App) readEntry(base models.VaultEntry, isNew bool) (models.VaultEntry, error) {
	e := base
	hint := func(label, cur string) string {
		if cur == "" {
			return label
		}
		return fmt.Sprintf("%s [%s]", label, cur)
	}

	fields := []struct {
		label string
		dst   *string
	}{
		{"Title", &e.Title},
		{"Username", &e.Username},
		{"URL (optional)", &e.URL},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, hint(f.label, *f.dst), a.out)
		if err != nil {
			return e, err
		}
		if v != "" {
			*f.dst = v
		}
	}

	prompt := "Password (leave empty to keep)"
	if isNew {
		prompt = "Password (leave empty to generate)"
	}
	pw, err := getPassword(a.out, prompt)
	if err != nil {
		return e, err
	}
	if len(pw) > 0 {
		e.Secret = string(pw)
		common.WipeByteArray(pw)
	} else if isNew {
		gen, err := generator.Generate(generator.DefaultOptions())
		if err != nil {
			return e, err
		}
		e.Secret = gen
		a.printf("Generated a %d character password.\n", len(gen))
	}

	notes, err := GetMultiline(a.reader, hint("Notes (optional)", e.Notes), a.out)
	if err != nil {
		return e, err
	}
	if notes != "" {
		e.Notes = notes
	}
	return e, nil
}

// Add prompts for a new entry, encrypts it and stores it.
func (a *App) Add(ctx context.Context, args []string) error {
	if err := a.requireVault(ctx); err != nil {
		return a.report(err)
	}

	entry, err := a.readEntry(models.VaultEntry{}, true)
	if err != nil {
		return err
	}

	item, err := a.vault.Add(ctx, a.profile, entry)
	if err != nil {
		return a.report(err)
	}
	a.okf("Saved %q (id=%s)\n", item.Entry.Title, item.ID)
	return nil
}

// Edit re-prompts an entry's fields and stores the new version.
func (a *App) Edit(ctx context.Context, args []string) error {
	i, err := a.selectItem(ctx, args, "Entry number or id to edit")
	if err != nil {
		return a.report(err)
	}
	it := a.profile.Items[i]

	base := it.Entry
	if it.Broken {
		a.warnf("Entry is unreadable; enter all fields to overwrite it.\n")
		base = models.VaultEntry{}
	}

	entry, err := a.readEntry(base, it.Broken)
	if err != nil {
		return err
	}

	if _, err := a.vault.Update(ctx, a.profile, it.ID, entry); err != nil {
		return a.report(err)
	}
	a.okf("Updated %q\n", entry.Title)
	return nil
}

// Delete removes an entry after confirmation.
func (a *App) Delete(ctx context.Context, args []string) error {
	i, err := a.selectItem(ctx, args, "Entry number or id to delete")
	if err != nil {
		return a.report(err)
	}
	it := a.profile.Items[i]

	ok, err := Confirm(a.reader, fmt.Sprintf("Delete %q?", it.Entry.Title), a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.printf("Cancelled.\n")
		return nil
	}

	if err := a.vault.Delete(ctx, a.profile, it.ID); err != nil {
		return a.report(err)
	}
	a.okf("Deleted.\n")
	return nil
}
