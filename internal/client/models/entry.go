// Package models defines the client-side vault types: the plaintext
// VaultEntry that gets encrypted, the Item the user sees, and the wire
// shapes exchanged with the server and written to backup files.
package models

import (
	"errors"
	"strings"
	"time"
)

// PlaceholderTitle marks an entry that could not be decrypted or parsed.
const PlaceholderTitle = "<unreadable entry>"

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
)

// VaultEntry is the plaintext credential record. It only ever exists in
// memory; field order is the serialization order.
type VaultEntry struct {
	Title    string `json:"title"`
	Username string `json:"username"`
	Secret   string `json:"password"`
	URL      string `json:"url"`
	Notes    string `json:"notes"`
}

// Validate is the schema check applied to every decrypted entry.
func (e *VaultEntry) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// ValidateNew is the stricter check for entries typed in by the user.
func (e *VaultEntry) ValidateNew() error {
	if err := e.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Username) == "" {
		return ErrUsernameRequired
	}
	if e.Secret == "" {
		return ErrPasswordRequired
	}
	return nil
}

// DedupeKey identifies duplicates on import: equal title, username and
// secret. URL and notes are ignored.
type DedupeKey struct {
	Title, Username, Secret string
}

func (e VaultEntry) DedupeKey() DedupeKey {
	return DedupeKey{Title: e.Title, Username: e.Username, Secret: e.Secret}
}

// Item is one vault row as shown to the user.
type Item struct {
	ID        string
	Entry     VaultEntry
	CreatedAt time.Time
	UpdatedAt time.Time

	// Broken is set when the record could not be decrypted; Err says why.
	Broken bool
	Err    error
}

// Placeholder builds the visible stand-in for an unreadable record.
func Placeholder(rec RemoteRecord, err error) Item {
	return Item{
		ID:        rec.ID,
		Entry:     VaultEntry{Title: PlaceholderTitle},
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
		Broken:    true,
		Err:       err,
	}
}
