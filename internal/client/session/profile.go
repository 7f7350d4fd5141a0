// Package session holds the per-profile client state: the imported key, the
// current session token and the decrypted vault. Everything is carried on
// an explicit Profile value; there are no package globals, so several
// profiles can live in one process.
package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
)

type Profile struct {
	Key *cryptox.KeyHandle

	Token  string
	UserID string
	Email  string

	// Items is the decrypted vault, newest first.
	Items []models.Item
}

func (p *Profile) LoggedIn() bool {
	return p != nil && p.Token != ""
}

// EndSession forgets the token and the decrypted vault. The key stays.
func (p *Profile) EndSession() {
	p.Token = ""
	p.UserID = ""
	p.Email = ""
	p.Items = nil
}

// Close tears the whole profile down, key included.
func (p *Profile) Close() {
	p.EndSession()
	if p.Key != nil {
		p.Key.Destroy()
		p.Key = nil
	}
}

const (
	tokenKey = "session_token"
	userKey  = "session_user"
	emailKey = "session_email"
)

// Store persists the session token between runs of the CLI.
type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

func (s *Store) Save(ctx context.Context, p *Profile) error {
	for k, v := range map[string]string{tokenKey: p.Token, userKey: p.UserID, emailKey: p.Email} {
		if err := s.repo.Set(ctx, k, []byte(v)); err != nil {
			return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
		}
	}
	return nil
}

// Load restores a saved session into p. It reports false if none is saved.
func (s *Store) Load(ctx context.Context, p *Profile) (bool, error) {
	token, err := s.repo.Get(ctx, tokenKey)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	if len(token) == 0 {
		return false, nil
	}

	user, err := s.repo.Get(ctx, userKey)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	email, err := s.repo.Get(ctx, emailKey)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}

	p.Token = string(token)
	p.UserID = string(user)
	p.Email = string(email)
	return true, nil
}

func (s *Store) Clear(ctx context.Context) error {
	for _, k := range []string{tokenKey, userKey, emailKey} {
		if err := s.repo.Delete(ctx, k); err != nil {
			return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
		}
	}
	return nil
}
