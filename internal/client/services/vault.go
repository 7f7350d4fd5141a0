package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/session"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

// VaultAPI is the server-side record store as seen by the client.
type VaultAPI interface {
	ListRecords(ctx context.Context, token string) ([]models.RemoteRecord, error)
	CreateRecord(ctx context.Context, token string, env models.WireEnvelope) (models.RemoteRecord, error)
	UpdateRecord(ctx context.Context, token, id string, env models.WireEnvelope) (models.RemoteRecord, error)
	DeleteRecord(ctx context.Context, token, id string) error
}

type VaultService struct {
	api    VaultAPI
	logger logging.Logger
}

func NewVaultService(a VaultAPI, logger logging.Logger) *VaultService {
	return &VaultService{api: a, logger: logger.With("module", "vault")}
}

func ready(p *session.Profile) error {
	if !p.LoggedIn() {
		return common.ErrUnauthenticated
	}
	if p.Key == nil {
		return common.ErrKeyInvalid
	}
	return nil
}

// isKeyError reports failures that concern the key itself rather than one
// record; they abort the whole operation.
func isKeyError(err error) bool {
	return errors.Is(err, common.ErrKeyInvalid) || errors.Is(err, common.ErrKeyCorrupt)
}

// Load fetches and decrypts the vault. A record that fails to decrypt
// becomes a placeholder item; the rest still load.
func (s *VaultService) Load(ctx context.Context, p *session.Profile) ([]models.Item, error) {
	if err := ready(p); err != nil {
		return nil, err
	}

	records, err := s.api.ListRecords(ctx, p.Token)
	if err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, len(records))
	broken := 0
	for _, rec := range records {
		entry, err := openRecord(p.Key, rec.Wire())
		if err != nil {
			if isKeyError(err) {
				return nil, err
			}
			broken++
			items = append(items, models.Placeholder(rec, err))
			continue
		}
		items = append(items, models.Item{ID: rec.ID, Entry: entry, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt})
	}

	if broken > 0 {
		s.logger.Warn(ctx, "unreadable records in vault", "count", broken)
	}
	p.Items = items
	return items, nil
}

// Add encrypts entry and stores it as a new record.
func (s *VaultService) Add(ctx context.Context, p *session.Profile, entry models.VaultEntry) (models.Item, error) {
	if err := ready(p); err != nil {
		return models.Item{}, err
	}
	if err := entry.ValidateNew(); err != nil {
		return models.Item{}, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	env, err := sealEntry(p.Key, entry)
	if err != nil {
		return models.Item{}, err
	}

	rec, err := s.api.CreateRecord(ctx, p.Token, env)
	if err != nil {
		return models.Item{}, err
	}

	item := models.Item{ID: rec.ID, Entry: entry, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt}
	p.Items = append([]models.Item{item}, p.Items...)
	return item, nil
}

// Update re-encrypts entry under a fresh nonce and replaces record id.
func (s *VaultService) Update(ctx context.Context, p *session.Profile, id string, entry models.VaultEntry) (models.Item, error) {
	if err := ready(p); err != nil {
		return models.Item{}, err
	}
	if err := entry.ValidateNew(); err != nil {
		return models.Item{}, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	env, err := sealEntry(p.Key, entry)
	if err != nil {
		return models.Item{}, err
	}

	rec, err := s.api.UpdateRecord(ctx, p.Token, id, env)
	if err != nil {
		return models.Item{}, err
	}

	item := models.Item{ID: rec.ID, Entry: entry, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt}
	for i := range p.Items {
		if p.Items[i].ID == id {
			p.Items[i] = item
			return item, nil
		}
	}
	p.Items = append([]models.Item{item}, p.Items...)
	return item, nil
}

func (s *VaultService) Delete(ctx context.Context, p *session.Profile, id string) error {
	if err := ready(p); err != nil {
		return err
	}
	if err := s.api.DeleteRecord(ctx, p.Token, id); err != nil {
		return err
	}

	for i := range p.Items {
		if p.Items[i].ID == id {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			break
		}
	}
	return nil
}

func sealEntry(key *cryptox.KeyHandle, entry models.VaultEntry) (models.WireEnvelope, error) {
	env, err := cryptox.EncryptRecord(key, entry)
	if err != nil {
		return models.WireEnvelope{}, err
	}
	return models.NewWireEnvelope(env), nil
}

func openRecord(key *cryptox.KeyHandle, w models.WireEnvelope) (models.VaultEntry, error) {
	env, err := w.Envelope()
	if err != nil {
		return models.VaultEntry{}, err
	}
	var entry models.VaultEntry
	if err := cryptox.DecryptRecord(key, env, &entry); err != nil {
		return models.VaultEntry{}, err
	}
	return entry, nil
}
