// Package keys owns the lifecycle of the profile's data-encryption key.
//
// The key is 32 bytes from crypto/rand, generated on first use and stored as
// an opaque blob in the profile database. It never leaves the machine. A
// stored key that cannot be imported is reported as common.ErrKeyCorrupt and
// is never replaced automatically: regenerating it would orphan every
// record encrypted under the old key.
package keys

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/dbx"
	"github.com/dmitrijs2005/passvault/internal/logging"
)

// KeyName is the metadata key under which the DEK is stored.
const KeyName = "vault_key"

// generateKey is swapped in tests.
var generateKey = func() []byte { return common.GenerateRandByteArray(common.DEKSize) }

type Manager struct {
	db     *sql.DB
	logger logging.Logger
}

func NewManager(db *sql.DB, logger logging.Logger) *Manager {
	return &Manager{db: db, logger: logger.With("module", "keys")}
}

// GetOrCreateKey loads the profile key, generating and persisting a new one
// if the profile has none yet.
func (m *Manager) GetOrCreateKey(ctx context.Context) (*cryptox.KeyHandle, error) {
	var (
		raw     []byte
		created bool
	)

	err := dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		stored, err := repo.Get(ctx, KeyName)
		if err != nil {
			return err
		}
		if stored != nil {
			raw = stored
			return nil
		}

		raw = generateKey()
		created = true
		return repo.Set(ctx, KeyName, raw)
	})
	if err != nil {
		m.logger.Error(ctx, "key storage error", "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	defer common.WipeByteArray(raw)

	key, err := cryptox.ImportKey(raw)
	if err != nil {
		m.logger.Error(ctx, "stored key is unusable", "length", len(raw))
		return nil, err
	}

	if created {
		m.logger.Info(ctx, "generated new profile key")
	}
	return key, nil
}

// HasKey reports whether the profile already holds a key.
func (m *Manager) HasKey(ctx context.Context) (bool, error) {
	v, err := metadata.NewSQLiteRepository(m.db).Get(ctx, KeyName)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	return v != nil, nil
}

// Reset deletes the stored key. Everything encrypted under it becomes
// permanently unreadable; callers must confirm with the user first.
func (m *Manager) Reset(ctx context.Context) error {
	if err := metadata.NewSQLiteRepository(m.db).Delete(ctx, KeyName); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	m.logger.Warn(ctx, "profile key deleted")
	return nil
}
