package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	recordsrepo "github.com/dmitrijs2005/passvault/internal/server/repositories/records"
	"github.com/google/uuid"
)

// VaultStore is the owner-scoped ciphertext store. It checks that data and
// iv are present and never looks inside them.
type VaultStore struct {
	records recordsrepo.Repository
	logger  logging.Logger
	now     func() time.Time
	newID   func() string
}

func NewVaultStore(records recordsrepo.Repository, logger logging.Logger) *VaultStore {
	return &VaultStore{
		records: records,
		logger:  logger.With("module", "vault_store"),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID:   uuid.NewString,
	}
}

func checkEnvelope(data, iv string) error {
	if data == "" || iv == "" {
		return fmt.Errorf("%w: data and iv are required", common.ErrInvalidInput)
	}
	return nil
}

func checkOwner(ownerID string) error {
	if ownerID == "" {
		return common.ErrUnauthenticated
	}
	return nil
}

// storageErr keeps NotFound and maps everything else to StorageFailure.
func (s *VaultStore) storageErr(ctx context.Context, op string, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.ErrNotFound
	}
	s.logger.Error(ctx, "record storage error", "op", op, "error", err)
	return fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
}

// Create stores a new record for ownerID with a fresh id.
func (s *VaultStore) Create(ctx context.Context, ownerID, data, iv string) (*models.Record, error) {
	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}
	if err := checkEnvelope(data, iv); err != nil {
		return nil, err
	}

	now := s.now()
	rec := &models.Record{
		ID:        s.newID(),
		OwnerID:   ownerID,
		Data:      data,
		IV:        iv,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.records.Create(ctx, rec); err != nil {
		return nil, s.storageErr(ctx, "create", err)
	}

	s.logger.Debug(ctx, "record created", "user_id", ownerID, "record_id", rec.ID)
	return rec, nil
}

// List returns ownerID's records newest first.
func (s *VaultStore) List(ctx context.Context, ownerID string) ([]*models.Record, error) {
	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}
	recs, err := s.records.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.storageErr(ctx, "list", err)
	}
	if recs == nil {
		recs = []*models.Record{}
	}
	return recs, nil
}

// Update replaces data and iv of one of ownerID's records.
func (s *VaultStore) Update(ctx context.Context, ownerID, id, data, iv string) (*models.Record, error) {
	if err := checkOwner(ownerID); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", common.ErrInvalidInput)
	}
	if err := checkEnvelope(data, iv); err != nil {
		return nil, err
	}

	rec, err := s.records.Update(ctx, ownerID, id, data, iv, s.now())
	if err != nil {
		return nil, s.storageErr(ctx, "update", err)
	}
	return rec, nil
}

// Delete removes one of ownerID's records.
func (s *VaultStore) Delete(ctx context.Context, ownerID, id string) error {
	if err := checkOwner(ownerID); err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: id is required", common.ErrInvalidInput)
	}
	if err := s.records.Delete(ctx, ownerID, id); err != nil {
		return s.storageErr(ctx, "delete", err)
	}
	s.logger.Debug(ctx, "record deleted", "user_id", ownerID, "record_id", id)
	return nil
}
