// Package records persists encrypted vault records. Every operation is
// scoped to an owner; a record owned by someone else is reported as
// common.ErrNotFound, exactly like a missing one.
package records

import (
	"context"
	"time"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, rec *models.Record) error
	// ListByOwner returns the owner's records newest first. No records is
	// an empty slice, not an error.
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Record, error)
	// Update replaces data and iv together and stamps updatedAt.
	Update(ctx context.Context, ownerID, id, data, iv string, updatedAt time.Time) (*models.Record, error)
	Delete(ctx context.Context, ownerID, id string) error
}
