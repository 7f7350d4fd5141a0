package records

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/models"
)

// InMemoryRepository keeps records in process memory.
type InMemoryRepository struct {
	mu   sync.RWMutex
	byID map[string]models.Record
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byID: make(map[string]models.Record)}
}

func (r *InMemoryRepository) Create(_ context.Context, rec *models.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[rec.ID]; ok {
		return fmt.Errorf("db error: duplicate record id %q", rec.ID)
	}
	r.byID[rec.ID] = *rec
	return nil
}

func (r *InMemoryRepository) ListByOwner(_ context.Context, ownerID string) ([]*models.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Record, 0)
	for _, rec := range r.byID {
		if rec.OwnerID == ownerID {
			rec := rec
			result = append(result, &rec)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *InMemoryRepository) Update(_ context.Context, ownerID, id, data, iv string, updatedAt time.Time) (*models.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok || rec.OwnerID != ownerID {
		return nil, common.ErrNotFound
	}
	rec.Data, rec.IV, rec.UpdatedAt = data, iv, updatedAt
	r.byID[id] = rec
	return &rec, nil
}

func (r *InMemoryRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok || rec.OwnerID != ownerID {
		return common.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
