package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	u, err := repo.Create(ctx, &models.User{ID: "u-1", Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.False(t, u.CreatedAt.IsZero())

	_, err = repo.Create(ctx, &models.User{ID: "u-2", Email: "a@x.com", PasswordHash: "h2"})
	assert.ErrorIs(t, err, common.ErrEmailTaken)

	// exact match only
	_, err = repo.GetUserByEmail(ctx, "A@x.com")
	assert.ErrorIs(t, err, common.ErrNotFound)

	got, err := repo.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)

	// callers get copies
	got.Email = "changed"
	again, err := repo.GetUserByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", again.Email)

	_, err = repo.GetUserByID(ctx, "u-2")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
