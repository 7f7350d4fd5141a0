// Package users persists accounts. Every backend reports a duplicate email
// as common.ErrEmailTaken and a missing user as common.ErrNotFound.
package users

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
