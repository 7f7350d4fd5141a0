package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	recordsrepo "github.com/dmitrijs2005/passvault/internal/server/repositories/records"
	usersrepo "github.com/dmitrijs2005/passvault/internal/server/repositories/users"
)

var errDown = errors.New("db down")

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "memory://"
	cfg.SecretKey = "test-secret"
	return cfg
}

func newTestAuth(repo usersrepo.Repository) *AuthService {
	return NewAuthService(repo, testConfig(), logging.Nop{},
		WithArgonParams(auth.ArgonParams{Memory: 1024, Time: 1, Parallelism: 1, SaltLen: 16, KeyLen: 32}))
}

// brokenUsers fails every call with errDown.
type brokenUsers struct{}

func (brokenUsers) Create(context.Context, *models.User) (*models.User, error) { return nil, errDown }
func (brokenUsers) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, errDown
}
func (brokenUsers) GetUserByID(context.Context, string) (*models.User, error) { return nil, errDown }

var _ usersrepo.Repository = brokenUsers{}

// brokenRecords fails every call with errDown.
type brokenRecords struct{}

func (brokenRecords) Create(context.Context, *models.Record) error { return errDown }
func (brokenRecords) ListByOwner(context.Context, string) ([]*models.Record, error) {
	return nil, errDown
}
func (brokenRecords) Update(context.Context, string, string, string, string, time.Time) (*models.Record, error) {
	return nil, errDown
}
func (brokenRecords) Delete(context.Context, string, string) error { return errDown }

var _ recordsrepo.Repository = brokenRecords{}
