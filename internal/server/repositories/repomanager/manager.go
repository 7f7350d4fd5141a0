// Package repomanager opens the configured storage backend and vends its
// repositories.
package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/records"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Records() records.Repository
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// New opens the backend selected by the DSN scheme and prepares its schema.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (RepositoryManager, error) {
	backend, err := cfg.Backend()
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "opening storage", "backend", backend)

	switch backend {
	case "postgres":
		return NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	case "mongodb":
		return NewMongoRepositoryManager(ctx, cfg.DatabaseDSN, cfg.MongoDatabase)
	case "memory":
		return NewInMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported backend %q", backend)
	}
}
