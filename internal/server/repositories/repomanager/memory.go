package repomanager

import (
	"context"

	"github.com/dmitrijs2005/passvault/internal/server/repositories/records"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps everything in process memory. Data is
// lost on restart.
type InMemoryRepositoryManager struct {
	users   *users.InMemoryRepository
	records *records.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:   users.NewInMemoryRepository(),
		records: records.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Records() records.Repository {
	return m.records
}

func (m *InMemoryRepositoryManager) Ping(context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Close(context.Context) error {
	return nil
}
