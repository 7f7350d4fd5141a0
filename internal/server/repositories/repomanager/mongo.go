package repomanager

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passvault/internal/server/repositories/records"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection  = "users"
	vaultsCollection = "vaults"
)

// MongoRepositoryManager vends MongoDB-backed repositories.
type MongoRepositoryManager struct {
	client  *mongo.Client
	users   *users.MongoRepository
	records *records.MongoRepository
}

// NewMongoRepositoryManager connects, pings and creates indexes.
func NewMongoRepositoryManager(ctx context.Context, uri, dbName string) (*MongoRepositoryManager, error) {
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := cli.Ping(pctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := newMongoManager(cli, cli.Database(dbName))
	if err := m.ensureIndexes(ctx); err != nil {
		_ = cli.Disconnect(ctx)
		return nil, err
	}
	return m, nil
}

func newMongoManager(cli *mongo.Client, db *mongo.Database) *MongoRepositoryManager {
	return &MongoRepositoryManager{
		client:  cli,
		users:   users.NewMongoRepository(db.Collection(usersCollection)),
		records: records.NewMongoRepository(db.Collection(vaultsCollection)),
	}
}

func (m *MongoRepositoryManager) ensureIndexes(ctx context.Context) error {
	if err := m.users.EnsureIndexes(ctx); err != nil {
		return err
	}
	return m.records.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *MongoRepositoryManager) Records() records.Repository {
	return m.records
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
