package keys

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/passvault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/passvault/internal/client/storage"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEntry struct {
	Title string `json:"title"`
}

func (e *testEntry) Validate() error { return nil }

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGetOrCreateKey_FirstUseGeneratesAndPersists(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db, logging.Nop{})
	ctx := context.Background()

	has, err := m.HasKey(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	k, err := m.GetOrCreateKey(ctx)
	require.NoError(t, err)
	require.NotNil(t, k)

	stored, err := metadata.NewSQLiteRepository(db).Get(ctx, KeyName)
	require.NoError(t, err)
	assert.Len(t, stored, common.DEKSize)

	has, err = m.HasKey(ctx)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestGetOrCreateKey_ReloadsSameKey(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	k1, err := NewManager(db, logging.Nop{}).GetOrCreateKey(ctx)
	require.NoError(t, err)
	env, err := cryptox.EncryptRecord(k1, testEntry{Title: "x"})
	require.NoError(t, err)

	k2, err := NewManager(db, logging.Nop{}).GetOrCreateKey(ctx)
	require.NoError(t, err)

	var got testEntry
	require.NoError(t, cryptox.DecryptRecord(k2, env, &got))
	assert.Equal(t, "x", got.Title)
}

func TestGetOrCreateKey_UsesGenerator(t *testing.T) {
	orig := generateKey
	t.Cleanup(func() { generateKey = orig })

	calls := 0
	generateKey = func() []byte {
		calls++
		return orig()
	}

	db := setupDB(t)
	m := NewManager(db, logging.Nop{})
	ctx := context.Background()

	_, err := m.GetOrCreateKey(ctx)
	require.NoError(t, err)
	_, err = m.GetOrCreateKey(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestGetOrCreateKey_CorruptKeyIsNotReplaced(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
	}{
		{name: "empty", value: []byte{}},
		{name: "short", value: make([]byte, 16)},
		{name: "long", value: make([]byte, 33)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupDB(t)
			ctx := context.Background()
			repo := metadata.NewSQLiteRepository(db)
			require.NoError(t, repo.Set(ctx, KeyName, tt.value))

			k, err := NewManager(db, logging.Nop{}).GetOrCreateKey(ctx)
			require.ErrorIs(t, err, common.ErrKeyCorrupt)
			assert.Nil(t, k)

			stored, err := repo.Get(ctx, KeyName)
			require.NoError(t, err)
			assert.Equal(t, tt.value, stored)
		})
	}
}

func TestGetOrCreateKey_StorageFailure(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	_, err := NewManager(db, logging.Nop{}).GetOrCreateKey(context.Background())
	require.ErrorIs(t, err, common.ErrStorageFailure)
}

func TestReset_NextCallCreatesDifferentKey(t *testing.T) {
	db := setupDB(t)
	m := NewManager(db, logging.Nop{})
	ctx := context.Background()

	k1, err := m.GetOrCreateKey(ctx)
	require.NoError(t, err)
	env, err := cryptox.EncryptRecord(k1, testEntry{Title: "x"})
	require.NoError(t, err)

	require.NoError(t, m.Reset(ctx))
	has, err := m.HasKey(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	k2, err := m.GetOrCreateKey(ctx)
	require.NoError(t, err)

	var got testEntry
	assert.ErrorIs(t, cryptox.DecryptRecord(k2, env, &got), common.ErrAuthenticationFailure)
}
