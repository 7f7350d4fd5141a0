package session

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/passvault/internal/client/storage"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := storage.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(metadata.NewSQLiteRepository(db))
}

func TestStore_SaveLoadClear(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	var empty Profile
	ok, err := s.Load(ctx, &empty)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Save(ctx, &Profile{Token: "tkn", UserID: "u1", Email: "a@x.com"}))

	var p Profile
	ok, err = s.Load(ctx, &p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tkn", p.Token)
	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "a@x.com", p.Email)
	assert.True(t, p.LoggedIn())

	require.NoError(t, s.Clear(ctx))
	var again Profile
	ok, err = s.Load(ctx, &again)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfile_EndSessionKeepsKey(t *testing.T) {
	k, err := cryptox.ImportKey(common.GenerateRandByteArray(common.DEKSize))
	require.NoError(t, err)

	p := &Profile{Key: k, Token: "t", UserID: "u", Items: []models.Item{{ID: "1"}}}
	p.EndSession()

	assert.False(t, p.LoggedIn())
	assert.Nil(t, p.Items)
	assert.Same(t, k, p.Key)

	p.Close()
	assert.Nil(t, p.Key)
	_, err = cryptox.Seal(k, []byte("x"))
	assert.ErrorIs(t, err, common.ErrKeyInvalid)
}

func TestProfile_NilIsLoggedOut(t *testing.T) {
	var p *Profile
	assert.False(t, p.LoggedIn())
}
