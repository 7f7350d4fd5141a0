package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/api"
	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/session"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/stretchr/testify/require"
)

// fakeServer is an in-memory stand-in for the vault server. Records are
// kept newest first, like the real list endpoint.
type fakeServer struct {
	mu      sync.Mutex
	records []models.RemoteRecord
	seq     int
	now     time.Time

	token string

	createErr   error
	failCreates int // fail creates after this many succeed; 0 disables

	users map[string]string

	backups map[string][]byte
}

func newFakeServer() *fakeServer {
	return &fakeServer{
		token:   "tkn",
		now:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		users:   map[string]string{},
		backups: map[string][]byte{},
	}
}

func (f *fakeServer) auth(token string) error {
	if token != f.token {
		return common.ErrUnauthenticated
	}
	return nil
}

func (f *fakeServer) ListRecords(ctx context.Context, token string) ([]models.RemoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.auth(token); err != nil {
		return nil, err
	}
	return append([]models.RemoteRecord{}, f.records...), nil
}

func (f *fakeServer) CreateRecord(ctx context.Context, token string, env models.WireEnvelope) (models.RemoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.auth(token); err != nil {
		return models.RemoteRecord{}, err
	}
	if f.createErr != nil {
		return models.RemoteRecord{}, f.createErr
	}
	if f.failCreates > 0 && f.seq >= f.failCreates {
		return models.RemoteRecord{}, fmt.Errorf("%w: injected", common.ErrStorageFailure)
	}
	f.seq++
	f.now = f.now.Add(time.Second)
	rec := models.RemoteRecord{ID: fmt.Sprintf("r%d", f.seq), Data: env.Data, IV: env.IV, CreatedAt: f.now, UpdatedAt: f.now}
	f.records = append([]models.RemoteRecord{rec}, f.records...)
	return rec, nil
}

func (f *fakeServer) UpdateRecord(ctx context.Context, token, id string, env models.WireEnvelope) (models.RemoteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.auth(token); err != nil {
		return models.RemoteRecord{}, err
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.now = f.now.Add(time.Second)
			f.records[i].Data, f.records[i].IV, f.records[i].UpdatedAt = env.Data, env.IV, f.now
			return f.records[i], nil
		}
	}
	return models.RemoteRecord{}, common.ErrNotFound
}

func (f *fakeServer) DeleteRecord(ctx context.Context, token, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.auth(token); err != nil {
		return err
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *fakeServer) Signup(ctx context.Context, email, password string) (string, error) {
	if _, ok := f.users[email]; ok {
		return "", common.ErrEmailTaken
	}
	f.users[email] = password
	return "u-" + email, nil
}

func (f *fakeServer) Login(ctx context.Context, email, password string) (api.LoginResult, error) {
	if pw, ok := f.users[email]; !ok || pw != password {
		return api.LoginResult{}, common.ErrInvalidCredentials
	}
	return api.LoginResult{UserID: "u-" + email, Token: f.token}, nil
}

func (f *fakeServer) Me(ctx context.Context, token string) (models.User, error) {
	if err := f.auth(token); err != nil {
		return models.User{}, err
	}
	return models.User{ID: "u1", Email: "a@x.com"}, nil
}

func (f *fakeServer) Logout(ctx context.Context, token string) error { return nil }

func (f *fakeServer) PresignBackupUpload(ctx context.Context, token string) (api.PresignedURL, error) {
	if err := f.auth(token); err != nil {
		return api.PresignedURL{}, err
	}
	return api.PresignedURL{Key: "users/u1/backups/b1.json", URL: "mem://b1"}, nil
}

func (f *fakeServer) PresignBackupDownload(ctx context.Context, token, key string) (api.PresignedURL, error) {
	if err := f.auth(token); err != nil {
		return api.PresignedURL{}, err
	}
	if key != "users/u1/backups/b1.json" {
		return api.PresignedURL{}, common.ErrNotFound
	}
	return api.PresignedURL{Key: key, URL: "mem://b1"}, nil
}

func (f *fakeServer) UploadBackup(ctx context.Context, url string, data []byte) error {
	f.backups[url] = append([]byte(nil), data...)
	return nil
}

func (f *fakeServer) DownloadBackup(ctx context.Context, url string) ([]byte, error) {
	b, ok := f.backups[url]
	if !ok {
		return nil, common.ErrStorageFailure
	}
	return b, nil
}

type memSessions struct {
	saved *session.Profile
}

func (m *memSessions) Save(ctx context.Context, p *session.Profile) error {
	cp := *p
	m.saved = &cp
	return nil
}

func (m *memSessions) Load(ctx context.Context, p *session.Profile) (bool, error) {
	if m.saved == nil {
		return false, nil
	}
	p.Token, p.UserID, p.Email = m.saved.Token, m.saved.UserID, m.saved.Email
	return true, nil
}

func (m *memSessions) Clear(ctx context.Context) error {
	m.saved = nil
	return nil
}

func newKey(t *testing.T) *cryptox.KeyHandle {
	t.Helper()
	k, err := cryptox.ImportKey(common.GenerateRandByteArray(common.DEKSize))
	require.NoError(t, err)
	t.Cleanup(k.Destroy)
	return k
}

func newProfile(t *testing.T) *session.Profile {
	t.Helper()
	return &session.Profile{Key: newKey(t), Token: "tkn", UserID: "u1"}
}
