package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/passvault/internal/client/config"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	sconfig "github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/dmitrijs2005/passvault/internal/server/httpapi"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/passvault/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, repomanager.RepositoryManager) {
	t.Helper()
	cfg := &sconfig.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "memory://"
	cfg.LoginBurst = 100

	repos := repomanager.NewInMemoryRepositoryManager()
	authSvc := services.NewAuthService(repos.Users(), cfg, logging.Nop{},
		services.WithArgonParams(auth.ArgonParams{Memory: 1024, Time: 1, Parallelism: 1, SaltLen: 16, KeyLen: 32}))
	vault := services.NewVaultStore(repos.Records(), logging.Nop{})
	backups := services.NewBackupService(cfg, logging.Nop{})

	srv := httptest.NewServer(httpapi.NewRouter(httpapi.NewHandler(cfg, authSvc, vault, backups, repos, logging.Nop{})))
	t.Cleanup(srv.Close)
	return srv, repos
}

// stubPasswords feeds getPassword from a queue. Callers wipe what they get,
// so each answer is a fresh copy.
func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := getPassword
	getPassword = func(w io.Writer, prompt string) ([]byte, error) {
		require.NotEmpty(t, answers, "unexpected password prompt %q", prompt)
		next := answers[0]
		answers = answers[1:]
		return []byte(next), nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func newTestApp(t *testing.T, serverURL, input string) (*App, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{
		ServerURL:      serverURL,
		ProfilePath:    filepath.Join(t.TempDir(), "profile.db"),
		ClipboardDelay: time.Second,
		RequestTimeout: 5 * time.Second,
	}
	app, err := NewApp(context.Background(), cfg, logging.Nop{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	out := &bytes.Buffer{}
	app.reader = bufio.NewReader(strings.NewReader(input))
	app.out = out
	return app, out
}

func TestEndToEnd_RegisterLoginAddExportImport(t *testing.T) {
	srv, repos := newTestServer(t)
	stubPasswords(t, "master-pw", "master-pw", "hunter2")

	input := strings.Join([]string{
		"a@x.com",   // register email
		"a@x.com",   // login email
		"GitHub",    // title
		"octo",      // username
		"",          // url
		"my notes",  // notes
		"",          // end of notes
		"y",         // confirm delete
	}, "\n") + "\n"
	app, out := newTestApp(t, srv.URL, input)
	ctx := context.Background()

	require.NoError(t, app.Register(ctx, nil))
	require.NoError(t, app.Login(ctx, nil))
	assert.True(t, app.isLoggedIn())

	require.NoError(t, app.Add(ctx, nil))
	require.Len(t, app.profile.Items, 1)
	assert.Equal(t, "GitHub", app.profile.Items[0].Entry.Title)
	assert.Equal(t, "hunter2", app.profile.Items[0].Entry.Secret)

	require.NoError(t, app.List(ctx, nil))
	assert.Contains(t, out.String(), "GitHub")
	assert.NotContains(t, out.String(), "hunter2")

	// the server only ever sees ciphertext
	user, err := repos.Users().GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	recs, err := repos.Records().ListByOwner(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.NotContains(t, recs[0].Data, "hunter2")
	assert.NotContains(t, recs[0].Data, "GitHub")

	backup := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, app.Export(ctx, backup, false))
	raw, err := os.ReadFile(backup)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hunter2")

	require.NoError(t, app.Delete(ctx, []string{"1"}))
	recs, err = repos.Records().ListByOwner(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, recs)

	require.NoError(t, app.Import(ctx, backup, ""))
	assert.Contains(t, out.String(), "imported=1")
	recs, err = repos.Records().ListByOwner(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, recs, 1)

	require.NoError(t, app.Logout(ctx, nil))
	assert.False(t, app.isLoggedIn())
}

func TestEndToEnd_SessionResumes(t *testing.T) {
	srv, _ := newTestServer(t)
	stubPasswords(t, "master-pw", "master-pw")

	app, _ := newTestApp(t, srv.URL, "b@x.com\nb@x.com\n")
	ctx := context.Background()
	require.NoError(t, app.Register(ctx, nil))
	require.NoError(t, app.Login(ctx, nil))

	// a second App on the same profile picks the saved session up
	cfg := *app.config
	again, err := NewApp(ctx, &cfg, logging.Nop{})
	require.NoError(t, err)
	defer again.Close()
	again.out = io.Discard

	require.NoError(t, again.resume(ctx))
	assert.True(t, again.isLoggedIn())
	assert.Equal(t, "b@x.com", again.profile.Email)
}

func TestEndToEnd_WrongPassword(t *testing.T) {
	srv, _ := newTestServer(t)
	stubPasswords(t, "master-pw", "wrong")

	app, out := newTestApp(t, srv.URL, "c@x.com\nc@x.com\n")
	ctx := context.Background()
	require.NoError(t, app.Register(ctx, nil))

	assert.Error(t, app.Login(ctx, nil))
	assert.False(t, app.isLoggedIn())
	assert.NotEmpty(t, out.String())
}
