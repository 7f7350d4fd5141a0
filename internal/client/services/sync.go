package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/passvault/internal/client/api"
	"github.com/dmitrijs2005/passvault/internal/client/models"
	"github.com/dmitrijs2005/passvault/internal/client/session"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"golang.org/x/sync/errgroup"
)

// BackupFileName is the default export file name.
const BackupFileName = "vault_backup.json"

const defaultSyncWorkers = 4

// BackupAPI moves backup files through server-presigned object storage URLs.
type BackupAPI interface {
	PresignBackupUpload(ctx context.Context, token string) (api.PresignedURL, error)
	PresignBackupDownload(ctx context.Context, token, key string) (api.PresignedURL, error)
	UploadBackup(ctx context.Context, url string, data []byte) error
	DownloadBackup(ctx context.Context, url string) ([]byte, error)
}

// SyncService exports the vault to a backup file and merges backups back in.
type SyncService struct {
	vault   VaultAPI
	backups BackupAPI
	logger  logging.Logger
	workers int
}

func NewSyncService(vault VaultAPI, backups BackupAPI, logger logging.Logger) *SyncService {
	return &SyncService{
		vault:   vault,
		backups: backups,
		logger:  logger.With("module", "sync"),
		workers: defaultSyncWorkers,
	}
}

// Export re-encrypts every readable item under the current key. Placeholder
// items are left out. The server is not contacted.
func (s *SyncService) Export(ctx context.Context, p *session.Profile) ([]models.WireEnvelope, error) {
	if p.Key == nil {
		return nil, common.ErrKeyInvalid
	}

	readable := make([]models.VaultEntry, 0, len(p.Items))
	for _, it := range p.Items {
		if !it.Broken {
			readable = append(readable, it.Entry)
		}
	}

	out := make([]models.WireEnvelope, len(readable))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, entry := range readable {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			env, err := sealEntry(p.Key, entry)
			if err != nil {
				return err
			}
			out[i] = env
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarshalBackup renders envelopes as an indented JSON array.
func MarshalBackup(items []models.WireEnvelope) ([]byte, error) {
	if items == nil {
		items = []models.WireEnvelope{}
	}
	return json.MarshalIndent(items, "", "  ")
}

type decoded struct {
	entry models.VaultEntry
	err   error
}

// Import merges a backup file into the vault.
//
// Each item is decrypted independently; failures are counted and reported
// by index without stopping the batch. An entry whose (title, username,
// secret) matches an existing entry, or one earlier in the same file, is
// skipped. Every new entry is sealed again under the local key with a
// fresh nonce and created on the server. Importing the same file twice
// creates nothing the second time.
//
// A server failure stops the import; the returned result covers what was
// done so far and a retry skips those entries as duplicates.
func (s *SyncService) Import(ctx context.Context, p *session.Profile, data []byte) (models.ImportResult, error) {
	var res models.ImportResult
	if err := ready(p); err != nil {
		return res, err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return res, fmt.Errorf("%w: backup is not a JSON array: %v", common.ErrInvalidInput, err)
	}

	results := make([]decoded, len(raw))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, item := range raw {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var w models.WireEnvelope
			if err := json.Unmarshal(item, &w); err != nil {
				results[i].err = fmt.Errorf("%w: %v", common.ErrMalformedRecord, err)
				return nil
			}
			entry, err := openRecord(p.Key, w)
			if isKeyError(err) {
				return err
			}
			results[i] = decoded{entry: entry, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	seen := make(map[models.DedupeKey]struct{}, len(p.Items)+len(results))
	for _, it := range p.Items {
		if !it.Broken {
			seen[it.Entry.DedupeKey()] = struct{}{}
		}
	}

	var added []models.Item
	defer func() {
		for i, j := 0, len(added)-1; i < j; i, j = i+1, j-1 {
			added[i], added[j] = added[j], added[i]
		}
		p.Items = append(added, p.Items...)
	}()

	for i, r := range results {
		if r.err != nil {
			res.Failed++
			res.FailedAt = append(res.FailedAt, i)
			s.logger.Debug(ctx, "import item skipped", "index", i, "error", r.err)
			continue
		}

		k := r.entry.DedupeKey()
		if _, dup := seen[k]; dup {
			res.Skipped++
			continue
		}

		env, err := sealEntry(p.Key, r.entry)
		if err != nil {
			return res, err
		}
		rec, err := s.vault.CreateRecord(ctx, p.Token, env)
		if err != nil {
			s.logger.Error(ctx, "import interrupted", "imported", res.Imported, "error", err)
			return res, err
		}

		seen[k] = struct{}{}
		added = append(added, models.Item{ID: rec.ID, Entry: r.entry, CreatedAt: rec.CreatedAt, UpdatedAt: rec.UpdatedAt})
		res.Imported++
	}

	s.logger.Info(ctx, "import finished", "imported", res.Imported, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

// UploadBackup stores data in object storage and returns its key.
func (s *SyncService) UploadBackup(ctx context.Context, p *session.Profile, data []byte) (string, error) {
	if !p.LoggedIn() {
		return "", common.ErrUnauthenticated
	}
	u, err := s.backups.PresignBackupUpload(ctx, p.Token)
	if err != nil {
		return "", err
	}
	if err := s.backups.UploadBackup(ctx, u.URL, data); err != nil {
		return "", err
	}
	s.logger.Info(ctx, "backup uploaded", "key", u.Key)
	return u.Key, nil
}

// DownloadBackup fetches a backup previously stored under key.
func (s *SyncService) DownloadBackup(ctx context.Context, p *session.Profile, key string) ([]byte, error) {
	if !p.LoggedIn() {
		return nil, common.ErrUnauthenticated
	}
	u, err := s.backups.PresignBackupDownload(ctx, p.Token, key)
	if err != nil {
		return nil, err
	}
	return s.backups.DownloadBackup(ctx, u.URL)
}
