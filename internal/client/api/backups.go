package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/passvault/internal/common"
)

// PresignedURL is a short-lived object storage URL handed out by the server.
type PresignedURL struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// PresignBackupUpload asks the server for a URL to PUT a backup file to.
func (c *Client) PresignBackupUpload(ctx context.Context, token string) (PresignedURL, error) {
	var out PresignedURL
	resp, err := c.request(ctx, token).SetResult(&out).Post("/api/backups")
	if err := check(resp, err, http.StatusCreated); err != nil {
		return PresignedURL{}, err
	}
	return out, nil
}

// PresignBackupDownload asks the server for a URL to GET a stored backup.
func (c *Client) PresignBackupDownload(ctx context.Context, token, key string) (PresignedURL, error) {
	var out PresignedURL
	resp, err := c.request(ctx, token).
		SetResult(&out).
		Get("/api/backups/" + url.PathEscape(key))
	if err := check(resp, err, http.StatusOK); err != nil {
		return PresignedURL{}, err
	}
	out.Key = key
	return out, nil
}

// UploadBackup PUTs data to a presigned URL. The base URL and cookies of
// the API client are not applied.
func (c *Client) UploadBackup(ctx context.Context, presigned string, data []byte) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(data).
		Put(presigned)
	if err != nil {
		return fmt.Errorf("%w: upload: %v", common.ErrStorageFailure, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("%w: upload failed: %s", common.ErrStorageFailure, resp.Status())
	}
	return nil
}

// DownloadBackup fetches a backup file from a presigned URL.
func (c *Client) DownloadBackup(ctx context.Context, presigned string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(presigned)
	if err != nil {
		return nil, fmt.Errorf("%w: download: %v", common.ErrStorageFailure, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: download failed: %s", common.ErrStorageFailure, resp.Status())
	}
	return resp.Body(), nil
}
