package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// offlineAWS replaces config loading so presigning never reads the host
// environment. Signing itself is local.
func offlineAWS(t *testing.T) {
	t.Helper()
	orig := loadDefaultAWSConfig
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				return aws.Config{}, err
			}
		}
		return aws.Config{
			Region:      lo.Region,
			Credentials: lo.Credentials,
		}, nil
	}
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
}

func newTestBackups() *BackupService {
	s := NewBackupService(testConfig(), logging.Nop{})
	s.now = func() time.Time { return time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC) }
	return s
}

func TestPresignUpload(t *testing.T) {
	offlineAWS(t)
	s := newTestBackups()

	key, rawURL, err := s.PresignUpload(context.Background(), "owner-a")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "users/owner-a/backups/20250203T040506Z-"), key)
	assert.True(t, strings.HasSuffix(key, ".json"))

	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.True(t, strings.HasSuffix(u.Path, "/vault/"+key), u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}

func TestPresignDownload_OwnPrefixOnly(t *testing.T) {
	offlineAWS(t)
	s := newTestBackups()
	ctx := context.Background()

	key := BackupPrefix("owner-a") + "x.json"
	rawURL, err := s.PresignDownload(ctx, "owner-a", key)
	require.NoError(t, err)
	assert.Contains(t, rawURL, "X-Amz-Signature")

	for _, k := range []string{
		BackupPrefix("owner-b") + "x.json",
		"users/owner-a/other.json",
		BackupPrefix("owner-a") + "../../owner-b/backups/x.json",
		"",
	} {
		_, err := s.PresignDownload(ctx, "owner-a", k)
		assert.ErrorIs(t, err, common.ErrNotFound, k)
	}
}

func TestPresign_RequiresOwner(t *testing.T) {
	s := newTestBackups()

	_, _, err := s.PresignUpload(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
	_, err = s.PresignDownload(context.Background(), "", "users//backups/x")
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
}

func TestPresign_Errors(t *testing.T) {
	s := newTestBackups()
	ctx := context.Background()

	origLoad := loadDefaultAWSConfig
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	_, _, err := s.PresignUpload(ctx, "owner-a")
	assert.ErrorIs(t, err, common.ErrStorageFailure)
	_, err = s.PresignDownload(ctx, "owner-a", BackupPrefix("owner-a")+"x")
	assert.ErrorIs(t, err, common.ErrStorageFailure)

	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "us-east-1", Credentials: credentials.NewStaticCredentialsProvider("a", "b", "")}, nil
	}
	presignPutObject = func(*s3.PresignClient, context.Context, *s3.PutObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign failed")
	}
	presignGetObject = func(*s3.PresignClient, context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return nil, errors.New("sign failed")
	}
	_, _, err = s.PresignUpload(ctx, "owner-a")
	assert.ErrorIs(t, err, common.ErrStorageFailure)
	_, err = s.PresignDownload(ctx, "owner-a", BackupPrefix("owner-a")+"x")
	assert.ErrorIs(t, err, common.ErrStorageFailure)
}
