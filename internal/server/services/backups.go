package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/logging"
	sc "github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// BackupService hands out presigned object storage URLs for encrypted
// export files. The server never reads the objects.
type BackupService struct {
	config *sc.Config
	logger logging.Logger
	now    func() time.Time
}

func NewBackupService(cfg *sc.Config, logger logging.Logger) *BackupService {
	return &BackupService{
		config: cfg,
		logger: logger.With("module", "backup_service"),
		now:    time.Now,
	}
}

// BackupPrefix is the key prefix owned by ownerID.
func BackupPrefix(ownerID string) string {
	return "users/" + ownerID + "/backups/"
}

func (s *BackupService) newKey(ownerID string) string {
	return fmt.Sprintf("%s%s-%s.json", BackupPrefix(ownerID), s.now().UTC().Format("20060102T150405Z"), uuid.New())
}

func (s *BackupService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a fresh key under the owner's prefix and a PUT URL
// for it.
func (s *BackupService) PresignUpload(ctx context.Context, ownerID string) (string, string, error) {
	if ownerID == "" {
		return "", "", common.ErrUnauthenticated
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}

	bucket := s.config.S3Bucket
	key := s.newKey(ownerID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.BackupURLExpiry))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}

	s.logger.Info(ctx, "backup upload presigned", "user_id", ownerID)
	return key, req.URL, nil
}

// PresignDownload returns a GET URL for key. Keys outside the owner's
// prefix are reported as common.ErrNotFound.
func (s *BackupService) PresignDownload(ctx context.Context, ownerID, key string) (string, error) {
	if ownerID == "" {
		return "", common.ErrUnauthenticated
	}
	if !strings.HasPrefix(key, BackupPrefix(ownerID)) || strings.Contains(key, "..") {
		return "", common.ErrNotFound
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.BackupURLExpiry))
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrStorageFailure, err)
	}
	return req.URL, nil
}
