// Package storage keeps archived ledger exports in an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"vpcs-backend/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore writes objects to a single bucket
type MinioStore struct {
	client  *minio.Client
	bucket  string
	presign time.Duration
}

// NewMinioStore connects to the endpoint and makes sure the bucket exists
func NewMinioStore(ctx context.Context, cfg config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, errBucketExists := client.BucketExists(ctx, cfg.Bucket)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	} else {
		config.GetLogger().Infof("✅ Created bucket %s", cfg.Bucket)
	}

	presign := time.Duration(cfg.PresignMinutes) * time.Minute
	if presign <= 0 {
		presign = time.Hour
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, presign: presign}, nil
}

// Put uploads the content and returns a time-limited download URL
func (s *MinioStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		config.LogError(config.GetLogger(), "storage", "Put", "Error uploading object", name, err)
		return "", err
	}

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(name)))
	u, err := s.client.PresignedGetObject(ctx, s.bucket, name, s.presign, params)
	if err != nil {
		config.LogError(config.GetLogger(), "storage", "Put", "Error presigning object", name, err)
		return "", err
	}
	return u.String(), nil
}
