package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"muru-backend/internal/config"
)

// MinIO S3 호환 저장소
type MinIO struct {
	cli    *minio.Client
	bucket string
}

// NewMinIO 클라이언트 생성 후 버킷이 없으면 만듦
func NewMinIO(ctx context.Context, cfg config.MinIOConfig) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio init: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio bucket creation: %w", err)
		}
	}

	return &MinIO{cli: client, bucket: cfg.Bucket}, nil
}

func (m *MinIO) Name() string {
	return "minio"
}

func (m *MinIO) URL(key string) string {
	return key
}

func (m *MinIO) Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := m.cli.PutObject(ctx, m.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("minio put %s: %w", key, err)
	}
	return nil
}
