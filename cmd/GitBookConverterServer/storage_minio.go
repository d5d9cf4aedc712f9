package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const zipContentType = "application/zip"

// MinIOStorage keeps archives in an S3-compatible bucket
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage creates a MinIO client and makes sure the bucket exists
func NewMinIOStorage(ctx context.Context, cfg MinIOConfig) (*MinIOStorage, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &MinIOStorage{client: cli, bucket: cfg.Bucket}, nil
}

// Put uploads the archive at path under key
func (m *MinIOStorage) Put(ctx context.Context, key, path string) (ObjectInfo, error) {
	info, err := m.client.FPutObject(ctx, m.bucket, key, path, minio.PutObjectOptions{ContentType: zipContentType})
	if err != nil {
		return ObjectInfo{}, err
	}
	// PutObject does not report a modification time
	return ObjectInfo{Key: key, Size: info.Size, LastModified: time.Now()}, nil
}

// Get opens a stored archive. The returned object supports seeking so it can
// answer range requests.
func (m *MinIOStorage) Get(ctx context.Context, key string) (io.ReadSeekCloser, ObjectInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	st, err := obj.Stat()
	if err != nil {
		closeWithLog(obj, "object")
		return nil, ObjectInfo{}, err
	}
	return obj, ObjectInfo{Key: key, Size: st.Size, LastModified: st.LastModified}, nil
}

// Delete removes an archive by key
func (m *MinIOStorage) Delete(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}
