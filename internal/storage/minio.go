package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// MinIOStore stores objects under their content key, so equal bytes share one object.
type MinIOStore struct {
	client     *minio.Client
	bucketName string
}

// NewMinIOStore connects to MinIO and creates the bucket if it does not exist.
func NewMinIOStore(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool) (*MinIOStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logrus.Infof("Bucket %s created successfully", bucketName)
	}

	return &MinIOStore{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// Upload puts data under its content key and returns the key as reference.
func (m *MinIOStore) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	key := ContentKey(data, filename)

	exists, err := m.exists(ctx, key)
	if err != nil {
		return "", err
	}
	if exists {
		logrus.Debugf("Object %s already stored, skipping upload", key)
		return key, nil
	}

	info, err := m.client.PutObject(ctx, m.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: ContentType(filename),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", filename, err)
	}
	if info.Size != int64(len(data)) {
		return "", fmt.Errorf("%w: stored %d of %d bytes", ErrNotAcknowledged, info.Size, len(data))
	}

	logrus.Infof("File %s uploaded as %s", filename, key)
	return key, nil
}

// Fetch downloads the object stored under ref.
func (m *MinIOStore) Fetch(ctx context.Context, ref string) ([]byte, error) {
	object, err := m.client.GetObject(ctx, m.bucketName, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	return data, nil
}

func (m *MinIOStore) exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object: %w", err)
	}
	return true, nil
}
