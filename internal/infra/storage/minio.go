package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	domain "github.com/bryanwahyu/code-debugger/internal/domain/debugging"
)

const keyPrefix = "debug-queries"

// Store keeps debug query records as JSON objects in a MinIO/S3 bucket.
// It satisfies debugging.Repository for deployments without a database.
type Store struct {
	client     *minio.Client
	bucketName string
}

// New connects to MinIO and makes sure the bucket exists
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return NewWithClient(cli, bucket), nil
}

func NewWithClient(cli *minio.Client, bucket string) *Store {
	return &Store{client: cli, bucketName: bucket}
}

// ObjectKey is debug-queries/<yyyy>/<mm>/<dd>/<id>.json
func ObjectKey(rec *domain.Record) string {
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return fmt.Sprintf("%s/%s/%s.json", keyPrefix, created.UTC().Format("2006/01/02"), rec.ID)
}

// Create uploads the record; objects are written once and never overwritten by this service.
func (s *Store) Create(ctx context.Context, rec *domain.Record) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, s.bucketName, ObjectKey(rec), bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put debug query object: %w", err)
	}
	return nil
}

// Check reports whether the bucket is reachable
func (s *Store) Check(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s not found", s.bucketName)
	}
	return nil
}
