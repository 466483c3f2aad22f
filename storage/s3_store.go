package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Alhassan9292/student-portal/models"
)

// S3Store keeps each class file as a <key>.json object in one bucket. It
// works against any S3-compatible endpoint, including a local MinIO.
type S3Store struct {
	client *minio.Client
	bucket string
	locks  lockTable
}

var _ Store = (*S3Store)(nil)

// NewS3Store returns an S3Store writing to bucket, which must already exist.
func NewS3Store(client *minio.Client, bucket string) (*S3Store, error) {
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", bucket)
	}
	return &S3Store{client: client, bucket: bucket}, nil
}

func newS3StoreFromEnv() (*S3Store, error) {
	endpoint := os.Getenv("S3_ENDPOINT")
	bucket := os.Getenv("S3_BUCKET")
	access := os.Getenv("S3_ACCESS_KEY")
	secret := os.Getenv("S3_SECRET_KEY")
	if endpoint == "" || bucket == "" || access == "" || secret == "" {
		return nil, errors.New("s3 backend needs S3_ENDPOINT, S3_BUCKET, S3_ACCESS_KEY and S3_SECRET_KEY")
	}
	insecure, _ := strconv.ParseBool(os.Getenv("S3_INSECURE"))
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: !insecure,
		Region: os.Getenv("S3_REGION"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}
	return NewS3Store(client, bucket)
}

func s3ObjectName(key string) string {
	return key + ".json"
}

func (s *S3Store) Read(ctx context.Context, class string) ([]models.Student, error) {
	key := SanitizeClassName(class)
	l := s.locks.get(key)
	l.Lock()
	defer l.Unlock()
	return s.readLocked(ctx, key)
}

func (s *S3Store) WriteAll(ctx context.Context, class string, records []models.Student) error {
	key := SanitizeClassName(class)
	l := s.locks.get(key)
	l.Lock()
	defer l.Unlock()
	return s.writeLocked(ctx, key, records)
}

func (s *S3Store) Mutate(ctx context.Context, class string, fn MutateFunc) error {
	key := SanitizeClassName(class)
	l := s.locks.get(key)
	l.Lock()
	defer l.Unlock()

	records, err := s.readLocked(ctx, key)
	if err != nil {
		return err
	}
	updated, write, err := fn(records)
	if err != nil {
		return err
	}
	if !write {
		return nil
	}
	return s.writeLocked(ctx, key, updated)
}

func (s *S3Store) ListClassFiles(ctx context.Context) ([]string, error) {
	var keys []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list class objects: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(obj.Key, ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *S3Store) readLocked(ctx context.Context, key string) ([]models.Student, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s3ObjectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read class %s: %w", key, err)
	}
	defer obj.Close()
	d, err := io.ReadAll(obj)
	if err != nil {
		// GetObject is lazy, so a missing object surfaces here.
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read class %s: %w", key, err)
	}
	var records []models.Student
	if err := json.Unmarshal(d, &records); err != nil {
		return nil, fmt.Errorf("failed to parse class %s: %w", key, err)
	}
	return records, nil
}

func (s *S3Store) writeLocked(ctx context.Context, key string, records []models.Student) error {
	if records == nil {
		records = []models.Student{}
	}
	d, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode class %s: %w", key, err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, s3ObjectName(key), bytes.NewReader(d), int64(len(d)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to write class %s: %w", key, err)
	}
	return nil
}
