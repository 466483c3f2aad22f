package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/Alhassan9292/student-portal/models"
)

// Redis keys used by RedisStore.
const (
	redisClassPrefix = "classfile:" // one string value per class, holding its JSON array
	redisClassIndex  = "classfiles" // set of known class keys
)

// RedisStore keeps each class file as a JSON blob under classfile:<key> and
// tracks the known keys in the classfiles set.
type RedisStore struct {
	client *redis.Client
	locks  lockTable
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore returns a RedisStore on client, verifying the connection
// with a ping.
func NewRedisStore(client *redis.Client) (*RedisStore, error) {
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func newRedisStoreFromEnv() (*RedisStore, error) {
	db := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value %q: %w", raw, err)
		}
		db = parsed
	}
	client := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})
	return NewRedisStore(client)
}

func redisClassKey(key string) string {
	return redisClassPrefix + key
}

func (s *RedisStore) Read(ctx context.Context, class string) ([]models.Student, error) {
	key := SanitizeClassName(class)
	l := s.locks.get(key)
	l.Lock()
	defer l.Unlock()
	return s.readLocked(ctx, key)
}

func (s *RedisStore) WriteAll(ctx context.Context, class string, records []models.Student) error {
	key := SanitizeClassName(class)
	l := s.locks.get(key)
	l.Lock()
	defer l.Unlock()
	return s.writeLocked(ctx, key, records)
}

func (s *RedisStore) Mutate(ctx context.Context, class string, fn MutateFunc) error {
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

func (s *RedisStore) ListClassFiles(ctx context.Context) ([]string, error) {
	keys, err := s.client.SMembers(ctx, redisClassIndex).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list class keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *RedisStore) readLocked(ctx context.Context, key string) ([]models.Student, error) {
	d, err := s.client.Get(ctx, redisClassKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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

func (s *RedisStore) writeLocked(ctx context.Context, key string, records []models.Student) error {
	if records == nil {
		records = []models.Student{}
	}
	d, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode class %s: %w", key, err)
	}
	// Write the blob and index the key in one round trip.
	pipe := s.client.Pipeline()
	pipe.Set(ctx, redisClassKey(key), d, 0)
	pipe.SAdd(ctx, redisClassIndex, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write class %s: %w", key, err)
	}
	return nil
}
