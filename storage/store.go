// Package storage persists student records as per-class JSON documents and
// hides where those documents live behind the Store interface.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/Alhassan9292/student-portal/models"
)

// ErrStudentNotFound is returned when no class file contains the requested id.
var ErrStudentNotFound = errors.New("student not found")

// MutateFunc transforms the records of one class. It returns the new
// contents, whether the store should persist them, and an error that aborts
// the mutation.
type MutateFunc func(records []models.Student) (updated []models.Student, write bool, err error)

// Store persists student records grouped into per-class files. Class names
// are sanitized into file keys with SanitizeClassName, and every method
// accepts either a raw class name or an already sanitized key.
type Store interface {
	// Read returns the records of one class. A class that was never
	// written reads as empty, not as an error.
	Read(ctx context.Context, class string) ([]models.Student, error)

	// WriteAll replaces the records of one class.
	WriteAll(ctx context.Context, class string, records []models.Student) error

	// Mutate runs fn against the current records of one class and persists
	// the result when fn asks for it. Calls for the same class are
	// serialized, so read-modify-write sequences do not lose updates.
	Mutate(ctx context.Context, class string, fn MutateFunc) error

	// ListClassFiles returns the sanitized keys of all classes present in
	// the store, sorted.
	ListClassFiles(ctx context.Context) ([]string, error)
}

// UnknownClass is the file key used for records whose class name sanitizes
// to nothing.
const UnknownClass = "unknown"

// SanitizeClassName turns a free-text class name into a safe file key:
// lowercased, whitespace runs replaced with single underscores, and every
// character outside [a-z0-9_] dropped. "Grade 5" becomes "grade_5". Names
// that sanitize to the empty string map to UnknownClass. The function is
// idempotent, so already sanitized keys pass through unchanged.
func SanitizeClassName(class string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(class)) {
		if unicode.IsSpace(r) {
			pendingSep = true
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return UnknownClass
	}
	return b.String()
}

// Backend names accepted in STORE_BACKEND.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendS3     = "s3"
)

// NewFromEnv builds the Store selected by STORE_BACKEND and returns it
// together with the backend name. An unset STORE_BACKEND selects the file
// backend with its data directory taken from DATA_DIR.
func NewFromEnv() (Store, string, error) {
	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = BackendFile
	}
	switch backend {
	case BackendFile:
		return NewFileStore(getEnv("DATA_DIR", "data")), backend, nil
	case BackendMemory:
		return NewMemStore(), backend, nil
	case BackendRedis:
		store, err := newRedisStoreFromEnv()
		if err != nil {
			return nil, backend, err
		}
		return store, backend, nil
	case BackendS3:
		store, err := newS3StoreFromEnv()
		if err != nil {
			return nil, backend, err
		}
		return store, backend, nil
	default:
		return nil, backend, fmt.Errorf("unsupported STORE_BACKEND value %q", backend)
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// lockTable hands out one mutex per class key. The zero value is ready to use.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (t *lockTable) get(key string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.locks == nil {
		t.locks = make(map[string]*sync.Mutex)
	}
	l, ok := t.locks[key]
	if !ok {
		l = &sync.Mutex{}
		t.locks[key] = l
	}
	return l
}
