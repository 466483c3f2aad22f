package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/Alhassan9292/student-portal/models"
)

// MemStore holds class files in memory. It backs tests and the
// STORE_BACKEND=memory mode, where records do not survive a restart.
type MemStore struct {
	mu      sync.Mutex
	classes map[string][]models.Student
}

var _ Store = (*MemStore)(nil)

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{classes: make(map[string][]models.Student)}
}

func (s *MemStore) Read(ctx context.Context, class string) ([]models.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, ok := s.classes[SanitizeClassName(class)]
	if !ok {
		return nil, nil
	}
	return append([]models.Student(nil), records...), nil
}

func (s *MemStore) WriteAll(ctx context.Context, class string, records []models.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[SanitizeClassName(class)] = append([]models.Student(nil), records...)
	return nil
}

func (s *MemStore) Mutate(ctx context.Context, class string, fn MutateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := SanitizeClassName(class)
	// fn gets a copy so the stored slice cannot be aliased.
	records := append([]models.Student(nil), s.classes[key]...)
	updated, write, err := fn(records)
	if err != nil {
		return err
	}
	if !write {
		return nil
	}
	s.classes[key] = append([]models.Student(nil), updated...)
	return nil
}

func (s *MemStore) ListClassFiles(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.classes))
	for key := range s.classes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
