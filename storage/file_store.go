package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/pretty"

	"github.com/Alhassan9292/student-portal/models"
)

// FileStore keeps each class in <dir>/<key>.json as an indented JSON array.
// The directory is created lazily on the first write, and files are replaced
// through a temp file plus rename so readers never observe partial content.
type FileStore struct {
	dir   string
	locks lockTable
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) classPath(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Read(ctx context.Context, class string) ([]models.Student, error) {
	key := SanitizeClassName(class)
	l := s.locks.get(key)
	l.Lock()
	defer l.Unlock()
	return s.readLocked(key)
}

func (s *FileStore) WriteAll(ctx context.Context, class string, records []models.Student) error {
	key := SanitizeClassName(class)
	l := s.locks.get(key)
	l.Lock()
	defer l.Unlock()
	return s.writeLocked(key, records)
}

func (s *FileStore) Mutate(ctx context.Context, class string, fn MutateFunc) error {
	key := SanitizeClassName(class)
	l := s.locks.get(key)
	l.Lock()
	defer l.Unlock()

	records, err := s.readLocked(key)
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
	return s.writeLocked(key, updated)
}

func (s *FileStore) ListClassFiles(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list class files: %w", err)
	}
	var keys []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}

func (s *FileStore) readLocked(key string) ([]models.Student, error) {
	d, err := os.ReadFile(s.classPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read class file %s: %w", key, err)
	}
	var records []models.Student
	if err := json.Unmarshal(d, &records); err != nil {
		return nil, fmt.Errorf("parse class file %s: %w", key, err)
	}
	return records, nil
}

func (s *FileStore) writeLocked(key string, records []models.Student) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if records == nil {
		// Keep the file a JSON array even when the class drains empty.
		records = []models.Student{}
	}
	d, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode class file %s: %w", key, err)
	}
	if err := writeFileAtomic(s.classPath(key), pretty.Pretty(d)); err != nil {
		return fmt.Errorf("write class file %s: %w", key, err)
	}
	return nil
}

// writeFileAtomic writes data to a temp file in the destination directory
// and renames it over path. The temp file is removed if any step fails.
func writeFileAtomic(path string, data []byte) error {
	dir, name := filepath.Split(path)
	tmp, err := os.CreateTemp(dir, name+".tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
