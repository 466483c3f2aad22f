package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/Alhassan9292/student-portal/models"
)

// Service implements the student operations on top of a Store. Records have
// no global index; lookups by id scan the class files.
type Service struct {
	store Store
}

// NewService returns a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// ListStudents returns all students, or only those of one class when class
// is non-empty. The class filter matches the sanitized file key, so
// "Grade 5" and "grade_5" select the same records.
func (s *Service) ListStudents(ctx context.Context, class string) ([]models.Student, error) {
	if class != "" {
		return s.store.Read(ctx, class)
	}
	keys, err := s.store.ListClassFiles(ctx)
	if err != nil {
		return nil, err
	}
	var all []models.Student
	for _, key := range keys {
		records, err := s.store.Read(ctx, key)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)
	}
	return all, nil
}

// ListClasses returns the distinct class names found in the stored records,
// in the order they are first seen. The names are the raw values records
// carry, not the sanitized file keys.
func (s *Service) ListClasses(ctx context.Context) ([]string, error) {
	keys, err := s.store.ListClassFiles(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var classes []string
	for _, key := range keys {
		records, err := s.store.Read(ctx, key)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			if r.Class == "" || seen[r.Class] {
				continue
			}
			seen[r.Class] = true
			classes = append(classes, r.Class)
		}
	}
	return classes, nil
}

// CreateStudent assigns a fresh id to input and appends it to its class
// file. The stored record is returned.
func (s *Service) CreateStudent(ctx context.Context, input models.Student) (models.Student, error) {
	student := models.Student{
		ID:    uuid.NewString(),
		Name:  input.Name,
		Class: input.Class,
		Grade: input.Grade,
	}
	err := s.store.Mutate(ctx, student.Class, func(records []models.Student) ([]models.Student, bool, error) {
		return append(records, student), true, nil
	})
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

// GetStudent returns the record with the given id, or ErrStudentNotFound.
func (s *Service) GetStudent(ctx context.Context, id string) (models.Student, error) {
	student, _, err := s.findStudent(ctx, id)
	return student, err
}

// DeleteStudent removes the record with the given id, rewriting only the
// class file that held it. ErrStudentNotFound if no file contains the id.
func (s *Service) DeleteStudent(ctx context.Context, id string) error {
	keys, err := s.store.ListClassFiles(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		removed := false
		err := s.store.Mutate(ctx, key, func(records []models.Student) ([]models.Student, bool, error) {
			for i, r := range records {
				if r.ID == id {
					removed = true
					return append(records[:i], records[i+1:]...), true, nil
				}
			}
			return nil, false, nil
		})
		if err != nil {
			return err
		}
		if removed {
			return nil
		}
	}
	return ErrStudentNotFound
}

// UpdateStudent replaces the name, class and grade of the record with the
// given id, keeping the id itself. A record updated within its class keeps
// its position in the file. A record whose class changed is removed from
// its old file and appended to the new class, creating that file if needed.
func (s *Service) UpdateStudent(ctx context.Context, id string, input models.Student) (models.Student, error) {
	current, key, err := s.findStudent(ctx, id)
	if err != nil {
		return models.Student{}, err
	}
	updated := models.Student{
		ID:    id,
		Name:  input.Name,
		Class: input.Class,
		Grade: input.Grade,
	}

	if current.Class == input.Class {
		err := s.store.Mutate(ctx, key, func(records []models.Student) ([]models.Student, bool, error) {
			for i, r := range records {
				if r.ID == id {
					records[i] = updated
					return records, true, nil
				}
			}
			return nil, false, nil
		})
		if err != nil {
			return models.Student{}, err
		}
		return updated, nil
	}

	// Class change: take the record out of its old file, then append it to
	// the new class. The two writes are separate, matching the per-class
	// storage model.
	err = s.store.Mutate(ctx, key, func(records []models.Student) ([]models.Student, bool, error) {
		for i, r := range records {
			if r.ID == id {
				return append(records[:i], records[i+1:]...), true, nil
			}
		}
		return nil, false, nil
	})
	if err != nil {
		return models.Student{}, err
	}
	err = s.store.Mutate(ctx, updated.Class, func(records []models.Student) ([]models.Student, bool, error) {
		return append(records, updated), true, nil
	})
	if err != nil {
		return models.Student{}, err
	}
	return updated, nil
}

// findStudent scans the class files for id and returns the record together
// with the file key it lives under.
func (s *Service) findStudent(ctx context.Context, id string) (models.Student, string, error) {
	keys, err := s.store.ListClassFiles(ctx)
	if err != nil {
		return models.Student{}, "", err
	}
	for _, key := range keys {
		records, err := s.store.Read(ctx, key)
		if err != nil {
			return models.Student{}, "", err
		}
		for _, r := range records {
			if r.ID == id {
				return r, key, nil
			}
		}
	}
	return models.Student{}, "", ErrStudentNotFound
}
