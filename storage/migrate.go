package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Alhassan9292/student-portal/models"
)

// MigrateLegacyFile folds a consolidated legacy dataset at path into
// per-class storage. Records are kept exactly as stored, and a record whose
// id already exists in its destination class is skipped, so running the
// migration again never duplicates data. The legacy file itself is left in
// place. Returns the number of records added; a missing legacy file is not
// an error.
func MigrateLegacyFile(ctx context.Context, store Store, path string) (int, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read legacy file: %w", err)
	}
	var legacy []models.Student
	if err := json.Unmarshal(d, &legacy); err != nil {
		return 0, fmt.Errorf("parse legacy file: %w", err)
	}

	added := 0
	for _, rec := range legacy {
		wrote := false
		err := store.Mutate(ctx, rec.Class, func(records []models.Student) ([]models.Student, bool, error) {
			for _, existing := range records {
				if existing.ID == rec.ID {
					return nil, false, nil
				}
			}
			wrote = true
			return append(records, rec), true, nil
		})
		if err != nil {
			return added, fmt.Errorf("migrate record %s: %w", rec.ID, err)
		}
		if wrote {
			added++
		}
	}
	return added, nil
}
