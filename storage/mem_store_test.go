package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alhassan9292/student-portal/models"
)

func TestMemStoreReadWritesAreIsolated(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	require.NoError(t, store.WriteAll(ctx, "Grade 5", []models.Student{{ID: "s1", Name: "Alice"}}))

	got, err := store.Read(ctx, "grade_5")
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Mutating the returned slice must not leak into the store.
	got[0].Name = "changed"
	again, err := store.Read(ctx, "Grade 5")
	require.NoError(t, err)
	assert.Equal(t, "Alice", again[0].Name)
}

func TestMemStoreMutate(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	err := store.Mutate(ctx, "Grade 5", func(records []models.Student) ([]models.Student, bool, error) {
		assert.Empty(t, records)
		return append(records, models.Student{ID: "s1"}), true, nil
	})
	require.NoError(t, err)

	err = store.Mutate(ctx, "grade_5", func(records []models.Student) ([]models.Student, bool, error) {
		assert.Len(t, records, 1)
		return nil, false, nil
	})
	require.NoError(t, err)

	got, err := store.Read(ctx, "Grade 5")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemStoreListClassFiles(t *testing.T) {
	store := NewMemStore()
	ctx := context.Background()

	require.NoError(t, store.WriteAll(ctx, "Math", nil))
	require.NoError(t, store.WriteAll(ctx, "Grade 5", nil))

	keys, err := store.ListClassFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"grade_5", "math"}, keys)
}
