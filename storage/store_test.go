package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeClassName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Grade 5", "grade_5"},
		{"grade_5", "grade_5"},
		{"  Math  Club  ", "math_club"},
		{"5A", "5a"},
		{"Grade 5!", "grade_5"},
		{"A - B", "a_b"},
		{"Math/CS", "mathcs"},
		{"MiXeD", "mixed"},
		{"", "unknown"},
		{"   ", "unknown"},
		{"!!!", "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeClassName(tt.in), "input %q", tt.in)
	}
}

func TestSanitizeClassNameIdempotent(t *testing.T) {
	for _, in := range []string{"Grade 5", "  Math  Club ", "A - B", "x!y", ""} {
		once := SanitizeClassName(in)
		assert.Equal(t, once, SanitizeClassName(once), "input %q", in)
	}
}

func TestNewFromEnvFileDefault(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("DATA_DIR", t.TempDir())
	store, backend, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendFile, backend)
	assert.IsType(t, &FileStore{}, store)
}

func TestNewFromEnvMemory(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	store, backend, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, backend)
	assert.IsType(t, &MemStore{}, store)
}

func TestNewFromEnvUnsupported(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	_, backend, err := NewFromEnv()
	assert.Equal(t, "postgres", backend)
	assert.ErrorContains(t, err, "unsupported STORE_BACKEND")
}

func TestNewFromEnvRedisBadDB(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_DB", "not-a-number")
	_, _, err := NewFromEnv()
	assert.ErrorContains(t, err, "REDIS_DB")
}

func TestNewFromEnvS3MissingConfig(t *testing.T) {
	t.Setenv("STORE_BACKEND", "s3")
	t.Setenv("S3_ENDPOINT", "")
	_, _, err := NewFromEnv()
	assert.ErrorContains(t, err, "S3_ENDPOINT")
}
