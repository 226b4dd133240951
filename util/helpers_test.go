package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvDefault(t *testing.T) {
	t.Setenv("ADVISORY_SYNC_TEST_VAR", "set")
	assert.Equal(t, "set", GetEnvDefault("ADVISORY_SYNC_TEST_VAR", "fallback"))
	assert.Equal(t, "fallback", GetEnvDefault("ADVISORY_SYNC_TEST_UNSET", "fallback"))
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("ADVISORY_SYNC_TEST_INT", "16")
	assert.Equal(t, 16, GetEnvInt("ADVISORY_SYNC_TEST_INT", 4))

	t.Setenv("ADVISORY_SYNC_TEST_INT", "not a number")
	assert.Equal(t, 4, GetEnvInt("ADVISORY_SYNC_TEST_INT", 4))

	assert.Equal(t, 4, GetEnvInt("ADVISORY_SYNC_TEST_INT_UNSET", 4))
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.False(t, IsEmpty("x"))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
	assert.False(t, Contains(nil, "a"))
}

func TestDedup(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Dedup([]string{"a", "b", "a", "c", "b"}))
	assert.Empty(t, Dedup(nil))
}
