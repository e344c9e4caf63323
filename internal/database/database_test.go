package database

import (
	"testing"

	"smartdry/internal/logger"

	"github.com/stretchr/testify/assert"
)

func TestCacheConstants(t *testing.T) {
	assert.Equal(t, 0, GENERAL_CACHE_INDEX)
	assert.Equal(t, 1, SESSION_CACHE_INDEX)
	assert.Equal(t, 2, DEVICE_CACHE_INDEX)
	assert.Equal(t, 3, CYCLE_CACHE_INDEX)
	assert.Equal(t, 4, NOTIFICATION_CACHE_INDEX)
}

func TestDB_StructCreation(t *testing.T) {
	log := logger.New("test")

	db := &DB{
		log: log,
	}

	assert.NotNil(t, db)
	assert.Equal(t, log, db.log)
	assert.Nil(t, db.SQL)
}

func TestCacheBuilder_KeyComposition(t *testing.T) {
	tests := []struct {
		name     string
		builder  *CacheBuilder
		expected string
	}{
		{
			name:     "string key with prefix",
			builder:  NewCacheBuilder[string](nil, "SD-1042").WithPrefix("device:status:"),
			expected: "device:status:SD-1042",
		},
		{
			name:     "int key with prefix",
			builder:  NewCacheBuilder[int](nil, 17).WithPrefix("drying:active:"),
			expected: "drying:active:17",
		},
		{
			name:     "empty prefix leaves key untouched",
			builder:  NewCacheBuilder[string](nil, "plain").WithPrefix(""),
			expected: "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.builder.key)
		})
	}
}

func TestCacheBuilder_WithStructMarshalError(t *testing.T) {
	cb := NewCacheBuilder[string](nil, "key").WithStruct(make(chan int))
	assert.Error(t, cb.err)
}

// Cache builder round trips require a real valkey client and are covered by
// integration tests against a live cache server.
func TestCacheBuilder_SkippedTests(t *testing.T) {
	t.Skip("Cache builder tests require real valkey client - tested in integration tests")
}
