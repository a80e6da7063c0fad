//go:build unit

package cache

import (
	"context"
	"testing"

	"tutorhive/internal/pkg/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	id    uuid.UUID
	err   error
	calls int
}

func (f *fakeDirectory) TutorIDByExternalUID(_ context.Context, _ string) (uuid.UUID, error) {
	f.calls++
	return f.id, f.err
}

func TestCachedTutorDirectoryWithoutRedis(t *testing.T) {
	want := uuid.New()
	next := &fakeDirectory{id: want}
	dir := NewCachedTutorDirectory(nil, next, config.RedisConfig{})

	got, err := dir.TutorIDByExternalUID(context.Background(), "ext-123")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, next.calls, "nil client goes straight to the database")

	_, err = dir.TutorIDByExternalUID(context.Background(), "ext-123")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls, "no caching without a client")
}

func TestNewRedisClientDisabled(t *testing.T) {
	client, cleanup := NewRedisClient(config.RedisConfig{})
	assert.Nil(t, client)
	cleanup()
}
