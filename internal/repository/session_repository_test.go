package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, SessionRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisSessionRepository(client)
}

func TestRedisSessionRepositoryRevoke(t *testing.T) {
	mr, repo := newTestRedis(t)
	ctx := context.Background()

	revoked, err := repo.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "abc", time.Minute))

	revoked, err = repo.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)

	revoked, err = repo.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisSessionRepositoryIgnoresExpiredSessions(t *testing.T) {
	mr, repo := newTestRedis(t)

	require.NoError(t, repo.Revoke(context.Background(), "gone", 0))
	assert.False(t, mr.Exists("session:revoked:gone"))
}

func TestRedisSessionRepositoryReportsOutage(t *testing.T) {
	mr, repo := newTestRedis(t)
	mr.Close()

	_, err := repo.IsRevoked(context.Background(), "abc")
	assert.Error(t, err)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `snake\_case`, escapeLike("snake_case"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}
