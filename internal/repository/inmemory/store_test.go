package inmemory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
)

func TestUsersRejectDuplicateEmail(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &domain.User{Email: "a@example.com", Role: domain.RoleSeeker}))
	err := store.Users().Create(ctx, &domain.User{Email: "a@example.com", Role: domain.RoleEmployer})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	_, err = store.Users().GetByEmail(ctx, "b@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobsListPaginatesNewestFirst(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for i := 1; i <= 7; i++ {
		require.NoError(t, store.Jobs().Create(ctx, &domain.Job{Title: fmt.Sprintf("Job %d", i), PostedBy: 1}))
	}

	first, err := store.Jobs().List(ctx, repository.JobFilter{Limit: 5})
	require.NoError(t, err)
	require.Len(t, first, 5)
	assert.Equal(t, int64(7), first[0].ID)
	assert.Equal(t, int64(3), first[4].ID)

	second, err := store.Jobs().List(ctx, repository.JobFilter{Limit: 5, Offset: 5})
	require.NoError(t, err)
	assert.Len(t, second, 2)

	beyond, err := store.Jobs().List(ctx, repository.JobFilter{Limit: 5, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestApplicationsRequireExistingRows(t *testing.T) {
	store := NewStore()
	err := store.Applications().Create(context.Background(), &domain.Application{JobID: 9, UserID: 9})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionsExpire(t *testing.T) {
	store := NewStore()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Sessions().Revoke(ctx, "s1", time.Minute))
	revoked, err := store.Sessions().IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = store.Sessions().IsRevoked(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, revoked)
}
