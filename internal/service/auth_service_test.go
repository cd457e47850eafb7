package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/job-board/internal/domain"
	apperrors "github.com/spec-kit/job-board/pkg/util/errorutil"
)

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	first, err := f.auth.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "pw", Role: domain.RoleSeeker})
	require.NoError(t, err)
	assert.NotEqual(t, "pw", first.PasswordHash)

	_, err = f.auth.Register(ctx, RegisterInput{Name: "Ann 2", Email: "ann@example.com", Password: "other", Role: domain.RoleEmployer})
	assert.ErrorIs(t, err, ErrEmailTaken)

	stored, err := f.store.Users().GetByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, domain.RoleSeeker, stored.Role)
}

func TestRegisterValidatesRole(t *testing.T) {
	f := newFixture(t, false)
	_, err := f.auth.Register(context.Background(), RegisterInput{Email: "x@example.com", Password: "pw", Role: "admin"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestRegisterWithoutName(t *testing.T) {
	f := newFixture(t, false)
	user, err := f.auth.Register(context.Background(), RegisterInput{Email: "x@example.com", Password: "pw", Role: domain.RoleEmployer})
	require.NoError(t, err)
	assert.Nil(t, user.Name)
	assert.Equal(t, "x@example.com", user.DisplayName())
}

func TestLogin(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	actor := f.register(t, "emp@example.com", domain.RoleEmployer)

	session, token, err := f.auth.Login(ctx, "emp@example.com", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, actor.UserID, session.UserID)
	assert.Equal(t, domain.RoleEmployer, session.Role)
	assert.Equal(t, "emp@example.com", session.Email)

	parsed, err := f.auth.SessionManager().Parse(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, parsed.ID)
	assert.Equal(t, session.UserID, parsed.UserID)

	_, _, err = f.auth.Login(ctx, "emp@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.auth.Login(ctx, "nobody@example.com", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	f.register(t, "s@example.com", domain.RoleSeeker)

	session, _, err := f.auth.Login(ctx, "s@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, f.auth.Logout(ctx, session))

	revoked, err := f.store.Sessions().IsRevoked(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	assert.NoError(t, f.auth.Logout(ctx, nil))
}
