package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository/inmemory"
)

type middlewareFixture struct {
	app      *fiber.App
	store    *inmemory.Store
	sessions *SessionManager
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()
	store := inmemory.NewStore()
	sessions := NewSessionManager("secret", time.Hour)
	mw := NewSessionMiddleware(sessions, store.Users(), store.Sessions())

	app := fiber.New()
	app.Use(mw.Handle)
	app.Get("/whoami", RequireSession(), func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		return c.SendString(principal.User.Email)
	})
	app.Get("/employer", RequireRole(domain.RoleEmployer), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return &middlewareFixture{app: app, store: store, sessions: sessions}
}

func (f *middlewareFixture) login(t *testing.T, role domain.Role) (*domain.Session, string) {
	t.Helper()
	user := &domain.User{Email: string(role) + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, f.store.Users().Create(context.Background(), user))
	session, token, err := f.sessions.Issue(user)
	require.NoError(t, err)
	return session, token
}

func (f *middlewareFixture) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAnonymousRequestIsRejectedByGuard(t *testing.T) {
	f := newMiddlewareFixture(t)
	resp := f.get(t, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestValidSessionLoadsPrincipal(t *testing.T) {
	f := newMiddlewareFixture(t)
	_, token := f.login(t, domain.RoleSeeker)

	resp := f.get(t, "/whoami", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoleGuard(t *testing.T) {
	f := newMiddlewareFixture(t)
	_, seeker := f.login(t, domain.RoleSeeker)
	_, employer := f.login(t, domain.RoleEmployer)

	assert.Equal(t, http.StatusUnauthorized, f.get(t, "/employer", seeker).StatusCode)
	assert.Equal(t, http.StatusNoContent, f.get(t, "/employer", employer).StatusCode)
}

func TestRevokedSessionIsAnonymous(t *testing.T) {
	f := newMiddlewareFixture(t)
	session, token := f.login(t, domain.RoleSeeker)
	require.NoError(t, f.store.Sessions().Revoke(context.Background(), session.ID, time.Hour))

	resp := f.get(t, "/whoami", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGarbageCookieIsAnonymous(t *testing.T) {
	f := newMiddlewareFixture(t)
	resp := f.get(t, "/whoami", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionForDeletedUserIsAnonymous(t *testing.T) {
	f := newMiddlewareFixture(t)
	_, token, err := f.sessions.Issue(&domain.User{ID: 999, Role: domain.RoleSeeker})
	require.NoError(t, err)

	resp := f.get(t, "/whoami", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
