package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
	apperrors "github.com/spec-kit/job-board/pkg/util/errorutil"
)

// SessionCookie is the name of the cookie carrying the signed session.
const SessionCookie = "session"

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Session *domain.Session
	User    *domain.User
}

// Actor returns the workflow view of the principal. The role comes from the
// stored user so a stale cookie cannot keep a role the account no longer has.
func (p *Principal) Actor() domain.Actor {
	return domain.Actor{UserID: p.User.ID, Role: p.User.Role, Email: p.Session.Email}
}

// SessionMiddleware resolves the session cookie into a Principal. Requests
// without a usable session continue anonymously; guards decide what to do.
type SessionMiddleware struct {
	sessions *SessionManager
	users    repository.UserRepository
	revoked  repository.SessionRepository
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(sessions *SessionManager, users repository.UserRepository, revoked repository.SessionRepository) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, users: users, revoked: revoked}
}

// Handle loads the principal when the cookie carries a live session.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(SessionCookie)
	if token == "" {
		return c.Next()
	}

	session, err := m.sessions.Parse(token)
	if err != nil {
		ClearSessionCookie(c)
		return c.Next()
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(c.UserContext(), session.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if revoked {
			ClearSessionCookie(c)
			return c.Next()
		}
	}

	user, err := m.users.GetByID(c.UserContext(), session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			ClearSessionCookie(c)
			return c.Next()
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{Session: session, User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// SetSessionCookie stores a freshly issued session token.
func SetSessionCookie(c *fiber.Ctx, token string, session *domain.Session, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie on the client.
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
