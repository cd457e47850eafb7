package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/config"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/repository"
	apperrors "github.com/spec-kit/job-board/pkg/util/errorutil"
)

var (
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("user already exists")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// RegisterInput is the registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// AuthService coordinates registration, login and logout.
type AuthService struct {
	users      repository.UserRepository
	sessions   repository.SessionRepository
	sessionMgr *auth.SessionManager
	bcryptCost int
	now        func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		sessions:   deps.SessionRepo,
		sessionMgr: auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL()),
		bcryptCost: cfg.Auth.BcryptCost,
		now:        time.Now,
	}
}

// Register creates a new account. A taken email yields ErrEmailTaken and no row.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, apperrors.NewValidationError("email and password required", nil)
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("role must be employer or seeker", map[string]any{"role": input.Role})
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        input.Email,
		PasswordHash: hash,
		Role:         input.Role,
	}
	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = &name
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login authenticates a user and issues a signed session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}
	return s.sessionMgr.Issue(user)
}

// Logout revokes the session for the rest of its lifetime. A nil session is a no-op.
func (s *AuthService) Logout(ctx context.Context, session *domain.Session) error {
	if session == nil || s.sessions == nil {
		return nil
	}
	return s.sessions.Revoke(ctx, session.ID, session.ExpiresAt.Sub(s.now()))
}

// SessionManager exposes the underlying session manager for middleware usage.
func (s *AuthService) SessionManager() *auth.SessionManager {
	return s.sessionMgr
}
