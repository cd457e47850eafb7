package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/dto"
	"github.com/spec-kit/job-board/internal/auth"
	"github.com/spec-kit/job-board/internal/domain"
	"github.com/spec-kit/job-board/internal/service"
)

// AuthHandler serves the account pages.
type AuthHandler struct {
	auth         *service.AuthService
	secureCookie bool
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: authService, secureCookie: secureCookie}
}

// Index handles GET /. Logged-in callers go straight to their home page.
func (h *AuthHandler) Index(c *fiber.Ctx) error {
	if _, ok := auth.PrincipalFromContext(c); ok {
		return c.Redirect("/home", fiber.StatusFound)
	}
	return render(c, "index", nil)
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Title": "Register"})
}

// Register handles POST /register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var form dto.RegisterForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid form")
	}

	_, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Role:     domain.Role(form.Role),
	})
	if errors.Is(err, service.ErrEmailTaken) {
		return flashRedirect(c, "User already exists.", "/register")
	}
	if msg, ok := validationMessage(err); ok {
		return flashRedirect(c, msg, "/register")
	}
	if err != nil {
		return err
	}
	return flashRedirect(c, "Registered successfully! Please log in.", "/login")
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Title": "Login"})
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid form")
	}

	session, token, err := h.auth.Login(c.UserContext(), form.Email, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return flashRedirect(c, "Invalid credentials.", "/login")
	}
	if err != nil {
		return err
	}

	auth.SetSessionCookie(c, token, session, h.secureCookie)
	return c.Redirect("/home", fiber.StatusFound)
}

// Home handles GET /home.
func (h *AuthHandler) Home(c *fiber.Ctx) error {
	return render(c, "home", fiber.Map{"Title": "Home"})
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var session *domain.Session
	if p := principal(c); p != nil {
		session = p.Session
	}
	auth.ClearSessionCookie(c)
	if err := h.auth.Logout(c.UserContext(), session); err != nil {
		return err
	}
	return c.Redirect("/login", fiber.StatusFound)
}
