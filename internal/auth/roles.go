package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/domain"
)

// RequireSession ensures a caller is logged in.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(http.StatusUnauthorized, "login required")
		}
		return c.Next()
	}
}

// RequireRole ensures the logged-in caller holds role. Both failures are
// reported as unauthorized so the caller is sent back to the login page.
func RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, "login required")
		}
		if principal.User.Role != role {
			return fiber.NewError(http.StatusUnauthorized, string(role)+" required")
		}
		return c.Next()
	}
}
