package handlers

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/auth"
	apperrors "github.com/spec-kit/job-board/pkg/util/errorutil"
)

const flashCookie = "flash"

// Flash stores a one-shot notice shown on the next rendered page.
func Flash(c *fiber.Ctx, message string) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// popFlash returns the pending notice and clears it.
func popFlash(c *fiber.Ctx) string {
	raw := c.Cookies(flashCookie)
	if raw == "" {
		return ""
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
	message, err := url.QueryUnescape(raw)
	if err != nil {
		return ""
	}
	return message
}

// ViewData fills the keys every page expects: the pending flash and the
// logged-in identity, empty for anonymous callers.
func ViewData(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	data["Flash"] = popFlash(c)
	data["Email"] = ""
	data["Role"] = ""
	if principal, ok := auth.PrincipalFromContext(c); ok {
		data["Email"] = principal.Session.Email
		data["Role"] = string(principal.User.Role)
	}
	return data
}

func render(c *fiber.Ctx, view string, data fiber.Map) error {
	return c.Render(view, ViewData(c, data))
}

// flashRedirect sets a notice and sends the browser to location.
func flashRedirect(c *fiber.Ctx, message, location string) error {
	Flash(c, message)
	return c.Redirect(location, fiber.StatusFound)
}

// validationMessage reports whether err is a form validation failure.
func validationMessage(err error) (string, bool) {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) && domainErr.Code == "VALIDATION_FAILED" {
		return domainErr.Message, true
	}
	return "", false
}

func principal(c *fiber.Ctx) *auth.Principal {
	p, _ := auth.PrincipalFromContext(c)
	return p
}

// idParam parses a numeric path segment; anything else is a missing page.
func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.ErrNotFound
	}
	return int64(id), nil
}
