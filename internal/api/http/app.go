package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/job-board/internal/api/http/views"
)

// NewApp builds the fiber app with the embedded views. Immutable is required:
// form values are stored as-is by the in-memory repositories and must not
// alias fasthttp buffers that are reused by later requests.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   name,
		Views:     views.NewEngine(),
		Immutable: true,
	})
}
