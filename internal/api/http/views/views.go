// Package views holds the server-rendered pages.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed *.html partials/*.html
var files embed.FS

// NewEngine returns the template engine over the embedded pages.
func NewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(files), ".html")
}
