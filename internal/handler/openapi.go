package handler

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/hadywafa/DatabaseHub/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the API docs UI. The page loads its renderer from a
// CDN and fetches /static/openapi.json.
type OpenAPIHandler struct {
	Handler
	assets fs.FS
}

func NewOpenAPIHandler(s *server.Server, assets fs.FS) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		assets:  assets,
	}
}

func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	page, err := fs.ReadFile(h.assets, "openapi.html")
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	c.Response().Header().Set("Cache-Control", "no-cache")
	return c.HTMLBlob(http.StatusOK, page)
}
