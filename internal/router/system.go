package router

import (
	"github.com/hadywafa/DatabaseHub/internal/handler"
	"github.com/hadywafa/DatabaseHub/static"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerSystemRoutes registers endpoints outside the versioned API:
// health, prometheus metrics and the docs UI with its assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	r.StaticFS("/static", static.FS)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
