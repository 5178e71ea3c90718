// Package router builds the echo instance: global middleware in order,
// system routes and the versioned API groups.
package router

import (
	"net/http"

	"github.com/hadywafa/DatabaseHub/internal/handler"
	"github.com/hadywafa/DatabaseHub/internal/middleware"
	"github.com/hadywafa/DatabaseHub/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter wires middleware and routes.
//
// Order matters: the request id exists before the context logger is built,
// and New Relic starts its transaction before tracing decorates it.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	m := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = m.Global.GlobalErrorHandler

	router.Use(
		m.Global.CORS(),
		m.Global.Secure(),
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		m.Metrics.Record(),
		m.Global.RequestLogger(),
		m.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api", m.RateLimit.Limit())
	registerV1Routes(api.Group("/v1"), h, m)

	return router
}

func registerV1Routes(v1 *echo.Group, h *handler.Handlers, m *middleware.Middlewares) {
	notes := h.Notes
	v1.GET("/roadmap", handler.Handle(notes.Handler, notes.Roadmap, http.StatusOK, newReq[handler.RoadmapRequest]))
	v1.GET("/videos", handler.Handle(notes.Handler, notes.Videos, http.StatusOK, newReq[handler.EmptyRequest]))
	v1.GET("/videos/:id", handler.Handle(notes.Handler, notes.Video, http.StatusOK, newReq[handler.VideoRequest]))

	p := h.Problems
	problems := v1.Group("/problems")
	problems.GET("", handler.Handle(p.Handler, p.ListProblems, http.StatusOK, newReq[handler.ListProblemsRequest]))
	problems.GET("/:id", handler.Handle(p.Handler, p.GetProblem, http.StatusOK, newReq[handler.ProblemRequest]))
	problems.GET("/:id/script", handler.HandleFile(p.Handler, p.ExportProblem, http.StatusOK, newReq[handler.ProblemRequest], "attempts.sql", "application/sql"))
	problems.POST("/:id/verify", handler.Handle(p.Handler, p.VerifyProblem, http.StatusOK, newReq[handler.ProblemRequest]))
	problems.GET("/:id/runs", handler.Handle(p.Handler, p.ListRuns, http.StatusOK, newReq[handler.ListRunsRequest]))

	v1.GET("/runs/:id", handler.Handle(p.Handler, p.GetRun, http.StatusOK, newReq[handler.RunRequest]))
	v1.POST("/verifications", handler.Handle(p.Handler, p.EnqueueVerification, http.StatusAccepted, newReq[handler.EnqueueVerificationRequest]), m.Auth.RequireAuth)

	aw := h.AdventureWorks
	v1.GET("/production/q1", handler.Handle(aw.Handler, aw.ProductionQ1, http.StatusOK, newReq[handler.EmptyRequest]))
	v1.GET("/production/q3", handler.Handle(aw.Handler, aw.ProductionQ3, http.StatusOK, newReq[handler.EmptyRequest]))
	v1.GET("/person/q1", handler.Handle(aw.Handler, aw.PersonQ1, http.StatusOK, newReq[handler.EmptyRequest]))
}

// newReq allocates a fresh request struct per call.
func newReq[T any]() *T {
	return new(T)
}
