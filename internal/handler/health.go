package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/hadywafa/DatabaseHub/internal/middleware"
	"github.com/hadywafa/DatabaseHub/internal/server"
	"github.com/labstack/echo/v4"
)

// PingFunc checks one dependency.
type PingFunc func(ctx context.Context) error

type dependencyCheck struct {
	name     string
	ping     PingFunc
	required bool
}

type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time"`
	Error        string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status      string                 `json:"status"`
	Timestamp   time.Time              `json:"timestamp"`
	Environment string                 `json:"environment"`
	Checks      map[string]CheckResult `json:"checks"`
}

// HealthHandler reports liveness plus database and redis connectivity.
//
// The database is required: a failed ping answers 503. Redis only backs the
// cache, so its failure is reported without changing the status code.
type HealthHandler struct {
	Handler
	checks  []dependencyCheck
	timeout time.Duration
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	h := &HealthHandler{
		Handler: NewHandler(s),
		timeout: 5 * time.Second,
	}

	hc := s.Config.Observability.HealthChecks
	if hc.Timeout > 0 {
		h.timeout = hc.Timeout
	}

	if hc.Has("database") && s.DB != nil {
		h.AddCheck("database", true, s.DB.Pool.Ping)
	}
	if hc.Has("redis") && s.Redis != nil {
		h.AddCheck("redis", false, func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		})
	}

	return h
}

// AddCheck registers a dependency check.
func (h *HealthHandler) AddCheck(name string, required bool, ping PingFunc) {
	h.checks = append(h.checks, dependencyCheck{name: name, ping: ping, required: required})
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().Str("operation", "health_check").Logger()

	response := HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Environment: h.server.Config.Primary.Env,
		Checks:      make(map[string]CheckResult, len(h.checks)),
	}

	healthy := true
	for _, check := range h.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
		checkStart := time.Now()
		err := check.ping(ctx)
		elapsed := time.Since(checkStart)
		cancel()

		result := CheckResult{Status: "healthy", ResponseTime: elapsed.String()}
		if err != nil {
			result.Status = "unhealthy"
			result.Error = err.Error()
			if check.required {
				healthy = false
			}

			logger.Error().Err(err).Str("check", check.name).Dur("response_time", elapsed).Msg("health check failed")
			h.recordFailure(check.name, err, elapsed)
		}
		response.Checks[check.name] = result
	}

	if !healthy {
		response.Status = "unhealthy"
		logger.Warn().Dur("total_duration", time.Since(start)).Msg("service unhealthy")
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().Dur("total_duration", time.Since(start)).Msg("health check passed")
	return c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) recordFailure(check string, err error, elapsed time.Duration) {
	app := h.server.LoggerService.GetApplication()
	if app == nil {
		return
	}
	app.RecordCustomEvent("HealthCheckError", map[string]any{
		"check_type":       check,
		"operation":        "health_check",
		"error_type":       check + "_unhealthy",
		"response_time_ms": elapsed.Milliseconds(),
		"error_message":    err.Error(),
	})
}
