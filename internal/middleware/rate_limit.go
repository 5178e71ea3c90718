package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/hadywafa/DatabaseHub/internal/errs"
	"github.com/hadywafa/DatabaseHub/internal/metrics"
	"github.com/hadywafa/DatabaseHub/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware enforces a per-IP token bucket and records rejections.
type RateLimitMiddleware struct {
	server *server.Server
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
	}
}

// Limit allows Server.RateLimit requests per second per client IP, with a
// burst of twice that. A zero rate disables limiting.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	perSecond := r.server.Config.Server.RateLimit
	if perSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	burst := int(math.Max(1, math.Ceil(perSecond*2)))
	retryAfter := strconv.Itoa(int(math.Max(1, math.Ceil(1/perSecond))))

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, _ error) error {
			r.RecordRateLimitHit(c.Path())
			GetLogger(c).Warn().Str("client", identifier).Msg("rate limit exceeded")
			c.Response().Header().Set("Retry-After", retryAfter)
			return errs.NewTooManyRequestsError(retryAfter)
		},
	})
}

// RecordRateLimitHit counts a rejection in prometheus and, when enabled,
// as a New Relic custom event.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	metrics.RateLimitHits.WithLabelValues(endpoint).Inc()

	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}
