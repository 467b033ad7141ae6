// ABOUTME: Echo middleware: request ids, slog access logging, bearer JWT auth, and rate limiting
// ABOUTME: The rate limiter is a shared token bucket applied per route
package web

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/harperreed/voss/auth"
	"github.com/harperreed/voss/config"
)

const (
	ContextKeyRequestID = "request_id"
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
)

// RequestID injects an identifier for traceability if the caller did not provide one.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Set(ContextKeyRequestID, rid)
			c.Response().Header().Set(echo.HeaderXRequestID, rid)
			return next(c)
		}
	}
}

func RequestIDFromContext(c echo.Context) string {
	if v, ok := c.Get(ContextKeyRequestID).(string); ok {
		return v
	}
	return ""
}

// Logging writes one line per request.
func Logging(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.InfoContext(c.Request().Context(), "http_request",
				"request_id", RequestIDFromContext(c),
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"latency_ms", time.Since(start).Milliseconds(),
			)
			return err
		}
	}
}

// JWT validates bearer tokens and stores the subject and email on the context.
func JWT(manager *auth.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return Error(c, http.StatusUnauthorized, "missing authorization header")
			}
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				return Error(c, http.StatusUnauthorized, "invalid authorization header")
			}
			claims, err := manager.ParseToken(strings.TrimSpace(token))
			if err != nil {
				return Error(c, http.StatusUnauthorized, "invalid token")
			}
			c.Set(ContextKeyUserID, claims.Subject)
			c.Set(ContextKeyUserEmail, claims.Email)
			return next(c)
		}
	}
}

// RateLimit applies a token bucket of cfg.Requests per cfg.Interval. A zero
// config disables it.
func RateLimit(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Requests <= 0 || cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	perRequest := cfg.Interval / time.Duration(cfg.Requests)
	if perRequest <= 0 {
		perRequest = time.Second
	}
	limiter := rate.NewLimiter(rate.Every(perRequest), cfg.Requests)
	var mu sync.Mutex

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			mu.Lock()
			allowed := limiter.Allow()
			mu.Unlock()
			if !allowed {
				return Error(c, http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
