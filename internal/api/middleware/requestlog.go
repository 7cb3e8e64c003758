// Package middleware provides the echo middleware of the operator API.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the id RequestLog attached to ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// probePaths are polled by orchestrators. Only their first success and
// every failure reach the info log.
var probePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
	"/metrics": {},
}

// RequestLog logs every request with a request id, taken from the
// X-Request-ID header or generated, and echoes the id in the response.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var seen sync.Map

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			reqID := req.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Set("request_id", reqID)
			c.SetRequest(req.WithContext(context.WithValue(req.Context(), requestIDKey{}, reqID)))
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)
			if err != nil {
				// Let echo write the error so the logged status is final.
				c.Error(err)
			}

			status := c.Response().Status
			path := req.URL.Path
			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			default:
				if _, probe := probePaths[path]; probe {
					if _, loaded := seen.LoadOrStore(path, true); loaded {
						level = slog.LevelDebug
					}
				}
			}

			log.Log(req.Context(), level, "request",
				"method", req.Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)
			return nil
		}
	}
}
