package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestID returns the request ID stored by RequestLog, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It reuses the caller's X-Request-ID or generates one, echoes it back, and
// stores it in the request context. Probe requests are logged at debug level
// and server errors at error level.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			reqID := req.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.SetRequest(req.WithContext(context.WithValue(req.Context(), requestIDKey{}, reqID)))
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)
			if err != nil {
				c.Error(err)
				err = nil
			}

			status := c.Response().Status
			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case isProbe(req.URL.Path):
				level = slog.LevelDebug
			}

			log.LogAttrs(req.Context(), level, "request",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", status),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("request_id", reqID),
			)

			return err
		}
	}
}

func isProbe(route string) bool {
	_, ok := probePaths[route]
	return ok
}
