package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
)

// Recovery returns Echo middleware that recovers from panics, logs the stack
// trace with the request ID, and answers 500.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				buf := make([]byte, 4096)
				n := runtime.Stack(buf, false)
				reqID := RequestID(c.Request().Context())

				log.Error("panic recovered",
					"error", fmt.Sprint(r),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"request_id", reqID,
					"stack", string(buf[:n]),
				)

				body := map[string]string{"error": "internal server error"}
				if reqID != "" {
					body["request_id"] = reqID
				}
				err = c.JSON(http.StatusInternalServerError, body)
			}()
			return next(c)
		}
	}
}
