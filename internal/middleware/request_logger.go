package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// CtxErrorKey はハンドラがJSONで返した500の原因（error）
const CtxErrorKey = "handler_error"

// RequestLogger はリクエストごとに1行ログを出す（RequestID の後に置く）
func RequestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			entry := log.WithContext(req.Context()).WithFields(logrus.Fields{
				"request_id": res.Header().Get(echo.HeaderXRequestID),
				"method":     req.Method,
				"path":       req.URL.Path,
				"route":      c.Path(),
				"status":     res.Status,
				"latency_ms": float64(time.Since(start).Microseconds()) / 1000,
				"ip":         c.RealIP(),
			})

			if cause, ok := c.Get(CtxErrorKey).(error); ok {
				entry = entry.WithError(cause)
			}

			switch {
			case res.Status >= 500:
				entry.Error("request completed")
			case res.Status >= 400:
				entry.Warn("request completed")
			default:
				entry.Info("request completed")
			}
			return nil
		}
	}
}
