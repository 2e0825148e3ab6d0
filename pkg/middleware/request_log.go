package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"agriverse/pkg/logger"
)

// RequestLog writes one structured line per request. Server errors log at error level.
func RequestLog(log *logger.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURIPath:  true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			kv := []any{
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"ip", v.RemoteIP,
			}
			if uid := UserID(c); uid != "" {
				kv = append(kv, "user_id", uid)
			}
			switch {
			case v.Status >= 500:
				log.Error("request", append(kv, "error", v.Error)...)
			case v.Error != nil:
				log.Warn("request", append(kv, "error", v.Error)...)
			default:
				log.Info("request", kv...)
			}
			return nil
		},
	})
}
