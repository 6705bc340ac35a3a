package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nnhurricane156/phygen-portal/internal/logger"
)

// slowRequestThreshold flags requests the UI will perceive as laggy;
// everything here is a local hop plus one backend call, so anything
// slower usually means the backend is struggling.
const slowRequestThreshold = 2 * time.Second

// Logger writes one line per request. The UI shell polls /health every
// few seconds, so that path is excluded to keep the log readable.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return LoggerSkipping(log, "/health")
}

// LoggerSkipping is Logger with an explicit set of excluded paths.
func LoggerSkipping(log *logger.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(c)),
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
		}
		if query := c.Request.URL.RawQuery; query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		case latency > slowRequestThreshold:
			log.Warn("request slow", fields...)
		default:
			log.Info("request served", fields...)
		}
	}
}
