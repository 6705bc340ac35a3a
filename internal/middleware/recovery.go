package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nnhurricane156/phygen-portal/internal/logger"
	"github.com/nnhurricane156/phygen-portal/internal/response"
)

// Recovery converts handler panics into a clean envelope so one broken
// code path never kills the portal process. The panic value goes to the
// log; the client only ever sees a generic message.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("request_id", GetRequestID(c)),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
				)
				response.InternalError(c, errors.New("internal error"))
				c.Abort()
			}
		}()

		c.Next()
	}
}
