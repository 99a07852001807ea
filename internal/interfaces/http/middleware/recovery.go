package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/Odnson/fobi-amaturalist-sub002/internal/infrastructure/monitoring/logging"
	"github.com/Odnson/fobi-amaturalist-sub002/pkg/errors"
)

// Recovery turns a handler panic into a logged 500 with the standard error
// body.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.Error("Panic recovered",
				logging.String("panic", fmt.Sprint(r)),
				logging.String("path", c.Request.URL.Path),
				logging.String("request_id", GetRequestID(c)),
				logging.String("stack", string(debug.Stack())))
			if c.Writer.Written() {
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":    false,
				"code":       string(errors.ErrCodeInternal),
				"message":    errors.DefaultMessageForCode(errors.ErrCodeInternal),
				"request_id": GetRequestID(c),
			})
		}()
		c.Next()
	}
}

//Personal.AI order the ending
