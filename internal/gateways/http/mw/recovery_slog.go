package mw

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

// RecoveryWithSlog turns a handler panic into a 500 and logs it with the stack.
func RecoveryWithSlog(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					"panic", fmt.Sprint(rec),
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"request_id", GetRequestID(c.Request.Context()),
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			}
		}()
		c.Next()
	}
}
