package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"barberbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request, logs the errors attached by
// handlers and recovers from panics.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				requestFields(log, c, start).
					WithField("panic", fmt.Sprintf("%v", recovered)).
					WithField("stack", string(debug.Stack())).
					Error("request panic")
				if !c.Writer.Written() {
					response.Error(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
				}
				c.Abort()
				return
			}

			entry := requestFields(log, c, start)
			for _, err := range c.Errors {
				entry.WithError(err.Err).Error("request error")
			}

			switch status := c.Writer.Status(); {
			case status >= http.StatusInternalServerError:
				entry.Error("request failed")
			case status >= http.StatusBadRequest:
				entry.Warn("request rejected")
			default:
				entry.Info("request")
			}
		}()

		c.Next()
	}
}

func requestFields(log logrus.FieldLogger, c *gin.Context, start time.Time) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"client_ip":  c.ClientIP(),
		"user_id":    UserID(c),
		"role":       Role(c),
		"request_id": RequestIDFrom(c),
		"latency":    time.Since(start).String(),
	})
}
