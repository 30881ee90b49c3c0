package middleware

import (
	"crypto/subtle"
	"net/http"

	"barberbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CallbackToken protects gateway callbacks with a shared secret passed as the
// "token" query parameter or the X-Callback-Token header. An empty secret
// disables the check.
func CallbackToken(secret string, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		token := c.Query("token")
		if token == "" {
			token = c.GetHeader("X-Callback-Token")
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			log.WithFields(logrus.Fields{
				"request_id": RequestIDFrom(c),
				"client_ip":  c.ClientIP(),
				"path":       c.Request.URL.Path,
			}).Warn("callback rejected: invalid token")
			response.Abort(c, http.StatusUnauthorized, "INVALID_CALLBACK_TOKEN", "Invalid callback token")
			return
		}
		c.Next()
	}
}
