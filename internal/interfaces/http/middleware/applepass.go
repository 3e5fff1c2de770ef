package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cardwallet/internal/shared/constants"
	"cardwallet/internal/shared/logger"
)

// ApplePassAuth checks the "Authorization: ApplePass <token>" header devices
// send on write calls. Responses are bare status codes; the device protocol
// has no error bodies.
func ApplePassAuth(authToken string, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(constants.HeaderAuthorization)
		if header == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != constants.ApplePassScheme {
			log.Debugw("malformed pass authorization header", "client_ip", c.ClientIP())
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		if subtle.ConstantTimeCompare([]byte(parts[1]), []byte(authToken)) != 1 {
			log.Warnw("pass authorization token mismatch", "client_ip", c.ClientIP())
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}
