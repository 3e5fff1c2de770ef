package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cardwallet/internal/shared/constants"
)

// RequestID attaches a request id, preferring one supplied by the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)
		c.Next()
	}
}
