package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/m77ag/backend/internal/interfaces/http/dto"
)

const bodyTooLargeMessage = "Request body exceeds maximum allowed size"

// BodyLimit returns a middleware that limits request body size. Routes
// that accept uploads get their own, larger limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRequestTooLarge,
				bodyTooLargeMessage,
				c.GetString(RequestIDKey),
			))
			return
		}

		// chunked bodies have no Content-Length; HandleValidationError reports the overflow
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
