package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	httperr "github.com/marcelobragadossantos/api-realtime/internal/core/errors"
)

// SecretHeader carries the shared-secret used by all protected endpoints.
const SecretHeader = "X-Secret-Key"

// RequestIDHeader echoes the per-request ID for log correlation.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns a request ID when the client did not send one and echoes
// it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequireSecretKey enforces the shared-secret header check: 500 when the
// server has no secret configured, 401 on mismatch.
func RequireSecretKey(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			slog.Error("Secret key not configured, rejecting request", "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusInternalServerError, httperr.ErrorResponse{
				ErrorType: httperr.HttpMisconfiguredError,
				Message:   "Secret key not configured on the server",
			})
			return
		}

		if c.GetHeader(SecretHeader) != secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.ErrorResponse{
				ErrorType: httperr.HttpUnauthorizedError,
				Message:   "Invalid secret key",
			})
			return
		}

		c.Next()
	}
}
