// Package httputil provides shared HTTP response helpers.
package httputil

import (
	"github.com/gin-gonic/gin"

	"github.com/latticekb/lattice/internal/middleware"
)

// RespondError writes a standardized JSON error response and aborts the
// request. The request ID set by the request ID middleware is echoed so
// clients can correlate errors with server logs.
func RespondError(c *gin.Context, status int, code, message string) {
	var requestID string
	if rid, exists := c.Get(middleware.RequestIDKey); exists {
		if s, ok := rid.(string); ok {
			requestID = s
		}
	}

	resp := map[string]string{
		"code":    code,
		"message": message,
	}

	if requestID != "" {
		resp["request_id"] = requestID
	}

	c.AbortWithStatusJSON(status, resp)
}
