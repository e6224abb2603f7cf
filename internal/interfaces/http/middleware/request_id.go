// Package middleware contains the gin middleware chain for the gateway.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cloudedge-io/edgegate/pkg/constants"
)

// RequestID assigns each request a correlation id, honoring one supplied by
// the caller, and exposes it on the response and the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Header(constants.HeaderRequestID, requestID)
		c.Next()
	}
}
