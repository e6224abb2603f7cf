// Package handlers contains the gin HTTP handlers for the gateway frontend.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cloudedge-io/edgegate/pkg/errors"
)

// respondError writes the client-facing representation of an error. Only the
// stable code and its generic description leave the boundary; wrapped causes
// stay in the logs.
func respondError(c *gin.Context, err *errors.AppError) {
	c.JSON(err.Status, gin.H{
		"error":             err.Code,
		"error_description": err.Message,
	})
}

// respondDeny writes the platform-standard deny body: 401 when no credential
// was presented, 403 otherwise.
func respondDeny(c *gin.Context, credentialPresented bool) {
	if credentialPresented {
		c.JSON(errors.ErrForbidden.Status, gin.H{"message": "Forbidden"})
		return
	}
	c.JSON(errors.ErrUnauthorized.Status, gin.H{"message": "Unauthorized"})
}
