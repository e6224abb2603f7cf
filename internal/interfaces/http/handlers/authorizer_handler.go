package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cloudedge-io/edgegate/internal/application/service"
	"github.com/cloudedge-io/edgegate/internal/domain/models"
	"github.com/cloudedge-io/edgegate/pkg/constants"
	"github.com/cloudedge-io/edgegate/pkg/errors"
)

// AuthorizerHandler exposes the raw custom-authorizer contract: a TOKEN
// event in, a policy document out. Denials are expressed as a Deny policy
// with HTTP 200, matching the managed-gateway contract.
type AuthorizerHandler struct {
	authorizer service.AuthorizerService
}

// NewAuthorizerHandler creates a new AuthorizerHandler.
func NewAuthorizerHandler(authorizer service.AuthorizerService) *AuthorizerHandler {
	return &AuthorizerHandler{authorizer: authorizer}
}

// Authorize handles POST /authorize.
func (h *AuthorizerHandler) Authorize(c *gin.Context) {
	var req models.AuthorizerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	if req.Type != constants.AuthorizerTypeToken || req.MethodArn == "" {
		respondError(c, errors.ErrInvalidRequest)
		return
	}

	decision := h.authorizer.Authorize(c.Request.Context(), req.AuthorizationToken, req.MethodArn)
	c.JSON(http.StatusOK, decision.ToAuthorizerResponse())
}
