package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/cloudedge-io/edgegate/internal/application/service"
	"github.com/cloudedge-io/edgegate/internal/config"
	"github.com/cloudedge-io/edgegate/internal/domain/models"
	"github.com/cloudedge-io/edgegate/internal/proxy"
	"github.com/cloudedge-io/edgegate/pkg/constants"
	"github.com/cloudedge-io/edgegate/pkg/errors"
	"github.com/cloudedge-io/edgegate/pkg/logger"
)

// ProxyHandler is the gateway frontend for proxied traffic: authorize first,
// then route, then forward. The router is never invoked for a denied
// request, and routing detail is not revealed to unauthenticated callers.
type ProxyHandler struct {
	authorizer service.AuthorizerService
	router     *proxy.Router
	cfg        config.AuthConfig
	log        logger.Logger
}

// NewProxyHandler creates a new ProxyHandler.
func NewProxyHandler(
	authorizer service.AuthorizerService,
	router *proxy.Router,
	cfg config.AuthConfig,
	log logger.Logger,
) *ProxyHandler {
	return &ProxyHandler{
		authorizer: authorizer,
		router:     router,
		cfg:        cfg,
		log:        log.WithComponent("frontend"),
	}
}

// Handle serves ANY /api/:service/*proxyPath.
func (h *ProxyHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()
	service := c.Param("service")
	forwardPath := "/" + service + c.Param("proxyPath")

	identitySource := c.GetHeader(constants.HeaderAuthorization)
	methodArn := h.methodArn(c.Request.Method, forwardPath)

	decision := h.authorizer.Authorize(ctx, identitySource, methodArn)
	if !decision.Allowed() {
		respondDeny(c, identitySource != "")
		return
	}

	route, appErr := h.router.Resolve(service, c.Request.Method)
	if appErr != nil {
		respondError(c, appErr)
		return
	}

	req, err := models.ProxyRequestFromHTTP(c.Request, forwardPath)
	if err != nil {
		respondError(c, errors.ErrInvalidRequest.WithError(err))
		return
	}

	resp, err := h.router.Forward(ctx, service, route, req)
	if err != nil {
		respondError(c, errors.From(err))
		return
	}

	h.relay(c, resp)
}

// relay writes the backend response verbatim.
func (h *ProxyHandler) relay(c *gin.Context, resp *models.ProxyResponse) {
	header := c.Writer.Header()
	for key, values := range resp.Headers {
		for _, v := range values {
			header.Add(key, v)
		}
	}
	c.Status(resp.StatusCode)
	if len(resp.Body) > 0 {
		if _, err := c.Writer.Write(resp.Body); err != nil {
			h.log.Warn(c.Request.Context(), "failed to write relayed response", logger.Error(err))
		}
	}
	c.Abort()
}

// methodArn synthesizes the resource ARN for a proxied request, mirroring
// the managed gateway's "{base}/{METHOD}{path}" shape.
func (h *ProxyHandler) methodArn(method, path string) string {
	return fmt.Sprintf("%s/%s%s", h.cfg.MethodArnBase, method, path)
}
