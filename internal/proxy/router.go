// Package proxy forwards authorized requests to the backend compute cluster
// and relays the response unmodified. Method, path, query string, and body
// bytes are preserved exactly; only hop-by-hop headers are stripped.
package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloudedge-io/edgegate/internal/config"
	"github.com/cloudedge-io/edgegate/internal/domain/models"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/monitoring"
	apperrors "github.com/cloudedge-io/edgegate/pkg/errors"
	"github.com/cloudedge-io/edgegate/pkg/logger"
)

// hopByHopHeaders are stripped in both directions. Everything else passes
// through untouched.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"TE",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Router forwards proxy requests to backend targets.
type Router struct {
	client  *http.Client
	cfg     config.BackendConfig
	log     logger.Logger
	metrics *monitoring.Metrics
}

// NewRouter creates a backend router. The forwarding timeout is enforced per
// call via context, not on the shared client, so client cancellation and the
// platform ceiling compose.
func NewRouter(cfg config.BackendConfig, log logger.Logger, metrics *monitoring.Metrics) *Router {
	return &Router{
		client: &http.Client{
			// Redirects are relayed to the client, not followed.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		cfg:     cfg,
		log:     log.WithComponent("proxy"),
		metrics: metrics,
	}
}

// Resolve looks up a service in the routing table and checks its method
// allow list.
func (rt *Router) Resolve(service, method string) (*config.Route, *apperrors.AppError) {
	route, ok := rt.cfg.Routes[service]
	if !ok {
		return nil, apperrors.ErrServiceNotFound
	}
	if !route.AllowsMethod(method) {
		return nil, apperrors.ErrMethodNotAllowed
	}
	return &route, nil
}

// Forward sends the request to the route's backend target and returns the
// relayed response. Mutating verbs are never retried; GET gets at most one
// retry on a transient network failure, and never after cancellation.
func (rt *Router) Forward(ctx context.Context, service string, route *config.Route, req *models.ProxyRequest) (*models.ProxyResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, rt.cfg.ForwardTimeoutDuration())
	defer cancel()

	start := time.Now()

	resp, err := rt.attempt(ctx, route.Target, req)
	if err != nil && rt.shouldRetry(ctx, req.HTTPMethod, err) {
		rt.log.Warn(ctx, "transient backend failure, retrying once",
			logger.String("method", req.HTTPMethod),
			logger.String("path", req.Path),
			logger.Error(err))
		resp, err = rt.attempt(ctx, route.Target, req)
	}

	if err != nil {
		appErr := rt.classify(err)
		rt.metrics.RecordProxyError(appErr.Code)
		rt.log.Error(ctx, "backend forward failed", err,
			logger.String("method", req.HTTPMethod),
			logger.String("path", req.Path))
		return nil, appErr
	}

	rt.metrics.RecordForward(service, req.HTTPMethod, strconv.Itoa(resp.StatusCode), time.Since(start))
	return resp, nil
}

// attempt performs a single backend call.
func (rt *Router) attempt(ctx context.Context, target string, req *models.ProxyRequest) (*models.ProxyResponse, error) {
	u, err := buildTargetURL(target, req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.HTTPMethod, u, bytes.NewReader(req.Body))
	if err != nil {
		return nil, err
	}

	copyHeaders(httpReq.Header, req.Headers)
	if len(req.Body) > 0 {
		httpReq.ContentLength = int64(len(req.Body))
	}

	httpResp, err := rt.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	respHeaders := make(http.Header)
	copyHeaders(respHeaders, httpResp.Header)

	return &models.ProxyResponse{
		StatusCode:      httpResp.StatusCode,
		Headers:         respHeaders,
		Body:            body,
		IsBase64Encoded: true,
	}, nil
}

// shouldRetry permits one retry for GET on a transient network failure.
// Never after cancellation or timeout: a timed-out call has already consumed
// the execution ceiling, and a cancelled client is gone.
func (rt *Router) shouldRetry(ctx context.Context, method string, err error) bool {
	if method != http.MethodGet {
		return false
	}
	if ctx.Err() != nil {
		return false
	}

	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return false
	}
	if urlErr.Timeout() {
		return false
	}
	return true
}

// classify maps transport failures onto the coarse router error taxonomy.
func (rt *Router) classify(err error) *apperrors.AppError {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return apperrors.ErrBackendTimeout.WithError(err)
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.ErrBadGateway.WithError(err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return apperrors.ErrBackendUnreachable.WithError(err)
	}
	return apperrors.ErrBadGateway.WithError(err)
}

func isTimeout(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

// buildTargetURL joins the backend target with the preserved path and query.
func buildTargetURL(target string, req *models.ProxyRequest) (string, error) {
	base, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid backend target %q: %w", target, err)
	}

	u := *base
	u.Path = strings.TrimSuffix(base.Path, "/") + req.Path
	u.RawQuery = req.EncodedQuery()
	return u.String(), nil
}

// copyHeaders copies src into dst, skipping hop-by-hop headers and any
// headers they name.
func copyHeaders(dst, src http.Header) {
	dropped := make(map[string]bool, len(hopByHopHeaders))
	for _, h := range hopByHopHeaders {
		dropped[http.CanonicalHeaderKey(h)] = true
	}
	// Connection may name additional per-hop headers.
	for _, v := range src.Values("Connection") {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				dropped[http.CanonicalHeaderKey(name)] = true
			}
		}
	}

	for key, values := range src {
		if dropped[http.CanonicalHeaderKey(key)] {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}
