package models

import (
	"io"
	"net/http"
	"net/url"
)

// ProxyRequest is the request the router forwards to the backend. The router
// must not mutate Body; method, path, query, and body are preserved exactly.
// JSON tags follow the platform's proxy-event shape; []byte bodies marshal as
// base64, which is what the IsBase64Encoded flag announces.
type ProxyRequest struct {
	HTTPMethod      string      `json:"httpMethod"`
	Path            string      `json:"path"`
	QueryParams     url.Values  `json:"queryStringParameters,omitempty"`
	Headers         http.Header `json:"headers,omitempty"`
	Body            []byte      `json:"body,omitempty"`
	IsBase64Encoded bool        `json:"isBase64Encoded"`

	// RawQuery is the query string exactly as received. The router forwards
	// it verbatim; QueryParams exists for the event shape only.
	RawQuery string `json:"-"`
}

// EncodedQuery returns the query string to forward: the raw bytes when
// captured from a live request, the re-encoded parameters otherwise.
func (p *ProxyRequest) EncodedQuery() string {
	if p.RawQuery != "" {
		return p.RawQuery
	}
	return p.QueryParams.Encode()
}

// ProxyResponse is the backend response relayed to the client.
type ProxyResponse struct {
	StatusCode      int         `json:"statusCode"`
	Headers         http.Header `json:"headers,omitempty"`
	Body            []byte      `json:"body,omitempty"`
	IsBase64Encoded bool        `json:"isBase64Encoded"`
}

// ProxyRequestFromHTTP captures an inbound HTTP request into a ProxyRequest,
// reading the body fully. Path is passed explicitly because the frontend
// rewrites the gateway's route prefix to the backend's path space.
func ProxyRequestFromHTTP(r *http.Request, path string) (*ProxyRequest, error) {
	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		body = b
	}

	return &ProxyRequest{
		HTTPMethod:      r.Method,
		Path:            path,
		QueryParams:     r.URL.Query(),
		Headers:         r.Header.Clone(),
		Body:            body,
		IsBase64Encoded: true,
		RawQuery:        r.URL.RawQuery,
	}, nil
}
