// Package constants defines system-wide constants for the edge gateway.
package constants

import "time"

// ================================================================================
// Authorization Constants
// ================================================================================

// Effect represents the outcome of an authorization decision.
type Effect string

const (
	// EffectAllow grants the request access to the backend.
	EffectAllow Effect = "Allow"

	// EffectDeny refuses the request before any byte reaches the backend.
	EffectDeny Effect = "Deny"
)

const (
	// BearerScheme is the recognized authorization scheme prefix, stripped
	// from the identity-source value before comparison.
	BearerScheme = "Bearer"

	// PrincipalAnonymous is the principal recorded on denied decisions.
	PrincipalAnonymous = "anonymous"

	// PolicyVersion is the policy document version required by the
	// managed-gateway authorizer contract.
	PolicyVersion = "2012-10-17"

	// ActionInvoke is the single action the gateway ever grants or denies.
	ActionInvoke = "execute-api:Invoke"

	// AuthorizerTypeToken is the only authorizer input type the gateway accepts.
	AuthorizerTypeToken = "TOKEN"
)

// ================================================================================
// HTTP Header Constants
// ================================================================================

const (
	// HeaderAuthorization carries the identity-source value.
	HeaderAuthorization = "Authorization"

	// HeaderRequestID carries the per-request correlation id.
	HeaderRequestID = "X-Request-ID"
)

// ================================================================================
// Timing Defaults
// ================================================================================

const (
	// DefaultDecisionTTL bounds how long a computed decision may be served
	// from cache. Matches the platform authorizer cache TTL.
	DefaultDecisionTTL = 300 * time.Second

	// DefaultForwardTimeout bounds a single backend call. Matches the
	// platform's hard execution ceiling.
	DefaultForwardTimeout = 29 * time.Second

	// DefaultSecretRefreshInterval is how often the cached secret copy is
	// refreshed in the background.
	DefaultSecretRefreshInterval = 5 * time.Minute
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey is a dedicated type for context values to avoid collisions.
type ContextKey string

const (
	// ContextKeyRequestID holds the request correlation id.
	ContextKeyRequestID ContextKey = "request_id"
)
