// Package cache provides TTL-bounded storage for authorization decisions,
// keyed by the raw identity-source value. Expired entries are treated as
// absent so a decision is never served past its TTL.
package cache

import (
	"context"

	"github.com/cloudedge-io/edgegate/internal/domain/models"
)

// DecisionCache maps an identity-source value to a previously computed
// decision. Backends degrade to a miss on any internal failure; the
// authorizer then recomputes, which keeps the gateway fail-closed without
// coupling request success to cache health.
type DecisionCache interface {
	// Get returns the unexpired decision for key, or (nil, false).
	Get(ctx context.Context, key string) (*models.AuthDecision, bool)

	// Set stores the decision under key for the backend's TTL.
	Set(ctx context.Context, key string, decision *models.AuthDecision)
}
