// Package service contains the gateway's application services. The
// authorizer is the decision engine: it resolves every identity-source value
// into a binary ALLOW/DENY decision and never fails a request outright.
package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/cloudedge-io/edgegate/internal/config"
	"github.com/cloudedge-io/edgegate/internal/domain/models"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/cache"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/monitoring"
	"github.com/cloudedge-io/edgegate/internal/infrastructure/secrets"
	"github.com/cloudedge-io/edgegate/pkg/constants"
	"github.com/cloudedge-io/edgegate/pkg/logger"
)

// AuthorizerService validates a presented token and produces an allow/deny
// decision.
type AuthorizerService interface {
	// Authorize resolves the raw identity-source value into a decision for
	// methodArn. It never returns an error: every uncertain state, including
	// a secret-store outage, folds into DENY (fail closed) so callers cannot
	// use failures as an oracle.
	Authorize(ctx context.Context, identitySource, methodArn string) *models.AuthDecision
}

type authorizerService struct {
	secrets secrets.Client
	cache   cache.DecisionCache
	cfg     config.AuthConfig
	log     logger.Logger
	metrics *monitoring.Metrics
}

// NewAuthorizerService creates the decision engine.
func NewAuthorizerService(
	secretClient secrets.Client,
	decisionCache cache.DecisionCache,
	cfg config.AuthConfig,
	log logger.Logger,
	metrics *monitoring.Metrics,
) AuthorizerService {
	return &authorizerService{
		secrets: secretClient,
		cache:   decisionCache,
		cfg:     cfg,
		log:     log.WithComponent("authorizer"),
		metrics: metrics,
	}
}

// Authorize implements AuthorizerService.
func (s *authorizerService) Authorize(ctx context.Context, identitySource, methodArn string) *models.AuthDecision {
	start := time.Now()

	// The cache key is the raw, pre-normalization value.
	if decision, found := s.cache.Get(ctx, identitySource); found {
		s.metrics.RecordDecision(string(decision.Effect), "cache", time.Since(start))
		return decision
	}

	decision := s.compute(ctx, identitySource, methodArn)
	s.cache.Set(ctx, identitySource, decision)
	s.metrics.RecordDecision(string(decision.Effect), "computed", time.Since(start))
	return decision
}

func (s *authorizerService) compute(ctx context.Context, identitySource, methodArn string) *models.AuthDecision {
	candidate, ok := normalizeToken(identitySource)
	if !ok {
		s.log.Debug(ctx, "denying malformed identity source")
		return s.deny(methodArn)
	}

	current, err := s.secrets.FetchToken(ctx)
	if err != nil {
		// Operational event only. The caller sees an ordinary DENY so store
		// outages are not observable from the outside.
		s.log.Error(ctx, "secret store unavailable, denying", err)
		return s.deny(methodArn)
	}

	if subtle.ConstantTimeCompare([]byte(candidate), []byte(current)) == 1 {
		return s.allow(methodArn)
	}

	s.log.Debug(ctx, "denying mismatched token", logger.String("token", candidate))
	return s.deny(methodArn)
}

func (s *authorizerService) allow(methodArn string) *models.AuthDecision {
	return &models.AuthDecision{
		PrincipalID: s.cfg.PrincipalID,
		Effect:      constants.EffectAllow,
		ResourceArn: methodArn,
		ExpiresAt:   time.Now().Add(s.cfg.DecisionTTLDuration()),
	}
}

func (s *authorizerService) deny(methodArn string) *models.AuthDecision {
	return &models.AuthDecision{
		PrincipalID: constants.PrincipalAnonymous,
		Effect:      constants.EffectDeny,
		ResourceArn: methodArn,
		ExpiresAt:   time.Now().Add(s.cfg.DecisionTTLDuration()),
	}
}

// normalizeToken strips the recognized scheme prefix from the raw header
// value. Returns false for values that cannot carry a credential.
func normalizeToken(identitySource string) (string, bool) {
	value := strings.TrimSpace(identitySource)
	if value == "" {
		return "", false
	}

	prefix := constants.BearerScheme + " "
	if len(value) > len(prefix) && strings.EqualFold(value[:len(prefix)], prefix) {
		value = strings.TrimSpace(value[len(prefix):])
	}

	if value == "" {
		return "", false
	}
	return value, true
}
