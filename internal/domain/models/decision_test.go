package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudedge-io/edgegate/internal/domain/models"
	"github.com/cloudedge-io/edgegate/pkg/constants"
)

func TestAuthDecision_Expired(t *testing.T) {
	now := time.Now()
	decision := &models.AuthDecision{
		Effect:    constants.EffectAllow,
		ExpiresAt: now.Add(300 * time.Second),
	}

	assert.False(t, decision.Expired(now))
	assert.False(t, decision.Expired(now.Add(299*time.Second)))
	assert.True(t, decision.Expired(now.Add(300*time.Second)))
	assert.True(t, decision.Expired(now.Add(time.Hour)))
}

func TestAuthDecision_ToAuthorizerResponse(t *testing.T) {
	arn := "arn:aws:execute-api:local:000000000000:edgegate/live/GET/customers/42"
	decision := &models.AuthDecision{
		PrincipalID: "gateway-client",
		Effect:      constants.EffectAllow,
		ResourceArn: arn,
		ExpiresAt:   time.Now().Add(time.Minute),
	}

	resp := decision.ToAuthorizerResponse()

	assert.Equal(t, "gateway-client", resp.PrincipalID)
	assert.Equal(t, "2012-10-17", resp.PolicyDocument.Version)
	require.Len(t, resp.PolicyDocument.Statement, 1)

	stmt := resp.PolicyDocument.Statement[0]
	assert.Equal(t, "execute-api:Invoke", stmt.Action)
	assert.Equal(t, "Allow", stmt.Effect)
	assert.Equal(t, arn, stmt.Resource)
}

func TestAuthDecision_ToAuthorizerResponse_Deny(t *testing.T) {
	decision := &models.AuthDecision{
		PrincipalID: constants.PrincipalAnonymous,
		Effect:      constants.EffectDeny,
		ResourceArn: "arn:aws:execute-api:local:000000000000:edgegate/live/POST/customers",
	}

	resp := decision.ToAuthorizerResponse()

	assert.Equal(t, "anonymous", resp.PrincipalID)
	require.Len(t, resp.PolicyDocument.Statement, 1)
	assert.Equal(t, "Deny", resp.PolicyDocument.Statement[0].Effect)
}
