// Package models defines the gateway's core domain types: authorization
// decisions, the authorizer wire contract, and the proxied request/response
// pair.
package models

import (
	"time"

	"github.com/cloudedge-io/edgegate/pkg/constants"
)

// AuthDecision is the typed result of one authorization. It is immutable
// once computed; the effect is strictly binary. The loosely-typed policy
// document required by the platform contract is produced only at the
// boundary via ToAuthorizerResponse.
type AuthDecision struct {
	PrincipalID string            `json:"principal_id"`
	Effect      constants.Effect  `json:"effect"`
	ResourceArn string            `json:"resource_arn"`
	ExpiresAt   time.Time         `json:"expires_at"`
}

// Allowed reports whether the decision grants access.
func (d *AuthDecision) Allowed() bool {
	return d.Effect == constants.EffectAllow
}

// Expired reports whether the decision has passed its TTL. Expired decisions
// are treated as absent by every cache backend.
func (d *AuthDecision) Expired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}

// ================================================================================
// Authorizer Wire Contract
// ================================================================================

// AuthorizerRequest is the managed gateway's TOKEN authorizer input.
type AuthorizerRequest struct {
	Type               string `json:"type"`
	AuthorizationToken string `json:"authorizationToken"`
	MethodArn          string `json:"methodArn"`
}

// PolicyStatement is one statement of the boundary policy document.
type PolicyStatement struct {
	Action   string `json:"Action"`
	Effect   string `json:"Effect"`
	Resource string `json:"Resource"`
}

// PolicyDocument is the boundary policy document shape.
type PolicyDocument struct {
	Version   string            `json:"Version"`
	Statement []PolicyStatement `json:"Statement"`
}

// AuthorizerResponse is the managed gateway's authorizer output.
type AuthorizerResponse struct {
	PrincipalID    string         `json:"principalId"`
	PolicyDocument PolicyDocument `json:"policyDocument"`
}

// ToAuthorizerResponse serializes the typed decision into the platform's
// policy-document shape.
func (d *AuthDecision) ToAuthorizerResponse() *AuthorizerResponse {
	return &AuthorizerResponse{
		PrincipalID: d.PrincipalID,
		PolicyDocument: PolicyDocument{
			Version: constants.PolicyVersion,
			Statement: []PolicyStatement{
				{
					Action:   constants.ActionInvoke,
					Effect:   string(d.Effect),
					Resource: d.ResourceArn,
				},
			},
		},
	}
}
