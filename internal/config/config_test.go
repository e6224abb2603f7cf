package config

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Vault: VaultConfig{
			Address:    "http://127.0.0.1:8200",
			SecretPath: "edgegate/gateway",
		},
		Auth:  AuthConfig{PrincipalID: "gateway-client", DecisionTTL: 300},
		Cache: CacheConfig{Backend: "memory"},
		Backend: BackendConfig{
			ForwardTimeout: 29,
			Routes: map[string]Route{
				"customers": {Target: "http://127.0.0.1:9000"},
			},
		},
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"missing vault address", func(c *Config) { c.Vault.Address = "" }, "vault.address"},
		{"missing secret path", func(c *Config) { c.Vault.SecretPath = "" }, "vault.secret_path"},
		{"zero decision ttl", func(c *Config) { c.Auth.DecisionTTL = 0 }, "decision_ttl"},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"redis backend without addr", func(c *Config) { c.Cache.Backend = "redis" }, "redis.addr"},
		{"no routes", func(c *Config) { c.Backend.Routes = nil }, "backend.routes"},
		{"route without target", func(c *Config) {
			c.Backend.Routes["customers"] = Route{}
		}, "target"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRouteAllowsMethod(t *testing.T) {
	explicit := Route{Methods: []string{"GET", "POST"}}
	assert.True(t, explicit.AllowsMethod(http.MethodGet))
	assert.True(t, explicit.AllowsMethod(http.MethodPost))
	assert.False(t, explicit.AllowsMethod(http.MethodDelete))

	// Empty list defaults to the CRUD verbs.
	open := Route{}
	for _, m := range []string{"GET", "POST", "PUT", "DELETE", "PATCH"} {
		assert.True(t, open.AllowsMethod(m), m)
	}
	assert.False(t, open.AllowsMethod(http.MethodOptions))
	assert.False(t, open.AllowsMethod(http.MethodHead))
}

func TestDurationAccessors(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, 300*time.Second, cfg.Auth.DecisionTTLDuration())
	assert.Equal(t, 29*time.Second, cfg.Backend.ForwardTimeoutDuration())

	cfg.Vault.RefreshInterval = 600
	assert.Equal(t, 10*time.Minute, cfg.Vault.RefreshIntervalDuration())
}

func TestServerAddress(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
}
