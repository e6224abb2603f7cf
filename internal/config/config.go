package config

import (
	"fmt"
	"net/http"
	"time"
)

// Config holds the gateway's configuration. Every component receives the
// section it needs at construction; nothing reads the process environment at
// call sites.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Vault   VaultConfig   `mapstructure:"vault"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Backend BackendConfig `mapstructure:"backend"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int      `mapstructure:"idle_timeout"`  // in seconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Address returns the listen address for the HTTP server.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// VaultConfig locates the shared bearer token in the encrypted secret store.
type VaultConfig struct {
	Address         string `mapstructure:"address"`
	Token           string `mapstructure:"token"`
	MountPath       string `mapstructure:"mount_path"`
	SecretPath      string `mapstructure:"secret_path"`
	SecretField     string `mapstructure:"secret_field"`
	RefreshInterval int    `mapstructure:"refresh_interval"` // in seconds
}

// AuthConfig controls the authorization decision engine.
type AuthConfig struct {
	// PrincipalID is the owner identity stamped on ALLOW decisions.
	PrincipalID string `mapstructure:"principal_id"`
	// DecisionTTL is the cache TTL for computed decisions, in seconds.
	DecisionTTL int `mapstructure:"decision_ttl"`
	// MethodArnBase prefixes the synthesized method ARN for proxied requests.
	MethodArnBase string `mapstructure:"method_arn_base"`
}

// CacheConfig selects the decision-cache backend.
type CacheConfig struct {
	// Backend is "memory" (default) or "redis".
	Backend string `mapstructure:"backend"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// BackendConfig describes the compute cluster behind the gateway.
type BackendConfig struct {
	// ForwardTimeout bounds a single backend call, in seconds.
	ForwardTimeout int `mapstructure:"forward_timeout"`
	// Routes maps a service path prefix to its backend target.
	Routes map[string]Route `mapstructure:"routes"`
}

// Route is one entry in the routing table: which methods a service accepts
// and where its backend lives.
type Route struct {
	Target  string   `mapstructure:"target"`
	Methods []string `mapstructure:"methods"`
}

// AllowsMethod reports whether the route accepts the given HTTP method. An
// empty list allows the standard CRUD verbs.
func (r *Route) AllowsMethod(method string) bool {
	if len(r.Methods) == 0 {
		switch method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
			return true
		}
		return false
	}
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DecisionTTLDuration returns the decision TTL as a duration.
func (c *AuthConfig) DecisionTTLDuration() time.Duration {
	return time.Duration(c.DecisionTTL) * time.Second
}

// ForwardTimeoutDuration returns the forwarding timeout as a duration.
func (c *BackendConfig) ForwardTimeoutDuration() time.Duration {
	return time.Duration(c.ForwardTimeout) * time.Second
}

// RefreshIntervalDuration returns the secret refresh interval as a duration.
func (c *VaultConfig) RefreshIntervalDuration() time.Duration {
	return time.Duration(c.RefreshInterval) * time.Second
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Vault.Address == "" {
		return fmt.Errorf("vault.address is required")
	}
	if c.Vault.SecretPath == "" {
		return fmt.Errorf("vault.secret_path is required")
	}
	if c.Auth.DecisionTTL <= 0 {
		return fmt.Errorf("auth.decision_ttl must be positive, got %d", c.Auth.DecisionTTL)
	}
	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("cache.backend must be \"memory\" or \"redis\", got %q", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when cache.backend is \"redis\"")
	}
	if len(c.Backend.Routes) == 0 {
		return fmt.Errorf("backend.routes must define at least one service")
	}
	for service, route := range c.Backend.Routes {
		if route.Target == "" {
			return fmt.Errorf("backend.routes.%s.target is required", service)
		}
	}
	return nil
}
