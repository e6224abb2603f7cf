package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads the configuration from file and environment variables.
// File lookup order: /etc/edgegate/config.yaml, ./configs/config.yaml,
// ./config.yaml. Environment variables use the EDGEGATE_ prefix with
// underscores for section separators (EDGEGATE_SERVER_PORT).
func LoadConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/edgegate/")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("EDGEGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 35)
	v.SetDefault("server.idle_timeout", 120)

	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.secret_field", "token")
	v.SetDefault("vault.refresh_interval", 300)

	v.SetDefault("auth.principal_id", "gateway-client")
	v.SetDefault("auth.decision_ttl", 300)
	v.SetDefault("auth.method_arn_base", "arn:aws:execute-api:local:000000000000:edgegate/live")

	v.SetDefault("cache.backend", "memory")

	v.SetDefault("backend.forward_timeout", 29)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
