package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/pulseboard/pulseboard/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	Supabase  sharedConfig.SupabaseConfig  `mapstructure:"supabase"`
	Session   sharedConfig.SessionConfig   `mapstructure:"session"`
	Cookie    sharedConfig.CookieConfig    `mapstructure:"cookie"`
	OAuth     sharedConfig.OAuthConfig     `mapstructure:"oauth"`
	Refresh   sharedConfig.RefreshConfig   `mapstructure:"refresh"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"rate_limit"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// A missing config file is not an error; env-only deployments are supported.
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("PULSEBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := bindDeploymentEnv(); err != nil {
		return nil, err
	}

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// bindDeploymentEnv maps the unprefixed variables shared with the dashboard deployment.
func bindDeploymentEnv() error {
	bindings := map[string]string{
		"server.app_url":            "NEXT_PUBLIC_APP_URL",
		"database.url":              "DATABASE_URL",
		"redis.url":                 "REDIS_URL",
		"supabase.url":              "SUPABASE_URL",
		"supabase.anon_key":         "SUPABASE_ANON_KEY",
		"supabase.service_role_key": "SUPABASE_SERVICE_ROLE_KEY",
		"supabase.jwt_secret":       "SUPABASE_JWT_SECRET",
	}
	for key, envName := range bindings {
		if err := viper.BindEnv(key, "PULSEBOARD_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), envName); err != nil {
			return fmt.Errorf("failed to bind %s: %w", envName, err)
		}
	}
	return nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.app_url", "http://localhost:3000")
	viper.SetDefault("server.connections_path", "/dashboard/connections")
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database defaults
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.database", "pulseboard_dev")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.max_open_conns", 20)
	viper.SetDefault("database.conn_max_lifetime", 30)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Redis defaults (empty host disables the state ledger and rate limiter)
	viper.SetDefault("redis.host", "")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	// Session defaults
	viper.SetDefault("session.cookie_name", "sb-access-token")

	// Cookie defaults
	viper.SetDefault("cookie.domain", "")
	viper.SetDefault("cookie.same_site", "Lax")
	viper.SetDefault("cookie.secure", false)

	// OAuth defaults
	viper.SetDefault("oauth.state_ttl_minutes", 10)
	viper.SetDefault("oauth.exchange_timeout_seconds", 10)
	viper.SetDefault("oauth.profile_timeout_seconds", 5)

	// Token refresh defaults
	viper.SetDefault("refresh.enabled", true)
	viper.SetDefault("refresh.interval_minutes", 10)
	viper.SetDefault("refresh.window_minutes", 30)
	viper.SetDefault("refresh.batch_size", 50)

	// Rate limit defaults
	viper.SetDefault("rate_limit.limit", 20)
	viper.SetDefault("rate_limit.window_seconds", 60)
}
