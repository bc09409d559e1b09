package config

import (
	"fmt"
	"strings"
	"time"
)

type ServerConfig struct {
	Host            string   `mapstructure:"host"`
	Port            int      `mapstructure:"port"`
	Mode            string   `mapstructure:"mode"`
	AppURL          string   `mapstructure:"app_url"`
	ConnectionsPath string   `mapstructure:"connections_path"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether the server runs in gin release mode.
func (s *ServerConfig) IsProduction() bool {
	return s.Mode == "release"
}

// BaseURL returns the application URL without a trailing slash.
func (s *ServerConfig) BaseURL() string {
	return strings.TrimRight(s.AppURL, "/")
}

type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	URL             string `mapstructure:"url"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// GetDSN builds a driver specific DSN. An explicit URL always wins.
func (d *DatabaseConfig) GetDSN() string {
	if d.URL != "" {
		return d.URL
	}
	switch d.Driver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.Username, d.Password, d.Host, d.Port, d.Database)
	case "sqlite":
		return d.Database
	default:
		sslMode := d.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			d.Host, d.Port, d.Username, d.Password, d.Database, sslMode)
	}
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Enabled reports whether any Redis endpoint is configured.
func (r *RedisConfig) Enabled() bool {
	return r.URL != "" || r.Host != ""
}

// SupabaseConfig holds the hosted auth provider settings.
type SupabaseConfig struct {
	URL            string `mapstructure:"url"`
	AnonKey        string `mapstructure:"anon_key"`
	ServiceRoleKey string `mapstructure:"service_role_key"`
	JWTSecret      string `mapstructure:"jwt_secret"`
}

type SessionConfig struct {
	CookieName string `mapstructure:"cookie_name"`
}

type CookieConfig struct {
	Domain   string `mapstructure:"domain"`
	SameSite string `mapstructure:"same_site"`
	// Secure forces the Secure flag outside release mode.
	Secure bool `mapstructure:"secure"`
}

type OAuthConfig struct {
	StateTTLMinutes        int `mapstructure:"state_ttl_minutes"`
	ExchangeTimeoutSeconds int `mapstructure:"exchange_timeout_seconds"`
	ProfileTimeoutSeconds  int `mapstructure:"profile_timeout_seconds"`
}

func (o *OAuthConfig) StateTTL() time.Duration {
	return time.Duration(o.StateTTLMinutes) * time.Minute
}

func (o *OAuthConfig) ExchangeTimeout() time.Duration {
	return time.Duration(o.ExchangeTimeoutSeconds) * time.Second
}

func (o *OAuthConfig) ProfileTimeout() time.Duration {
	return time.Duration(o.ProfileTimeoutSeconds) * time.Second
}

type RefreshConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalMinutes int  `mapstructure:"interval_minutes"`
	WindowMinutes   int  `mapstructure:"window_minutes"`
	BatchSize       int  `mapstructure:"batch_size"`
}

type RateLimitConfig struct {
	Limit         int `mapstructure:"limit"`
	WindowSeconds int `mapstructure:"window_seconds"`
}
