// Package config handles configuration loading for the sentiment service.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the sentiment service.
type Config struct {
	Port        string
	Environment string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBPath     string
	DBLogSQL   bool

	RedisHost     string
	RedisPort     string
	RedisPassword string

	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
	OIDCScopes       []string
	StateSecret      string
	SessionTTL       time.Duration
	LoginStateTTL    time.Duration

	CookieDomain   string
	CookieSecure   bool
	CookieSameSite http.SameSite
	AllowedOrigins []string
	FrontendURL    string

	KafkaBrokers []string
	KafkaTopic   string

	LogLevel  string
	LogFormat string
	LogOutput string
	LogFile   string
}

var defaults = map[string]any{
	"PORT":            "5000",
	"ENVIRONMENT":     "development",
	"DB_DRIVER":       "postgres",
	"DB_PORT":         "5432",
	"DB_SSLMODE":      "disable",
	"DB_PATH":         "data/sentiment.db",
	"DB_LOG_SQL":      false,
	"REDIS_HOST":      "localhost",
	"REDIS_PORT":      "6379",
	"OIDC_SCOPES":     "openid email profile",
	"SESSION_TTL":     "24h",
	"LOGIN_STATE_TTL": "10m",
	"COOKIE_SECURE":   false,
	"COOKIE_SAMESITE": "lax",
	"ALLOWED_ORIGINS": "http://localhost:3000",
	"FRONTEND_URL":    "http://localhost:3000",
	"KAFKA_TOPIC":     "sentiment-events",
	"LOG_LEVEL":       "info",
	"LOG_FORMAT":      "json",
	"LOG_OUTPUT":      "stdout",
	"LOG_FILE":        "logs/app.log",
}

// Load reads configuration from environment variables, optionally overlaid
// by the file at path. Environment variables win over the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	sameSite, err := parseSameSite(v.GetString("COOKIE_SAMESITE"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:             v.GetString("PORT"),
		Environment:      v.GetString("ENVIRONMENT"),
		DBDriver:         strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:           v.GetString("DB_HOST"),
		DBPort:           v.GetString("DB_PORT"),
		DBUser:           v.GetString("DB_USER"),
		DBPassword:       v.GetString("DB_PASSWORD"),
		DBName:           v.GetString("DB_NAME"),
		DBSSLMode:        v.GetString("DB_SSLMODE"),
		DBPath:           v.GetString("DB_PATH"),
		DBLogSQL:         v.GetBool("DB_LOG_SQL"),
		RedisHost:        v.GetString("REDIS_HOST"),
		RedisPort:        v.GetString("REDIS_PORT"),
		RedisPassword:    v.GetString("REDIS_PASSWORD"),
		OIDCIssuer:       v.GetString("OIDC_ISSUER"),
		OIDCClientID:     v.GetString("OIDC_CLIENT_ID"),
		OIDCClientSecret: v.GetString("OIDC_CLIENT_SECRET"),
		OIDCRedirectURL:  v.GetString("OIDC_REDIRECT_URL"),
		OIDCScopes:       splitList(v.GetString("OIDC_SCOPES"), " "),
		StateSecret:      v.GetString("STATE_SECRET"),
		SessionTTL:       parseDuration(v.GetString("SESSION_TTL"), 24*time.Hour),
		LoginStateTTL:    parseDuration(v.GetString("LOGIN_STATE_TTL"), 10*time.Minute),
		CookieDomain:     v.GetString("COOKIE_DOMAIN"),
		CookieSecure:     v.GetBool("COOKIE_SECURE"),
		CookieSameSite:   sameSite,
		AllowedOrigins:   splitList(v.GetString("ALLOWED_ORIGINS"), ","),
		FrontendURL:      v.GetString("FRONTEND_URL"),
		KafkaBrokers:     splitList(v.GetString("KAFKA_BROKERS"), ","),
		KafkaTopic:       v.GetString("KAFKA_TOPIC"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogFormat:        v.GetString("LOG_FORMAT"),
		LogOutput:        v.GetString("LOG_OUTPUT"),
		LogFile:          v.GetString("LOG_FILE"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings required by the chosen driver and by the
// login flow are present.
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case "postgres", "mysql":
		for key, value := range map[string]string{
			"DB_HOST": c.DBHost, "DB_PORT": c.DBPort, "DB_USER": c.DBUser, "DB_NAME": c.DBName,
		} {
			if value == "" {
				errs = append(errs, fmt.Errorf("%s is required for driver %s", key, c.DBDriver))
			}
		}
	case "sqlite":
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH is required for driver sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}

	if c.OIDCEnabled() {
		if c.OIDCClientID == "" || c.OIDCRedirectURL == "" {
			errs = append(errs, errors.New("OIDC_CLIENT_ID and OIDC_REDIRECT_URL are required when OIDC_ISSUER is set"))
		}
		if len(c.StateSecret) < 32 {
			errs = append(errs, errors.New("STATE_SECRET must be at least 32 bytes when OIDC_ISSUER is set"))
		}
	}

	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}

	return errors.Join(errs...)
}

// OIDCEnabled reports whether an identity provider is configured.
func (c *Config) OIDCEnabled() bool {
	return c.OIDCIssuer != ""
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func parseSameSite(value string) (http.SameSite, error) {
	switch strings.ToLower(value) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("invalid COOKIE_SAMESITE %q", value)
	}
}

func splitList(value, sep string) []string {
	var out []string
	for _, part := range strings.Split(value, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
