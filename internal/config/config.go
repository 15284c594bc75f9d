// AngelaMos | 2026
// config.go

package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App            AppConfig       `koanf:"app"`
	Server         ServerConfig    `koanf:"server"`
	Database       DatabaseConfig  `koanf:"database"`
	Redis          RedisConfig     `koanf:"redis"`
	Auth           AuthConfig      `koanf:"auth"`
	RateLimit      RateLimitConfig `koanf:"rate_limit"`
	FormsRateLimit RateLimitConfig `koanf:"forms_rate_limit"`
	Forms          FormsConfig     `koanf:"forms"`
	CORS           CORSConfig      `koanf:"cors"`
	Log            LogConfig       `koanf:"log"`
	Otel           OtelConfig      `koanf:"otel"`
	Media          MediaConfig     `koanf:"media"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

// AuthConfig describes how caller credentials are verified and who the
// founder is. Exactly one of PublicKeyPath or JWKSURL must be set.
type AuthConfig struct {
	Issuer        string `koanf:"issuer"`
	Audience      string `koanf:"audience"`
	PublicKeyPath string `koanf:"public_key_path"`
	JWKSURL       string `koanf:"jwks_url"`
	FounderEmail  string `koanf:"founder_email"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

// FormsConfig holds settings for the public lead forms. IPHashKey keys the
// hash stored in place of the sender's IP and must stay secret.
type FormsConfig struct {
	IPHashKey string `koanf:"ip_hash_key"`
}

const minIPHashKeyLen = 32

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

type MediaConfig struct {
	Dir            string `koanf:"dir"`
	BaseURL        string `koanf:"base_url"`
	MaxUploadBytes int64  `koanf:"max_upload_bytes"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		cfg, loadErr = load(configPath)
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	c.Auth.FounderEmail = strings.ToLower(strings.TrimSpace(c.Auth.FounderEmail))

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if c.Forms.IPHashKey == "" {
		key, err := randomKey()
		if err != nil {
			return nil, err
		}
		c.Forms.IPHashKey = key
	}

	return c, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "sitehub",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",
		"database.auto_migrate":       true,

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"auth.issuer":   "sitehub",
		"auth.audience": "sitehub-hub",

		"rate_limit.requests": 100,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    20,

		"forms_rate_limit.requests": 5,
		"forms_rate_limit.window":   "1m",
		"forms_rate_limit.burst":    2,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "sitehub",

		"media.dir":              "uploads",
		"media.base_url":         "/media",
		"media.max_upload_bytes": 10 << 20,
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"DATABASE_AUTO_MIGRATE":       "database.auto_migrate",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"AUTH_ISSUER":                 "auth.issuer",
	"AUTH_AUDIENCE":               "auth.audience",
	"AUTH_PUBLIC_KEY_PATH":        "auth.public_key_path",
	"AUTH_JWKS_URL":               "auth.jwks_url",
	"FOUNDER_EMAIL":               "auth.founder_email",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"FORMS_RATE_LIMIT_REQUESTS":   "forms_rate_limit.requests",
	"FORMS_RATE_LIMIT_BURST":      "forms_rate_limit.burst",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
	"MEDIA_DIR":                   "media.dir",
	"MEDIA_BASE_URL":              "media.base_url",
	"MEDIA_MAX_UPLOAD_BYTES":      "media.max_upload_bytes",
	"IP_HASH_KEY":                 "forms.ip_hash_key",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Auth.FounderEmail == "" {
		return fmt.Errorf("FOUNDER_EMAIL is required")
	}

	if c.Auth.PublicKeyPath == "" && c.Auth.JWKSURL == "" {
		return fmt.Errorf(
			"one of AUTH_PUBLIC_KEY_PATH or AUTH_JWKS_URL is required",
		)
	}

	if c.Auth.PublicKeyPath != "" && c.Auth.JWKSURL != "" {
		return fmt.Errorf(
			"AUTH_PUBLIC_KEY_PATH and AUTH_JWKS_URL are mutually exclusive",
		)
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
		if c.Forms.IPHashKey == "" {
			return fmt.Errorf("IP_HASH_KEY is required in production")
		}
	}

	if c.Forms.IPHashKey != "" && len(c.Forms.IPHashKey) < minIPHashKeyLen {
		return fmt.Errorf(
			"IP_HASH_KEY must be at least %d characters", minIPHashKeyLen,
		)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	if c.Media.MaxUploadBytes <= 0 {
		return fmt.Errorf("media.max_upload_bytes must be positive")
	}

	return nil
}

// randomKey generates a per-process hash key. Source hashes then only
// correlate within one process lifetime, which is acceptable outside
// production.
func randomKey() (string, error) {
	buf := make([]byte, minIPHashKeyLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate ip hash key: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
