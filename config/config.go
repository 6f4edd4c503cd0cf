// Package config loads and validates the API configuration from environment
// variables.
package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tallymatic/tallymatic-api/logger"
)

// Environment is the mode the API runs in.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
	EnvTest        Environment = "test"

	minJWTLength = 32
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	// TrustedProxies lists proxy CIDRs whose forwarding headers are honoured.
	// Empty means forwarding headers are ignored.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES" yaml:"trusted_proxies"`
}

// JWTConfig holds token signing and lifetime settings.
type JWTConfig struct {
	Secret               string `mapstructure:"SECRET" yaml:"secret"`
	AccessExpiryMinutes  int    `mapstructure:"ACCESS_EXPIRATION_MINUTES" yaml:"access_expiration_minutes"`
	RefreshExpiryDays    int    `mapstructure:"REFRESH_EXPIRATION_DAYS" yaml:"refresh_expiration_days"`
	ResetPasswordMinutes int    `mapstructure:"RESET_PASSWORD_EXPIRATION_MINUTES" yaml:"reset_password_expiration_minutes"`
	VerifyEmailMinutes   int    `mapstructure:"VERIFY_EMAIL_EXPIRATION_MINUTES" yaml:"verify_email_expiration_minutes"`
}

func (c JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessExpiryMinutes) * time.Minute
}

func (c JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(c.RefreshExpiryDays) * 24 * time.Hour
}

func (c JWTConfig) ResetPasswordTTL() time.Duration {
	return time.Duration(c.ResetPasswordMinutes) * time.Minute
}

func (c JWTConfig) VerifyEmailTTL() time.Duration {
	return time.Duration(c.VerifyEmailMinutes) * time.Minute
}

// DatabaseConfig holds PostgreSQL connection details.
type DatabaseConfig struct {
	Host           string `mapstructure:"HOST" yaml:"host"`
	Port           int    `mapstructure:"PORT" yaml:"port"`
	User           string `mapstructure:"USER" yaml:"user"`
	Password       string `mapstructure:"PASSWORD" yaml:"password"`
	Name           string `mapstructure:"NAME" yaml:"name"`
	SSLMode        string `mapstructure:"SSL_MODE" yaml:"ssl_mode"`
	MaxConnections int    `mapstructure:"MAX_CONNECTIONS" yaml:"max_connections"`
	MinConnections int    `mapstructure:"MIN_CONNECTIONS" yaml:"min_connections"`
	ConnMaxLife    string `mapstructure:"CONN_MAX_LIFE" yaml:"conn_max_life"`
}

// URL returns a postgres:// URL usable by pgxpool and golang-migrate.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Address      string `mapstructure:"ADDRESS" yaml:"address"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	DB           int    `mapstructure:"DB" yaml:"db"`
	UseTLS       bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
	PoolSize     int    `mapstructure:"POOL_SIZE" yaml:"pool_size"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS" yaml:"min_idle_conns"`
}

// RateLimitConfig holds the limits for the authentication endpoints.
type RateLimitConfig struct {
	AuthRequestsPerWindow int `mapstructure:"AUTH_REQUESTS_PER_WINDOW" yaml:"auth_requests_per_window"`
	WindowSeconds         int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// EmailConfig holds settings for transactional mail.
type EmailConfig struct {
	FromAddress  string `mapstructure:"FROM_ADDRESS" yaml:"from_address"`
	FromName     string `mapstructure:"FROM_NAME" yaml:"from_name"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY" yaml:"resend_api_key"`
	// FrontendURL is the dashboard base used in reset and verification links.
	FrontendURL string `mapstructure:"FRONTEND_URL" yaml:"frontend_url"`
}

// PermissionsConfig points at an optional YAML file that replaces the built-in rules.
type PermissionsConfig struct {
	RulesFile string `mapstructure:"RULES_FILE" yaml:"rules_file"`
}

// Config aggregates all configuration sections.
type Config struct {
	Server      ServerConfig      `mapstructure:"SERVER" yaml:"server"`
	JWT         JWTConfig         `mapstructure:"JWT" yaml:"jwt"`
	Database    DatabaseConfig    `mapstructure:"DATABASE" yaml:"database"`
	Redis       RedisConfig       `mapstructure:"REDIS" yaml:"redis"`
	RateLimit   RateLimitConfig   `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
	Email       EmailConfig       `mapstructure:"EMAIL" yaml:"email"`
	Permissions PermissionsConfig `mapstructure:"PERMISSIONS" yaml:"permissions"`
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

func (c *Config) IsTest() bool {
	return c.Server.Environment == EnvTest
}

// bindEnvVars binds config keys to environment variables.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig reads the environment, applies defaults and validates the result.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "3000")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.TRUSTED_PROXIES", []string{})
	v.SetDefault("JWT.ACCESS_EXPIRATION_MINUTES", 30)
	v.SetDefault("JWT.REFRESH_EXPIRATION_DAYS", 30)
	v.SetDefault("JWT.RESET_PASSWORD_EXPIRATION_MINUTES", 10)
	v.SetDefault("JWT.VERIFY_EMAIL_EXPIRATION_MINUTES", 10)
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "tallymatic")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_CONNECTIONS", 10)
	v.SetDefault("DATABASE.MIN_CONNECTIONS", 1)
	v.SetDefault("DATABASE.CONN_MAX_LIFE", "1h")
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("REDIS.POOL_SIZE", 5)
	v.SetDefault("REDIS.MIN_IDLE_CONNS", 1)
	v.SetDefault("RATE_LIMIT.AUTH_REQUESTS_PER_WINDOW", 20)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 900)
	v.SetDefault("EMAIL.FROM_NAME", "Tallymatic")
	v.SetDefault("EMAIL.FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("PERMISSIONS.RULES_FILE", "")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		// Server
		{"SERVER.ENVIRONMENT", "ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.TRUSTED_PROXIES", "TRUSTED_PROXIES"},
		// JWT
		{"JWT.SECRET", "JWT_SECRET"},
		{"JWT.ACCESS_EXPIRATION_MINUTES", "JWT_ACCESS_EXPIRATION_MINUTES"},
		{"JWT.REFRESH_EXPIRATION_DAYS", "JWT_REFRESH_EXPIRATION_DAYS"},
		{"JWT.RESET_PASSWORD_EXPIRATION_MINUTES", "JWT_RESET_PASSWORD_EXPIRATION_MINUTES"},
		{"JWT.VERIFY_EMAIL_EXPIRATION_MINUTES", "JWT_VERIFY_EMAIL_EXPIRATION_MINUTES"},
		// Database
		{"DATABASE.HOST", "DB_HOST"},
		{"DATABASE.PORT", "DB_PORT"},
		{"DATABASE.USER", "DB_USER"},
		{"DATABASE.PASSWORD", "DB_PASSWORD"},
		{"DATABASE.NAME", "DB_NAME"},
		{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
		{"DATABASE.MAX_CONNECTIONS", "DB_MAX_CONNECTIONS"},
		// Redis
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		// Rate limit
		{"RATE_LIMIT.AUTH_REQUESTS_PER_WINDOW", "RATE_LIMIT_AUTH_REQUESTS_PER_WINDOW"},
		{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
		// Email
		{"EMAIL.FROM_ADDRESS", "EMAIL_FROM"},
		{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
		{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
		{"EMAIL.FRONTEND_URL", "FRONTEND_URL"},
		// Permissions
		{"PERMISSIONS.RULES_FILE", "PERMISSIONS_RULES_FILE"},
	}
	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"db_host", cfg.Database.Host,
		"redis_address", cfg.Redis.Address,
		"allowed_origins", cfg.Server.AllowedOrigins,
		"permissions_file", cfg.Permissions.RulesFile,
	)
	return &cfg, nil
}

type requiredSetting struct {
	name  string
	value string
}

func firstMissing(settings ...requiredSetting) error {
	for _, s := range settings {
		if strings.TrimSpace(s.value) == "" {
			return fmt.Errorf("%s is required", s.name)
		}
	}
	return nil
}

// validateConfig checks the loaded values.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	switch cfg.Server.Environment {
	case EnvDevelopment, EnvProduction, EnvTest:
	default:
		return fmt.Errorf("unknown environment %q", cfg.Server.Environment)
	}

	if err := firstMissing(
		requiredSetting{"SERVER.PORT", cfg.Server.Port},
		requiredSetting{"DATABASE.HOST", cfg.Database.Host},
		requiredSetting{"DATABASE.USER", cfg.Database.User},
		requiredSetting{"DATABASE.NAME", cfg.Database.Name},
		requiredSetting{"REDIS.ADDRESS", cfg.Redis.Address},
	); err != nil {
		return err
	}
	if cfg.IsProduction() {
		if err := firstMissing(
			requiredSetting{"EMAIL.FROM_ADDRESS", cfg.Email.FromAddress},
			requiredSetting{"EMAIL.RESEND_API_KEY", cfg.Email.ResendAPIKey},
		); err != nil {
			return err
		}
	}

	if !slices.Contains(cfg.Server.AllowedOrigins, "*") {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("allowed origin %q: %w", origin, err)
			}
		}
	}

	switch {
	case len(cfg.JWT.Secret) < minJWTLength:
		return fmt.Errorf("JWT secret must be at least %d characters long", minJWTLength)
	case cfg.JWT.AccessExpiryMinutes <= 0, cfg.JWT.RefreshExpiryDays <= 0,
		cfg.JWT.ResetPasswordMinutes <= 0, cfg.JWT.VerifyEmailMinutes <= 0:
		return fmt.Errorf("JWT expirations must be positive")
	case cfg.RateLimit.AuthRequestsPerWindow <= 0, cfg.RateLimit.WindowSeconds <= 0:
		return fmt.Errorf("rate limit settings must be positive")
	}

	if _, err := time.ParseDuration(cfg.Database.ConnMaxLife); err != nil {
		return fmt.Errorf("DATABASE.CONN_MAX_LIFE: %w", err)
	}

	if cfg.Database.Password == "" {
		log.Warn("DATABASE.PASSWORD is empty, relying on trusted authentication")
	}
	if !cfg.IsProduction() && cfg.Email.ResendAPIKey == "" {
		log.Warn("Resend API key is not set, outgoing emails will be logged only")
	}

	return nil
}
