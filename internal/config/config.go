package config

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Auth      AuthConfig
	Log       LogConfig
	Gemini    GeminiConfig
	Stripe    StripeConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Mail      MailConfig
	FreeTier  FreeTierConfig
	Client    ClientConfig
}

// MailConfig holds transactional email delivery and queue settings.
type MailConfig struct {
	Provider         string `mapstructure:"provider"`
	Region           string `mapstructure:"region"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	FromAddress      string `mapstructure:"from_address"`
	FromName         string `mapstructure:"from_name"`
	FrontendURL      string `mapstructure:"frontend_url"`
	PollIntervalSecs int    `mapstructure:"poll_interval_secs"`
	MaxRetries       int    `mapstructure:"max_retries"`
	Concurrency      int    `mapstructure:"concurrency"`
	StaleClaimSecs   int    `mapstructure:"stale_claim_secs"`
}

// FreeTierConfig holds free tier settings.
type FreeTierConfig struct {
	Limit int `mapstructure:"limit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig bounds requests per client on the AI forwarding endpoint.
type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// RedisConfig holds the optional Redis connection used for shared rate limiting.
// An empty Addr selects the in-process limiter.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GeminiConfig holds settings for the upstream generative-AI provider.
type GeminiConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	BaseURL     string `mapstructure:"base_url"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// StripeConfig holds billing provider settings.
type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	PriceID       string `mapstructure:"price_id"`
	ReturnURL     string `mapstructure:"return_url"`
	SuccessURL    string `mapstructure:"success_url"`
	CancelURL     string `mapstructure:"cancel_url"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxBodyMB    int64         `mapstructure:"max_body_mb"`
	StaticDir    string        `mapstructure:"static_dir"`
	// TrustedProxies lists proxy IPs or CIDRs whose forwarding headers are
	// honored when resolving the client IP. Empty trusts none.
	TrustedProxies []string `mapstructure:"trusted_proxies"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// AuthConfig holds settings for verifying identity tokens issued by the
// external identity service.
type AuthConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClientConfig holds settings for the bidcheck CLI.
type ClientConfig struct {
	ServerURL    string        `mapstructure:"server_url"`
	Token        string        `mapstructure:"token"`
	MaxRetries   uint64        `mapstructure:"max_retries"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	TimeoutSecs  int           `mapstructure:"timeout_secs"`
}

// Load reads configuration from environment variables with the BIDCHECK_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BIDCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_body_mb", 50)
	v.SetDefault("server.static_dir", "web/dist")
	v.SetDefault("server.trusted_proxies", "")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "bidcheck")
	v.SetDefault("db.password", "bidcheck_secret")
	v.SetDefault("db.name", "bidcheck_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Auth defaults
	v.SetDefault("auth.secret", "change-me-in-production")
	v.SetDefault("auth.issuer", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta/models")
	v.SetDefault("gemini.timeout_secs", 120)

	// Stripe defaults
	v.SetDefault("stripe.secret_key", "")
	v.SetDefault("stripe.webhook_secret", "")
	v.SetDefault("stripe.price_id", "")
	v.SetDefault("stripe.return_url", "http://localhost:3000/evaluate")
	v.SetDefault("stripe.success_url", "http://localhost:3000/evaluate?checkout=success")
	v.SetDefault("stripe.cancel_url", "http://localhost:3000/evaluate?checkout=cancel")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Rate limit defaults
	v.SetDefault("rate_limit.max_requests", 100)
	v.SetDefault("rate_limit.window", "15m")

	// Redis defaults
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Mail defaults
	v.SetDefault("mail.provider", "noop")
	v.SetDefault("mail.region", "us-east-1")
	v.SetDefault("mail.from_address", "noreply@bidcheck.app")
	v.SetDefault("mail.from_name", "BidCheck")
	v.SetDefault("mail.frontend_url", "http://localhost:3000")
	v.SetDefault("mail.poll_interval_secs", 10)
	v.SetDefault("mail.max_retries", 5)
	v.SetDefault("mail.concurrency", 4)
	v.SetDefault("mail.stale_claim_secs", 600)

	// Free tier defaults
	v.SetDefault("free_tier.limit", 3)

	// Client defaults
	v.SetDefault("client.server_url", "http://localhost:8080")
	v.SetDefault("client.token", "")
	v.SetDefault("client.max_retries", 3)
	v.SetDefault("client.initial_delay", "1s")
	v.SetDefault("client.timeout_secs", 180)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "BIDCHECK_SERVER_PORT",
		"server.read_timeout":     "BIDCHECK_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "BIDCHECK_SERVER_WRITE_TIMEOUT",
		"server.environment":      "BIDCHECK_SERVER_ENVIRONMENT",
		"server.max_body_mb":      "BIDCHECK_SERVER_MAX_BODY_MB",
		"server.static_dir":       "BIDCHECK_SERVER_STATIC_DIR",
		"db.host":                 "BIDCHECK_DB_HOST",
		"server.trusted_proxies":  "BIDCHECK_SERVER_TRUSTED_PROXIES",
		"db.port":                 "BIDCHECK_DB_PORT",
		"db.user":                 "BIDCHECK_DB_USER",
		"db.password":             "BIDCHECK_DB_PASSWORD",
		"db.name":                 "BIDCHECK_DB_NAME",
		"db.sslmode":              "BIDCHECK_DB_SSLMODE",
		"db.max_open":             "BIDCHECK_DB_MAX_OPEN",
		"db.max_idle":             "BIDCHECK_DB_MAX_IDLE",
		"auth.secret":             "BIDCHECK_AUTH_SECRET",
		"auth.issuer":             "BIDCHECK_AUTH_ISSUER",
		"log.level":               "BIDCHECK_LOG_LEVEL",
		"log.format":              "BIDCHECK_LOG_FORMAT",
		"gemini.api_key":          "BIDCHECK_GEMINI_API_KEY",
		"gemini.model":            "BIDCHECK_GEMINI_MODEL",
		"gemini.base_url":         "BIDCHECK_GEMINI_BASE_URL",
		"gemini.timeout_secs":     "BIDCHECK_GEMINI_TIMEOUT_SECS",
		"stripe.secret_key":       "BIDCHECK_STRIPE_SECRET_KEY",
		"stripe.webhook_secret":   "BIDCHECK_STRIPE_WEBHOOK_SECRET",
		"stripe.price_id":         "BIDCHECK_STRIPE_PRICE_ID",
		"stripe.return_url":       "BIDCHECK_STRIPE_RETURN_URL",
		"stripe.success_url":      "BIDCHECK_STRIPE_SUCCESS_URL",
		"stripe.cancel_url":       "BIDCHECK_STRIPE_CANCEL_URL",
		"cors.allowed_origins":    "BIDCHECK_CORS_ALLOWED_ORIGINS",
		"rate_limit.max_requests": "BIDCHECK_RATE_LIMIT_MAX_REQUESTS",
		"rate_limit.window":       "BIDCHECK_RATE_LIMIT_WINDOW",
		"redis.addr":              "BIDCHECK_REDIS_ADDR",
		"redis.password":          "BIDCHECK_REDIS_PASSWORD",
		"redis.db":                "BIDCHECK_REDIS_DB",
		"mail.provider":           "BIDCHECK_MAIL_PROVIDER",
		"mail.region":             "BIDCHECK_MAIL_REGION",
		"mail.access_key":         "BIDCHECK_MAIL_ACCESS_KEY",
		"mail.secret_key":         "BIDCHECK_MAIL_SECRET_KEY",
		"mail.from_address":       "BIDCHECK_MAIL_FROM_ADDRESS",
		"mail.from_name":          "BIDCHECK_MAIL_FROM_NAME",
		"mail.frontend_url":       "BIDCHECK_MAIL_FRONTEND_URL",
		"mail.poll_interval_secs": "BIDCHECK_MAIL_POLL_INTERVAL_SECS",
		"mail.max_retries":        "BIDCHECK_MAIL_MAX_RETRIES",
		"mail.concurrency":        "BIDCHECK_MAIL_CONCURRENCY",
		"mail.stale_claim_secs":   "BIDCHECK_MAIL_STALE_CLAIM_SECS",
		"free_tier.limit":         "BIDCHECK_FREE_TIER_LIMIT",
		"client.server_url":       "BIDCHECK_CLIENT_SERVER_URL",
		"client.token":            "BIDCHECK_CLIENT_TOKEN",
		"client.max_retries":      "BIDCHECK_CLIENT_MAX_RETRIES",
		"client.initial_delay":    "BIDCHECK_CLIENT_INITIAL_DELAY",
		"client.timeout_secs":     "BIDCHECK_CLIENT_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BIDCHECK_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BIDCHECK_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxBodyMB:    v.GetInt64("server.max_body_mb"),
		StaticDir:    v.GetString("server.static_dir"),

		TrustedProxies: splitList(v.GetString("server.trusted_proxies")),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Auth = AuthConfig{
		Secret: v.GetString("auth.secret"),
		Issuer: v.GetString("auth.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Gemini = GeminiConfig{
		APIKey:      v.GetString("gemini.api_key"),
		Model:       v.GetString("gemini.model"),
		BaseURL:     v.GetString("gemini.base_url"),
		TimeoutSecs: v.GetInt("gemini.timeout_secs"),
	}
	cfg.Stripe = StripeConfig{
		SecretKey:     v.GetString("stripe.secret_key"),
		WebhookSecret: v.GetString("stripe.webhook_secret"),
		PriceID:       v.GetString("stripe.price_id"),
		ReturnURL:     v.GetString("stripe.return_url"),
		SuccessURL:    v.GetString("stripe.success_url"),
		CancelURL:     v.GetString("stripe.cancel_url"),
	}

	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	cfg.RateLimit = RateLimitConfig{
		MaxRequests: v.GetInt("rate_limit.max_requests"),
		Window:      v.GetDuration("rate_limit.window"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}

	cfg.Mail = MailConfig{
		Provider:         v.GetString("mail.provider"),
		Region:           v.GetString("mail.region"),
		AccessKey:        v.GetString("mail.access_key"),
		SecretKey:        v.GetString("mail.secret_key"),
		FromAddress:      v.GetString("mail.from_address"),
		FromName:         v.GetString("mail.from_name"),
		FrontendURL:      v.GetString("mail.frontend_url"),
		PollIntervalSecs: v.GetInt("mail.poll_interval_secs"),
		MaxRetries:       v.GetInt("mail.max_retries"),
		Concurrency:      v.GetInt("mail.concurrency"),
		StaleClaimSecs:   v.GetInt("mail.stale_claim_secs"),
	}

	cfg.FreeTier = FreeTierConfig{
		Limit: v.GetInt("free_tier.limit"),
	}

	cfg.Client = ClientConfig{
		ServerURL:    v.GetString("client.server_url"),
		Token:        v.GetString("client.token"),
		MaxRetries:   v.GetUint64("client.max_retries"),
		InitialDelay: v.GetDuration("client.initial_delay"),
		TimeoutSecs:  v.GetInt("client.timeout_secs"),
	}

	if cfg.FreeTier.Limit < 0 {
		return nil, fmt.Errorf("free_tier.limit must be non-negative, got %d", cfg.FreeTier.Limit)
	}
	for _, p := range cfg.Server.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return nil, fmt.Errorf("server.trusted_proxies: %q is not an IP or CIDR", p)
			}
		}
	}
	if cfg.RateLimit.MaxRequests <= 0 || cfg.RateLimit.Window <= 0 {
		return nil, fmt.Errorf("rate_limit.max_requests and rate_limit.window must be positive")
	}

	return cfg, nil
}

// splitList parses a comma-separated setting, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
