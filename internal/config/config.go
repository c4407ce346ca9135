package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the flat server configuration. Values come from defaults, then
// an optional YAML file named by CONFIG_FILE, then environment variables.
type Config struct {
	Port      string `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	MongoURI      string `yaml:"mongo_uri"`
	MongoDatabase string `yaml:"mongo_database"`
	RedisURI      string `yaml:"redis_uri"`

	NATSURL     string `yaml:"nats_url"`
	NATSSubject string `yaml:"nats_subject"`

	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	AnalyticsCacheTTL time.Duration `yaml:"analytics_cache_ttl"`
	KeywordTopN       int           `yaml:"keyword_top_n"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	LoginRatePerMinute int `yaml:"login_rate_per_minute"`
	LoginBurst         int `yaml:"login_burst"`

	// TrustProxyHeaders keys the login limiter on X-Forwarded-For
	TrustProxyHeaders bool `yaml:"trust_proxy_headers"`

	AdminUsername string `yaml:"admin_username"`
	AdminEmail    string `yaml:"admin_email"`
	AdminPassword string `yaml:"admin_password"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func defaults() Config {
	return Config{
		Port:               "8080",
		LogLevel:           "info",
		LogFormat:          "json",
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "course_feedback",
		RedisURI:           "localhost:6379",
		NATSURL:            "nats://localhost:4222",
		NATSSubject:        "feedback.submitted",
		JWTSecret:          "change-me-in-production",
		TokenTTL:           24 * time.Hour,
		AnalyticsCacheTTL:  10 * time.Minute,
		KeywordTopN:        10,
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		LoginRatePerMinute: 10,
		LoginBurst:         5,
		AdminUsername:      "admin",
		AdminEmail:         "admin@university.edu",
		AdminPassword:      "admin123",
		ShutdownTimeout:    30 * time.Second,
	}
}

// Load reads .env when present, applies CONFIG_FILE and then the environment.
// A missing .env is fine; a malformed one is an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.Port = mustEnv("PORT", cfg.Port)
	cfg.LogLevel = mustEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = mustEnv("LOG_FORMAT", cfg.LogFormat)

	cfg.MongoURI = mustEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDatabase = mustEnv("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.RedisURI = mustEnv("REDIS_URI", cfg.RedisURI)

	cfg.NATSURL = mustEnv("NATS_URL", cfg.NATSURL)
	cfg.NATSSubject = mustEnv("NATS_SUBJECT", cfg.NATSSubject)

	cfg.JWTSecret = mustEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.TokenTTL = mustEnvDuration("TOKEN_TTL", cfg.TokenTTL)

	cfg.AnalyticsCacheTTL = mustEnvDuration("ANALYTICS_CACHE_TTL", cfg.AnalyticsCacheTTL)
	cfg.KeywordTopN = mustEnvInt("KEYWORD_TOP_N", cfg.KeywordTopN)

	cfg.CORSAllowedOrigins = mustEnvList("CORS_ALLOWED_ORIGINS", cfg.CORSAllowedOrigins)

	cfg.LoginRatePerMinute = mustEnvInt("LOGIN_RATE_PER_MINUTE", cfg.LoginRatePerMinute)
	cfg.LoginBurst = mustEnvInt("LOGIN_BURST", cfg.LoginBurst)
	cfg.TrustProxyHeaders = mustEnvBool("TRUST_PROXY_HEADERS", cfg.TrustProxyHeaders)

	cfg.AdminUsername = mustEnv("ADMIN_USERNAME", cfg.AdminUsername)
	cfg.AdminEmail = mustEnv("ADMIN_EMAIL", cfg.AdminEmail)
	cfg.AdminPassword = mustEnv("ADMIN_PASSWORD", cfg.AdminPassword)

	cfg.ShutdownTimeout = mustEnvDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config file: %w", err)
	}
	return nil
}

// RedisAddr strips an optional redis:// scheme from RedisURI
func (c *Config) RedisAddr() string {
	return strings.TrimPrefix(c.RedisURI, "redis://")
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func mustEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func mustEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
