package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the gateway
type Config struct {
	// Server configuration
	ServerHost string `yaml:"server_host"`
	ServerPort string `yaml:"server_port"`

	// Meal sources
	PrimaryAPIURL  string        `yaml:"primary_api_url"`
	FallbackAPIURL string        `yaml:"fallback_api_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// Database configuration
	DBDriver    string `yaml:"db_driver"`
	DatabaseURL string `yaml:"database_url"`

	// Redis backs the rate limiter; an empty URL selects the in-process limiter
	RedisURL string `yaml:"redis_url"`

	// JWT configuration
	JWTSecret string `yaml:"-"`

	RateLimit   int      `yaml:"rate_limit"`
	CORSOrigins []string `yaml:"cors_origins"`
	LogLevel    string   `yaml:"log_level"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		ServerHost:     "0.0.0.0",
		ServerPort:     "8080",
		FallbackAPIURL: "https://www.themealdb.com/api/json/v1/1",
		RequestTimeout: 15 * time.Second,
		DBDriver:       DriverSQLite,
		DatabaseURL:    "cookup.db",
		RateLimit:      60,
		CORSOrigins:    []string{"http://localhost:5173", "http://frontend:5173"},
		LogLevel:       "info",
	}
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by COOKUP_CONFIG, environment variables and secrets, then validates it.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg, err := load(env)
	if err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg, env); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadClientConfig loads the configuration like LoadConfig but only enforces
// what is needed to query the meal sources. An unset PRIMARY_API_URL leaves
// the fallback catalog as the only working source.
func LoadClientConfig() (*Config, error) {
	cfg, err := load(GetEnvironment())
	if err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg, Test); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func load(env Environment) (*Config, error) {
	cfg := Default()

	if path := os.Getenv("COOKUP_CONFIG"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// CI only ever sees secrets as variables; elsewhere they may be Docker secrets
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" && env != CI {
		cfg.JWTSecret = readSecret("jwt_secret")
	}
	return cfg, nil
}

func loadEnv(cfg *Config) error {
	setString(&cfg.ServerHost, "SERVER_HOST")
	setString(&cfg.ServerPort, "SERVER_PORT")
	setString(&cfg.PrimaryAPIURL, "PRIMARY_API_URL")
	setString(&cfg.FallbackAPIURL, "FALLBACK_API_URL")
	setString(&cfg.DBDriver, "DB_DRIVER")
	setString(&cfg.DatabaseURL, "DATABASE_URL")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	if v := os.Getenv("RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = n
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
