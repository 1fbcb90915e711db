// Package config provides configuration loading for the shop service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	DriverMemory   = "memory"
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
)

// Config represents the complete service configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
	Auth       AuthConfig       `yaml:"auth"`
	Payment    PaymentConfig    `yaml:"payment"`
	Assistant  AssistantConfig  `yaml:"assistant"`
	Resilience ResilienceConfig `yaml:"resilience"`
}

// ServerConfig configures the HTTP listener
type ServerConfig struct {
	Port string `yaml:"port"`
	// Mode is the gin mode: debug, release or test
	Mode string `yaml:"mode"`
}

// StoreConfig selects and configures persistence
type StoreConfig struct {
	// Driver is one of memory, supabase, postgres
	Driver   string         `yaml:"driver"`
	Supabase SupabaseConfig `yaml:"supabase"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SupabaseConfig locates the hosted project
type SupabaseConfig struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
}

// PostgresConfig configures a direct database connection
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
	// Migrate creates missing tables at start-up
	Migrate bool `yaml:"migrate"`
}

// AuthConfig configures sessions and the seeded admin account
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
	// AdminEmail and AdminPasswordHash seed the admin account when both are set
	AdminEmail        string `yaml:"admin_email"`
	AdminName         string `yaml:"admin_name"`
	AdminPasswordHash string `yaml:"admin_password_hash"`
}

// PaymentConfig configures the PromptPay QR payload
type PaymentConfig struct {
	PromptPayAccount string `yaml:"promptpay_account"`
}

// AssistantConfig configures the Gemini backend
type AssistantConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ResilienceConfig bounds calls to persistence
type ResilienceConfig struct {
	Concurrency int           `yaml:"concurrency"`
	QueueWait   time.Duration `yaml:"queue_wait"`
	Timeout     time.Duration `yaml:"timeout"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Mode: "release",
		},
		Store: StoreConfig{
			Driver: DriverMemory,
		},
		Auth: AuthConfig{
			TokenTTL:  24 * time.Hour,
			AdminName: "Admin",
		},
		Payment: PaymentConfig{
			PromptPayAccount: "0820000000",
		},
		Assistant: AssistantConfig{
			Model:   "gemini-3-flash-preview",
			BaseURL: "https://generativelanguage.googleapis.com",
			Timeout: 20 * time.Second,
		},
		Resilience: ResilienceConfig{
			Concurrency: 10,
			QueueWait:   time.Second,
			Timeout:     3 * time.Second,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return fmt.Errorf("server.port must be numeric: %q", c.Server.Port)
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverSupabase:
		if c.Store.Supabase.URL == "" || c.Store.Supabase.APIKey == "" {
			return fmt.Errorf("store.supabase.url and store.supabase.api_key are required for the supabase driver")
		}
	case DriverPostgres:
		if c.Store.Postgres.DSN == "" {
			return fmt.Errorf("store.postgres.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Payment.PromptPayAccount == "" {
		return fmt.Errorf("payment.promptpay_account is required")
	}
	if c.Resilience.Concurrency < 1 {
		return fmt.Errorf("resilience.concurrency must be at least 1")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load reads path (when non-empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		var err error
		if config, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// ApplyEnv overrides fields from environment variables.
func (c *Config) ApplyEnv() error {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Mode = getEnv("GIN_MODE", c.Server.Mode)

	c.Store.Driver = getEnv("STORE_DRIVER", c.Store.Driver)
	c.Store.Supabase.URL = getEnv("SUPABASE_URL", c.Store.Supabase.URL)
	c.Store.Supabase.APIKey = getEnv("SUPABASE_ANON_KEY", c.Store.Supabase.APIKey)
	c.Store.Postgres.DSN = getEnv("DATABASE_URL", c.Store.Postgres.DSN)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.AdminEmail = getEnv("ADMIN_EMAIL", c.Auth.AdminEmail)
	c.Auth.AdminName = getEnv("ADMIN_NAME", c.Auth.AdminName)
	c.Auth.AdminPasswordHash = getEnv("ADMIN_PASSWORD_HASH", c.Auth.AdminPasswordHash)

	c.Payment.PromptPayAccount = getEnv("PROMPTPAY_ACCOUNT", c.Payment.PromptPayAccount)

	c.Assistant.APIKey = getEnv("API_KEY", c.Assistant.APIKey)
	c.Assistant.APIKey = getEnv("GEMINI_API_KEY", c.Assistant.APIKey)
	c.Assistant.Model = getEnv("GEMINI_MODEL", c.Assistant.Model)
	c.Assistant.BaseURL = getEnv("GEMINI_BASE_URL", c.Assistant.BaseURL)

	var err error
	if c.Auth.TokenTTL, err = getDuration("TOKEN_TTL", c.Auth.TokenTTL); err != nil {
		return err
	}
	if c.Assistant.Timeout, err = getDuration("GEMINI_TIMEOUT", c.Assistant.Timeout); err != nil {
		return err
	}
	if c.Resilience.Timeout, err = getDuration("STORE_TIMEOUT", c.Resilience.Timeout); err != nil {
		return err
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
