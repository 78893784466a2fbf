// Package config loads relay settings from the environment (optionally seeded
// from a .env file) and an optional YAML overlay for the tables operators edit.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const defaultOpenAIURL = "https://api.openai.com/v1/chat/completions"

// Config holds all relay configuration.
type Config struct {
	Port    string
	GinMode string

	Log      LogConfig
	Database DatabaseConfig
	Auth     AuthConfig
	LLM      LLMConfig
	SMTP     SMTPConfig
	Redis    RedisConfig
	Sweep    SweepConfig
	HTTP     HTTPConfig

	// Overlay tables (from CONFIG_FILE); empty means built-in defaults.
	Providers []ProviderConfig `yaml:"smtp_providers"`
	LeadRules []LeadRuleConfig `yaml:"lead_rules"`
}

// LogConfig configures zap.
type LogConfig struct {
	Level  string
	Format string // json | console
}

// DatabaseConfig selects the driver and connection.
type DatabaseConfig struct {
	Driver       string // postgres | mysql
	URL          string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	MaxOpenConns int
}

// AuthConfig configures bearer token validation. Empty secret disables auth.
type AuthConfig struct {
	JWTSecret string
}

// LLMConfig configures the transcript analysis model.
type LLMConfig struct {
	Provider      string // openai | gemini | none
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiKey     string
	GeminiModel   string
	Timeout       time.Duration
}

// SMTPConfig holds the system sender account.
type SMTPConfig struct {
	User      string
	Password  string
	FromName  string
	ContactTo string
	Timeout   time.Duration
}

// Configured reports whether the system account can send.
func (c SMTPConfig) Configured() bool {
	return c.User != "" && c.Password != ""
}

// RedisConfig enables the distributed lead lock when URL is set.
type RedisConfig struct {
	URL string
}

// SweepConfig schedules background analysis of unanalyzed calls.
type SweepConfig struct {
	Schedule    string
	Batch       int
	Concurrency int
}

// HTTPConfig holds middleware knobs.
type HTTPConfig struct {
	RateLimitRPS   int
	RateLimitBurst int
	CORSOrigins    []string
}

// ProviderConfig maps sender domains to SMTP settings.
type ProviderConfig struct {
	Domains []string `yaml:"domains"`
	Host    string   `yaml:"host"`
	Port    int      `yaml:"port"`
	SSL     bool     `yaml:"ssl"`
}

// LeadRuleConfig is one ordered lead classification rule.
type LeadRuleConfig struct {
	Status string `yaml:"status"`
	When   string `yaml:"when"`
}

// Load reads .env (if present), the environment and CONFIG_FILE (if set).
func Load() (*Config, error) {
	// Missing .env is normal in deployed environments
	_ = godotenv.Load()

	cfg := FromEnv()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadOverlay(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from the process environment with defaults applied.
func FromEnv() *Config {
	cfg := &Config{
		Port:    getEnv("PORT", "3001"),
		GinMode: getEnv("GIN_MODE", "release"),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			URL:          os.Getenv("DATABASE_URL"),
			Host:         os.Getenv("TIDB_HOST"),
			Port:         getEnv("TIDB_PORT", "4000"),
			User:         os.Getenv("TIDB_USER"),
			Password:     os.Getenv("TIDB_PASSWORD"),
			Name:         getEnv("TIDB_DATABASE", "inbound"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		LLM: LLMConfig{
			Provider:      strings.ToLower(os.Getenv("LLM_PROVIDER")),
			OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", defaultOpenAIURL),
			OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			GeminiKey:     os.Getenv("GEMINI_API_KEY"),
			GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			Timeout:       getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		},
		SMTP: SMTPConfig{
			User:      os.Getenv("SMTP_USER"),
			Password:  os.Getenv("SMTP_PASS"),
			FromName:  getEnv("SMTP_FROM_NAME", "Inbound"),
			ContactTo: os.Getenv("CONTACT_EMAIL_TO"),
			Timeout:   getEnvDuration("SMTP_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Sweep: SweepConfig{
			Schedule:    os.Getenv("ANALYSIS_SWEEP_SCHEDULE"),
			Batch:       getEnvInt("ANALYSIS_SWEEP_BATCH", 20),
			Concurrency: getEnvInt("ANALYSIS_SWEEP_CONCURRENCY", 4),
		},
		HTTP: HTTPConfig{
			RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 5),
			RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
			CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		},
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = cfg.LLM.inferProvider()
	}
	return cfg
}

// inferProvider picks the provider whose credentials are present. With none,
// analysis is disabled and the relay runs email-only.
func (c LLMConfig) inferProvider() string {
	switch {
	case c.OpenAIKey != "":
		return "openai"
	case c.GeminiKey != "":
		return "gemini"
	case c.OpenAIBaseURL != "" && c.OpenAIBaseURL != defaultOpenAIURL:
		return "openai"
	default:
		return "none"
	}
}

// LoadOverlay merges the YAML file at path into the config.
func (c *Config) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return c.ApplyOverlay(data)
}

// ApplyOverlay merges YAML overlay bytes into the config.
func (c *Config) ApplyOverlay(data []byte) error {
	var overlay struct {
		Providers []ProviderConfig `yaml:"smtp_providers"`
		LeadRules []LeadRuleConfig `yaml:"lead_rules"`
	}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if len(overlay.Providers) > 0 {
		c.Providers = overlay.Providers
	}
	if len(overlay.LeadRules) > 0 {
		c.LeadRules = overlay.LeadRules
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want postgres or mysql)", c.Database.Driver)
	}

	switch c.LLM.Provider {
	case "openai":
		// A keyless OpenAI-compatible endpoint is fine when it is not the hosted API
		if c.LLM.OpenAIKey == "" && (c.LLM.OpenAIBaseURL == "" || c.LLM.OpenAIBaseURL == defaultOpenAIURL) {
			return fmt.Errorf("LLM_PROVIDER=openai requires OPENAI_API_KEY or a custom OPENAI_BASE_URL")
		}
	case "gemini":
		if c.LLM.GeminiKey == "" {
			return fmt.Errorf("LLM_PROVIDER=gemini requires GEMINI_API_KEY")
		}
	case "", "none":
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q", c.LLM.Provider)
	}

	for i, p := range c.Providers {
		if len(p.Domains) == 0 || p.Host == "" || p.Port <= 0 {
			return fmt.Errorf("smtp_providers[%d]: domains, host and port are required", i)
		}
	}
	for i, r := range c.LeadRules {
		if r.Status == "" || r.When == "" {
			return fmt.Errorf("lead_rules[%d]: status and when are required", i)
		}
	}
	if c.Sweep.Batch <= 0 || c.Sweep.Concurrency <= 0 {
		return fmt.Errorf("ANALYSIS_SWEEP_BATCH and ANALYSIS_SWEEP_CONCURRENCY must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
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

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
