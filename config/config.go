// ABOUTME: Runtime configuration for MarketMind
// ABOUTME: Loads .env files from the working and XDG config dirs, then parses environment variables
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// AppName names the XDG subdirectories used for config and logs.
const AppName = "marketmind"

// ErrMissingAPIKey is returned by Validate when no provider credential is set.
var ErrMissingAPIKey = errors.New("gemini API key not configured: set GEMINI_API_KEY or API_KEY")

// Models holds the model identifier used by each adapter.
type Models struct {
	Chat     string `env:"MARKETMIND_CHAT_MODEL" envDefault:"gemini-3-pro-preview"`
	Pitch    string `env:"MARKETMIND_PITCH_MODEL" envDefault:"gemini-3-pro-preview"`
	Campaign string `env:"MARKETMIND_CAMPAIGN_MODEL" envDefault:"gemini-3-flash-preview"`
	Market   string `env:"MARKETMIND_MARKET_MODEL" envDefault:"gemini-3-flash-preview"`
	Leads    string `env:"MARKETMIND_LEADS_MODEL" envDefault:"gemini-3-flash-preview"`
	Insight  string `env:"MARKETMIND_INSIGHT_MODEL" envDefault:"gemini-flash-lite-latest"`
}

type Config struct {
	APIKey string `env:"GEMINI_API_KEY"`
	// LegacyAPIKey is the variable name the browser build read.
	LegacyAPIKey string `env:"API_KEY"`

	Models Models

	EmailDomain        string `env:"MARKETMIND_EMAIL_DOMAIN" envDefault:"gmail.com"`
	ChatThinkingBudget int32  `env:"MARKETMIND_CHAT_THINKING_BUDGET" envDefault:"2000"`
	InsightTopic       string `env:"MARKETMIND_INSIGHT_TOPIC" envDefault:"Modern Sales Strategies"`

	HTTPAddr string `env:"MARKETMIND_HTTP_ADDR" envDefault:":8080"`
	LogLevel string `env:"MARKETMIND_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"MARKETMIND_LOG_FILE"`
}

// DotEnvPaths returns the .env files consulted by Load, highest precedence first.
func DotEnvPaths() []string {
	return []string{
		".env",
		filepath.Join(xdg.ConfigHome, AppName, ".env"),
	}
}

// Load reads any .env files that exist and parses the environment.
// Variables already set in the process environment win over file values.
func Load() (*Config, error) {
	for _, path := range DotEnvPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return FromEnv()
}

// FromEnv parses the process environment without touching .env files.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = cfg.LegacyAPIKey
	}
	return &cfg, nil
}

// Validate checks the settings needed to talk to the provider.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// DefaultLogFile is where the TUI writes logs when MARKETMIND_LOG_FILE is unset.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, AppName, "marketmind.log")
}

// DefaultModels returns the built-in model ids, ignoring the environment.
func DefaultModels() Models {
	var m Models
	// Defaults cannot fail to parse; an empty environment only applies envDefault.
	_ = env.ParseWithOptions(&m, env.Options{Environment: map[string]string{}})
	return m
}
