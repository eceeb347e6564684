// Package config loads the application configuration from environment
// variables. envconfig maps the variables onto the Config struct; a .env
// file is honored in development via godotenv (loaded in main).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries every runtime setting of the service.
type Config struct {
	// --- HTTP ---
	Port           string   `envconfig:"PORT" default:"8080"`
	SessionSecret  string   `envconfig:"SESSION_SECRET" default:"secret_key_change_me"`
	CORSOriginsRaw string   `envconfig:"CORS_ORIGINS" default:"http://localhost:5173"`
	CORSOrigins    []string `envconfig:"-"`

	// --- Database ---
	DatabaseURL string `envconfig:"DATABASE_URL" default:"host=localhost user=postgres password=postgres dbname=spurningar port=5432 sslmode=disable"`

	// --- Identity ---
	// Email addresses ending in this suffix are granted the admin role on
	// account creation and login. Empty disables the rule; explicit
	// promotion by an existing admin always works.
	AdminEmailSuffix string `envconfig:"ADMIN_EMAIL_SUFFIX" default:"@spurningar.is"`

	// --- Publish gateway (external video rendering) ---
	PublishURL     string        `envconfig:"PUBLISH_URL"`
	PublishTimeout time.Duration `envconfig:"PUBLISH_TIMEOUT" default:"10s"`

	// --- AI generation collaborator ---
	LLMBaseURL string        `envconfig:"LLM_BASE_URL"`
	LLMToken   string        `envconfig:"LLM_TOKEN"`
	LLMModel   string        `envconfig:"LLM_MODEL" default:"gpt-4o-mini"`
	LLMTimeout time.Duration `envconfig:"LLM_TIMEOUT" default:"30s"`

	// --- Text-to-speech collaborator ---
	SpeechURL     string        `envconfig:"SPEECH_URL"`
	SpeechVoice   string        `envconfig:"SPEECH_VOICE" default:"is-IS-GudrunNeural"`
	SpeechTimeout time.Duration `envconfig:"SPEECH_TIMEOUT" default:"15s"`

	// --- Logging ---
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the environment and fills the Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.CORSOrigins = splitCSV(cfg.CORSOriginsRaw)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.PublishTimeout <= 0 || c.LLMTimeout <= 0 || c.SpeechTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
