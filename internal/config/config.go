package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	ProviderMock   = "mock"
	ProviderRemote = "remote"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// DATABASE_URL is optional. When empty the log store runs in memory.
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"8"`

	MaxTextLength   int `envconfig:"MAX_TEXT_LENGTH" default:"1000"`
	MaxBulkSize     int `envconfig:"MAX_BULK_SIZE" default:"50"`
	BulkConcurrency int `envconfig:"BULK_CONCURRENCY" default:"4"`

	Provider            string        `envconfig:"TRANSLATION_PROVIDER" default:"mock"`
	TranslationEndpoint string        `envconfig:"TRANSLATION_ENDPOINT" default:""`
	TranslationAPIKey   string        `envconfig:"TRANSLATION_API_KEY" default:""`
	TranslationTimeout  time.Duration `envconfig:"TRANSLATION_TIMEOUT" default:"10s"`

	// ALLOWED_LANGUAGES is a comma-separated allow-list of target language
	// codes. Empty selects the built-in language catalog.
	AllowedLanguages string `envconfig:"ALLOWED_LANGUAGES" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.MaxTextLength < 1 {
		return fmt.Errorf("MAX_TEXT_LENGTH must be >= 1")
	}
	if c.MaxBulkSize < 1 {
		return fmt.Errorf("MAX_BULK_SIZE must be >= 1")
	}
	if c.BulkConcurrency < 1 {
		return fmt.Errorf("BULK_CONCURRENCY must be >= 1")
	}

	switch strings.ToLower(strings.TrimSpace(c.Provider)) {
	case ProviderMock:
	case ProviderRemote:
		if strings.TrimSpace(c.TranslationEndpoint) == "" {
			return fmt.Errorf("TRANSLATION_ENDPOINT is required when TRANSLATION_PROVIDER=remote")
		}
	default:
		return fmt.Errorf("TRANSLATION_PROVIDER must be %q or %q", ProviderMock, ProviderRemote)
	}

	if c.TranslationTimeout < time.Second {
		return fmt.Errorf("TRANSLATION_TIMEOUT must be >= 1s")
	}
	return nil
}

func (c *Config) ProviderName() string {
	if c == nil {
		return ProviderMock
	}
	return strings.ToLower(strings.TrimSpace(c.Provider))
}

// AllowedLanguageList splits ALLOWED_LANGUAGES into trimmed, de-duplicated
// lowercase codes. Returns nil when the variable is empty.
func (c *Config) AllowedLanguageList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.AllowedLanguages, ",")
	codes := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		code := strings.ToLower(strings.TrimSpace(part))
		if code == "" {
			continue
		}
		if _, exists := seen[code]; exists {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return nil
	}
	return codes
}
