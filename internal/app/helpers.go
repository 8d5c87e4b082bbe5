package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/lingo/internal/cli"
	"horse.fit/lingo/internal/config"
	"horse.fit/lingo/internal/db"
	"horse.fit/lingo/internal/logstore"
	"horse.fit/lingo/internal/pipeline"
	"horse.fit/lingo/internal/translation"
)

const (
	outputFormatTable = "table"
	outputFormatJSON  = "json"
)

func parseOutputFormat(raw, defaultFormat string) (string, error) {
	format := strings.TrimSpace(strings.ToLower(raw))
	if format == "" {
		format = strings.TrimSpace(strings.ToLower(defaultFormat))
	}
	switch format {
	case outputFormatTable, outputFormatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("--format must be table or json")
	}
}

func printJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func writeTable(headers []string, rows [][]string) error {
	writer := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	if _, err := fmt.Fprintln(writer, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(writer, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return writer.Flush()
}

func loadConfig(envLoader *cli.EnvLoader) (*config.Config, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openStore selects the audit log backend: postgres when DATABASE_URL is
// set, in-memory otherwise. The returned pool is nil in memory mode.
func openStore(ctx context.Context, cfg *config.Config) (logstore.Store, *db.Pool, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return logstore.NewMemoryStore(), nil, nil
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return logstore.NewDBStore(pool), pool, nil
}

func buildProvider(cfg *config.Config) (translation.Provider, error) {
	registry := translation.NewRegistry(config.ProviderMock)
	if err := registry.Register(translation.NewMockProvider()); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.TranslationEndpoint) != "" {
		remote := translation.NewRemoteProvider(cfg.TranslationEndpoint, cfg.TranslationAPIKey, cfg.TranslationTimeout)
		if err := registry.Register(remote); err != nil {
			return nil, err
		}
	}
	return registry.Provider(cfg.ProviderName())
}

func buildPipeline(cfg *config.Config, provider translation.Provider, store logstore.Store, logger zerolog.Logger) (*pipeline.Pipeline, error) {
	validator := pipeline.NewValidator(cfg.MaxTextLength, cfg.AllowedLanguageList())
	return pipeline.New(validator, provider, store, pipeline.Options{
		MaxBulkSize:     cfg.MaxBulkSize,
		BulkConcurrency: cfg.BulkConcurrency,
	}, logger)
}

// languageCatalog lists the languages advertised by the API: the
// configured allow-list, or the built-in catalog when none is set.
func languageCatalog(cfg *config.Config) []translation.LanguageOption {
	codes := cfg.AllowedLanguageList()
	if len(codes) == 0 {
		codes = translation.DefaultLanguageCodes()
	}
	return translation.LanguageOptions(codes)
}

func commandTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 30 * time.Second
	}
	return timeout
}
