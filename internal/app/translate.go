package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/lingo/internal/cli"
	"horse.fit/lingo/internal/pipeline"
)

func runTranslate(args []string) int {
	fs := flag.NewFlagSet("translate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	targetLang := fs.String("lang", "", "Target language code (required)")
	sourceLang := fs.String("source", "", "Source language code (empty or auto = detect)")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	text := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "translate requires the text as positional arguments")
		return 2
	}
	if strings.TrimSpace(*targetLang) == "" {
		fmt.Fprintln(os.Stderr, "--lang is required")
		return 2
	}

	outputFormat, err := parseOutputFormat(*format, outputFormatTable)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid format: %v\n", err)
		return 2
	}

	cfg, err := loadConfig(envLoader)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout(*timeout))
	defer cancel()

	store, pool, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if pool != nil {
		defer pool.Close()
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build translation provider: %v\n", err)
		return 1
	}

	pl, err := buildPipeline(cfg, provider, store, zerolog.Nop())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build pipeline: %v\n", err)
		return 1
	}

	result, err := pl.Translate(ctx, pipeline.Request{
		Text:       text,
		SourceLang: *sourceLang,
		TargetLang: *targetLang,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to record translation: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(result); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		if !result.Success {
			return 1
		}
		return 0
	}

	if !result.Success {
		fmt.Fprintf(os.Stderr, "Translation failed (%s): %s\n", result.ErrorKind, result.ErrorMessage)
		return 1
	}

	rows := [][]string{
		{"request_id", result.RequestID},
		{"source_lang", result.SourceLang},
		{"target_lang", result.TargetLang},
		{"provider", result.Provider},
		{"char_count", fmt.Sprintf("%d", result.CharCount)},
		{"translated_text", result.TranslatedText},
	}
	if err := writeTable([]string{"field", "value"}, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render table: %v\n", err)
		return 1
	}

	return 0
}
