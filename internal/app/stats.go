package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"horse.fit/lingo/internal/cli"
)

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	timeout := fs.Duration("timeout", 30*time.Second, "Command timeout")
	format := fs.String("format", outputFormatTable, "Output format: table or json")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "stats does not accept positional arguments")
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
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		fmt.Fprintln(os.Stderr, "stats requires DATABASE_URL, the in-memory store has no history across processes")
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout(*timeout))
	defer cancel()

	store, pool, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer pool.Close()

	summary, err := store.Aggregate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to aggregate translation logs: %v\n", err)
		return 1
	}

	if outputFormat == outputFormatJSON {
		if err := printJSON(summary); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	totalsRows := [][]string{
		{"total_requests", fmt.Sprintf("%d", summary.TotalRequests)},
		{"success_count", fmt.Sprintf("%d", summary.SuccessCount)},
		{"failure_count", fmt.Sprintf("%d", summary.FailureCount)},
		{"total_chars", fmt.Sprintf("%d", summary.TotalChars)},
	}
	if err := writeTable([]string{"metric", "value"}, totalsRows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render totals table: %v\n", err)
		return 1
	}

	if len(summary.LanguagePairs) == 0 {
		return 0
	}

	pairs := make([]string, 0, len(summary.LanguagePairs))
	for pair := range summary.LanguagePairs {
		pairs = append(pairs, pair)
	}
	sort.Strings(pairs)

	pairRows := make([][]string, 0, len(pairs))
	for _, pair := range pairs {
		pairRows = append(pairRows, []string{pair, fmt.Sprintf("%d", summary.LanguagePairs[pair])})
	}

	fmt.Println()
	if err := writeTable([]string{"language_pair", "requests"}, pairRows); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to render language pair table: %v\n", err)
		return 1
	}

	return 0
}
