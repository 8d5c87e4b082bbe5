package db

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TranslationLogRow is one audit ledger row as read back by queries.
type TranslationLogRow struct {
	RequestID  string
	Timestamp  time.Time
	SourceLang string
	TargetLang string
	CharCount  int
	Success    bool
	ErrorKind  *string
	LatencyMS  int64
}

// InsertTranslationLogParams controls one audit ledger insert.
type InsertTranslationLogParams struct {
	RequestID  string
	SourceLang string
	TargetLang string
	CharCount  int
	Success    bool
	ErrorKind  *string
	LatencyMS  int64
}

// TranslationLogFilter narrows audit ledger reads.
type TranslationLogFilter struct {
	Since   *time.Time
	Until   *time.Time
	Success *bool
	Limit   int
	Offset  int
}

// LanguagePairCount is one (source, target) usage bucket.
type LanguagePairCount struct {
	SourceLang string
	TargetLang string
	Count      int64
}

// TranslationLogStats is the aggregate read model over the full ledger.
type TranslationLogStats struct {
	TotalRequests int64
	SuccessCount  int64
	FailureCount  int64
	TotalChars    int64
	LanguagePairs []LanguagePairCount
}

// InsertTranslationLog appends one row. The timestamp is assigned by the
// database so that concurrent appends order by insertion.
func (p *Pool) InsertTranslationLog(ctx context.Context, params InsertTranslationLogParams) error {
	const q = `
INSERT INTO translation_logs (request_id, timestamp, source_lang, target_lang, char_count, success, error_kind, latency_ms)
VALUES ($1, now(), $2, $3, $4, $5, $6, $7)
`
	if err := p.Exec(ctx, q,
		params.RequestID,
		params.SourceLang,
		params.TargetLang,
		params.CharCount,
		params.Success,
		params.ErrorKind,
		params.LatencyMS,
	); err != nil {
		return fmt.Errorf("insert translation log: %w", err)
	}
	return nil
}

// GetTranslationLog reads one ledger row by request id. Returns ErrNoRows
// when no entry with that id was ever appended.
func (p *Pool) GetTranslationLog(ctx context.Context, requestID string) (*TranslationLogRow, error) {
	const q = `
SELECT request_id::text, timestamp, source_lang, target_lang, char_count, success, error_kind, latency_ms
FROM translation_logs
WHERE request_id = $1
`
	var row TranslationLogRow
	if err := p.QueryRow(ctx, q, requestID).Scan(
		&row.RequestID,
		&row.Timestamp,
		&row.SourceLang,
		&row.TargetLang,
		&row.CharCount,
		&row.Success,
		&row.ErrorKind,
		&row.LatencyMS,
	); err != nil {
		if IsNoRows(err) {
			return nil, ErrNoRows
		}
		return nil, fmt.Errorf("get translation log: %w", err)
	}
	return &row, nil
}

// QueryTranslationLogs returns ledger rows ordered newest first.
func (p *Pool) QueryTranslationLogs(ctx context.Context, filter TranslationLogFilter) ([]TranslationLogRow, error) {
	var sb strings.Builder
	sb.WriteString(`
SELECT request_id::text, timestamp, source_lang, target_lang, char_count, success, error_kind, latency_ms
FROM translation_logs
`)

	conditions := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if filter.Since != nil {
		args = append(args, filter.Since.UTC())
		conditions = append(conditions, "timestamp >= $"+strconv.Itoa(len(args)))
	}
	if filter.Until != nil {
		args = append(args, filter.Until.UTC())
		conditions = append(conditions, "timestamp < $"+strconv.Itoa(len(args)))
	}
	if filter.Success != nil {
		args = append(args, *filter.Success)
		conditions = append(conditions, "success = $"+strconv.Itoa(len(args)))
	}
	if len(conditions) > 0 {
		sb.WriteString("WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
		sb.WriteString("\n")
	}

	sb.WriteString("ORDER BY timestamp DESC, log_id DESC\n")

	args = append(args, filter.Limit)
	sb.WriteString("LIMIT $" + strconv.Itoa(len(args)) + "\n")
	args = append(args, filter.Offset)
	sb.WriteString("OFFSET $" + strconv.Itoa(len(args)) + "\n")

	rows, err := p.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query translation logs: %w", err)
	}
	defer rows.Close()

	items := make([]TranslationLogRow, 0, filter.Limit)
	for rows.Next() {
		var row TranslationLogRow
		if err := rows.Scan(
			&row.RequestID,
			&row.Timestamp,
			&row.SourceLang,
			&row.TargetLang,
			&row.CharCount,
			&row.Success,
			&row.ErrorKind,
			&row.LatencyMS,
		); err != nil {
			return nil, fmt.Errorf("scan translation log row: %w", err)
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate translation log rows: %w", err)
	}
	return items, nil
}

// AggregateTranslationLogs computes exact counters over the full ledger.
// Language pair buckets exclude rows whose source language was never
// resolved ("auto" stays on failed detection-only rows).
func (p *Pool) AggregateTranslationLogs(ctx context.Context) (*TranslationLogStats, error) {
	stats := &TranslationLogStats{
		LanguagePairs: make([]LanguagePairCount, 0, 16),
	}

	const totalsQuery = `
SELECT
	COUNT(*)::BIGINT AS total_requests,
	COUNT(*) FILTER (WHERE success)::BIGINT AS success_count,
	COUNT(*) FILTER (WHERE NOT success)::BIGINT AS failure_count,
	COALESCE(SUM(char_count), 0)::BIGINT AS total_chars
FROM translation_logs
`
	if err := p.QueryRow(ctx, totalsQuery).Scan(
		&stats.TotalRequests,
		&stats.SuccessCount,
		&stats.FailureCount,
		&stats.TotalChars,
	); err != nil {
		return nil, fmt.Errorf("query translation log totals: %w", err)
	}

	const pairsQuery = `
SELECT source_lang, target_lang, COUNT(*)::BIGINT AS pair_count
FROM translation_logs
WHERE source_lang <> 'auto'
GROUP BY source_lang, target_lang
ORDER BY pair_count DESC, source_lang, target_lang
`
	rows, err := p.Query(ctx, pairsQuery)
	if err != nil {
		return nil, fmt.Errorf("query translation log language pairs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var row LanguagePairCount
		if err := rows.Scan(&row.SourceLang, &row.TargetLang, &row.Count); err != nil {
			return nil, fmt.Errorf("scan language pair row: %w", err)
		}
		stats.LanguagePairs = append(stats.LanguagePairs, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate language pair rows: %w", err)
	}

	return stats, nil
}
