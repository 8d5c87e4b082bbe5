package logstore

import (
	"context"

	"horse.fit/lingo/internal/db"
)

// DBStore persists the audit ledger in postgres through the shared pool.
type DBStore struct {
	pool *db.Pool
}

func NewDBStore(pool *db.Pool) *DBStore {
	return &DBStore{pool: pool}
}

func (s *DBStore) Append(ctx context.Context, entry *Entry) error {
	if s == nil || s.pool == nil {
		return &StorageError{Kind: ErrorKindUnavailable, Message: "database store is not initialized"}
	}
	if entry == nil {
		return &StorageError{Kind: ErrorKindCorrupt, Message: "entry is nil"}
	}
	if entry.RequestID == "" {
		return &StorageError{Kind: ErrorKindCorrupt, Message: "entry request id is required"}
	}

	var errorKind *string
	if entry.ErrorKind != "" {
		errorKind = &entry.ErrorKind
	}

	if err := s.pool.InsertTranslationLog(ctx, db.InsertTranslationLogParams{
		RequestID:  entry.RequestID,
		SourceLang: entry.SourceLang,
		TargetLang: entry.TargetLang,
		CharCount:  entry.CharCount,
		Success:    entry.Success,
		ErrorKind:  errorKind,
		LatencyMS:  entry.LatencyMS,
	}); err != nil {
		return &StorageError{Kind: ErrorKindUnavailable, Message: "append translation log", Err: err}
	}
	return nil
}

func (s *DBStore) Get(ctx context.Context, requestID string) (*Entry, error) {
	if s == nil || s.pool == nil {
		return nil, &StorageError{Kind: ErrorKindUnavailable, Message: "database store is not initialized"}
	}

	row, err := s.pool.GetTranslationLog(ctx, requestID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, &StorageError{Kind: ErrorKindUnavailable, Message: "get translation log", Err: err}
	}

	entry := Entry{
		RequestID:  row.RequestID,
		Timestamp:  row.Timestamp,
		SourceLang: row.SourceLang,
		TargetLang: row.TargetLang,
		CharCount:  row.CharCount,
		Success:    row.Success,
		LatencyMS:  row.LatencyMS,
	}
	if row.ErrorKind != nil {
		entry.ErrorKind = *row.ErrorKind
	}
	return &entry, nil
}

func (s *DBStore) Query(ctx context.Context, filter Filter) ([]Entry, string, error) {
	if s == nil || s.pool == nil {
		return nil, "", &StorageError{Kind: ErrorKindUnavailable, Message: "database store is not initialized"}
	}

	limit := normalizeLimit(filter.Limit)
	offset, err := parseCursor(filter.Cursor)
	if err != nil {
		return nil, "", &StorageError{Kind: ErrorKindCorrupt, Message: err.Error()}
	}

	rows, err := s.pool.QueryTranslationLogs(ctx, db.TranslationLogFilter{
		Since:   filter.Since,
		Until:   filter.Until,
		Success: filter.Success,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, "", &StorageError{Kind: ErrorKindUnavailable, Message: "query translation logs", Err: err}
	}

	items := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry := Entry{
			RequestID:  row.RequestID,
			Timestamp:  row.Timestamp,
			SourceLang: row.SourceLang,
			TargetLang: row.TargetLang,
			CharCount:  row.CharCount,
			Success:    row.Success,
			LatencyMS:  row.LatencyMS,
		}
		if row.ErrorKind != nil {
			entry.ErrorKind = *row.ErrorKind
		}
		items = append(items, entry)
	}

	return items, nextCursorFor(offset, len(items), limit), nil
}

func (s *DBStore) Aggregate(ctx context.Context) (*Summary, error) {
	if s == nil || s.pool == nil {
		return nil, &StorageError{Kind: ErrorKindUnavailable, Message: "database store is not initialized"}
	}

	stats, err := s.pool.AggregateTranslationLogs(ctx)
	if err != nil {
		return nil, &StorageError{Kind: ErrorKindUnavailable, Message: "aggregate translation logs", Err: err}
	}

	summary := &Summary{
		TotalRequests: stats.TotalRequests,
		SuccessCount:  stats.SuccessCount,
		FailureCount:  stats.FailureCount,
		TotalChars:    stats.TotalChars,
		LanguagePairs: make(map[string]int64, len(stats.LanguagePairs)),
	}
	for _, pair := range stats.LanguagePairs {
		summary.LanguagePairs[PairKey(pair.SourceLang, pair.TargetLang)] = pair.Count
	}
	return summary, nil
}
