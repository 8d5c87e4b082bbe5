package logstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound reports a lookup for a request id with no ledger entry.
var ErrNotFound = errors.New("log entry not found")

const (
	// DefaultQueryLimit applies when a query does not name a page size.
	DefaultQueryLimit = 50
	// MaxQueryLimit caps a single log page.
	MaxQueryLimit = 500
)

// Entry is one immutable audit record of a processed translation request.
type Entry struct {
	RequestID  string    `json:"request_id"`
	Timestamp  time.Time `json:"timestamp"`
	SourceLang string    `json:"source_lang"`
	TargetLang string    `json:"target_lang"`
	CharCount  int       `json:"char_count"`
	Success    bool      `json:"success"`
	ErrorKind  string    `json:"error_kind,omitempty"`
	LatencyMS  int64     `json:"latency_ms"`
}

// Filter narrows and paginates log queries.
type Filter struct {
	Since   *time.Time
	Until   *time.Time
	Success *bool
	Limit   int
	Cursor  string
}

// Summary is the aggregate view over the full log history.
type Summary struct {
	TotalRequests int64            `json:"total_requests"`
	SuccessCount  int64            `json:"success_count"`
	FailureCount  int64            `json:"failure_count"`
	TotalChars    int64            `json:"total_chars"`
	LanguagePairs map[string]int64 `json:"language_pairs"`
}

// Store is an append-only, queryable record of every processed request.
// Append is all-or-nothing and safe for concurrent use; entries are never
// updated or deleted once appended.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	Get(ctx context.Context, requestID string) (*Entry, error)
	Query(ctx context.Context, filter Filter) (items []Entry, nextCursor string, err error)
	Aggregate(ctx context.Context) (*Summary, error)
}

// ErrorKind classifies storage failures.
type ErrorKind string

const (
	ErrorKindUnavailable ErrorKind = "unavailable"
	ErrorKindCorrupt     ErrorKind = "corrupt"
)

// StorageError is a typed log store failure. It is fatal to the request
// that triggered it: the pipeline never returns an unlogged success.
type StorageError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("log store %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("log store %s: %s", e.Kind, e.Message)
}

func (e *StorageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PairKey builds the language pair bucket key used by Summary.
func PairKey(sourceLang, targetLang string) string {
	return sourceLang + "->" + targetLang
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		return MaxQueryLimit
	}
	return limit
}

func parseCursor(cursor string) (int, error) {
	trimmed := strings.TrimSpace(cursor)
	if trimmed == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(trimmed)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("cursor must be a non-negative integer")
	}
	return offset, nil
}

func nextCursorFor(offset, returned, limit int) string {
	if returned < limit {
		return ""
	}
	return strconv.Itoa(offset + returned)
}
