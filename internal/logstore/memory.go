package logstore

import (
	"context"
	"sync"

	"horse.fit/lingo/internal/globaltime"
	"horse.fit/lingo/internal/language"
)

// MemoryStore keeps the audit ledger in process memory. It backs the
// service when no DATABASE_URL is configured and substitutes for the
// database store in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
	byID    map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make([]Entry, 0, 64),
		byID:    make(map[string]int, 64),
	}
}

// Append records one entry. The timestamp is assigned under the write lock
// and clamped to be non-decreasing across appends.
func (s *MemoryStore) Append(_ context.Context, entry *Entry) error {
	if s == nil {
		return &StorageError{Kind: ErrorKindUnavailable, Message: "memory store is nil"}
	}
	if entry == nil {
		return &StorageError{Kind: ErrorKindCorrupt, Message: "entry is nil"}
	}
	if entry.RequestID == "" {
		return &StorageError{Kind: ErrorKindCorrupt, Message: "entry request id is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[entry.RequestID]; exists {
		return &StorageError{Kind: ErrorKindCorrupt, Message: "duplicate request id " + entry.RequestID}
	}

	stamped := *entry
	stamped.Timestamp = globaltime.UTC()
	if n := len(s.entries); n > 0 && stamped.Timestamp.Before(s.entries[n-1].Timestamp) {
		stamped.Timestamp = s.entries[n-1].Timestamp
	}

	s.entries = append(s.entries, stamped)
	s.byID[stamped.RequestID] = len(s.entries) - 1
	entry.Timestamp = stamped.Timestamp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, requestID string) (*Entry, error) {
	if s == nil {
		return nil, &StorageError{Kind: ErrorKindUnavailable, Message: "memory store is nil"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, ok := s.byID[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	entry := s.entries[index]
	return &entry, nil
}

func (s *MemoryStore) Query(_ context.Context, filter Filter) ([]Entry, string, error) {
	if s == nil {
		return nil, "", &StorageError{Kind: ErrorKindUnavailable, Message: "memory store is nil"}
	}

	limit := normalizeLimit(filter.Limit)
	offset, err := parseCursor(filter.Cursor)
	if err != nil {
		return nil, "", &StorageError{Kind: ErrorKindCorrupt, Message: err.Error()}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]Entry, 0, limit)
	skipped := 0
	// Entries are stored oldest first; walk backwards for timestamp DESC.
	for i := len(s.entries) - 1; i >= 0 && len(matched) < limit; i-- {
		entry := s.entries[i]
		if !matchesFilter(entry, filter) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		matched = append(matched, entry)
	}

	return matched, nextCursorFor(offset, len(matched), limit), nil
}

func (s *MemoryStore) Aggregate(_ context.Context) (*Summary, error) {
	if s == nil {
		return nil, &StorageError{Kind: ErrorKindUnavailable, Message: "memory store is nil"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	summary := &Summary{
		LanguagePairs: make(map[string]int64, 8),
	}
	for _, entry := range s.entries {
		summary.TotalRequests++
		if entry.Success {
			summary.SuccessCount++
		} else {
			summary.FailureCount++
		}
		summary.TotalChars += int64(entry.CharCount)
		if language.IsAuto(entry.SourceLang) {
			continue
		}
		summary.LanguagePairs[PairKey(entry.SourceLang, entry.TargetLang)]++
	}
	return summary, nil
}

// Len reports the number of appended entries.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of all entries in append order.
func (s *MemoryStore) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func matchesFilter(entry Entry, filter Filter) bool {
	if filter.Since != nil && entry.Timestamp.Before(*filter.Since) {
		return false
	}
	if filter.Until != nil && !entry.Timestamp.Before(*filter.Until) {
		return false
	}
	if filter.Success != nil && entry.Success != *filter.Success {
		return false
	}
	return true
}
