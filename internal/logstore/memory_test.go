package logstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"horse.fit/lingo/internal/globaltime"
)

func appendEntry(t *testing.T, store *MemoryStore, requestID string, success bool, chars int) Entry {
	t.Helper()

	entry := Entry{
		RequestID:  requestID,
		SourceLang: "en",
		TargetLang: "fr",
		CharCount:  chars,
		Success:    success,
	}
	if err := store.Append(context.Background(), &entry); err != nil {
		t.Fatalf("append %s: %v", requestID, err)
	}
	return entry
}

func TestMemoryStore_AppendAssignsNonDecreasingTimestamps(t *testing.T) {
	store := NewMemoryStore()

	globaltime.Freeze(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	defer globaltime.Reset()

	first := appendEntry(t, store, "req-1", true, 5)

	// Clock moves backwards; the store must clamp.
	globaltime.Freeze(time.Date(2026, 8, 29, 11, 0, 0, 0, time.UTC))
	second := appendEntry(t, store, "req-2", true, 5)

	if second.Timestamp.Before(first.Timestamp) {
		t.Fatalf("expected non-decreasing timestamps, got %v then %v", first.Timestamp, second.Timestamp)
	}
}

func TestMemoryStore_RejectsDuplicateRequestID(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	appendEntry(t, store, "req-1", true, 5)

	err := store.Append(context.Background(), &Entry{RequestID: "req-1", SourceLang: "en", TargetLang: "fr"})
	if err == nil {
		t.Fatalf("expected duplicate request id to fail")
	}
}

func TestMemoryStore_GetFindsEntryByRequestID(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	appendEntry(t, store, "req-1", true, 5)
	appendEntry(t, store, "req-2", false, 7)

	entry, err := store.Get(context.Background(), "req-2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry.RequestID != "req-2" || entry.Success || entry.CharCount != 7 {
		t.Fatalf("unexpected entry: %+v", entry)
	}

	if _, err := store.Get(context.Background(), "req-3"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown request id, got %v", err)
	}
}

func TestMemoryStore_QueryOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	for i := 0; i < 5; i++ {
		appendEntry(t, store, fmt.Sprintf("req-%d", i), i%2 == 0, 10)
	}

	items, _, err := store.Query(context.Background(), Filter{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(items))
	}
	if items[0].RequestID != "req-4" || items[4].RequestID != "req-0" {
		t.Fatalf("unexpected order: first=%s last=%s", items[0].RequestID, items[4].RequestID)
	}
}

func TestMemoryStore_QueryFiltersBySuccess(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	appendEntry(t, store, "ok", true, 1)
	appendEntry(t, store, "bad", false, 1)

	failed := false
	items, _, err := store.Query(context.Background(), Filter{Success: &failed, Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(items) != 1 || items[0].RequestID != "bad" {
		t.Fatalf("unexpected filtered items: %+v", items)
	}
}

func TestMemoryStore_CursorPaginationWalksWholeLog(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	for i := 0; i < 7; i++ {
		appendEntry(t, store, fmt.Sprintf("req-%d", i), true, 1)
	}

	seen := make(map[string]struct{})
	cursor := ""
	for page := 0; page < 10; page++ {
		items, next, err := store.Query(context.Background(), Filter{Limit: 3, Cursor: cursor})
		if err != nil {
			t.Fatalf("query page %d: %v", page, err)
		}
		for _, item := range items {
			if _, dup := seen[item.RequestID]; dup {
				t.Fatalf("duplicate item %s across pages", item.RequestID)
			}
			seen[item.RequestID] = struct{}{}
		}
		if next == "" {
			break
		}
		cursor = next
	}
	if len(seen) != 7 {
		t.Fatalf("expected to walk all 7 entries, saw %d", len(seen))
	}
}

func TestMemoryStore_AggregateCountsAndPairs(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	appendEntry(t, store, "a", true, 5)
	appendEntry(t, store, "b", false, 3)
	if err := store.Append(context.Background(), &Entry{
		RequestID:  "c",
		SourceLang: "auto",
		TargetLang: "fr",
		CharCount:  2,
		Success:    false,
	}); err != nil {
		t.Fatalf("append auto entry: %v", err)
	}

	summary, err := store.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if summary.TotalRequests != 3 {
		t.Fatalf("expected 3 total requests, got %d", summary.TotalRequests)
	}
	if summary.SuccessCount != 1 || summary.FailureCount != 2 {
		t.Fatalf("unexpected counts: success=%d failure=%d", summary.SuccessCount, summary.FailureCount)
	}
	if summary.TotalChars != 10 {
		t.Fatalf("expected 10 total chars, got %d", summary.TotalChars)
	}
	if summary.LanguagePairs["en->fr"] != 2 {
		t.Fatalf("unexpected en->fr count: %d", summary.LanguagePairs["en->fr"])
	}
	for key := range summary.LanguagePairs {
		if key == "auto->fr" {
			t.Fatalf("auto must never be a language pair key")
		}
	}
}

func TestMemoryStore_ConcurrentAppendsLoseNothing(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				entry := Entry{
					RequestID:  fmt.Sprintf("w%d-%d", w, i),
					SourceLang: "en",
					TargetLang: "fr",
					CharCount:  1,
					Success:    true,
				}
				if err := store.Append(context.Background(), &entry); err != nil {
					t.Errorf("append w%d-%d: %v", w, i, err)
				}
			}
		}(w)
	}
	wg.Wait()

	if store.Len() != writers*perWriter {
		t.Fatalf("expected %d entries, got %d", writers*perWriter, store.Len())
	}

	entries := store.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.Before(entries[i-1].Timestamp) {
			t.Fatalf("timestamps regressed at index %d", i)
		}
	}
}
