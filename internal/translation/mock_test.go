package translation

import (
	"context"
	"testing"
)

func TestMockProvider_PhraseDictionary(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider()
	resp, err := provider.Translate(context.Background(), Request{
		Text:       "hello",
		SourceLang: "en",
		TargetLang: "fr",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "bonjour" {
		t.Fatalf("unexpected translation: %q", resp.Text)
	}
	if resp.SourceLang != "en" {
		t.Fatalf("unexpected source lang: %q", resp.SourceLang)
	}
	if resp.TargetLang != "fr" {
		t.Fatalf("unexpected target lang: %q", resp.TargetLang)
	}
	if resp.ProviderName != "mock" {
		t.Fatalf("unexpected provider name: %q", resp.ProviderName)
	}
}

func TestMockProvider_WordFallback(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider()
	resp, err := provider.Translate(context.Background(), Request{
		Text:       "hello friend",
		SourceLang: "en",
		TargetLang: "es",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "hola friend" {
		t.Fatalf("unexpected word-level translation: %q", resp.Text)
	}
}

func TestMockProvider_TagsUnknownPair(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider()
	resp, err := provider.Translate(context.Background(), Request{
		Text:       "guten morgen",
		SourceLang: "de",
		TargetLang: "ja",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != "[JA] guten morgen" {
		t.Fatalf("unexpected tagged translation: %q", resp.Text)
	}
}

func TestMockProvider_RejectsEmptyText(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider()
	if _, err := provider.Translate(context.Background(), Request{Text: "  ", TargetLang: "fr"}); err == nil {
		t.Fatalf("expected error for empty text")
	}
}
