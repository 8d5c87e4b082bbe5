package language

import "testing"

func TestNormalizeTag(t *testing.T) {
	t.Parallel()

	if got := NormalizeTag(" EN_us "); got != "en-us" {
		t.Fatalf("unexpected normalized tag: %q", got)
	}
	if got := NormalizeTag("zh-Hans"); got != "zh-hans" {
		t.Fatalf("unexpected normalized tag: %q", got)
	}
	if got := NormalizeTag("fr--CA"); got != "fr-ca" {
		t.Fatalf("unexpected collapsed tag: %q", got)
	}
	if got := NormalizeTag("en_123"); got != "" {
		t.Fatalf("expected invalid tag to normalize to empty string, got %q", got)
	}
}

func TestNormalizeCode(t *testing.T) {
	t.Parallel()

	if got := NormalizeCode(" EN-us "); got != "en" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := NormalizeCode("ta"); got != "ta" {
		t.Fatalf("unexpected normalized code: %q", got)
	}
	if got := NormalizeCode(" "); got != "" {
		t.Fatalf("expected empty code for blank input, got %q", got)
	}
}

func TestIsWellFormedCode(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"en", "FR", "zh-CN", " ta "} {
		if !IsWellFormedCode(code) {
			t.Fatalf("expected %q to be well-formed", code)
		}
	}
	for _, code := range []string{"", "e", "eng", "en-gbr", "en-us-x", "12"} {
		if IsWellFormedCode(code) {
			t.Fatalf("expected %q to be rejected", code)
		}
	}
}

func TestIsAuto(t *testing.T) {
	t.Parallel()

	if !IsAuto(" AUTO ") {
		t.Fatalf("expected AUTO to be recognized")
	}
	if IsAuto("en") {
		t.Fatalf("expected en to not be auto")
	}
}
