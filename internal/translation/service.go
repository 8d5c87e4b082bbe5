package translation

import "context"

// Provider translates free-form text between languages.
type Provider interface {
	Translate(ctx context.Context, req Request) (*Response, error)
	Name() string
	SupportedLanguages() []string
}

// Request describes one unit of text to translate.
type Request struct {
	Text       string
	SourceLang string // ISO 639-1 code, or "auto" to detect
	TargetLang string
}

// Response contains translated text and provider metadata.
type Response struct {
	Text         string
	SourceLang   string // resolved, never "auto"
	TargetLang   string
	ProviderName string
	LatencyMs    int64
}
