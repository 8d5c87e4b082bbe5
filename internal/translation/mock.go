package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"horse.fit/lingo/internal/langdetect"
	"horse.fit/lingo/internal/language"
)

// MockProvider produces deterministic placeholder translations. It serves
// as the default backend when no remote translation endpoint is configured.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Name() string {
	return "mock"
}

func (p *MockProvider) SupportedLanguages() []string {
	return DefaultLanguageCodes()
}

func (p *MockProvider) Translate(ctx context.Context, req Request) (*Response, error) {
	if p == nil {
		return nil, fmt.Errorf("mock provider is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, newProviderError(ErrorKindNetwork, "translation cancelled", err)
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, newProviderError(ErrorKindUnknown, "text is required", nil)
	}
	targetLang := language.NormalizeCode(req.TargetLang)
	if targetLang == "" {
		return nil, newProviderError(ErrorKindUnknown, "target language is required", nil)
	}

	started := time.Now()
	sourceLang := p.resolveSourceLang(req.SourceLang, text)
	translated := translatePhrase(text, sourceLang, targetLang)

	return &Response{
		Text:         translated,
		SourceLang:   sourceLang,
		TargetLang:   targetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

func (p *MockProvider) resolveSourceLang(raw, text string) string {
	if !language.IsAuto(raw) {
		if code := language.NormalizeCode(raw); code != "" {
			return code
		}
	}
	if detected := langdetect.DetectISO6391(text); detected != "" {
		return detected
	}
	return "en"
}

// translatePhrase looks up the whole phrase first, then falls back to
// word-level substitution, and finally to tagging the text with the target
// language so mock output is always distinguishable from the input.
func translatePhrase(text, sourceLang, targetLang string) string {
	dict, ok := phraseDictionaries[sourceLang+"_"+targetLang]
	if !ok {
		return taggedTranslation(text, targetLang)
	}

	lowered := strings.ToLower(text)
	if phrase, ok := dict[lowered]; ok {
		return phrase
	}

	words := strings.Fields(lowered)
	translatedWords := make([]string, 0, len(words))
	matched := false
	for _, word := range words {
		clean := strings.Trim(word, ".,!?;:")
		if phrase, ok := dict[clean]; ok {
			translatedWords = append(translatedWords, phrase)
			matched = true
			continue
		}
		translatedWords = append(translatedWords, word)
	}
	if matched {
		return strings.Join(translatedWords, " ")
	}

	return taggedTranslation(text, targetLang)
}

func taggedTranslation(text, targetLang string) string {
	return fmt.Sprintf("[%s] %s", strings.ToUpper(targetLang), text)
}

var phraseDictionaries = map[string]map[string]string{
	"en_fr": {
		"hello":        "bonjour",
		"good morning": "bonjour",
		"good evening": "bonsoir",
		"thank you":    "merci",
		"please":       "s'il vous plaît",
		"yes":          "oui",
		"no":           "non",
		"goodbye":      "au revoir",
		"welcome":      "bienvenue",
	},
	"en_es": {
		"hello":        "hola",
		"good morning": "buenos días",
		"good evening": "buenas noches",
		"thank you":    "gracias",
		"please":       "por favor",
		"yes":          "sí",
		"no":           "no",
		"goodbye":      "adiós",
		"welcome":      "bienvenido",
	},
	"en_hi": {
		"hello":        "नमस्ते",
		"good morning": "सुप्रभात",
		"good evening": "शुभ संध्या",
		"thank you":    "धन्यवाद",
		"please":       "कृपया",
		"yes":          "हाँ",
		"no":           "नहीं",
		"goodbye":      "अलविदा",
		"welcome":      "स्वागत है",
	},
	"en_ta": {
		"hello":        "வணக்கம்",
		"good morning": "காலை வணக்கம்",
		"good evening": "மாலை வணக்கம்",
		"thank you":    "நன்றி",
		"please":       "தயவுசெய்து",
		"yes":          "ஆம்",
		"no":           "இல்லை",
		"goodbye":      "பிரியாவிடை",
		"welcome":      "வரவேற்கிறோம்",
	},
}
