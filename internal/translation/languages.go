package translation

import (
	"sort"
	"strings"

	"horse.fit/lingo/internal/language"
)

// LanguageOption is one supported language for API listings.
type LanguageOption struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

var languageLabels = map[string]string{
	"ar": "Arabic",
	"bn": "Bengali",
	"de": "German",
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"hi": "Hindi",
	"it": "Italian",
	"ja": "Japanese",
	"kn": "Kannada",
	"ko": "Korean",
	"pt": "Portuguese",
	"ru": "Russian",
	"ta": "Tamil",
	"zh": "Chinese",
}

// DefaultLanguageCodes returns the built-in target language allow-list.
func DefaultLanguageCodes() []string {
	codes := make([]string, 0, len(languageLabels))
	for code := range languageLabels {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// LanguageOptions builds labeled options for an allow-list of codes.
// Codes without a known label fall back to their uppercase form.
func LanguageOptions(codes []string) []LanguageOption {
	seen := make(map[string]struct{}, len(codes))
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		tag := language.NormalizeTag(code)
		if tag == "" {
			continue
		}
		if _, exists := seen[tag]; exists {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	sort.Strings(normalized)

	options := make([]LanguageOption, 0, len(normalized))
	for _, code := range normalized {
		label, ok := languageLabels[code]
		if !ok {
			label = strings.ToUpper(code)
		}
		options = append(options, LanguageOption{Code: code, Label: label})
	}
	return options
}
