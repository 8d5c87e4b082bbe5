package language

import "strings"

// Auto is the sentinel source language meaning "detect at translation time".
const Auto = "auto"

// NormalizeTag normalizes a language tag to lowercase and "-" separators.
// Returns an empty string when the value is blank or contains invalid characters.
func NormalizeTag(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}

	trimmed = strings.ReplaceAll(trimmed, "_", "-")
	parts := strings.Split(trimmed, "-")
	normalized := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !isAlphaLower(part) {
			return ""
		}
		normalized = append(normalized, part)
	}

	if len(normalized) == 0 {
		return ""
	}
	return strings.Join(normalized, "-")
}

// NormalizeCode returns the primary language subtag (for example, "en" from "en-US").
func NormalizeCode(raw string) string {
	tag := NormalizeTag(raw)
	if tag == "" {
		return ""
	}
	if dash := strings.IndexByte(tag, '-'); dash >= 0 {
		return tag[:dash]
	}
	return tag
}

// IsWellFormedCode reports whether raw looks like an ISO 639-1 code,
// optionally with a two-letter region subtag ("en", "zh-cn").
func IsWellFormedCode(raw string) bool {
	tag := NormalizeTag(raw)
	if tag == "" {
		return false
	}
	parts := strings.Split(tag, "-")
	if len(parts) > 2 {
		return false
	}
	if len(parts[0]) != 2 {
		return false
	}
	if len(parts) == 2 && len(parts[1]) != 2 {
		return false
	}
	return true
}

// IsAuto reports whether raw requests source language detection.
func IsAuto(raw string) bool {
	return strings.ToLower(strings.TrimSpace(raw)) == Auto
}

func isAlphaLower(value string) bool {
	for _, r := range value {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
