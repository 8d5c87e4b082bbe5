package pipeline

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"horse.fit/lingo/internal/language"
)

// Violation is one validation failure, reported fail-fast.
type Violation struct {
	Field  string
	Reason string
}

func (v *Violation) Error() string {
	if v == nil {
		return ""
	}
	return v.Field + " " + v.Reason
}

// Validator checks request shape and content before any provider call.
// It is a pure function of its input and the startup configuration.
type Validator struct {
	maxTextLength int
	allowed       map[string]struct{}
}

// NewValidator builds a validator. An empty allow-list accepts any
// well-formed language code.
func NewValidator(maxTextLength int, allowedLanguages []string) *Validator {
	allowed := make(map[string]struct{}, len(allowedLanguages))
	for _, code := range allowedLanguages {
		tag := language.NormalizeTag(code)
		if tag == "" {
			continue
		}
		allowed[tag] = struct{}{}
	}
	return &Validator{
		maxTextLength: maxTextLength,
		allowed:       allowed,
	}
}

// Validate returns nil when the request is acceptable, or the first
// violation found.
func (v *Validator) Validate(req Request) *Violation {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return &Violation{Field: "text", Reason: "must not be empty"}
	}
	if length := utf8.RuneCountInString(req.Text); length > v.maxTextLength {
		return &Violation{
			Field:  "text",
			Reason: fmt.Sprintf("is %d characters, maximum allowed is %d", length, v.maxTextLength),
		}
	}

	target := language.NormalizeTag(req.TargetLang)
	if target == "" {
		return &Violation{Field: "target_lang", Reason: "is required"}
	}
	if !language.IsWellFormedCode(target) {
		return &Violation{Field: "target_lang", Reason: fmt.Sprintf("%q is not a well-formed language code", req.TargetLang)}
	}
	if len(v.allowed) > 0 {
		if _, ok := v.allowed[target]; !ok {
			return &Violation{Field: "target_lang", Reason: fmt.Sprintf("%q is not a supported language", target)}
		}
	}

	if !language.IsAuto(req.SourceLang) && strings.TrimSpace(req.SourceLang) != "" {
		if !language.IsWellFormedCode(req.SourceLang) {
			return &Violation{Field: "source_lang", Reason: fmt.Sprintf("%q is not a well-formed language code", req.SourceLang)}
		}
	}

	return nil
}
