package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"horse.fit/lingo/internal/language"
)

const defaultRemoteTimeout = 10 * time.Second

// RemoteProvider delegates translation to a LibreTranslate-compatible HTTP
// endpoint. Every call is bounded by the configured timeout and failures
// are reported as typed ProviderErrors, never by blocking indefinitely.
type RemoteProvider struct {
	endpointURL string
	apiKey      string
	client      *http.Client
}

func NewRemoteProvider(endpoint, apiKey string, timeout time.Duration) *RemoteProvider {
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	return &RemoteProvider{
		endpointURL: normalizeRemoteEndpoint(endpoint),
		apiKey:      strings.TrimSpace(apiKey),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *RemoteProvider) Name() string {
	return "remote"
}

func (p *RemoteProvider) SupportedLanguages() []string {
	return DefaultLanguageCodes()
}

func (p *RemoteProvider) Translate(ctx context.Context, req Request) (*Response, error) {
	if p == nil {
		return nil, fmt.Errorf("remote provider is nil")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, newProviderError(ErrorKindUnknown, "text is required", nil)
	}
	targetLang := language.NormalizeCode(req.TargetLang)
	if targetLang == "" {
		return nil, newProviderError(ErrorKindUnknown, "target language is required", nil)
	}
	sourceLang := language.Auto
	if !language.IsAuto(req.SourceLang) {
		if code := language.NormalizeCode(req.SourceLang); code != "" {
			sourceLang = code
		}
	}

	body, err := json.Marshal(remoteTranslateRequest{
		Query:  text,
		Source: sourceLang,
		Target: targetLang,
		Format: "text",
		APIKey: p.apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal translation request: %w", err)
	}

	started := time.Now()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, newProviderError(ErrorKindNetwork, "translation endpoint unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, newProviderError(ErrorKindNetwork, "read translation response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyRemoteStatus(resp.StatusCode, respBody)
	}

	var parsed remoteTranslateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, newProviderError(ErrorKindUnknown, "decode translation response", err)
	}
	translated := strings.TrimSpace(parsed.TranslatedText)
	if translated == "" {
		return nil, newProviderError(ErrorKindUnknown, "translation response was empty", nil)
	}

	resolvedSource := sourceLang
	if detected := language.NormalizeCode(parsed.DetectedLanguage.Language); detected != "" {
		resolvedSource = detected
	}
	if resolvedSource == language.Auto {
		resolvedSource = "en"
	}

	return &Response{
		Text:         translated,
		SourceLang:   resolvedSource,
		TargetLang:   targetLang,
		ProviderName: p.Name(),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

// IsTimeout reports whether a provider error wraps a deadline expiry.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	return false
}

func classifyRemoteStatus(status int, body []byte) *ProviderError {
	message := strings.TrimSpace(string(body))
	var errPayload remoteErrorResponse
	if err := json.Unmarshal(body, &errPayload); err == nil {
		if msg := strings.TrimSpace(errPayload.Error); msg != "" {
			message = msg
		}
	}
	if message == "" {
		message = http.StatusText(status)
	}
	message = fmt.Sprintf("translation endpoint status %d: %s", status, message)

	switch {
	case status == http.StatusTooManyRequests:
		return newProviderError(ErrorKindRateLimited, message, nil)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return newProviderError(ErrorKindUnauthorized, message, nil)
	case status == http.StatusGatewayTimeout || status == http.StatusBadGateway || status == http.StatusServiceUnavailable:
		return newProviderError(ErrorKindNetwork, message, nil)
	default:
		return newProviderError(ErrorKindUnknown, message, nil)
	}
}

type remoteTranslateRequest struct {
	Query  string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type remoteTranslateResponse struct {
	TranslatedText   string `json:"translatedText"`
	DetectedLanguage struct {
		Language string `json:"language"`
	} `json:"detectedLanguage"`
}

type remoteErrorResponse struct {
	Error string `json:"error"`
}

func normalizeRemoteEndpoint(raw string) string {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return ""
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return endpoint
	}
	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/translate") {
		path += "/translate"
	}
	parsed.Path = path
	return parsed.String()
}
