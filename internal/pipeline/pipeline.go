package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"horse.fit/lingo/internal/language"
	"horse.fit/lingo/internal/logstore"
	"horse.fit/lingo/internal/translation"
)

// ErrorKindInvalidInput marks caller errors that never reach the provider.
const ErrorKindInvalidInput = "invalid_input"

var (
	// ErrEmptyBatch rejects bulk calls with no items.
	ErrEmptyBatch = errors.New("batch contains no items")
	// ErrBatchTooLarge rejects bulk calls over the configured maximum.
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
)

// Request is one translation request as accepted at ingress. Immutable
// once created.
type Request struct {
	RequestID  string
	Text       string
	SourceLang string // "" and "auto" both mean detect
	TargetLang string
}

// Result is the outcome of one request. Produced exactly once and never
// mutated afterwards.
type Result struct {
	RequestID      string `json:"request_id"`
	TranslatedText string `json:"translated_text,omitempty"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
	Provider       string `json:"provider,omitempty"`
	CharCount      int    `json:"char_count"`
	Success        bool   `json:"success"`
	ErrorKind      string `json:"error_kind,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`

	latencyMS int64
}

// Options bounds pipeline execution.
type Options struct {
	MaxBulkSize     int
	BulkConcurrency int
}

// Pipeline orchestrates validation, provider dispatch, result assembly and
// audit logging. It is the only component that talks to the validator,
// the provider and the log store.
type Pipeline struct {
	validator *Validator
	provider  translation.Provider
	store     logstore.Store
	opts      Options
	logger    zerolog.Logger
}

func New(validator *Validator, provider translation.Provider, store logstore.Store, opts Options, logger zerolog.Logger) (*Pipeline, error) {
	if validator == nil {
		return nil, fmt.Errorf("validator is required")
	}
	if provider == nil {
		return nil, fmt.Errorf("translation provider is required")
	}
	if store == nil {
		return nil, fmt.Errorf("log store is required")
	}
	if opts.MaxBulkSize < 1 {
		opts.MaxBulkSize = 50
	}
	if opts.BulkConcurrency < 1 {
		opts.BulkConcurrency = 4
	}

	return &Pipeline{
		validator: validator,
		provider:  provider,
		store:     store,
		opts:      opts,
		logger:    logger,
	}, nil
}

// Translate runs one request through the full pipeline. Every call appends
// exactly one log entry before returning; validation and provider failures
// come back as a failed Result, not as an error. A non-nil error means the
// audit entry could not be written and no result is available.
func (p *Pipeline) Translate(ctx context.Context, req Request) (*Result, error) {
	result := p.process(ctx, req)
	if err := p.appendLog(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// TranslateBulk runs every item independently and returns results in input
// order. One item's failure never aborts its siblings; the call itself
// fails only on structural violations or when audit logging breaks.
func (p *Pipeline) TranslateBulk(ctx context.Context, reqs []Request) ([]Result, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(reqs) > p.opts.MaxBulkSize {
		return nil, fmt.Errorf("%w: %d items, maximum is %d", ErrBatchTooLarge, len(reqs), p.opts.MaxBulkSize)
	}

	results := make([]*Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.BulkConcurrency)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			results[i] = p.process(gctx, req)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Append sequentially in input order so the ledger mirrors the batch.
	out := make([]Result, 0, len(results))
	for _, result := range results {
		if err := p.appendLog(ctx, result); err != nil {
			return nil, err
		}
		out = append(out, *result)
	}
	return out, nil
}

// process validates and translates without touching the store.
func (p *Pipeline) process(ctx context.Context, req Request) *Result {
	req = normalizeRequest(req)

	result := &Result{
		RequestID:  req.RequestID,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		CharCount:  utf8.RuneCountInString(req.Text),
	}

	if violation := p.validator.Validate(req); violation != nil {
		result.ErrorKind = ErrorKindInvalidInput
		result.ErrorMessage = violation.Error()
		return result
	}

	started := time.Now()
	resp, err := p.provider.Translate(ctx, translation.Request{
		Text:       req.Text,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
	})
	result.latencyMS = time.Since(started).Milliseconds()
	if err != nil {
		kind, message := classifyProviderError(err)
		result.ErrorKind = kind
		result.ErrorMessage = message
		return result
	}

	result.TranslatedText = resp.Text
	result.SourceLang = resp.SourceLang
	result.Provider = resp.ProviderName
	result.Success = true
	return result
}

func (p *Pipeline) appendLog(ctx context.Context, result *Result) error {
	// A cancelled request is logged as a failure, never dropped: the
	// append must not inherit the caller's cancellation.
	ctx = context.WithoutCancel(ctx)

	entry := logstore.Entry{
		RequestID:  result.RequestID,
		SourceLang: result.SourceLang,
		TargetLang: result.TargetLang,
		CharCount:  result.CharCount,
		Success:    result.Success,
		ErrorKind:  result.ErrorKind,
		LatencyMS:  result.latencyMS,
	}
	if err := p.store.Append(ctx, &entry); err != nil {
		p.logger.Error().
			Err(err).
			Str("request_id", result.RequestID).
			Msg("translation audit log append failed")
		return fmt.Errorf("append audit log for request %s: %w", result.RequestID, err)
	}

	event := p.logger.Info()
	if !result.Success {
		event = p.logger.Warn()
	}
	event.
		Str("request_id", result.RequestID).
		Str("source_lang", result.SourceLang).
		Str("target_lang", result.TargetLang).
		Int("char_count", result.CharCount).
		Bool("success", result.Success).
		Str("error_kind", result.ErrorKind).
		Msg("translation request processed")
	return nil
}

func normalizeRequest(req Request) Request {
	if strings.TrimSpace(req.RequestID) == "" {
		req.RequestID = uuid.NewString()
	}
	if strings.TrimSpace(req.SourceLang) == "" {
		req.SourceLang = language.Auto
	} else if tag := language.NormalizeTag(req.SourceLang); tag != "" {
		req.SourceLang = tag
	}
	if tag := language.NormalizeTag(req.TargetLang); tag != "" {
		req.TargetLang = tag
	}
	return req
}

func classifyProviderError(err error) (kind, message string) {
	var provErr *translation.ProviderError
	if errors.As(err, &provErr) {
		return string(provErr.Kind), provErr.Message
	}
	if translation.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return string(translation.ErrorKindNetwork), "translation timed out"
	}
	return string(translation.ErrorKindUnknown), err.Error()
}
