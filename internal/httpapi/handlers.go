package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"horse.fit/lingo/internal/logstore"
	"horse.fit/lingo/internal/pipeline"
	"horse.fit/lingo/internal/translation"
)

func (s *Server) handleTranslate(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRequestBodyBytes))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Failed to read request body", nil)
	}

	payload, err := validateTranslatePayload(body)
	if err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	result, err := s.pipeline.Translate(c.Request().Context(), pipeline.Request{
		Text:       payload.Text,
		SourceLang: payload.SourceLang,
		TargetLang: payload.TargetLang,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("translation audit write failed")
		return internalError(c, "Failed to record translation")
	}
	if !result.Success {
		return s.writeFailedResult(c, result)
	}

	return success(c, result)
}

func (s *Server) handleTranslateBulk(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRequestBodyBytes))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Failed to read request body", nil)
	}

	payload, err := validateBulkTranslatePayload(body)
	if err != nil {
		return failValidation(c, map[string]string{"body": err.Error()})
	}

	requests := make([]pipeline.Request, 0, len(payload.Items))
	for _, item := range payload.Items {
		requests = append(requests, pipeline.Request{
			Text:       item.Text,
			SourceLang: item.SourceLang,
			TargetLang: item.TargetLang,
		})
	}

	results, err := s.pipeline.TranslateBulk(c.Request().Context(), requests)
	if err != nil {
		return s.writeBulkError(c, err)
	}

	return success(c, map[string]any{
		"results": results,
		"count":   len(results),
	})
}

func (s *Server) handleLogs(c echo.Context) error {
	filter := logstore.Filter{
		Cursor: strings.TrimSpace(c.QueryParam("cursor")),
	}

	if raw := strings.TrimSpace(c.QueryParam("since")); raw != "" {
		since, err := parseTimeParam(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "Invalid 'since' parameter, expected RFC 3339 timestamp or YYYY-MM-DD date", nil)
		}
		filter.Since = &since
	}
	if raw := strings.TrimSpace(c.QueryParam("until")); raw != "" {
		until, err := parseTimeParam(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "Invalid 'until' parameter, expected RFC 3339 timestamp or YYYY-MM-DD date", nil)
		}
		filter.Until = &until
	}
	if raw := strings.TrimSpace(c.QueryParam("success")); raw != "" {
		wantSuccess, err := strconv.ParseBool(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "Invalid 'success' parameter, expected true or false", nil)
		}
		filter.Success = &wantSuccess
	}
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return fail(c, http.StatusBadRequest, "Invalid 'limit' parameter, expected a positive integer", nil)
		}
		filter.Limit = limit
	}

	items, nextCursor, err := s.store.Query(c.Request().Context(), filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("log query failed")
		return internalError(c, "Failed to query translation logs")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = logstore.DefaultQueryLimit
	}
	if limit > logstore.MaxQueryLimit {
		limit = logstore.MaxQueryLimit
	}

	return success(c, map[string]any{
		"items":       items,
		"next_cursor": nextCursor,
		"limit":       limit,
	})
}

func (s *Server) handleLogEntry(c echo.Context) error {
	requestID := strings.TrimSpace(c.Param("request_id"))
	if requestID == "" {
		return fail(c, http.StatusBadRequest, "Request id is required", nil)
	}

	entry, err := s.store.Get(c.Request().Context(), requestID)
	if err != nil {
		if errors.Is(err, logstore.ErrNotFound) {
			return fail(c, http.StatusNotFound, "No log entry for request id "+requestID, nil)
		}
		s.logger.Error().Err(err).Str("request_id", requestID).Msg("log entry lookup failed")
		return internalError(c, "Failed to read translation log entry")
	}

	return success(c, entry)
}

func (s *Server) handleStats(c echo.Context) error {
	summary, err := s.store.Aggregate(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("log aggregation failed")
		return internalError(c, "Failed to aggregate translation logs")
	}
	return success(c, summary)
}

func (s *Server) handleLanguages(c echo.Context) error {
	return success(c, map[string]any{
		"languages": s.languages,
		"count":     len(s.languages),
	})
}

// writeFailedResult maps a failed (but logged) pipeline result to a status
// code: caller mistakes are 422, an unreachable provider is 504 and every
// other provider failure is 502.
func (s *Server) writeFailedResult(c echo.Context, result *pipeline.Result) error {
	data := map[string]any{
		"request_id": result.RequestID,
		"error_kind": result.ErrorKind,
	}
	switch result.ErrorKind {
	case pipeline.ErrorKindInvalidInput:
		return fail(c, http.StatusUnprocessableEntity, result.ErrorMessage, data)
	case string(translation.ErrorKindNetwork):
		return fail(c, http.StatusGatewayTimeout, "Translation provider is unreachable", data)
	default:
		return fail(c, http.StatusBadGateway, result.ErrorMessage, data)
	}
}

func (s *Server) writeBulkError(c echo.Context, err error) error {
	if isBatchStructuralError(err) {
		return failValidation(c, map[string]string{"items": err.Error()})
	}

	s.logger.Error().Err(err).Msg("bulk translation failed")
	return internalError(c, "Failed to record translations")
}

func isBatchStructuralError(err error) bool {
	return errors.Is(err, pipeline.ErrEmptyBatch) || errors.Is(err, pipeline.ErrBatchTooLarge)
}

func parseTimeParam(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}
