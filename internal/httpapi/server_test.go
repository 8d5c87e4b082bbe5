package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"horse.fit/lingo/internal/logstore"
	"horse.fit/lingo/internal/pipeline"
	"horse.fit/lingo/internal/translation"
)

func newTestServer(t *testing.T) (*Server, *logstore.MemoryStore) {
	t.Helper()

	store := logstore.NewMemoryStore()
	validator := pipeline.NewValidator(1000, translation.DefaultLanguageCodes())
	pl, err := pipeline.New(validator, translation.NewMockProvider(), store, pipeline.Options{MaxBulkSize: 5}, zerolog.Nop())
	if err != nil {
		t.Fatalf("build pipeline: %v", err)
	}

	languages := translation.LanguageOptions(translation.DefaultLanguageCodes())
	return NewServer(pl, store, languages, zerolog.Nop(), Options{}), store
}

func doRequest(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, jsendResponse) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	s.buildEcho().ServeHTTP(rec, req)

	var resp jsendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func dataMap(t *testing.T, resp jsendResponse) map[string]any {
	t.Helper()
	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("response data is %T, want object", resp.Data)
	}
	return data
}

func TestTranslateEndpoint(t *testing.T) {
	t.Parallel()

	s, store := newTestServer(t)
	rec, resp := doRequest(t, s, http.MethodPost, "/api/v1/translate",
		`{"text": "hello", "source_lang": "en", "target_lang": "fr"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if resp.Status != "success" {
		t.Fatalf("jsend status = %q, want success", resp.Status)
	}

	data := dataMap(t, resp)
	if got := data["translated_text"]; got != "bonjour" {
		t.Errorf("translated_text = %v, want bonjour", got)
	}
	if got := data["source_lang"]; got != "en" {
		t.Errorf("source_lang = %v, want en", got)
	}
	if got := data["provider"]; got != "mock" {
		t.Errorf("provider = %v, want mock", got)
	}
	if got := data["char_count"]; got != float64(5) {
		t.Errorf("char_count = %v, want 5", got)
	}
	if data["request_id"] == "" {
		t.Error("request_id missing from response")
	}

	if store.Len() != 1 {
		t.Fatalf("store has %d entries, want 1", store.Len())
	}
	entry := store.Entries()[0]
	if !entry.Success {
		t.Errorf("logged entry success = false, want true")
	}
}

func TestTranslateEndpointEmptyTextLogsFailure(t *testing.T) {
	t.Parallel()

	s, store := newTestServer(t)
	rec, resp := doRequest(t, s, http.MethodPost, "/api/v1/translate",
		`{"text": "", "target_lang": "fr"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
	if resp.Status != "fail" {
		t.Fatalf("jsend status = %q, want fail", resp.Status)
	}
	data := dataMap(t, resp)
	if got := data["error_kind"]; got != pipeline.ErrorKindInvalidInput {
		t.Errorf("error_kind = %v, want %s", got, pipeline.ErrorKindInvalidInput)
	}

	if store.Len() != 1 {
		t.Fatalf("store has %d entries, want 1 (failures are audited too)", store.Len())
	}
	entry := store.Entries()[0]
	if entry.Success {
		t.Error("logged entry success = true, want false")
	}
	if entry.ErrorKind != pipeline.ErrorKindInvalidInput {
		t.Errorf("logged error_kind = %q, want %s", entry.ErrorKind, pipeline.ErrorKindInvalidInput)
	}
}

func TestTranslateEndpointSchemaViolationNotLogged(t *testing.T) {
	t.Parallel()

	s, store := newTestServer(t)
	rec, resp := doRequest(t, s, http.MethodPost, "/api/v1/translate", `{"text": "hello"}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if resp.Status != "fail" {
		t.Fatalf("jsend status = %q, want fail", resp.Status)
	}
	if store.Len() != 0 {
		t.Fatalf("store has %d entries, want 0 for malformed payloads", store.Len())
	}
}

func TestBulkTranslateEndpointMixedBatch(t *testing.T) {
	t.Parallel()

	s, store := newTestServer(t)
	rec, resp := doRequest(t, s, http.MethodPost, "/api/v1/translate/bulk", `{
		"items": [
			{"text": "hello", "source_lang": "en", "target_lang": "fr"},
			{"text": "hello", "source_lang": "en", "target_lang": "xx"},
			{"text": "hello", "source_lang": "en", "target_lang": "es"}
		]
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	data := dataMap(t, resp)
	if got := data["count"]; got != float64(3) {
		t.Fatalf("count = %v, want 3", got)
	}
	results, ok := data["results"].([]any)
	if !ok || len(results) != 3 {
		t.Fatalf("results = %v, want 3 items", data["results"])
	}

	first := results[0].(map[string]any)
	if first["success"] != true || first["translated_text"] != "bonjour" {
		t.Errorf("first result = %v, want successful bonjour", first)
	}
	second := results[1].(map[string]any)
	if second["success"] != false {
		t.Errorf("second result = %v, want failed", second)
	}
	third := results[2].(map[string]any)
	if third["success"] != true || third["translated_text"] != "hola" {
		t.Errorf("third result = %v, want successful hola", third)
	}

	if store.Len() != 3 {
		t.Fatalf("store has %d entries, want 3", store.Len())
	}
}

func TestBulkTranslateEndpointEmptyBatch(t *testing.T) {
	t.Parallel()

	s, store := newTestServer(t)
	rec, resp := doRequest(t, s, http.MethodPost, "/api/v1/translate/bulk", `{"items": []}`)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if resp.Status != "fail" {
		t.Fatalf("jsend status = %q, want fail", resp.Status)
	}
	if store.Len() != 0 {
		t.Fatalf("store has %d entries, want 0 for rejected batches", store.Len())
	}
}

func TestLogsEndpoint(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	for i := 0; i < 3; i++ {
		doRequest(t, s, http.MethodPost, "/api/v1/translate",
			`{"text": "hello", "source_lang": "en", "target_lang": "fr"}`)
	}

	rec, resp := doRequest(t, s, http.MethodGet, "/api/v1/logs?limit=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	data := dataMap(t, resp)
	items, ok := data["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("items = %v, want 2 entries", data["items"])
	}
	if data["next_cursor"] == "" {
		t.Error("next_cursor missing with more entries remaining")
	}
	if got := data["limit"]; got != float64(2) {
		t.Errorf("limit = %v, want 2", got)
	}
}

func TestLogsEndpointRejectsBadParams(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	for _, target := range []string{
		"/api/v1/logs?since=yesterday",
		"/api/v1/logs?success=maybe",
		"/api/v1/logs?limit=0",
	} {
		rec, _ := doRequest(t, s, http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", target, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestLogEntryEndpoint(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	_, translated := doRequest(t, s, http.MethodPost, "/api/v1/translate",
		`{"text": "hello", "source_lang": "en", "target_lang": "fr"}`)
	requestID, ok := dataMap(t, translated)["request_id"].(string)
	if !ok || requestID == "" {
		t.Fatalf("translate response has no request id")
	}

	rec, resp := doRequest(t, s, http.MethodGet, "/api/v1/logs/"+requestID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	data := dataMap(t, resp)
	if data["request_id"] != requestID {
		t.Errorf("request_id = %v, want %s", data["request_id"], requestID)
	}
	if data["success"] != true {
		t.Errorf("success = %v, want true", data["success"])
	}

	rec, resp = doRequest(t, s, http.MethodGet, "/api/v1/logs/no-such-id", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	if resp.Status != "fail" {
		t.Errorf("jsend status = %q, want fail", resp.Status)
	}
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	doRequest(t, s, http.MethodPost, "/api/v1/translate",
		`{"text": "hello", "source_lang": "en", "target_lang": "fr"}`)
	doRequest(t, s, http.MethodPost, "/api/v1/translate",
		`{"text": "", "target_lang": "fr"}`)

	rec, resp := doRequest(t, s, http.MethodGet, "/api/v1/logs/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	data := dataMap(t, resp)
	if got := data["total_requests"]; got != float64(2) {
		t.Errorf("total_requests = %v, want 2", got)
	}
	if got := data["success_count"]; got != float64(1) {
		t.Errorf("success_count = %v, want 1", got)
	}
	if got := data["failure_count"]; got != float64(1) {
		t.Errorf("failure_count = %v, want 1", got)
	}
}

func TestLanguagesEndpoint(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	rec, resp := doRequest(t, s, http.MethodGet, "/api/v1/languages", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	data := dataMap(t, resp)
	languages, ok := data["languages"].([]any)
	if !ok || len(languages) == 0 {
		t.Fatalf("languages = %v, want non-empty list", data["languages"])
	}
	first := languages[0].(map[string]any)
	if first["code"] == "" || first["label"] == "" {
		t.Errorf("language option missing code or label: %v", first)
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	s, _ := newTestServer(t)
	rec, resp := doRequest(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	data := dataMap(t, resp)
	if got := data["service"]; got != "lingo" {
		t.Errorf("service = %v, want lingo", got)
	}
}
