package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"aimarketer/internal/domain"
)

func TestStatsSummary(t *testing.T) {
	usage := &stubUsage{summary: &domain.UsageSummary{Total: 5, Succeeded: 4, Failed: 1, Last24h: 2, AvgLatencyMS: 1200}}
	rec := httptest.NewRecorder()
	newTestApp(nil, usage).StatsSummary(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["total"] != 5 || resp["failed"] != 1 || resp["avg_latency_ms"] != 1200 {
		t.Fatalf("unexpected stats: %#v", resp)
	}
}

func TestStatsSummaryDisabledAndFailing(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestApp(nil, nil).StatsSummary(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without usage repo, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	newTestApp(nil, &stubUsage{err: errors.New("db down")}).StatsSummary(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on repo failure, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestApp(nil, nil).Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "{\"status\":\"ok\"}\n" {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}
