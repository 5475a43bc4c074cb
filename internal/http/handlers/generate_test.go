package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"aimarketer/internal/domain"
	"aimarketer/internal/infra"
	"aimarketer/internal/middleware"
	"aimarketer/internal/providers/image"
)

type stubGenerator struct {
	asset   *image.Asset
	err     error
	calls   int
	lastReq image.GenerateRequest
}

func (s *stubGenerator) Generate(ctx context.Context, req image.GenerateRequest) (*image.Asset, error) {
	s.calls++
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.asset, nil
}

type stubUsage struct {
	mu      sync.Mutex
	events  []domain.GenerationEvent
	err     error
	summary *domain.UsageSummary
}

func (s *stubUsage) RecordGeneration(ctx context.Context, ev domain.GenerationEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *stubUsage) Summary(ctx context.Context) (*domain.UsageSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

func newTestApp(gen image.Generator, usage domain.UsageRepository) *App {
	return &App{
		Config:         &infra.Config{},
		Logger:         zerolog.Nop(),
		ImageGenerator: gen,
		Usage:          usage,
	}
}

func postGenerate(app *App, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/generate-image", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("CF-IPCountry", "ID")
	rec := httptest.NewRecorder()
	middleware.RequestID(middleware.Country(nil)(http.HandlerFunc(app.GenerateImage))).ServeHTTP(rec, req)
	return rec
}

func TestGenerateImageSuccess(t *testing.T) {
	gen := &stubGenerator{asset: &image.Asset{Base64: "UklGRgD/", Extension: "webp"}}
	usage := &stubUsage{}
	app := newTestApp(gen, usage)

	rec := postGenerate(app, `{"prompt":"a red bicycle","style":"vintage"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Result  struct {
			Content string `json:"content"`
			Role    string `json:"role"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Result.Content != "data:image/webp;base64,UklGRgD/" || resp.Result.Role != "assistant" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if gen.lastReq.Prompt != "a red bicycle" || gen.lastReq.Style != "vintage" || gen.lastReq.RequestID == "" {
		t.Fatalf("unexpected provider request: %+v", gen.lastReq)
	}
	if len(usage.events) != 1 {
		t.Fatalf("expected one usage event, got %d", len(usage.events))
	}
	ev := usage.events[0]
	if !ev.Success || ev.Style != "vintage" || ev.PromptLength != 13 || ev.Country != "ID" || ev.RequestID != gen.lastReq.RequestID {
		t.Fatalf("unexpected usage event: %+v", ev)
	}
}

func TestGenerateImageFailures(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		genErr    error
		wantError string
		wantCalls int
	}{
		{
			name:      "provider message surfaces",
			body:      `{"prompt":"p","style":"modern"}`,
			genErr:    &image.ProviderError{Status: 401, Message: "Invalid API key"},
			wantError: "Invalid API key",
			wantCalls: 1,
		},
		{
			name:      "provider without message",
			body:      `{"prompt":"p","style":"modern"}`,
			genErr:    &image.ProviderError{Status: 502},
			wantError: "Failed to generate image",
			wantCalls: 1,
		},
		{
			name:      "transport failure",
			body:      `{"prompt":"p","style":"modern"}`,
			genErr:    &image.ProviderError{Err: errors.New("connection refused")},
			wantError: "Failed to generate image",
			wantCalls: 1,
		},
		{
			name:      "malformed body",
			body:      `{"prompt":`,
			wantError: "Failed to generate image",
			wantCalls: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := &stubGenerator{err: tc.genErr}
			rec := postGenerate(newTestApp(gen, nil), tc.body)
			if rec.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", rec.Code)
			}
			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if len(resp) != 1 || resp["error"] != tc.wantError {
				t.Fatalf("unexpected envelope: %#v", resp)
			}
			if gen.calls != tc.wantCalls {
				t.Fatalf("provider calls = %d, want %d", gen.calls, tc.wantCalls)
			}
		})
	}
}

func TestGenerateImageAcceptsAnyStyle(t *testing.T) {
	gen := &stubGenerator{asset: &image.Asset{Base64: "AA==", Extension: "webp"}}
	rec := postGenerate(newTestApp(gen, nil), `{"prompt":"p","style":"baroque neon"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gen.lastReq.Style != "baroque neon" {
		t.Fatalf("style should pass through, got %q", gen.lastReq.Style)
	}
}

func TestGenerateImageUsageFailureDoesNotChangeResponse(t *testing.T) {
	gen := &stubGenerator{asset: &image.Asset{Base64: "AA==", Extension: "webp"}}
	usage := &stubUsage{err: errors.New("db down")}
	rec := postGenerate(newTestApp(gen, usage), `{"prompt":"p","style":"modern"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite usage failure, got %d", rec.Code)
	}
	if len(usage.events) != 1 {
		t.Fatalf("expected a record attempt")
	}
}

func TestGenerateImageRecordsFailure(t *testing.T) {
	usage := &stubUsage{}
	gen := &stubGenerator{err: &image.ProviderError{Status: 500, Message: "boom"}}
	postGenerate(newTestApp(gen, usage), `{"prompt":"p","style":"modern"}`)
	if len(usage.events) != 1 || usage.events[0].Success || usage.events[0].Error == "" {
		t.Fatalf("unexpected usage events: %+v", usage.events)
	}
}
