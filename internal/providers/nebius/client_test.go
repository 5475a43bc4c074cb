package nebius

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientGenerateImage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/images/generations" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header: %s", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		want := map[string]any{
			"width":               float64(1024),
			"height":              float64(1024),
			"num_inference_steps": float64(4),
			"negative_prompt":     "",
			"seed":                float64(-1),
			"response_extension":  "webp",
			"response_format":     "b64_json",
			"prompt":              "a red bicycle in vintage style",
			"model":               "black-forest-labs/flux-schnell",
		}
		for k, v := range want {
			if payload[k] != v {
				t.Fatalf("payload[%s] = %#v, want %#v", k, payload[k], v)
			}
		}
		if len(payload) != len(want) {
			t.Fatalf("unexpected payload fields: %#v", payload)
		}
		_, _ = w.Write([]byte(`{"data":[{"b64_json":"UklGRgD/"}]}`))
	}))
	defer ts.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: ts.URL + "/v1/"})
	asset, err := client.GenerateImage(context.Background(), "a red bicycle in vintage style")
	if err != nil {
		t.Fatalf("GenerateImage error: %v", err)
	}
	if asset.B64 != "UklGRgD/" || asset.Extension != "webp" {
		t.Fatalf("unexpected asset: %+v", asset)
	}
}

func TestClientMissingKey(t *testing.T) {
	client := NewClient(Options{})
	if _, err := client.GenerateImage(context.Background(), "x in y style"); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestClientAPIErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field", http.StatusUnauthorized, `{"message":"Invalid API key"}`, "Invalid API key"},
		{"detail string", http.StatusUnprocessableEntity, `{"detail":"prompt too long"}`, "prompt too long"},
		{"nested error", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, "slow down"},
		{"detail list", http.StatusBadRequest, `{"detail":[{"loc":["body"]}]}`, ""},
		{"non json", http.StatusBadGateway, `upstream down`, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer ts.Close()

			_, err := NewClient(Options{APIKey: "k", BaseURL: ts.URL}).GenerateImage(context.Background(), "p")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.StatusCode != tc.status || apiErr.Message != tc.wantMsg {
				t.Fatalf("unexpected APIError: %+v", apiErr)
			}
		})
	}
}

func TestClientMalformedPayloads(t *testing.T) {
	bodies := []string{
		`{"data":[]}`,
		`{"data":[{"url":"https://example.com/a.webp"}]}`,
		`{"data":[{"b64_json":"***"}]}`,
		`not json`,
	}
	for _, body := range bodies {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		_, err := NewClient(Options{APIKey: "k", BaseURL: ts.URL}).GenerateImage(context.Background(), "p")
		ts.Close()
		if err == nil {
			t.Fatalf("expected error for body %q", body)
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			t.Fatalf("malformed payload should not be an APIError: %v", err)
		}
	}
}

func TestClientTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer ts.Close()

	client := NewClient(Options{APIKey: "k", BaseURL: ts.URL, RequestTimeout: 20 * time.Millisecond})
	_, err := client.GenerateImage(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "nebius: http request") {
		t.Fatalf("expected transport error, got %v", err)
	}
}
