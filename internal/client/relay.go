// Package client talks to the generation relay over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"aimarketer/internal/domain"
)

const maxResponseBytes = 32 << 20

// Options configures a RelayClient.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zerolog.Logger
}

// RelayClient calls POST /api/generate-image. It satisfies editor.Generator.
type RelayClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zerolog.Logger
}

// RelayError is a failed relay call. Message holds the relay's error text.
type RelayError struct {
	StatusCode int
	Message    string
}

func (e *RelayError) Error() string {
	return fmt.Sprintf("relay: http %d: %s", e.StatusCode, e.Message)
}

// UserMessage is the relay's error text, shown to the user as is.
func (e *RelayError) UserMessage() string {
	return e.Message
}

func (e *RelayError) Unwrap() error {
	return domain.ErrProviderFailure
}

type relayResponse struct {
	Success bool                     `json:"success"`
	Result  *domain.GenerationResult `json:"result"`
	Error   string                   `json:"error"`
}

func NewRelayClient(opts Options) (*RelayClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("relay: base url is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &RelayClient{baseURL: baseURL, httpClient: httpClient, timeout: timeout, logger: logger}, nil
}

// Generate submits one prompt/style pair and returns the generated image.
func (c *RelayClient) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("relay: encode request: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate-image", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("relay: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("relay: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("relay: read response: %w", err)
	}
	var decoded relayResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(decoded.Error)
		if decodeErr != nil || msg == "" {
			msg = "Failed to generate image"
		}
		return nil, &RelayError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("relay: decode response: %w", decodeErr)
	}
	if !decoded.Success || decoded.Result == nil || decoded.Result.Content == "" {
		return nil, fmt.Errorf("%w: relay returned no image", domain.ErrProviderFailure)
	}
	c.logger.Debug().
		Dur("elapsed", time.Since(start)).
		Int("content_len", len(decoded.Result.Content)).
		Msg("relay: image received")
	return decoded.Result, nil
}
