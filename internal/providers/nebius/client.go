package nebius

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Fixed generation parameters for fast preview-quality output.
const (
	DefaultBaseURL    = "https://api.studio.nebius.ai/v1"
	DefaultModel      = "black-forest-labs/flux-schnell"
	ImageWidth        = 1024
	ImageHeight       = 1024
	InferenceSteps    = 4
	RandomSeed        = -1
	ResponseExtension = "webp"
	ResponseFormat    = "b64_json"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("nebius: api key is required")

// Options configures the Nebius AI Studio client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
}

// Client calls the Nebius AI Studio text-to-image endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zerolog.Logger
}

// ImageRequest is the body of POST /images/generations.
type ImageRequest struct {
	Width             int    `json:"width"`
	Height            int    `json:"height"`
	NumInferenceSteps int    `json:"num_inference_steps"`
	NegativePrompt    string `json:"negative_prompt"`
	Seed              int    `json:"seed"`
	ResponseExtension string `json:"response_extension"`
	ResponseFormat    string `json:"response_format"`
	Prompt            string `json:"prompt"`
	Model             string `json:"model"`
}

// ImageAsset is the first generated image, still base64 encoded.
type ImageAsset struct {
	B64       string
	Extension string
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

type errorResponse struct {
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// APIError is returned when the provider answers with a non-success status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("nebius: http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("nebius: http %d", e.StatusCode)
}

// NewClient constructs a client with defaults for unset options.
func NewClient(opts Options) *Client {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultModel
	}
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// NewImageRequest fills the fixed generation parameters around prompt.
func (c *Client) NewImageRequest(prompt string) ImageRequest {
	return ImageRequest{
		Width:             ImageWidth,
		Height:            ImageHeight,
		NumInferenceSteps: InferenceSteps,
		NegativePrompt:    "",
		Seed:              RandomSeed,
		ResponseExtension: ResponseExtension,
		ResponseFormat:    ResponseFormat,
		Prompt:            prompt,
		Model:             c.model,
	}
}

// GenerateImage performs a single generation call. It never retries.
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*ImageAsset, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	body, err := json.Marshal(c.NewImageRequest(prompt))
	if err != nil {
		return nil, fmt.Errorf("nebius: encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/images/generations", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("nebius: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "*/*")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("nebius: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nebius: read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
		c.logger.Error().
			Int("status", resp.StatusCode).
			RawJSON("body", jsonOrNull(raw)).
			Msg("nebius: api error")
		return nil, apiErr
	}

	var decoded imageResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("nebius: decode response: %w", err)
	}
	if len(decoded.Data) == 0 {
		return nil, errors.New("nebius: response has no data")
	}
	payload := strings.TrimSpace(decoded.Data[0].B64JSON)
	if payload == "" {
		return nil, errors.New("nebius: response has no b64_json")
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return nil, fmt.Errorf("nebius: invalid b64_json: %w", err)
	}
	c.logger.Debug().
		Str("model", c.model).
		Dur("elapsed", time.Since(start)).
		Int("b64_len", len(payload)).
		Msg("nebius: generated image")
	return &ImageAsset{B64: payload, Extension: ResponseExtension}, nil
}

// errorMessage extracts a human readable message from an error body.
func errorMessage(raw []byte) string {
	var e errorResponse
	if err := json.Unmarshal(raw, &e); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	if e.Error != nil && strings.TrimSpace(e.Error.Message) != "" {
		return strings.TrimSpace(e.Error.Message)
	}
	var detail string
	if len(e.Detail) > 0 && json.Unmarshal(e.Detail, &detail) == nil {
		return strings.TrimSpace(detail)
	}
	return ""
}

func jsonOrNull(raw []byte) []byte {
	if json.Valid(raw) {
		return raw
	}
	quoted, _ := json.Marshal(string(raw))
	return quoted
}
