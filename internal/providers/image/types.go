package image

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"aimarketer/internal/domain"
)

// DefaultErrorMessage is returned to callers when the provider gave no reason.
const DefaultErrorMessage = "Failed to generate image"

// GenerateRequest describes a normalized request passed to the image provider.
type GenerateRequest struct {
	Prompt    string
	Style     string
	RequestID string
}

// Asset is a generated image, still base64 encoded.
type Asset struct {
	Base64    string
	Extension string
}

// DataURI renders the asset as an inline image reference.
func (a Asset) DataURI() string {
	ext := strings.TrimSpace(a.Extension)
	if ext == "" {
		ext = "webp"
	}
	return "data:image/" + ext + ";base64," + a.Base64
}

// Generator is the contract implemented by image providers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Asset, error)
}

// ProviderError reports a failed generation. Message is the provider's own
// text when it supplied one.
type ProviderError struct {
	Status  int
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Err != nil && e.Status > 0:
		return fmt.Sprintf("provider status %d: %v", e.Status, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	case e.Status > 0:
		return fmt.Sprintf("provider status %d: %s", e.Status, e.UserMessage())
	}
	return e.UserMessage()
}

// UserMessage is the text safe to show to the caller.
func (e *ProviderError) UserMessage() string {
	if msg := strings.TrimSpace(e.Message); msg != "" {
		return msg
	}
	return DefaultErrorMessage
}

func (e *ProviderError) Unwrap() []error {
	if e.Err != nil {
		return []error{domain.ErrProviderFailure, e.Err}
	}
	return []error{domain.ErrProviderFailure}
}

// UserMessage extracts the caller-facing message from err.
func UserMessage(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.UserMessage()
	}
	return DefaultErrorMessage
}
