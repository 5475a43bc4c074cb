package image

import (
	"context"
	"errors"
	"fmt"

	"aimarketer/internal/providers/nebius"
)

type nebiusImageClient interface {
	GenerateImage(context.Context, string) (*nebius.ImageAsset, error)
	Model() string
}

// NebiusGenerator turns relay requests into single Nebius generation calls.
type NebiusGenerator struct {
	client nebiusImageClient
}

func NewNebiusGenerator(client nebiusImageClient) *NebiusGenerator {
	return &NebiusGenerator{client: client}
}

// Generate fulfils the Generator interface. Failures come back as
// *ProviderError.
func (g *NebiusGenerator) Generate(ctx context.Context, req GenerateRequest) (*Asset, error) {
	if g == nil || g.client == nil {
		return nil, &ProviderError{Err: errors.New("nebius generator not configured")}
	}
	asset, err := g.client.GenerateImage(ctx, ComposePrompt(req.Prompt, req.Style))
	if err != nil {
		var apiErr *nebius.APIError
		if errors.As(err, &apiErr) {
			return nil, &ProviderError{Status: apiErr.StatusCode, Message: apiErr.Message, Err: err}
		}
		return nil, &ProviderError{Err: err}
	}
	if asset == nil || asset.B64 == "" {
		return nil, &ProviderError{Err: fmt.Errorf("nebius %s returned no image", g.client.Model())}
	}
	return &Asset{Base64: asset.B64, Extension: asset.Extension}, nil
}
