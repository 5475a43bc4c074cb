package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"aimarketer/internal/domain"
	"aimarketer/internal/middleware"
	"aimarketer/internal/providers/image"
)

const usageRecordTimeout = 2 * time.Second

type generateResponse struct {
	Success bool                    `json:"success"`
	Result  domain.GenerationResult `json:"result"`
}

// GenerateImage relays one prompt/style pair to the image provider. Every
// failure is answered with 500 and a single {error} field.
func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	rid := middleware.RequestIDFromContext(r.Context())
	log := a.Logger.With().Str("request_id", rid).Logger()

	var req domain.GenerationRequest
	if err := a.decode(w, r, &req); err != nil {
		log.Error().Err(err).Msg("generate: invalid payload")
		a.error(w, http.StatusInternalServerError, image.DefaultErrorMessage)
		return
	}
	if a.ImageGenerator == nil {
		log.Error().Msg("generate: no image generator configured")
		a.error(w, http.StatusInternalServerError, image.DefaultErrorMessage)
		return
	}

	start := time.Now()
	asset, err := a.ImageGenerator.Generate(r.Context(), image.GenerateRequest{
		Prompt:    req.Prompt,
		Style:     req.Style,
		RequestID: rid,
	})
	latency := time.Since(start)
	ev := domain.GenerationEvent{
		RequestID:    rid,
		Style:        req.Style,
		PromptLength: len([]rune(req.Prompt)),
		Success:      err == nil,
		LatencyMS:    int(latency.Milliseconds()),
		Country:      middleware.CountryFromContext(r.Context()),
	}
	if err != nil {
		ev.Error = err.Error()
		a.recordUsage(r.Context(), ev)
		evt := log.Error().Err(err).Str("style", req.Style).Dur("latency", latency)
		var pe *image.ProviderError
		if errors.As(err, &pe) && pe.Status > 0 {
			evt = evt.Int("provider_status", pe.Status)
		}
		evt.Msg("generate: provider call failed")
		a.error(w, http.StatusInternalServerError, image.UserMessage(err))
		return
	}
	a.recordUsage(r.Context(), ev)

	log.Info().Str("style", req.Style).Dur("latency", latency).Msg("generate: image ready")
	a.json(w, http.StatusOK, generateResponse{
		Success: true,
		Result: domain.GenerationResult{
			Content: asset.DataURI(),
			Role:    domain.RoleAssistant,
		},
	})
}

// recordUsage stores ev when usage tracking is enabled. Failures are logged
// and never reach the client.
func (a *App) recordUsage(ctx context.Context, ev domain.GenerationEvent) {
	if a.Usage == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), usageRecordTimeout)
	defer cancel()
	if err := a.Usage.RecordGeneration(ctx, ev); err != nil {
		a.Logger.Warn().Err(err).Str("request_id", ev.RequestID).Msg("usage: record generation failed")
	}
}
