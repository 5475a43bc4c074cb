package domain

import (
	"context"
	"time"
)

// GenerationEvent is one relay invocation as recorded in the usage log.
type GenerationEvent struct {
	ID           string
	RequestID    string
	Style        string
	PromptLength int
	Success      bool
	LatencyMS    int
	Country      string
	Error        string
	CreatedAt    time.Time
}

// UsageSummary aggregates generation events.
type UsageSummary struct {
	Total        int64
	Succeeded    int64
	Failed       int64
	Last24h      int64
	AvgLatencyMS int64
}

// UsageRepository persists generation events.
type UsageRepository interface {
	RecordGeneration(ctx context.Context, ev GenerationEvent) error
	Summary(ctx context.Context) (*UsageSummary, error)
}
