package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aimarketer/internal/domain"
	"aimarketer/internal/infra"
	"aimarketer/internal/sqlinline"
)

// UsageRepositoryPG stores generation events in PostgreSQL.
type UsageRepositoryPG struct {
	db infra.SQLExecutor
}

// NewUsageRepository constructs the repository.
func NewUsageRepository(db infra.SQLExecutor) *UsageRepositoryPG {
	return &UsageRepositoryPG{db: db}
}

// EnsureSchema creates the events table when it does not exist yet.
func (r *UsageRepositoryPG) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, sqlinline.QCreateGenerationEvents); err != nil {
		return fmt.Errorf("create generation_events: %w", err)
	}
	return nil
}

// RecordGeneration inserts ev, filling its id and timestamp when unset.
func (r *UsageRepositoryPG) RecordGeneration(ctx context.Context, ev domain.GenerationEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, sqlinline.QInsertGenerationEvent,
		ev.ID,
		ev.RequestID,
		ev.Style,
		ev.PromptLength,
		ev.Success,
		ev.LatencyMS,
		ev.Country,
		ev.Error,
		ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert generation event: %w", err)
	}
	return nil
}

// Summary returns aggregate counts over all recorded events.
func (r *UsageRepositoryPG) Summary(ctx context.Context) (*domain.UsageSummary, error) {
	var s domain.UsageSummary
	if err := r.db.QueryRow(ctx, sqlinline.QGenerationSummary).Scan(
		&s.Total,
		&s.Succeeded,
		&s.Failed,
		&s.Last24h,
		&s.AvgLatencyMS,
	); err != nil {
		return nil, fmt.Errorf("generation summary: %w", err)
	}
	return &s, nil
}

var _ domain.UsageRepository = (*UsageRepositoryPG)(nil)
