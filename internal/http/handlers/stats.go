package handlers

import (
	"net/http"
)

// StatsSummary reports aggregate relay usage. It answers 503 when no
// database is configured.
func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	if a.Usage == nil {
		a.error(w, http.StatusServiceUnavailable, "usage tracking disabled")
		return
	}
	s, err := a.Usage.Summary(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("stats: summary failed")
		a.error(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"total":          s.Total,
		"succeeded":      s.Succeeded,
		"failed":         s.Failed,
		"last_24h":       s.Last24h,
		"avg_latency_ms": s.AvgLatencyMS,
	})
}
