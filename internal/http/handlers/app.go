package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"aimarketer/internal/domain"
	"aimarketer/internal/imaging"
	"aimarketer/internal/infra"
	"aimarketer/internal/providers/image"
)

// maxBodyBytes bounds JSON request bodies. Export bodies may embed a 1024px
// data URI.
const maxBodyBytes = 32 << 20

type App struct {
	Config         *infra.Config
	Logger         zerolog.Logger
	ImageGenerator image.Generator
	Exporter       *imaging.Exporter
	Usage          domain.UsageRepository
	Now            func() time.Time
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, errorResponse{Error: message})
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

type errorResponse struct {
	Error string `json:"error"`
}
