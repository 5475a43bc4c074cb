package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"aimarketer/internal/editor"
	"aimarketer/internal/imaging"
	"aimarketer/internal/middleware"
	"aimarketer/pkg/zip"
)

type exportRequest struct {
	Image       string          `json:"image"`
	Adjustments json.RawMessage `json:"adjustments"`
	Preset      string          `json:"preset"`
	GeneratedAt int64           `json:"generatedAt"`
}

func (req exportRequest) generatedAt(now time.Time) time.Time {
	if req.GeneratedAt > 0 {
		return time.UnixMilli(req.GeneratedAt)
	}
	return now
}

// Export bakes the adjustments into the image and streams the file back as
// an attachment.
func (a *App) Export(w http.ResponseWriter, r *http.Request) {
	req, adj, ok := a.exportInput(w, r)
	if !ok {
		return
	}
	art, err := a.Exporter.Export(r.Context(), req.Image, adj, req.generatedAt(a.now()))
	if err != nil {
		a.exportFailed(w, r, err)
		return
	}
	a.Logger.Info().
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Str("format", string(art.Format)).
		Int("width", art.Width).
		Int("height", art.Height).
		Int("bytes", len(art.Data)).
		Msg("export: image rendered")

	h := w.Header()
	h.Set("Content-Type", art.MIME)
	h.Set("Content-Length", strconv.Itoa(len(art.Data)))
	h.Set("Content-Disposition", attachment(art.Filename))
	h.Set("X-Filter-Expression", art.Filter)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(art.Data)
}

// ExportBundle renders the image once per output format and returns a zip.
func (a *App) ExportBundle(w http.ResponseWriter, r *http.Request) {
	req, adj, ok := a.exportInput(w, r)
	if !ok {
		return
	}
	at := req.generatedAt(a.now())
	data, err := a.Exporter.Load(r.Context(), req.Image)
	if err != nil {
		a.exportFailed(w, r, err)
		return
	}
	assets := make([]zip.Asset, 0, len(editor.Formats))
	for _, f := range editor.Formats {
		adj.Format = f
		art, err := a.Exporter.Render(r.Context(), data, adj, at)
		if err != nil {
			a.exportFailed(w, r, err)
			return
		}
		assets = append(assets, zip.Asset{Filename: art.Filename, MIME: art.MIME, Data: art.Data, Modified: at})
	}
	archive, err := zip.ArchiveAssets(assets)
	if err != nil {
		a.exportFailed(w, r, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/zip")
	h.Set("Content-Length", strconv.Itoa(len(archive)))
	h.Set("Content-Disposition", attachment(fmt.Sprintf("ai-image-%d.zip", at.UnixMilli())))
	h.Set("X-Filter-Expression", adj.Filter().CSS())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func (a *App) exportInput(w http.ResponseWriter, r *http.Request) (exportRequest, editor.Adjustments, bool) {
	var req exportRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return req, editor.Adjustments{}, false
	}
	if strings.TrimSpace(req.Image) == "" {
		a.error(w, http.StatusBadRequest, "image is required")
		return req, editor.Adjustments{}, false
	}
	adj, err := resolveAdjustments(req.Adjustments, req.Preset)
	if err != nil {
		a.error(w, http.StatusBadRequest, err.Error())
		return req, editor.Adjustments{}, false
	}
	return req, adj, true
}

func (a *App) exportFailed(w http.ResponseWriter, r *http.Request, err error) {
	a.Logger.Error().Err(err).
		Str("request_id", middleware.RequestIDFromContext(r.Context())).
		Msg("export: failed")
	a.error(w, http.StatusInternalServerError, imaging.ExportFailedMessage)
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}
