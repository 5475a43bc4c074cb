package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"aimarketer/internal/domain"
	"aimarketer/internal/editor"
)

type styleDTO struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Default bool   `json:"default,omitempty"`
}

// Styles lists the style choices offered by the client.
func (a *App) Styles(w http.ResponseWriter, r *http.Request) {
	title := cases.Title(language.English)
	items := make([]styleDTO, 0, len(domain.Styles))
	for _, s := range domain.Styles {
		items = append(items, styleDTO{Value: s, Label: title.String(s), Default: s == domain.DefaultStyle})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

type presetDTO struct {
	editor.Preset
	Filter string `json:"filter"`
}

// Presets lists the one-click presets with the filter each yields from the
// neutral baseline.
func (a *App) Presets(w http.ResponseWriter, r *http.Request) {
	items := make([]presetDTO, 0, len(editor.Presets))
	for _, p := range editor.Presets {
		items = append(items, presetDTO{Preset: p, Filter: p.Apply(editor.Default()).Filter().CSS()})
	}
	a.json(w, http.StatusOK, map[string]any{"items": items, "fontFamilies": editor.FontFamilies, "formats": editor.Formats})
}

type previewRequest struct {
	Adjustments json.RawMessage `json:"adjustments"`
	Preset      string          `json:"preset"`
}

type previewResponse struct {
	Adjustments editor.Adjustments `json:"adjustments"`
	Preview     editor.Preview     `json:"preview"`
}

var errUnknownPreset = errors.New("unknown preset")

// Preview normalizes the posted adjustments, applies an optional preset and
// returns the live composition.
func (a *App) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := a.decode(w, r, &req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid payload")
		return
	}
	adj, err := resolveAdjustments(req.Adjustments, req.Preset)
	if err != nil {
		a.error(w, http.StatusBadRequest, err.Error())
		return
	}
	a.json(w, http.StatusOK, previewResponse{Adjustments: adj, Preview: adj.Preview()})
}

// resolveAdjustments overlays the posted fields on the baseline, validates
// the result and applies the named preset when given.
func resolveAdjustments(raw json.RawMessage, preset string) (editor.Adjustments, error) {
	adj := editor.Default()
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &adj); err != nil {
			return editor.Adjustments{}, fmt.Errorf("invalid adjustments: %w", err)
		}
	}
	if err := adj.Normalize(); err != nil {
		return editor.Adjustments{}, err
	}
	if preset != "" {
		p, ok := editor.LookupPreset(preset)
		if !ok {
			return editor.Adjustments{}, errUnknownPreset
		}
		adj = p.Apply(adj)
	}
	return adj, nil
}
