package editor

import (
	"fmt"
	"strconv"

	"aimarketer/internal/filter"
)

// Overlay text shadow, shared by the preview layer and the baked export.
const (
	ShadowOffsetX = 2
	ShadowOffsetY = 2
	ShadowBlur    = 4
	ShadowAlpha   = 0.5
)

// Filter maps the adjustments onto the chained filter expression. It is the
// single source for both the live preview and the export pipeline.
func (a Adjustments) Filter() filter.Chain {
	return filter.Chain{
		{Kind: filter.Brightness, Amount: a.Brightness},
		{Kind: filter.Contrast, Amount: a.Contrast},
		{Kind: filter.Saturate, Amount: a.Saturation},
		{Kind: filter.Grayscale, Amount: a.Grayscale},
		{Kind: filter.Sepia, Amount: a.Sepia},
		{Kind: filter.Blur, Amount: a.Blur},
		{Kind: filter.HueRotate, Amount: a.HueRotate},
	}
}

// HasOverlay reports whether overlay text should be rendered.
func (a Adjustments) HasOverlay() bool {
	return a.Text != ""
}

// OverlayAnchor converts the percentage anchor into pixel coordinates for a
// frame of the given size. Text is centered on this point.
func (a Adjustments) OverlayAnchor(width, height int) (x, y float64) {
	return a.TextX / 100 * float64(width), a.TextY / 100 * float64(height)
}

// Overlay is the positioned text layer shown above the preview image.
type Overlay struct {
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	FontFamily string  `json:"fontFamily"`
	FontSize   float64 `json:"fontSize"`
	Color      string  `json:"color"`
	Shadow     string  `json:"shadow"`
	Style      string  `json:"style"`
}

// Preview is the live composition derived from an Adjustments value.
type Preview struct {
	Filter  string   `json:"filter"`
	Overlay *Overlay `json:"overlay,omitempty"`
	Width   int      `json:"width,omitempty"`
	Height  int      `json:"height,omitempty"`
	Format  Format   `json:"format"`
}

// TextShadow is the fixed CSS drop shadow applied to overlay text.
func TextShadow() string {
	return fmt.Sprintf("%dpx %dpx %dpx rgba(0,0,0,%s)", ShadowOffsetX, ShadowOffsetY, ShadowBlur, fmtNum(ShadowAlpha))
}

// Preview composes the live preview. It is recomputed on every change.
func (a Adjustments) Preview() Preview {
	p := Preview{
		Filter: a.Filter().CSS(),
		Width:  a.Width,
		Height: a.Height,
		Format: a.Format,
	}
	if a.HasOverlay() {
		shadow := TextShadow()
		p.Overlay = &Overlay{
			Text:       a.Text,
			X:          a.TextX,
			Y:          a.TextY,
			FontFamily: a.FontFamily,
			FontSize:   a.FontSize,
			Color:      a.TextColor,
			Shadow:     shadow,
			Style: fmt.Sprintf(
				"position: absolute; left: %s%%; top: %s%%; transform: translate(-50%%, -50%%); font-family: %s; font-size: %spx; color: %s; text-shadow: %s",
				fmtNum(a.TextX), fmtNum(a.TextY), a.FontFamily, fmtNum(a.FontSize), a.TextColor, shadow,
			),
		}
	}
	return p
}

func fmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
