package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"aimarketer/internal/editor"
)

// fontData maps the editor font families onto the closest bundled Go font.
var fontData = map[string][]byte{
	"Arial":           goregular.TTF,
	"Helvetica":       goregular.TTF,
	"Verdana":         gomedium.TTF,
	"Impact":          gobold.TTF,
	"Georgia":         goitalic.TTF,
	"Times New Roman": goitalic.TTF,
	"Courier New":     gomono.TTF,
}

var (
	fontMu    sync.Mutex
	fontCache = map[string]*opentype.Font{}
)

func loadFont(family string) (*opentype.Font, error) {
	fontMu.Lock()
	defer fontMu.Unlock()
	if f, ok := fontCache[family]; ok {
		return f, nil
	}
	data, ok := fontData[family]
	if !ok {
		data = goregular.TTF
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("imaging: parse font %q: %w", family, err)
	}
	fontCache[family] = f
	return f, nil
}

// drawOverlay bakes the overlay text of a onto dst, centered on the
// percentage anchor scaled to dst's pixel size, with the preview's shadow.
func drawOverlay(dst draw.Image, a editor.Adjustments) error {
	col, err := editor.ParseHexColor(a.TextColor)
	if err != nil {
		return err
	}
	f, err := loadFont(a.FontFamily)
	if err != nil {
		return err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    a.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return fmt.Errorf("imaging: font face: %w", err)
	}
	defer face.Close()

	b := dst.Bounds()
	cx, cy := a.OverlayAnchor(b.Dx(), b.Dy())
	d := &font.Drawer{Dst: dst, Face: face}
	width := d.MeasureString(a.Text)
	m := face.Metrics()
	origin := fixed.Point26_6{
		X: fixed.Int26_6(math.Round((float64(b.Min.X)+cx)*64)) - width/2,
		Y: fixed.Int26_6(math.Round((float64(b.Min.Y)+cy)*64)) + (m.Ascent-m.Descent)/2,
	}

	d.Src = image.NewUniform(color.NRGBA{A: uint8(math.Round(editor.ShadowAlpha * 255))})
	d.Dot = origin.Add(fixed.P(editor.ShadowOffsetX, editor.ShadowOffsetY))
	d.DrawString(a.Text)

	d.Src = image.NewUniform(col)
	d.Dot = origin
	d.DrawString(a.Text)
	return nil
}
