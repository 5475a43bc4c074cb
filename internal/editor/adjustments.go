// Package editor holds the client-side editing state of a generated image:
// the adjustment parameters, quick-filter presets, the preview composition
// and the session that owns the single live generation result.
package editor

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// Field names a numeric adjustment parameter. Values match the JSON keys.
type Field string

const (
	FieldBrightness Field = "brightness"
	FieldContrast   Field = "contrast"
	FieldSaturation Field = "saturation"
	FieldGrayscale  Field = "grayscale"
	FieldSepia      Field = "sepia"
	FieldBlur       Field = "blur"
	FieldHueRotate  Field = "hueRotate"
	FieldWidth      Field = "width"
	FieldHeight     Field = "height"
	FieldTextX      Field = "textX"
	FieldTextY      Field = "textY"
	FieldFontSize   Field = "fontSize"
)

// NumericFields lists every numeric field in display order.
var NumericFields = []Field{
	FieldBrightness, FieldContrast, FieldSaturation, FieldGrayscale, FieldSepia,
	FieldBlur, FieldHueRotate, FieldWidth, FieldHeight, FieldTextX, FieldTextY, FieldFontSize,
}

type bounds struct{ min, max float64 }

var fieldBounds = map[Field]bounds{
	FieldBrightness: {0, 200},
	FieldContrast:   {0, 200},
	FieldSaturation: {0, 200},
	FieldGrayscale:  {0, 100},
	FieldSepia:      {0, 100},
	FieldBlur:       {0, 20},
	FieldHueRotate:  {0, 360},
	FieldWidth:      {0, MaxDimension},
	FieldHeight:     {0, MaxDimension},
	FieldTextX:      {0, 100},
	FieldTextY:      {0, 100},
	FieldFontSize:   {8, 200},
}

// MaxDimension caps the output width and height override.
const MaxDimension = 4096

// FontFamilies is the closed set of overlay fonts offered by the editor.
var FontFamilies = []string{"Arial", "Helvetica", "Impact", "Georgia", "Times New Roman", "Courier New", "Verdana"}

// Adjustments is the full set of visual-adjustment parameters applied to the
// live generation result. Every field is independent of the others.
type Adjustments struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Grayscale  float64 `json:"grayscale"`
	Sepia      float64 `json:"sepia"`
	Blur       float64 `json:"blur"`
	HueRotate  float64 `json:"hueRotate"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Text       string  `json:"text"`
	TextX      float64 `json:"textX"`
	TextY      float64 `json:"textY"`
	FontFamily string  `json:"fontFamily"`
	FontSize   float64 `json:"fontSize"`
	TextColor  string  `json:"textColor"`
	Format     Format  `json:"format"`
}

// Default returns the neutral baseline.
func Default() Adjustments {
	return Adjustments{
		Brightness: 100,
		Contrast:   100,
		Saturation: 100,
		TextX:      50,
		TextY:      50,
		FontFamily: "Arial",
		FontSize:   40,
		TextColor:  "#ffffff",
		Format:     FormatPNG,
	}
}

// Number returns the current value of a numeric field.
func (a Adjustments) Number(f Field) (float64, error) {
	switch f {
	case FieldBrightness:
		return a.Brightness, nil
	case FieldContrast:
		return a.Contrast, nil
	case FieldSaturation:
		return a.Saturation, nil
	case FieldGrayscale:
		return a.Grayscale, nil
	case FieldSepia:
		return a.Sepia, nil
	case FieldBlur:
		return a.Blur, nil
	case FieldHueRotate:
		return a.HueRotate, nil
	case FieldWidth:
		return float64(a.Width), nil
	case FieldHeight:
		return float64(a.Height), nil
	case FieldTextX:
		return a.TextX, nil
	case FieldTextY:
		return a.TextY, nil
	case FieldFontSize:
		return a.FontSize, nil
	}
	return 0, fmt.Errorf("editor: unknown field %q", f)
}

// SetNumber assigns a numeric field, clamping the value into the field's range.
func (a *Adjustments) SetNumber(f Field, v float64) error {
	b, ok := fieldBounds[f]
	if !ok {
		return fmt.Errorf("editor: unknown field %q", f)
	}
	if math.IsNaN(v) {
		return fmt.Errorf("editor: %s must be a number", f)
	}
	v = math.Min(math.Max(v, b.min), b.max)
	switch f {
	case FieldBrightness:
		a.Brightness = v
	case FieldContrast:
		a.Contrast = v
	case FieldSaturation:
		a.Saturation = v
	case FieldGrayscale:
		a.Grayscale = v
	case FieldSepia:
		a.Sepia = v
	case FieldBlur:
		a.Blur = v
	case FieldHueRotate:
		a.HueRotate = v
	case FieldWidth:
		a.Width = int(math.Round(v))
	case FieldHeight:
		a.Height = int(math.Round(v))
	case FieldTextX:
		a.TextX = v
	case FieldTextY:
		a.TextY = v
	case FieldFontSize:
		a.FontSize = v
	}
	return nil
}

// SetText sets the overlay text. An empty string disables the overlay.
func (a *Adjustments) SetText(text string) {
	a.Text = text
}

// SetFontFamily selects one of FontFamilies (case-insensitive).
func (a *Adjustments) SetFontFamily(family string) error {
	for _, f := range FontFamilies {
		if strings.EqualFold(f, strings.TrimSpace(family)) {
			a.FontFamily = f
			return nil
		}
	}
	return fmt.Errorf("editor: unsupported font family %q", family)
}

// SetTextColor accepts "#rgb" or "#rrggbb" and stores the long lowercase form.
func (a *Adjustments) SetTextColor(hex string) error {
	c, err := ParseHexColor(hex)
	if err != nil {
		return err
	}
	a.TextColor = fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	return nil
}

// SetFormat selects the export encoding.
func (a *Adjustments) SetFormat(name string) error {
	f, err := ParseFormat(name)
	if err != nil {
		return err
	}
	a.Format = f
	return nil
}

// Normalize clamps every numeric field and validates the string fields. It is
// used on states received from outside the process.
func (a *Adjustments) Normalize() error {
	for _, f := range NumericFields {
		v, _ := a.Number(f)
		if err := a.SetNumber(f, v); err != nil {
			return err
		}
	}
	if err := a.SetFontFamily(a.FontFamily); err != nil {
		return err
	}
	if err := a.SetTextColor(a.TextColor); err != nil {
		return err
	}
	return a.SetFormat(string(a.Format))
}

// ParseHexColor parses "#rgb" or "#rrggbb" into an opaque color.
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	c := color.NRGBA{A: 0xff}
	if !strings.HasPrefix(s, "#") {
		return c, fmt.Errorf("editor: invalid color %q", s)
	}
	hex := s[1:]
	var digits [6]byte
	switch len(hex) {
	case 3:
		for i := 0; i < 3; i++ {
			digits[2*i], digits[2*i+1] = hex[i], hex[i]
		}
	case 6:
		copy(digits[:], hex)
	default:
		return c, fmt.Errorf("editor: invalid color %q", s)
	}
	var rgb [3]uint8
	for i := range rgb {
		hi, ok1 := hexNibble(digits[2*i])
		lo, ok2 := hexNibble(digits[2*i+1])
		if !ok1 || !ok2 {
			return c, fmt.Errorf("editor: invalid color %q", s)
		}
		rgb[i] = hi<<4 | lo
	}
	c.R, c.G, c.B = rgb[0], rgb[1], rgb[2]
	return c, nil
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}
