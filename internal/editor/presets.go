package editor

import "strings"

// Assignment sets one numeric field to a literal value.
type Assignment struct {
	Field Field   `json:"field"`
	Value float64 `json:"value"`
}

// Preset is a named one-click adjustment. Applying it is atomic: either every
// assignment lands or, for Reset, the whole state returns to Default.
type Preset struct {
	Name   string       `json:"name"`
	Reset  bool         `json:"reset,omitempty"`
	Values []Assignment `json:"values,omitempty"`
}

// Presets in the order they are shown.
var Presets = []Preset{
	{Name: "Reset", Reset: true},
	{Name: "Vibrant", Values: []Assignment{
		{FieldBrightness, 110}, {FieldContrast, 120}, {FieldSaturation, 150},
	}},
	{Name: "B&W", Values: []Assignment{
		{FieldGrayscale, 100}, {FieldSaturation, 0}, {FieldContrast, 120},
	}},
	{Name: "Retro", Values: []Assignment{
		{FieldSepia, 60}, {FieldContrast, 110}, {FieldBrightness, 95}, {FieldSaturation, 80},
	}},
	{Name: "Dreamy", Values: []Assignment{
		{FieldBrightness, 110}, {FieldContrast, 90}, {FieldSaturation, 120}, {FieldBlur, 1},
	}},
	{Name: "Psychedelic", Values: []Assignment{
		{FieldHueRotate, 180}, {FieldSaturation, 200}, {FieldContrast, 130},
	}},
}

// LookupPreset finds a preset by name, ignoring case.
func LookupPreset(name string) (Preset, bool) {
	name = strings.TrimSpace(name)
	for _, p := range Presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

// Apply returns a copy of a with the preset applied. Fields the preset does
// not mention are carried over unchanged.
func (p Preset) Apply(a Adjustments) Adjustments {
	if p.Reset {
		return Default()
	}
	out := a
	for _, v := range p.Values {
		// preset values are in range and the fields are known
		_ = out.SetNumber(v.Field, v.Value)
	}
	return out
}
