package editor

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBaseline(t *testing.T) {
	a := Default()
	assert.Equal(t, 100.0, a.Brightness)
	assert.Equal(t, 100.0, a.Contrast)
	assert.Equal(t, 100.0, a.Saturation)
	for _, f := range []Field{FieldGrayscale, FieldSepia, FieldBlur, FieldHueRotate, FieldWidth, FieldHeight} {
		v, err := a.Number(f)
		require.NoError(t, err)
		assert.Zero(t, v, "field %s", f)
	}
	assert.Empty(t, a.Text)
	assert.Equal(t, FormatPNG, a.Format)
	assert.True(t, a.Filter().Identity())
}

func TestSetNumberClamps(t *testing.T) {
	a := Default()
	require.NoError(t, a.SetNumber(FieldBrightness, 500))
	assert.Equal(t, 200.0, a.Brightness)
	require.NoError(t, a.SetNumber(FieldBlur, -3))
	assert.Equal(t, 0.0, a.Blur)
	require.NoError(t, a.SetNumber(FieldWidth, 640.6))
	assert.Equal(t, 641, a.Width)
	require.NoError(t, a.SetNumber(FieldFontSize, 1))
	assert.Equal(t, 8.0, a.FontSize)

	assert.Error(t, a.SetNumber(Field("opacity"), 10))
}

func TestStringSetters(t *testing.T) {
	a := Default()
	require.NoError(t, a.SetFontFamily("courier new"))
	assert.Equal(t, "Courier New", a.FontFamily)
	assert.Error(t, a.SetFontFamily("Wingdings"))

	require.NoError(t, a.SetTextColor("#F0a"))
	assert.Equal(t, "#ff00aa", a.TextColor)
	assert.Error(t, a.SetTextColor("red"))
	assert.Error(t, a.SetTextColor("#12345g"))

	require.NoError(t, a.SetFormat("image/jpeg"))
	assert.Equal(t, FormatJPEG, a.Format)
	require.NoError(t, a.SetFormat(".webp"))
	assert.Equal(t, FormatWebP, a.Format)
	assert.Error(t, a.SetFormat("bmp"))
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#1e90ff")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x1e, G: 0x90, B: 0xff, A: 0xff}, c)
}

func TestNormalizeFillsMissingJSONFieldsFromDefault(t *testing.T) {
	a := Default()
	require.NoError(t, json.Unmarshal([]byte(`{"brightness": 250, "sepia": 40, "format": "jpg"}`), &a))
	require.NoError(t, a.Normalize())

	assert.Equal(t, 200.0, a.Brightness)
	assert.Equal(t, 40.0, a.Sepia)
	assert.Equal(t, 100.0, a.Contrast)
	assert.Equal(t, FormatJPEG, a.Format)
	assert.Equal(t, "Arial", a.FontFamily)
}

func TestNormalizeRejectsBadStrings(t *testing.T) {
	a := Default()
	a.TextColor = "blue"
	assert.Error(t, a.Normalize())
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, "jpg", FormatJPEG.Extension())
	assert.Equal(t, "image/jpeg", FormatJPEG.MIME())
	assert.Equal(t, "image/webp", FormatWebP.MIME())
	assert.True(t, FormatPNG.Lossless())
	assert.False(t, FormatWebP.Lossless())
}
