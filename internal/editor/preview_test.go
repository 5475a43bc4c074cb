package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewDefaultFilter(t *testing.T) {
	p := Default().Preview()
	assert.Equal(t,
		"brightness(100%) contrast(100%) saturate(100%) grayscale(0%) sepia(0%) blur(0px) hue-rotate(0deg)",
		p.Filter)
	assert.Nil(t, p.Overlay)
}

func TestPreviewFilterFollowsState(t *testing.T) {
	a := Default()
	require.NoError(t, a.SetNumber(FieldBlur, 2.5))
	require.NoError(t, a.SetNumber(FieldHueRotate, 90))
	require.NoError(t, a.SetNumber(FieldSepia, 30))

	assert.Equal(t,
		"brightness(100%) contrast(100%) saturate(100%) grayscale(0%) sepia(30%) blur(2.5px) hue-rotate(90deg)",
		a.Preview().Filter)
	assert.Equal(t, a.Filter().CSS(), a.Preview().Filter)
}

func TestPreviewOverlay(t *testing.T) {
	a := Default()
	a.SetText("Big Sale")
	require.NoError(t, a.SetNumber(FieldTextX, 25))
	require.NoError(t, a.SetNumber(FieldTextY, 75))

	p := a.Preview()
	require.NotNil(t, p.Overlay)
	assert.Equal(t, "Big Sale", p.Overlay.Text)
	assert.Equal(t, "2px 2px 4px rgba(0,0,0,0.5)", p.Overlay.Shadow)
	assert.Equal(t,
		"position: absolute; left: 25%; top: 75%; transform: translate(-50%, -50%); font-family: Arial; font-size: 40px; color: #ffffff; text-shadow: 2px 2px 4px rgba(0,0,0,0.5)",
		p.Overlay.Style)
}

func TestOverlayAnchorScalesToFrame(t *testing.T) {
	a := Default()
	require.NoError(t, a.SetNumber(FieldTextX, 25))
	x, y := a.OverlayAnchor(1024, 512)
	assert.Equal(t, 256.0, x)
	assert.Equal(t, 256.0, y)
}
