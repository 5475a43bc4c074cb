// Package filter models the chained image-filter expression used both for the
// live preview (rendered as a CSS filter string) and for the export pipeline
// (applied to pixels). Keeping a single Chain type guarantees that what the
// user previews is what gets baked into the download.
package filter

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// Kind identifies a standard filter primitive.
type Kind string

const (
	Brightness Kind = "brightness"
	Contrast   Kind = "contrast"
	Saturate   Kind = "saturate"
	Grayscale  Kind = "grayscale"
	Sepia      Kind = "sepia"
	Blur       Kind = "blur"
	HueRotate  Kind = "hue-rotate"
)

// Unit returns the CSS unit the primitive is expressed in.
func (k Kind) Unit() string {
	switch k {
	case Blur:
		return "px"
	case HueRotate:
		return "deg"
	default:
		return "%"
	}
}

// Op is a single filter primitive with its amount in the primitive's unit
// (percent, pixels or degrees).
type Op struct {
	Kind   Kind
	Amount float64
}

// String renders the op as a CSS filter function, e.g. "blur(2px)".
func (o Op) String() string {
	return string(o.Kind) + "(" + strconv.FormatFloat(o.Amount, 'f', -1, 64) + o.Kind.Unit() + ")"
}

// Identity reports whether applying the op leaves every pixel unchanged.
func (o Op) Identity() bool {
	switch o.Kind {
	case Brightness, Contrast, Saturate:
		return o.Amount == 100
	case Grayscale, Sepia, Blur:
		return o.Amount <= 0
	case HueRotate:
		return math.Mod(o.Amount, 360) == 0
	}
	return true
}

// Chain is an ordered list of filter primitives applied left to right.
type Chain []Op

// CSS renders the chain as a CSS filter expression.
func (c Chain) CSS() string {
	parts := make([]string, 0, len(c))
	for _, op := range c {
		parts = append(parts, op.String())
	}
	return strings.Join(parts, " ")
}

// Identity reports whether the whole chain is a no-op.
func (c Chain) Identity() bool {
	for _, op := range c {
		if !op.Identity() {
			return false
		}
	}
	return true
}

// Apply returns a new image with every op of the chain applied in order.
// The source image is never modified. Results are clamped to the displayable
// range after each step, matching how browsers evaluate filter lists.
func (c Chain) Apply(src image.Image) *image.NRGBA {
	out := imaging.Clone(src)
	for _, op := range c {
		if op.Identity() {
			continue
		}
		if op.Kind == Blur {
			out = imaging.Blur(out, op.Amount)
			continue
		}
		m := op.matrix()
		out = imaging.AdjustFunc(out, func(px color.NRGBA) color.NRGBA {
			return m.transform(px)
		})
	}
	return out
}

// matrix is a 3x4 affine color transform over normalized RGB.
type matrix [3][4]float64

func (m matrix) transform(px color.NRGBA) color.NRGBA {
	r := float64(px.R) / 255
	g := float64(px.G) / 255
	b := float64(px.B) / 255
	return color.NRGBA{
		R: clampByte(m[0][0]*r + m[0][1]*g + m[0][2]*b + m[0][3]),
		G: clampByte(m[1][0]*r + m[1][1]*g + m[1][2]*b + m[1][3]),
		B: clampByte(m[2][0]*r + m[2][1]*g + m[2][2]*b + m[2][3]),
		A: px.A,
	}
}

func clampByte(v float64) uint8 {
	v = math.Round(v * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// matrix builds the color matrix defined by the Filter Effects specification
// for the op. Blur has no matrix form and is handled separately.
func (o Op) matrix() matrix {
	switch o.Kind {
	case Brightness:
		a := o.Amount / 100
		return matrix{{a, 0, 0, 0}, {0, a, 0, 0}, {0, 0, a, 0}}
	case Contrast:
		a := o.Amount / 100
		off := 0.5 - 0.5*a
		return matrix{{a, 0, 0, off}, {0, a, 0, off}, {0, 0, a, off}}
	case Saturate:
		s := o.Amount / 100
		return matrix{
			{0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s, 0},
			{0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s, 0},
			{0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s, 0},
		}
	case Grayscale:
		g := 1 - math.Min(o.Amount/100, 1)
		return matrix{
			{0.2126 + 0.7874*g, 0.7152 - 0.7152*g, 0.0722 - 0.0722*g, 0},
			{0.2126 - 0.2126*g, 0.7152 + 0.2848*g, 0.0722 - 0.0722*g, 0},
			{0.2126 - 0.2126*g, 0.7152 - 0.7152*g, 0.0722 + 0.9278*g, 0},
		}
	case Sepia:
		g := 1 - math.Min(o.Amount/100, 1)
		return matrix{
			{0.393 + 0.607*g, 0.769 - 0.769*g, 0.189 - 0.189*g, 0},
			{0.349 - 0.349*g, 0.686 + 0.314*g, 0.168 - 0.168*g, 0},
			{0.272 - 0.272*g, 0.534 - 0.534*g, 0.131 + 0.869*g, 0},
		}
	case HueRotate:
		rad := o.Amount * math.Pi / 180
		cos, sin := math.Cos(rad), math.Sin(rad)
		return matrix{
			{0.213 + cos*0.787 - sin*0.213, 0.715 - cos*0.715 - sin*0.715, 0.072 - cos*0.072 + sin*0.928, 0},
			{0.213 - cos*0.213 + sin*0.143, 0.715 + cos*0.285 + sin*0.140, 0.072 - cos*0.072 - sin*0.283, 0},
			{0.213 - cos*0.213 - sin*0.787, 0.715 - cos*0.715 + sin*0.715, 0.072 + cos*0.928 + sin*0.072, 0},
		}
	}
	return matrix{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}}
}
