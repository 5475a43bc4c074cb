package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	_ "golang.org/x/image/webp"

	"aimarketer/internal/editor"
)

// Encoder settings for the lossy formats.
const (
	JPEGQuality = 92
	WebPQuality = 90
)

// MaxSourceDimension bounds the width and height of a decoded source image.
const MaxSourceDimension = editor.MaxDimension

// Decode decodes jpeg, png, gif or webp data into an image. The header is
// checked first so oversized images are rejected before any pixel buffer is
// allocated.
func Decode(data []byte) (image.Image, string, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("imaging: decode config: %w", err)
	}
	if cfg.Width > MaxSourceDimension || cfg.Height > MaxSourceDimension {
		return nil, "", fmt.Errorf("imaging: source is %dx%d, limit is %dx%d",
			cfg.Width, cfg.Height, MaxSourceDimension, MaxSourceDimension)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("imaging: decode: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, "", fmt.Errorf("imaging: decode: empty image")
	}
	return img, format, nil
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format editor.Format) error {
	var err error
	switch format {
	case editor.FormatJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case editor.FormatWebP:
		err = webp.Encode(w, img, &webp.Options{Quality: WebPQuality})
	case editor.FormatPNG:
		err = png.Encode(w, img)
	default:
		return fmt.Errorf("imaging: unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("imaging: encode %s: %w", format, err)
	}
	return nil
}
