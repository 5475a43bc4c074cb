package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"golang.org/x/image/draw"

	"aimarketer/internal/editor"
)

// ExportFailedMessage is the single user-facing message for export failures.
const ExportFailedMessage = "Failed to download image"

// ErrExportFailed wraps every failure of the export pipeline.
var ErrExportFailed = errors.New("failed to download image")

// Artifact is an encoded export, ready to be offered as a file.
type Artifact struct {
	Filename string
	MIME     string
	Format   editor.Format
	Width    int
	Height   int
	Filter   string
	Data     []byte
}

// Exporter bakes adjustments into a downloadable image.
type Exporter struct {
	fetcher *Fetcher
	now     func() time.Time
}

func NewExporter(fetcher *Fetcher) *Exporter {
	if fetcher == nil {
		fetcher = NewFetcher(FetchOptions{})
	}
	return &Exporter{fetcher: fetcher, now: time.Now}
}

// Export loads src (a data URI or an allowed URL) and renders it.
func (e *Exporter) Export(ctx context.Context, src string, a editor.Adjustments, generatedAt time.Time) (*Artifact, error) {
	data, err := e.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return e.Render(ctx, data, a, generatedAt)
}

// Load fetches the source bytes once so several renders can share them.
func (e *Exporter) Load(ctx context.Context, src string) ([]byte, error) {
	data, err := e.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, exportErr(err)
	}
	return data, nil
}

// Render runs the pipeline on already loaded image bytes: decode, size the
// surface, apply the filter chain, bake the overlay and encode.
func (e *Exporter) Render(ctx context.Context, data []byte, a editor.Adjustments, generatedAt time.Time) (*Artifact, error) {
	if err := a.Normalize(); err != nil {
		return nil, exportErr(err)
	}
	src, _, err := Decode(data)
	if err != nil {
		return nil, exportErr(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, exportErr(err)
	}

	surface := newSurface(src, a.Width, a.Height)
	chain := a.Filter()
	out := chain.Apply(surface)
	if a.HasOverlay() {
		if err := drawOverlay(out, a); err != nil {
			return nil, exportErr(err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, exportErr(err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, out, a.Format); err != nil {
		return nil, exportErr(err)
	}
	if generatedAt.IsZero() {
		generatedAt = e.now()
	}
	b := out.Bounds()
	return &Artifact{
		Filename: Filename(generatedAt, a.Format),
		MIME:     a.Format.MIME(),
		Format:   a.Format,
		Width:    b.Dx(),
		Height:   b.Dy(),
		Filter:   chain.CSS(),
		Data:     buf.Bytes(),
	}, nil
}

// Filename names an export after its generation time and format.
func Filename(generatedAt time.Time, format editor.Format) string {
	return fmt.Sprintf("ai-image-%d.%s", generatedAt.UnixMilli(), format.Extension())
}

func exportErr(err error) error {
	return fmt.Errorf("%w: %w", ErrExportFailed, err)
}

// newSurface draws src once onto a fresh surface. A zero width or height
// takes the source dimension, or keeps the aspect ratio when the other
// dimension is overridden.
func newSurface(src image.Image, width, height int) *image.NRGBA {
	sb := src.Bounds()
	w, h := targetSize(sb.Dx(), sb.Dy(), width, height)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == sb.Dx() && h == sb.Dy() {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, sb, draw.Src, nil)
	return dst
}

// targetSize never returns a dimension above editor.MaxDimension, including
// the one derived from the aspect ratio.
func targetSize(srcW, srcH, width, height int) (int, int) {
	switch {
	case width > 0 && height > 0:
		return clampDim(width), clampDim(height)
	case width > 0:
		return clampDim(width), clampDim(int(math.Round(float64(srcH) * float64(width) / float64(srcW))))
	case height > 0:
		return clampDim(int(math.Round(float64(srcW) * float64(height) / float64(srcH)))), clampDim(height)
	}
	return srcW, srcH
}

func clampDim(v int) int {
	return min(max(v, 1), editor.MaxDimension)
}
