package editor

import (
	"fmt"
	"strings"
)

// Format is the output encoding chosen for the download.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
	FormatPNG  Format = "png"
)

// Formats lists the selectable encodings.
var Formats = []Format{FormatJPEG, FormatWebP, FormatPNG}

// ParseFormat accepts a format name, a file extension or a MIME type.
func ParseFormat(s string) (Format, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "image/")
	v = strings.TrimPrefix(v, ".")
	switch v {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "webp":
		return FormatWebP, nil
	case "png":
		return FormatPNG, nil
	}
	return "", fmt.Errorf("editor: unsupported format %q", s)
}

func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

func (f Format) MIME() string {
	return "image/" + string(f)
}

// Lossless reports whether encoding in f preserves pixels exactly.
func (f Format) Lossless() bool {
	return f == FormatPNG
}
