package model

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/cbxthumb/cbxthumb/internal/errs"
)

type ImageFormat int

const (
	Jpeg ImageFormat = iota + 1
	Png
	Gif
	Bmp
	Tiff
	Ico
	WebP
	Avif
)

func (f ImageFormat) String() string {
	switch f {
	case Jpeg:
		return "jpeg"
	case Png:
		return "png"
	case Gif:
		return "gif"
	case Bmp:
		return "bmp"
	case Tiff:
		return "tiff"
	case Ico:
		return "ico"
	case WebP:
		return "webp"
	case Avif:
		return "avif"
	}
	return "unknown"
}

type ResizeFilter int

const (
	Bilinear ResizeFilter = iota
	Lanczos3
)

func (f ResizeFilter) String() string {
	if f == Lanczos3 {
		return "lanczos3"
	}
	return "bilinear"
}

func ParseResizeFilter(s string) (ResizeFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bilinear", "linear", "triangle":
		return Bilinear, nil
	case "lanczos", "lanczos3":
		return Lanczos3, nil
	}
	return Bilinear, fmt.Errorf("unknown resize filter: %s", s)
}

// ParseColor accepts RRGGBB or RRGGBBAA, with or without a leading '#'.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color: %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color: %q", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}

type ThumbnailConfig struct {
	MaxWidth   int
	MaxHeight  int
	Background color.NRGBA
	Filter     ResizeFilter
}

func DefaultThumbnailConfig() ThumbnailConfig {
	return ThumbnailConfig{
		MaxWidth:   256,
		MaxHeight:  256,
		Background: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Filter:     Bilinear,
	}
}

func (c ThumbnailConfig) Validate() error {
	if c.MaxWidth <= 0 || c.MaxHeight <= 0 {
		return errs.NewErr(errs.InvalidDimensions, "thumbnail bounds %dx%d", c.MaxWidth, c.MaxHeight)
	}
	return nil
}

// Thumbnail is the final surface. Pix holds BGRA rows of 4*Width bytes;
// Image keeps the composited RGBA raster it was converted from.
type Thumbnail struct {
	Width  int
	Height int
	Pix    []byte
	Image  *image.NRGBA
	Entry  ArchiveEntry
	Format ImageFormat
}
