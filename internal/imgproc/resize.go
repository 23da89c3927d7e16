package imgproc

import (
	"image"
	"math"

	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/disintegration/imaging"
)

// CalculateTargetSize fits src into the max box keeping the aspect ratio.
// It never upscales, and a zero-area source yields (0, 0).
func CalculateTargetSize(srcW, srcH, maxW, maxH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH))
	if scale >= 1 {
		return srcW, srcH
	}
	w := max(int(math.Round(float64(srcW)*scale)), 1)
	h := max(int(math.Round(float64(srcH)*scale)), 1)
	return w, h
}

func resampleFilter(f model.ResizeFilter) imaging.ResampleFilter {
	if f == model.Lanczos3 {
		return imaging.Lanczos
	}
	return imaging.Linear
}

// Resize returns img itself when it already has the target size.
func Resize(img *image.NRGBA, w, h int, filter model.ResizeFilter) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, errs.NewErr(errs.InvalidDimensions, "resize target %dx%d", w, h)
	}
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img, nil
	}
	return imaging.Resize(img, w, h, resampleFilter(filter)), nil
}
