package imgproc

import (
	"errors"
	"image"
	"image/draw"

	"github.com/cbxthumb/cbxthumb/internal/conf"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	log "github.com/sirupsen/logrus"
)

// ErrNotApplicable tells the decoder to move on to the next strategy.
var ErrNotApplicable = errors.New("decode strategy not applicable")

type Strategy interface {
	Name() string
	Decode(data []byte, format model.ImageFormat) (image.Image, error)
}

// Decoder tries its strategies in order. A strategy answering
// ErrNotApplicable is skipped; any other error aborts the decode.
type Decoder struct {
	strategies []Strategy
}

func NewDecoder(strategies ...Strategy) *Decoder {
	return &Decoder{strategies: strategies}
}

// DefaultDecoder puts the ffmpeg tier ahead of the portable one unless it
// is disabled in the config.
func DefaultDecoder() *Decoder {
	var strategies []Strategy
	if conf.Conf == nil || conf.Conf.Decoder.Platform {
		strategies = append(strategies, NewFFmpegStrategy())
	}
	return NewDecoder(append(strategies, GenericStrategy{})...)
}

func (d *Decoder) Decode(data []byte) (*image.NRGBA, model.ImageFormat, error) {
	if len(data) == 0 {
		return nil, 0, errs.NewErr(errs.ImageDecode, "empty image data")
	}
	format, err := DetectFormat(data)
	if err != nil {
		return nil, 0, err
	}
	for _, s := range d.strategies {
		img, err := s.Decode(data, format)
		if errors.Is(err, ErrNotApplicable) {
			log.Debugf("%s decoder skipped %s: %v", s.Name(), format, err)
			continue
		}
		if err != nil {
			return nil, format, errs.Wrap(errs.ImageDecode, err, "%s decoder, %s", s.Name(), format)
		}
		log.Debugf("%s decoded %s %dx%d", s.Name(), format, img.Bounds().Dx(), img.Bounds().Dy())
		return toNRGBA(img), format, nil
	}
	return nil, format, errs.NewErr(errs.ImageDecode, "no decoder available for %s", format)
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
