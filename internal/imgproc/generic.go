package imgproc

import (
	"bytes"
	"image"

	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/disintegration/imaging"

	_ "github.com/sergeymakinen/go-ico"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// GenericStrategy decodes with the portable codecs registered in package
// image and applies EXIF orientation.
type GenericStrategy struct{}

func (GenericStrategy) Name() string {
	return "generic"
}

func (GenericStrategy) Decode(data []byte, _ model.ImageFormat) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
}
