package imgproc

import (
	"image"
	"image/color"
)

// Composite flattens img onto bg in place and leaves every pixel opaque.
func Composite(img *image.NRGBA, bg color.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			alpha := row[i+3]
			if alpha < 255 {
				a := float32(alpha) / 255
				row[i] = uint8(float32(row[i])*a + float32(bg.R)*(1-a))
				row[i+1] = uint8(float32(row[i+1])*a + float32(bg.G)*(1-a))
				row[i+2] = uint8(float32(row[i+2])*a + float32(bg.B)*(1-a))
			}
			row[i+3] = 255
		}
	}
}
