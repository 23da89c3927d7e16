package imgproc

import (
	"bytes"
	"encoding/binary"

	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
)

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	gifMagic  = []byte("GIF8")
	bmpMagic  = []byte("BM")
	tiffLE    = []byte{0x49, 0x49, 0x2A, 0x00}
	tiffBE    = []byte{0x4D, 0x4D, 0x00, 0x2A}
	icoMagic  = []byte{0x00, 0x00, 0x01, 0x00}
)

const (
	avifScanLimit = 4096
	avifRawScan   = 64
)

// DetectFormat classifies image bytes by signature. JPEG comes first since
// it is by far the most common cover format.
func DetectFormat(data []byte) (model.ImageFormat, error) {
	if len(data) == 0 {
		return 0, errs.NewErr(errs.ImageDecode, "empty image data")
	}
	if len(data) < 4 {
		return 0, errs.NewErr(errs.ImageDecode, "image data too short: %d bytes", len(data))
	}
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return model.Jpeg, nil
	case bytes.HasPrefix(data, pngMagic):
		return model.Png, nil
	case bytes.HasPrefix(data, gifMagic):
		return model.Gif, nil
	case bytes.HasPrefix(data, bmpMagic):
		return model.Bmp, nil
	case bytes.HasPrefix(data, tiffLE), bytes.HasPrefix(data, tiffBE):
		return model.Tiff, nil
	case bytes.HasPrefix(data, icoMagic):
		return model.Ico, nil
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return model.WebP, nil
	case IsAvif(data):
		return model.Avif, nil
	}
	return 0, errs.NewErr(errs.ImageDecode, "unrecognized image signature: % X", data[:min(len(data), 16)])
}

// VerifyImageData rejects extracted bytes that are not an image whatever
// their entry name claims.
func VerifyImageData(data []byte) error {
	_, err := DetectFormat(data)
	return err
}

func isAvifBrand(b []byte) bool {
	return bytes.Equal(b, []byte("avif")) || bytes.Equal(b, []byte("avis"))
}

// IsAvif looks for an ISO-BMFF ftyp box carrying an avif or avis brand.
func IsAvif(data []byte) bool {
	if len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")) && isAvifBrand(data[8:12]) {
		return true
	}
	if ftypHasAvifBrand(data) {
		return true
	}
	head := data[:min(len(data), avifRawScan)]
	return bytes.Contains(head, []byte("ftypavif")) || bytes.Contains(head, []byte("ftypavis"))
}

func ftypHasAvifBrand(data []byte) bool {
	limit := min(len(data), avifScanLimit)
	off := 0
	for off+8 <= limit {
		size := uint64(binary.BigEndian.Uint32(data[off : off+4]))
		typ := data[off+4 : off+8]
		header := 8
		switch size {
		case 1:
			if off+16 > limit {
				return false
			}
			size = binary.BigEndian.Uint64(data[off+8 : off+16])
			header = 16
		case 0:
			size = uint64(limit - off)
		}
		if size < uint64(header) {
			return false
		}
		// end is clamped to limit, so a huge largesize can neither wrap nor move off back
		remaining := uint64(limit - off)
		end := limit
		if size < remaining {
			end = off + int(size)
		}
		if bytes.Equal(typ, []byte("ftyp")) {
			body := data[off+header : end]
			if len(body) >= 4 && isAvifBrand(body[0:4]) {
				return true
			}
			// major(4) minor_version(4) then compatible brands
			for i := 8; i+4 <= len(body); i += 4 {
				if isAvifBrand(body[i : i+4]) {
					return true
				}
			}
			return false
		}
		if size >= remaining {
			return false
		}
		off = end
	}
	return false
}
