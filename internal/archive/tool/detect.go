package tool

import (
	"bytes"

	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
)

var (
	zipMagics = [][]byte{
		{0x50, 0x4B, 0x03, 0x04},
		{0x50, 0x4B, 0x05, 0x06},
		{0x50, 0x4B, 0x07, 0x08},
	}
	sevenZipMagic = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	rar4Magic     = []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x00}
	rar5Magic     = []byte{0x52, 0x61, 0x72, 0x21, 0x1A, 0x07, 0x01, 0x00}
)

// DetectArchiveType classifies a container by its leading bytes. It needs
// at least 8 bytes.
func DetectArchiveType(prefix []byte) (model.ArchiveType, error) {
	if len(prefix) < 8 {
		return 0, errs.NewErr(errs.UnsupportedFormat, "need 8 bytes to detect archive type, got %d", len(prefix))
	}
	for _, m := range zipMagics {
		if bytes.HasPrefix(prefix, m) {
			return model.Zip, nil
		}
	}
	if bytes.HasPrefix(prefix, sevenZipMagic) {
		return model.SevenZip, nil
	}
	if bytes.HasPrefix(prefix, rar4Magic) || bytes.HasPrefix(prefix, rar5Magic) {
		return model.Rar, nil
	}
	return 0, errs.NewErr(errs.UnsupportedFormat, "unknown archive signature % X", prefix[:min(len(prefix), 16)])
}
