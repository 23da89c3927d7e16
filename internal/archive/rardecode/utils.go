package rardecode

import (
	"errors"
	"io"
	"strings"

	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/nwaples/rardecode/v2"
)

func entryOf(h *rardecode.FileHeader) model.ArchiveEntry {
	size := h.UnPackedSize
	if size < 0 {
		size = 0
	}
	return model.ArchiveEntry{Name: h.Name, Size: uint64(size), IsDir: h.IsDir}
}

// walk reads headers in archive order. visit gets the reader positioned at
// the body of the current entry.
func walk(rc *rardecode.ReadCloser, visit func(h *rardecode.FileHeader, body io.Reader) (bool, error)) error {
	for {
		h, err := rc.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return filterPassword(err)
		}
		more, err := visit(h, rc)
		if err != nil || !more {
			return err
		}
	}
}

func filterPassword(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "password") || strings.Contains(msg, "encrypted") {
		return errs.Wrap(errs.PasswordProtected, err, "rar")
	}
	return errs.Wrap(errs.ArchiveOpen, err, "rar")
}
