package tool

import (
	"errors"
	"io"

	"github.com/cbxthumb/cbxthumb/internal/conf"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/pkg/pool"
)

// CheckEntrySize must run before any reader for the entry is created.
func CheckEntrySize(entry model.ArchiveEntry) error {
	if entry.Size > conf.MaxEntrySize {
		return errs.NewErr(errs.EntryTooLarge, "%s declares %d bytes, limit is %d", entry.Name, entry.Size, conf.MaxEntrySize)
	}
	return nil
}

var readBuffers = pool.NewBytes(32*1024, 8)

// ReadEntry reads the entry body. Declared sizes can lie, so the read itself
// is also capped at MaxEntrySize.
func ReadEntry(r io.Reader, entry model.ArchiveEntry) ([]byte, error) {
	if err := CheckEntrySize(entry); err != nil {
		return nil, err
	}
	buf := readBuffers.Get()
	defer readBuffers.Put(buf)
	out := make([]byte, 0, int(entry.Size))
	lr := io.LimitReader(r, conf.MaxEntrySize+1)
	for {
		n, err := lr.Read(buf)
		out = append(out, buf[:n]...)
		if len(out) > conf.MaxEntrySize {
			return nil, errs.NewErr(errs.EntryTooLarge, "%s inflates past %d bytes", entry.Name, conf.MaxEntrySize)
		}
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
