package zip

import (
	"io"
	"os"
	"sync"

	"github.com/cbxthumb/cbxthumb/internal/archive/tool"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/internal/stream"
	"github.com/yeka/zip"
)

type Zip struct{}

func (*Zip) Type() model.ArchiveType {
	return model.Zip
}

func (*Zip) AcceptedExtensions() []string {
	return model.ArchiveExtensions(model.Zip)
}

// OpenPath validates the central directory and then reopens the file for
// every operation.
func (*Zip) OpenPath(path string) (tool.Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errs.Wrap(errs.ArchiveOpen, err, "zip %s", path)
	}
	a := &Archive{size: uint64(info.Size()), open: func() (*zip.Reader, func() error, error) {
		rc, err := zip.OpenReader(path)
		if err != nil {
			return nil, nil, err
		}
		return &rc.Reader, rc.Close, nil
	}}
	if err := a.with(func(*zip.Reader) error { return nil }); err != nil {
		return nil, err
	}
	return a, nil
}

// OpenStream parses the central directory once over the shared cursor and
// keeps the parsed reader for the lifetime of the handle.
func (*Zip) OpenStream(rs io.ReadSeeker) (tool.Archive, error) {
	ra, err := stream.NewReadAtSeeker(rs)
	if err != nil {
		return nil, errs.Wrap(errs.ArchiveOpen, err, "zip stream")
	}
	zr, err := zip.NewReader(ra, ra.Size())
	if err != nil {
		return nil, filterPassword(err)
	}
	return &Archive{size: uint64(ra.Size()), open: func() (*zip.Reader, func() error, error) {
		return zr, nil, nil
	}}, nil
}

type Archive struct {
	mu     sync.Mutex
	open   func() (*zip.Reader, func() error, error)
	size   uint64
	closed bool
}

var _ tool.Archive = (*Archive)(nil)

func (a *Archive) with(fn func(r *zip.Reader) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errs.Wrap(errs.ArchiveOpen, os.ErrClosed, "zip")
	}
	r, closeFn, err := a.open()
	if err != nil {
		return filterPassword(err)
	}
	if closeFn != nil {
		defer func() { _ = closeFn() }()
	}
	return fn(r)
}

func (a *Archive) FindFirstImage(sort bool) (entry model.ArchiveEntry, err error) {
	err = a.with(func(r *zip.Reader) error {
		entry, err = tool.FindFirstImage(tool.WalkArchiveReader(&WrapReader{Reader: r}), sort)
		return err
	})
	return entry, err
}

func (a *Archive) ExtractEntry(entry model.ArchiveEntry) (data []byte, err error) {
	if err = tool.CheckEntrySize(entry); err != nil {
		return nil, err
	}
	err = a.with(func(r *zip.Reader) error {
		data, err = tool.ExtractFromArchiveReader(&WrapReader{Reader: r}, entry, filterPassword)
		return err
	})
	return data, err
}

func (a *Archive) GetMetadata() (meta model.ArchiveMetadata, err error) {
	err = a.with(func(r *zip.Reader) error {
		meta.TotalFiles, meta.ImageCount, err = tool.CountEntries(tool.WalkArchiveReader(&WrapReader{Reader: r}))
		return err
	})
	meta.CompressedSize = a.size
	meta.Type = model.Zip
	return meta, err
}

func (a *Archive) ArchiveType() model.ArchiveType {
	return model.Zip
}

func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

var _ tool.Tool = (*Zip)(nil)

func init() {
	tool.RegisterTool(&Zip{})
}
