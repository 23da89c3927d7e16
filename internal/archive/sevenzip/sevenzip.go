package sevenzip

import (
	"io"
	"os"
	"sync"

	"github.com/bodgit/sevenzip"
	"github.com/cbxthumb/cbxthumb/internal/archive/tool"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/internal/stream"
	log "github.com/sirupsen/logrus"
)

type SevenZip struct{}

func (*SevenZip) Type() model.ArchiveType {
	return model.SevenZip
}

func (*SevenZip) AcceptedExtensions() []string {
	return model.ArchiveExtensions(model.SevenZip)
}

func (*SevenZip) OpenPath(path string) (tool.Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errs.Wrap(errs.ArchiveOpen, err, "7z %s", path)
	}
	a := &Archive{size: uint64(info.Size()), open: func() (*sevenzip.Reader, func() error, error) {
		rc, err := sevenzip.OpenReader(path)
		if err != nil {
			return nil, nil, err
		}
		return &rc.Reader, rc.Close, nil
	}}
	if err := a.with(func(*sevenzip.Reader) error { return nil }); err != nil {
		return nil, err
	}
	return a, nil
}

// OpenStream keeps no parser state. Each operation rewinds the shared
// source and parses the headers again.
func (*SevenZip) OpenStream(rs io.ReadSeeker) (tool.Archive, error) {
	ra, err := stream.NewReadAtSeeker(rs)
	if err != nil {
		return nil, errs.Wrap(errs.ArchiveOpen, err, "7z stream")
	}
	a := &Archive{size: uint64(ra.Size()), open: func() (*sevenzip.Reader, func() error, error) {
		if err := ra.Rewind(); err != nil {
			return nil, nil, err
		}
		r, err := sevenzip.NewReader(ra, ra.Size())
		return r, nil, err
	}}
	if err := a.with(func(*sevenzip.Reader) error { return nil }); err != nil {
		return nil, err
	}
	return a, nil
}

type Archive struct {
	mu     sync.Mutex
	open   func() (*sevenzip.Reader, func() error, error)
	size   uint64
	closed bool
}

var _ tool.Archive = (*Archive)(nil)

func (a *Archive) with(fn func(r *sevenzip.Reader) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errs.Wrap(errs.ArchiveOpen, os.ErrClosed, "7z")
	}
	r, closeFn, err := a.open()
	if err != nil {
		return filterPassword(err)
	}
	if closeFn != nil {
		defer func() {
			if err := closeFn(); err != nil {
				log.Debugf("close 7z reader: %+v", err)
			}
		}()
	}
	return fn(r)
}

func (a *Archive) FindFirstImage(sort bool) (entry model.ArchiveEntry, err error) {
	err = a.with(func(r *sevenzip.Reader) error {
		entry, err = tool.FindFirstImage(tool.WalkArchiveReader(&WrapReader{Reader: r}), sort)
		return err
	})
	return entry, err
}

func (a *Archive) ExtractEntry(entry model.ArchiveEntry) (data []byte, err error) {
	if err = tool.CheckEntrySize(entry); err != nil {
		return nil, err
	}
	err = a.with(func(r *sevenzip.Reader) error {
		data, err = tool.ExtractFromArchiveReader(&WrapReader{Reader: r}, entry, filterPassword)
		return err
	})
	return data, err
}

func (a *Archive) GetMetadata() (meta model.ArchiveMetadata, err error) {
	err = a.with(func(r *sevenzip.Reader) error {
		meta.TotalFiles, meta.ImageCount, err = tool.CountEntries(tool.WalkArchiveReader(&WrapReader{Reader: r}))
		return err
	})
	meta.CompressedSize = a.size
	meta.Type = model.SevenZip
	return meta, err
}

func (a *Archive) ArchiveType() model.ArchiveType {
	return model.SevenZip
}

func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	return nil
}

var _ tool.Tool = (*SevenZip)(nil)

func init() {
	tool.RegisterTool(&SevenZip{})
}
