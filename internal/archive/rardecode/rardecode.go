package rardecode

import (
	"io"
	"os"
	"sync"

	"github.com/cbxthumb/cbxthumb/internal/archive/tool"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/internal/stream"
	"github.com/nwaples/rardecode/v2"
	log "github.com/sirupsen/logrus"
)

type RarDecoder struct {
	// NewStager picks where stream sources are staged. Defaults to stream.DefaultStager.
	NewStager func() *stream.Stager
}

func (*RarDecoder) Type() model.ArchiveType {
	return model.Rar
}

func (*RarDecoder) AcceptedExtensions() []string {
	return model.ArchiveExtensions(model.Rar)
}

func (*RarDecoder) OpenPath(path string) (tool.Archive, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errs.Wrap(errs.ArchiveOpen, err, "rar %s", path)
	}
	a := &Archive{size: uint64(info.Size()), open: func() (*rardecode.ReadCloser, error) {
		return rardecode.OpenReader(path)
	}}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// OpenStream copies rs into a private staging file first, because the
// decoder needs a named, reopenable volume. The file belongs to the handle
// and is removed by Close, or right here if the archive does not open.
func (d *RarDecoder) OpenStream(rs io.ReadSeeker) (tool.Archive, error) {
	stager := stream.DefaultStager()
	if d.NewStager != nil {
		stager = d.NewStager()
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, errs.Wrap(errs.ArchiveOpen, err, "rar stream")
	}
	name, size, err := stager.CacheFullInTempFile(rs, ".rar")
	if err != nil {
		return nil, errs.Wrap(errs.ArchiveOpen, err, "staging rar stream")
	}
	a := &Archive{
		size: uint64(size),
		open: func() (*rardecode.ReadCloser, error) {
			return rardecode.OpenReader(name, rardecode.FileSystem(stager.FS()))
		},
		cleanup: func() { stager.Remove(name) },
	}
	if err := a.validate(); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

type Archive struct {
	mu      sync.Mutex
	open    func() (*rardecode.ReadCloser, error)
	cleanup func()
	size    uint64
	closed  bool
}

var _ tool.Archive = (*Archive)(nil)

func (a *Archive) with(fn func(rc *rardecode.ReadCloser) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return errs.Wrap(errs.ArchiveOpen, os.ErrClosed, "rar")
	}
	rc, err := a.open()
	if err != nil {
		return filterPassword(err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			log.Debugf("close rar reader: %+v", err)
		}
	}()
	return fn(rc)
}

// validate reads the first header only. Encrypted headers fail here.
func (a *Archive) validate() error {
	return a.with(func(rc *rardecode.ReadCloser) error {
		return walk(rc, func(*rardecode.FileHeader, io.Reader) (bool, error) {
			return false, nil
		})
	})
}

func (a *Archive) walker(rc *rardecode.ReadCloser) tool.EntryWalker {
	return func(visit func(model.ArchiveEntry) bool) error {
		return walk(rc, func(h *rardecode.FileHeader, _ io.Reader) (bool, error) {
			return visit(entryOf(h)), nil
		})
	}
}

func (a *Archive) FindFirstImage(sort bool) (entry model.ArchiveEntry, err error) {
	err = a.with(func(rc *rardecode.ReadCloser) error {
		entry, err = tool.FindFirstImage(a.walker(rc), sort)
		return err
	})
	return entry, err
}

func (a *Archive) ExtractEntry(entry model.ArchiveEntry) (data []byte, err error) {
	if err = tool.CheckEntrySize(entry); err != nil {
		return nil, err
	}
	err = a.with(func(rc *rardecode.ReadCloser) error {
		found := false
		err := walk(rc, func(h *rardecode.FileHeader, body io.Reader) (bool, error) {
			if h.IsDir || h.Name != entry.Name {
				return true, nil
			}
			found = true
			if err := tool.CheckEntrySize(entryOf(h)); err != nil {
				return false, err
			}
			var err error
			data, err = tool.ReadEntry(body, entry)
			if err != nil && !errs.IsEntryTooLarge(err) {
				err = filterPassword(err)
			}
			return false, err
		})
		if err == nil && !found {
			err = errs.NewErr(errs.EntryNotFound, "%s", entry.Name)
		}
		return err
	})
	return data, err
}

func (a *Archive) GetMetadata() (meta model.ArchiveMetadata, err error) {
	err = a.with(func(rc *rardecode.ReadCloser) error {
		meta.TotalFiles, meta.ImageCount, err = tool.CountEntries(a.walker(rc))
		return err
	})
	meta.CompressedSize = a.size
	meta.Type = model.Rar
	return meta, err
}

func (a *Archive) ArchiveType() model.ArchiveType {
	return model.Rar
}

func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	if a.cleanup != nil {
		a.cleanup()
	}
	return nil
}

var _ tool.Tool = (*RarDecoder)(nil)

func init() {
	tool.RegisterTool(&RarDecoder{})
}
