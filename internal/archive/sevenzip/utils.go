package sevenzip

import (
	"errors"
	"io"
	"io/fs"

	"github.com/bodgit/sevenzip"
	"github.com/cbxthumb/cbxthumb/internal/archive/tool"
	"github.com/cbxthumb/cbxthumb/internal/errs"
)

type WrapReader struct {
	Reader *sevenzip.Reader
}

func (r *WrapReader) Files() []tool.SubFile {
	ret := make([]tool.SubFile, 0, len(r.Reader.File))
	for _, f := range r.Reader.File {
		ret = append(ret, &WrapFile{f: f})
	}
	return ret
}

type WrapFile struct {
	f *sevenzip.File
}

func (f *WrapFile) Name() string {
	return f.f.Name
}

func (f *WrapFile) FileInfo() fs.FileInfo {
	return f.f.FileInfo()
}

func (f *WrapFile) Open() (io.ReadCloser, error) {
	return f.f.Open()
}

func filterPassword(err error) error {
	if err == nil {
		return nil
	}
	var e *sevenzip.ReadError
	if errors.As(err, &e) && e.Encrypted {
		return errs.Wrap(errs.PasswordProtected, err, "7z")
	}
	return errs.Wrap(errs.ArchiveOpen, err, "7z")
}
