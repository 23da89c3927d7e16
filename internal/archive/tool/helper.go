package tool

import (
	"io"
	"io/fs"
	"strings"

	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
)

// SubFile is one member of a random-access archive listing.
type SubFile interface {
	Name() string
	FileInfo() fs.FileInfo
	Open() (io.ReadCloser, error)
}

type CanEncryptSubFile interface {
	IsEncrypted() bool
}

type ArchiveReader interface {
	Files() []SubFile
}

func EntryOf(f SubFile) model.ArchiveEntry {
	info := f.FileInfo()
	size := info.Size()
	if size < 0 {
		size = 0
	}
	return model.ArchiveEntry{
		Name:  f.Name(),
		Size:  uint64(size),
		IsDir: info.IsDir() || strings.HasSuffix(f.Name(), "/"),
	}
}

// WalkArchiveReader enumerates r in central-directory order.
func WalkArchiveReader(r ArchiveReader) EntryWalker {
	return func(visit func(model.ArchiveEntry) bool) error {
		for _, f := range r.Files() {
			if !visit(EntryOf(f)) {
				return nil
			}
		}
		return nil
	}
}

// ExtractFromArchiveReader looks entry up by name and reads it under the
// size guard. filter maps library errors into the taxonomy.
func ExtractFromArchiveReader(r ArchiveReader, entry model.ArchiveEntry, filter func(error) error) ([]byte, error) {
	if err := CheckEntrySize(entry); err != nil {
		return nil, err
	}
	for _, f := range r.Files() {
		if f.Name() != entry.Name || EntryOf(f).IsDir {
			continue
		}
		if enc, ok := f.(CanEncryptSubFile); ok && enc.IsEncrypted() {
			return nil, errs.NewErr(errs.PasswordProtected, "entry %s is encrypted", entry.Name)
		}
		if err := CheckEntrySize(EntryOf(f)); err != nil {
			return nil, err
		}
		rc, err := f.Open()
		if err != nil {
			return nil, filter(err)
		}
		data, err := ReadEntry(rc, entry)
		_ = rc.Close()
		if err != nil {
			if errs.IsEntryTooLarge(err) {
				return nil, err
			}
			return nil, filter(err)
		}
		return data, nil
	}
	return nil, errs.NewErr(errs.EntryNotFound, "%s", entry.Name)
}
