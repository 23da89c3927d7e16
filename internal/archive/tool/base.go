package tool

import (
	"io"

	"github.com/cbxthumb/cbxthumb/internal/model"
)

// Archive is an open container. A handle serializes its own operations and
// is not safe for re-entrant use from inside one of them. Close releases
// every resource the handle owns, including staging files.
type Archive interface {
	FindFirstImage(sort bool) (model.ArchiveEntry, error)
	ExtractEntry(entry model.ArchiveEntry) ([]byte, error)
	GetMetadata() (model.ArchiveMetadata, error)
	ArchiveType() model.ArchiveType
	io.Closer
}

// Tool opens one container format, either by path or over a seekable stream.
type Tool interface {
	Type() model.ArchiveType
	AcceptedExtensions() []string
	OpenPath(path string) (Archive, error)
	OpenStream(rs io.ReadSeeker) (Archive, error)
}
