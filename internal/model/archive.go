package model

import "strings"

type ArchiveType int

const (
	Zip ArchiveType = iota + 1
	Rar
	SevenZip
)

func (t ArchiveType) String() string {
	switch t {
	case Zip:
		return "zip"
	case Rar:
		return "rar"
	case SevenZip:
		return "7z"
	}
	return "unknown"
}

var archiveExtensions = map[string]ArchiveType{
	"zip":  Zip,
	"cbz":  Zip,
	"epub": Zip,
	"phz":  Zip,
	"rar":  Rar,
	"cbr":  Rar,
	"7z":   SevenZip,
	"cb7":  SevenZip,
}

// ArchiveTypeFromExtension maps a file extension (with or without the dot)
// to the container it usually names. It is only a hint; content sniffing
// decides the real type.
func ArchiveTypeFromExtension(ext string) (ArchiveType, bool) {
	t, ok := archiveExtensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return t, ok
}

// ArchiveExtensions returns the extensions accepted for the given type.
func ArchiveExtensions(t ArchiveType) []string {
	var exts []string
	for ext, at := range archiveExtensions {
		if at == t {
			exts = append(exts, ext)
		}
	}
	return exts
}

type ArchiveEntry struct {
	Name  string `json:"name"`
	Size  uint64 `json:"size"`
	IsDir bool   `json:"is_dir"`
}

type ArchiveMetadata struct {
	TotalFiles     int         `json:"total_files"`
	ImageCount     int         `json:"image_count"`
	CompressedSize uint64      `json:"compressed_size"`
	Type           ArchiveType `json:"-"`
}
