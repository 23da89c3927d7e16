package zip

import (
	"bytes"
	"io"
	"io/fs"
	"strings"

	"github.com/cbxthumb/cbxthumb/internal/archive/tool"
	"github.com/cbxthumb/cbxthumb/internal/conf"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/yeka/zip"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

type WrapReader struct {
	Reader *zip.Reader
}

func (r *WrapReader) Files() []tool.SubFile {
	ret := make([]tool.SubFile, 0, len(r.Reader.File))
	for _, f := range r.Reader.File {
		ret = append(ret, &WrapFile{f: f})
	}
	return ret
}

type WrapFileInfo struct {
	fs.FileInfo
	size uint64
}

func (f *WrapFileInfo) Size() int64 {
	if f.size > 1<<62 {
		return 1 << 62
	}
	return int64(f.size)
}

type WrapFile struct {
	f *zip.File
}

func (f *WrapFile) Name() string {
	return decodeName(f.f.Name, isEFS(f.f.Flags))
}

func (f *WrapFile) FileInfo() fs.FileInfo {
	return &WrapFileInfo{FileInfo: f.f.FileInfo(), size: f.f.UncompressedSize64}
}

func (f *WrapFile) Open() (io.ReadCloser, error) {
	return f.f.Open()
}

func (f *WrapFile) IsEncrypted() bool {
	return f.f.IsEncrypted()
}

func filterPassword(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "password") {
		return errs.Wrap(errs.PasswordProtected, err, "zip")
	}
	return errs.Wrap(errs.ArchiveOpen, err, "zip")
}

func decodeName(name string, efs bool) string {
	if efs || conf.Conf == nil || conf.Conf.NonEFSZipEncoding == "" {
		return name
	}
	enc, err := ianaindex.IANA.Encoding(conf.Conf.NonEFSZipEncoding)
	if err != nil || enc == nil {
		return name
	}
	i := bytes.NewReader([]byte(name))
	decoder := transform.NewReader(i, enc.NewDecoder())
	content, err := io.ReadAll(decoder)
	if err != nil {
		return name
	}
	return string(content)
}

func isEFS(flags uint16) bool {
	return (flags & 0x800) > 0
}
