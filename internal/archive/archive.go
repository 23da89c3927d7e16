// Package archive opens comic archives by content, never by name.
package archive

import (
	"io"
	"os"

	"github.com/cbxthumb/cbxthumb/internal/archive/tool"
	"github.com/cbxthumb/cbxthumb/internal/conf"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/internal/stream"
	"github.com/cbxthumb/cbxthumb/pkg/utils"
	log "github.com/sirupsen/logrus"
)

// Detect sniffs the leading bytes of rs and rewinds it.
func Detect(rs io.ReadSeeker) (model.ArchiveType, error) {
	head, err := stream.Peek(rs, conf.MagicPrefixSize)
	if err != nil {
		return 0, errs.Wrap(errs.ArchiveOpen, err, "reading archive signature")
	}
	return tool.DetectArchiveType(head)
}

// DetectFile sniffs the file at path.
func DetectFile(path string) (model.ArchiveType, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errs.Wrap(errs.ArchiveOpen, err, "%s", path)
	}
	defer f.Close()
	return Detect(f)
}

// OpenFile opens path with the path-backed variant of whatever format its
// content says it is.
func OpenFile(path string) (tool.Archive, error) {
	t, err := DetectFile(path)
	if err != nil {
		return nil, err
	}
	warnOnHint(t, path)
	tl, err := tool.GetToolByType(t)
	if err != nil {
		return nil, err
	}
	log.Debugf("open %s as %s by path", path, t)
	return tl.OpenPath(path)
}

// OpenStream opens rs with the stream-backed variant of its detected type.
// hint, usually a file name, can only promote a RAR that is also a real
// file to the path variant, which spares the staging copy.
func OpenStream(rs io.ReadSeeker, hint string) (tool.Archive, error) {
	t, err := Detect(rs)
	if err != nil {
		return nil, err
	}
	warnOnHint(t, hint)
	tl, err := tool.GetToolByType(t)
	if err != nil {
		return nil, err
	}
	if t == model.Rar {
		if f, ok := rs.(*os.File); ok && hintIs(hint, model.Rar) {
			log.Debugf("open %s as rar by path", f.Name())
			return tl.OpenPath(f.Name())
		}
	}
	log.Debugf("open stream %q as %s", hint, t)
	return tl.OpenStream(rs)
}

func hintIs(hint string, t model.ArchiveType) bool {
	ht, ok := model.ArchiveTypeFromExtension(utils.Ext(hint))
	return ok && ht == t
}

func warnOnHint(t model.ArchiveType, hint string) {
	ht, ok := model.ArchiveTypeFromExtension(utils.Ext(hint))
	if ok && ht != t {
		log.Debugf("%s is named like %s but its content is %s", hint, ht, t)
	}
}
