package stream

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/cbxthumb/cbxthumb/internal/conf"
	"github.com/cbxthumb/cbxthumb/pkg/pool"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

var copyBuffers = pool.NewBytes(32*1024, 8)

// Stager copies forward-only data into uniquely named files so that
// libraries needing random access can reopen it by name.
type Stager struct {
	Fs afero.Fs
}

// NewStager roots a stager at dir on the OS filesystem.
func NewStager(dir string) *Stager {
	return &Stager{Fs: afero.NewBasePathFs(afero.NewOsFs(), dir)}
}

// DefaultStager stages into the configured temp dir, or the OS temp dir
// before configuration is loaded.
func DefaultStager() *Stager {
	dir := os.TempDir()
	if conf.Conf != nil && conf.Conf.TempDir != "" {
		dir = conf.Conf.TempDir
	}
	return NewStager(dir)
}

// CacheFullInTempFile drains r into a new staging file named cbx-<uuid><ext>.
// On failure the partial file is removed and name is empty.
func (s *Stager) CacheFullInTempFile(r io.Reader, ext string) (name string, size int64, err error) {
	name = conf.TempFilePrefix + uuid.NewString() + ext
	f, err := s.Fs.Create(name)
	if err != nil {
		return "", 0, err
	}
	buf := copyBuffers.Get()
	defer copyBuffers.Put(buf)
	size, err = io.CopyBuffer(f, r, buf)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.Remove(name)
		return "", 0, err
	}
	log.Debugf("staged %d bytes in %s", size, name)
	return name, size, nil
}

func (s *Stager) Remove(name string) {
	if name == "" {
		return
	}
	if err := s.Fs.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warnf("failed to remove staging file %s: %+v", name, err)
	}
}

func (s *Stager) Exists(name string) bool {
	ok, _ := afero.Exists(s.Fs, name)
	return ok
}

// FS exposes the staging area as an io/fs.FS.
func (s *Stager) FS() fs.FS {
	return afero.NewIOFS(s.Fs)
}

// RealPath resolves name on the host filesystem, for tools that need a path.
func (s *Stager) RealPath(name string) (string, bool) {
	bp, ok := s.Fs.(*afero.BasePathFs)
	if !ok {
		return "", false
	}
	p, err := bp.RealPath(name)
	if err != nil {
		return "", false
	}
	return p, true
}
