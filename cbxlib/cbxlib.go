// Package cbxlib is the binding an embedding host (a shell extension, a
// mobile app) links against. Its API sticks to types gomobile can bind.
package cbxlib

import (
	"bytes"
	"errors"

	"github.com/cbxthumb/cbxthumb/cbxlib/internal"
	"github.com/cbxthumb/cbxthumb/cmd"
	"github.com/cbxthumb/cbxthumb/internal/conf"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/internal/op"
	"github.com/cbxthumb/cbxthumb/pkg/utils"
	log "github.com/sirupsen/logrus"
)

type LogCallback interface {
	OnLog(level int16, msg string)
}

var logFormatter *internal.MyFormatter

// Init loads the config under the data dir set with SetConfigData and
// routes logs to cb when it is not nil.
func Init(cb LogCallback) error {
	cmd.Init()
	if cb == nil {
		return nil
	}
	logFormatter = &internal.MyFormatter{
		OnLog: cb.OnLog,
	}
	if utils.Log == nil {
		return errors.New("utils.log is nil")
	}
	utils.Log.SetFormatter(logFormatter)
	log.SetFormatter(logFormatter)
	return nil
}

func Release() {
	cmd.Release()
}

// Status codes reported in Bitmap.Status. Values are stable.
const (
	StatusOK = iota
	StatusPasswordProtected
	StatusArchiveEmpty
	StatusNoImage
	StatusEntryTooLarge
	StatusEntryNotFound
	StatusUnsupportedFormat
	StatusInvalidDimensions
	StatusImageDecode
	StatusArchiveOpen
	StatusInternal
)

var statusByKind = map[string]int{
	"":                   StatusOK,
	"password_protected": StatusPasswordProtected,
	"archive_empty":      StatusArchiveEmpty,
	"no_image_found":     StatusNoImage,
	"entry_too_large":    StatusEntryTooLarge,
	"entry_not_found":    StatusEntryNotFound,
	"unsupported_format": StatusUnsupportedFormat,
	"invalid_dimensions": StatusInvalidDimensions,
	"image_decode":       StatusImageDecode,
	"archive_open":       StatusArchiveOpen,
}

func Status(err error) int {
	if s, ok := statusByKind[errs.Kind(err)]; ok {
		return s
	}
	return StatusInternal
}

// IsSkippable tells the host to drop the request without reporting it.
func IsSkippable(status int) bool {
	switch status {
	case StatusPasswordProtected, StatusArchiveEmpty, StatusNoImage, StatusUnsupportedFormat:
		return true
	}
	return false
}

// Bitmap is a top-down BGRA surface, 4*Width bytes per row, fully opaque.
type Bitmap struct {
	Width  int
	Height int
	Pix    []byte
	Entry  string
	Status int
}

func bitmapOf(th *model.Thumbnail, err error) *Bitmap {
	if err != nil {
		log.Debugf("thumbnail failed: %+v", err)
		return &Bitmap{Status: Status(err)}
	}
	return &Bitmap{Width: th.Width, Height: th.Height, Pix: th.Pix, Entry: th.Entry.Name}
}

func thumbnailConfig(size int) model.ThumbnailConfig {
	cfg := conf.Conf.ThumbnailConfig()
	if size > 0 {
		cfg.MaxWidth, cfg.MaxHeight = size, size
	}
	return cfg
}

// Thumbnail renders the cover of the archive at path into a size x size
// box, 0 meaning the configured size. Failures come back as a Bitmap with
// a non-zero Status and no pixels.
func Thumbnail(path string, size int) *Bitmap {
	return bitmapOf(op.ThumbnailFromFile(path, thumbnailConfig(size), conf.Conf.SortImages()))
}

// ThumbnailFromBytes is Thumbnail for an archive the host already holds
// in memory. hint is its file name, if known.
func ThumbnailFromBytes(data []byte, hint string, size int) *Bitmap {
	return bitmapOf(op.ThumbnailFromStream(bytes.NewReader(data), hint, thumbnailConfig(size), conf.Conf.SortImages()))
}
