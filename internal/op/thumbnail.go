package op

import (
	"io"

	"github.com/cbxthumb/cbxthumb/internal/archive"
	"github.com/cbxthumb/cbxthumb/internal/archive/tool"
	"github.com/cbxthumb/cbxthumb/internal/conf"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/imgproc"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ExtractCover picks the cover entry of a and returns its bytes once they
// are confirmed to be an image.
func ExtractCover(a tool.Archive, sort bool) (model.ArchiveEntry, []byte, error) {
	entry, err := a.FindFirstImage(sort)
	if err != nil {
		return model.ArchiveEntry{}, nil, err
	}
	l := log.WithFields(log.Fields{"archive": a.ArchiveType(), "entry": entry.Name, "size": entry.Size})
	l.Debug("cover entry selected")
	data, err := a.ExtractEntry(entry)
	if err != nil {
		return entry, nil, errors.WithMessagef(err, "failed extract [%s]", entry.Name)
	}
	if err = imgproc.VerifyImageData(data); err != nil {
		return entry, nil, errors.WithMessagef(err, "entry [%s] is not an image", entry.Name)
	}
	return entry, data, nil
}

func withDefaults(cfg model.ThumbnailConfig) model.ThumbnailConfig {
	if cfg.MaxWidth == 0 {
		cfg.MaxWidth = conf.DefaultThumbnailSize
	}
	if cfg.MaxHeight == 0 {
		cfg.MaxHeight = conf.DefaultThumbnailSize
	}
	return cfg
}

// CreateThumbnail turns encoded image bytes into an opaque BGRA surface
// that fits cfg. A zero bound means the default size.
func CreateThumbnail(data []byte, cfg model.ThumbnailConfig, decoder *imgproc.Decoder) (*model.Thumbnail, error) {
	cfg = withDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if decoder == nil {
		decoder = imgproc.DefaultDecoder()
	}
	img, format, err := decoder.Decode(data)
	if err != nil {
		return nil, err
	}
	srcW, srcH := img.Bounds().Dx(), img.Bounds().Dy()
	w, h := imgproc.CalculateTargetSize(srcW, srcH, cfg.MaxWidth, cfg.MaxHeight)
	if w == 0 || h == 0 {
		return nil, errs.NewErr(errs.InvalidDimensions, "source image is %dx%d", srcW, srcH)
	}
	img, err = imgproc.Resize(img, w, h, cfg.Filter)
	if err != nil {
		return nil, err
	}
	imgproc.Composite(img, cfg.Background)
	log.WithFields(log.Fields{"format": format, "size": []int{w, h}}).
		Debugf("thumbnail from %dx%d", srcW, srcH)
	return &model.Thumbnail{
		Width:  w,
		Height: h,
		Pix:    imgproc.SwapRedBlue(img.Pix),
		Image:  img,
		Format: format,
	}, nil
}

func thumbnailOf(a tool.Archive, cfg model.ThumbnailConfig, sort bool) (*model.Thumbnail, error) {
	entry, data, err := ExtractCover(a, sort)
	if err != nil {
		return nil, err
	}
	t, err := CreateThumbnail(data, cfg, nil)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed create thumbnail of [%s]", entry.Name)
	}
	t.Entry = entry
	return t, nil
}

// ThumbnailFromFile renders the cover of the archive at path.
func ThumbnailFromFile(path string, cfg model.ThumbnailConfig, sort bool) (*model.Thumbnail, error) {
	a, err := archive.OpenFile(path)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed open [%s]", path)
	}
	defer a.Close()
	return thumbnailOf(a, cfg, sort)
}

// ThumbnailFromStream renders the cover of the archive held by rs. hint is
// only used to spot mislabeled files and to reach a RAR by path.
func ThumbnailFromStream(rs io.ReadSeeker, hint string, cfg model.ThumbnailConfig, sort bool) (*model.Thumbnail, error) {
	a, err := archive.OpenStream(rs, hint)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed open stream [%s]", hint)
	}
	defer a.Close()
	return thumbnailOf(a, cfg, sort)
}

// ArchiveInfo reads the metadata and cover entry of the archive at path.
// A missing cover is reported through the error and leaves meta intact.
func ArchiveInfo(path string, sort bool) (model.ArchiveMetadata, model.ArchiveEntry, error) {
	a, err := archive.OpenFile(path)
	if err != nil {
		return model.ArchiveMetadata{}, model.ArchiveEntry{}, errors.WithMessagef(err, "failed open [%s]", path)
	}
	defer a.Close()
	meta, err := a.GetMetadata()
	if err != nil {
		return meta, model.ArchiveEntry{}, errors.WithMessagef(err, "failed get [%s] metadata", path)
	}
	cover, err := a.FindFirstImage(sort)
	return meta, cover, err
}
