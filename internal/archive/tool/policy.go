package tool

import (
	"slices"
	"strings"

	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/pkg/utils"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/maruel/natural"
)

var imageExtensions = mapset.NewSet(
	"bmp", "ico", "gif", "jpg", "jpe", "jfif", "jpeg", "png", "tif", "tiff", "webp", "avif",
)

// IsImageName reports whether name carries a supported image extension.
func IsImageName(name string) bool {
	return imageExtensions.Contains(utils.Ext(name))
}

func ImageExtensions() []string {
	exts := imageExtensions.ToSlice()
	slices.Sort(exts)
	return exts
}

// NaturalCompare orders digit runs numerically and falls back to a plain
// byte comparison when the natural order ties.
func NaturalCompare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return strings.Compare(a, b)
}

func NaturalLess(a, b string) bool {
	return NaturalCompare(a, b) < 0
}

// EntryWalker yields entries in the archive's own order until visit returns false.
type EntryWalker func(visit func(entry model.ArchiveEntry) bool) error

// FindFirstImage picks the cover entry. Unsorted mode returns the first match
// and stops the walk there; sorted mode orders every match naturally.
func FindFirstImage(walk EntryWalker, sort bool) (model.ArchiveEntry, error) {
	var (
		seen   int
		found  *model.ArchiveEntry
		images []model.ArchiveEntry
	)
	err := walk(func(entry model.ArchiveEntry) bool {
		seen++
		if entry.IsDir || !IsImageName(entry.Name) {
			return true
		}
		if !sort {
			found = &entry
			return false
		}
		images = append(images, entry)
		return true
	})
	if err != nil {
		return model.ArchiveEntry{}, err
	}
	if found != nil {
		return *found, nil
	}
	if seen == 0 {
		return model.ArchiveEntry{}, errs.ArchiveEmpty
	}
	if len(images) == 0 {
		return model.ArchiveEntry{}, errs.NewErr(errs.NoImageFound, "%d entries, none with an image extension", seen)
	}
	return slices.MinFunc(images, func(a, b model.ArchiveEntry) int {
		return NaturalCompare(a.Name, b.Name)
	}), nil
}

// CountEntries walks everything and returns the number of file entries and
// how many of them are images.
func CountEntries(walk EntryWalker) (files, images int, err error) {
	err = walk(func(entry model.ArchiveEntry) bool {
		if entry.IsDir {
			return true
		}
		files++
		if IsImageName(entry.Name) {
			images++
		}
		return true
	})
	return files, images, err
}
