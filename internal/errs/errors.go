package errs

import (
	"errors"
	"fmt"

	pkgerr "github.com/pkg/errors"
)

var (
	ArchiveOpen       = errors.New("failed to open archive")
	PasswordProtected = errors.New("archive is password protected")
	ArchiveEmpty      = errors.New("archive is empty")
	EntryNotFound     = errors.New("archive entry not found")
	EntryTooLarge     = errors.New("archive entry too large")
	NoImageFound      = errors.New("no image found in archive")
	UnsupportedFormat = errors.New("unsupported format")
	ImageDecode       = errors.New("failed to decode image")
	InvalidDimensions = errors.New("invalid dimensions")
)

// NewErr wrap constant error with an extra message
// use errors.Is(err1, EntryTooLarge) to check if err belongs to any internal error
func NewErr(err error, format string, a ...any) error {
	return fmt.Errorf("%w; %s", err, fmt.Sprintf(format, a...))
}

// Wrap keeps both the sentinel and the underlying library error in the chain.
func Wrap(sentinel, cause error, format string, a ...any) error {
	return fmt.Errorf("%w; %s: %w", sentinel, fmt.Sprintf(format, a...), cause)
}

func is(err, target error) bool {
	return errors.Is(err, target) || errors.Is(pkgerr.Cause(err), target)
}

func IsPasswordProtected(err error) bool {
	return is(err, PasswordProtected)
}

// IsNoImage reports a well-formed archive that simply holds no cover.
func IsNoImage(err error) bool {
	return is(err, NoImageFound) || is(err, ArchiveEmpty)
}

func IsUnsupportedFormat(err error) bool {
	return is(err, UnsupportedFormat)
}

func IsEntryTooLarge(err error) bool {
	return is(err, EntryTooLarge)
}

// IsSkippable is true for outcomes a host should drop silently instead of
// logging as failures.
func IsSkippable(err error) bool {
	return IsNoImage(err) || IsPasswordProtected(err) || IsUnsupportedFormat(err)
}

var kinds = []struct {
	err  error
	name string
}{
	{PasswordProtected, "password_protected"},
	{ArchiveEmpty, "archive_empty"},
	{NoImageFound, "no_image_found"},
	{EntryTooLarge, "entry_too_large"},
	{EntryNotFound, "entry_not_found"},
	{UnsupportedFormat, "unsupported_format"},
	{InvalidDimensions, "invalid_dimensions"},
	{ImageDecode, "image_decode"},
	{ArchiveOpen, "archive_open"},
}

// Kind names the taxonomy member err belongs to, "" for nil and "internal"
// for anything outside it.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if is(err, k.err) {
			return k.name
		}
	}
	return "internal"
}
