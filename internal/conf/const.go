package conf

const (
	// MaxEntrySize caps the declared uncompressed size of an entry we will extract.
	MaxEntrySize = 32 * 1024 * 1024

	// MagicPrefixSize is how much of a source is sniffed before it is typed.
	MagicPrefixSize = 16

	DefaultThumbnailSize = 256

	TempFilePrefix = "cbx-"

	EnvPrefix = "CBXTHUMB_"
)
