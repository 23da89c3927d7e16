package conf

import (
	"path/filepath"

	"github.com/cbxthumb/cbxthumb/internal/model"
)

type ThumbnailConfig struct {
	MaxWidth   int    `json:"max_width" env:"MAX_WIDTH"`
	MaxHeight  int    `json:"max_height" env:"MAX_HEIGHT"`
	Background string `json:"background" env:"BACKGROUND"`
	Filter     string `json:"filter" env:"FILTER"`
}

type DecoderConfig struct {
	// Platform enables the ffmpeg codec tier ahead of the portable decoders.
	Platform bool `json:"platform" env:"PLATFORM"`
}

type LogConfig struct {
	Enable     bool   `json:"enable" env:"ENABLE"`
	Name       string `json:"name" env:"NAME"`
	MaxSize    int    `json:"max_size" env:"MAX_SIZE"`
	MaxBackups int    `json:"max_backups" env:"MAX_BACKUPS"`
	MaxAge     int    `json:"max_age" env:"MAX_AGE"`
	Compress   bool   `json:"compress" env:"COMPRESS"`
}

type Config struct {
	Force          bool   `json:"force" env:"FORCE"`
	TempDir        string `json:"temp_dir" env:"TEMP_DIR"`
	NoSort         bool   `json:"no_sort" env:"NO_SORT"`
	MaxConcurrency int    `json:"max_concurrency" env:"MAX_CONCURRENCY"`

	// NonEFSZipEncoding is the IANA charset for zip names without the UTF-8 flag.
	NonEFSZipEncoding string `json:"non_efs_zip_encoding" env:"NON_EFS_ZIP_ENCODING"`

	Thumbnail ThumbnailConfig `json:"thumbnail" envPrefix:"THUMBNAIL_"`
	Decoder   DecoderConfig   `json:"decoder" envPrefix:"DECODER_"`
	Log       LogConfig       `json:"log" envPrefix:"LOG_"`
}

func DefaultConfig(dataDir string) *Config {
	tempDir := filepath.Join(dataDir, "temp")
	logPath := filepath.Join(dataDir, "log/log.log")
	return &Config{
		TempDir:        tempDir,
		NoSort:         true,
		MaxConcurrency: 4,
		Thumbnail: ThumbnailConfig{
			MaxWidth:   DefaultThumbnailSize,
			MaxHeight:  DefaultThumbnailSize,
			Background: "#FFFFFFFF",
			Filter:     model.Bilinear.String(),
		},
		Decoder: DecoderConfig{
			Platform: true,
		},
		Log: LogConfig{
			Enable:     false,
			Name:       logPath,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     28,
		},
	}
}

// ThumbnailConfig resolves the configured thumbnail section, falling back
// to the defaults for anything unset or unparsable.
func (c *Config) ThumbnailConfig() model.ThumbnailConfig {
	cfg := model.DefaultThumbnailConfig()
	if c == nil {
		return cfg
	}
	if c.Thumbnail.MaxWidth > 0 {
		cfg.MaxWidth = c.Thumbnail.MaxWidth
	}
	if c.Thumbnail.MaxHeight > 0 {
		cfg.MaxHeight = c.Thumbnail.MaxHeight
	}
	if bg, err := model.ParseColor(c.Thumbnail.Background); err == nil {
		cfg.Background = bg
	}
	if f, err := model.ParseResizeFilter(c.Thumbnail.Filter); err == nil {
		cfg.Filter = f
	}
	return cfg
}

// SortImages is the inverse of NoSort, the value handed to entry selection.
func (c *Config) SortImages() bool {
	return c != nil && !c.NoSort
}
