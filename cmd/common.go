package cmd

import (
	"strings"

	"github.com/cbxthumb/cbxthumb/cmd/flags"
	"github.com/cbxthumb/cbxthumb/internal/bootstrap"
	"github.com/cbxthumb/cbxthumb/internal/conf"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/pkg/utils"
	"github.com/pkg/errors"
)

func Init() {
	bootstrap.Init()
}

func Release() {
	bootstrap.Release()
}

// sortImages prefers an explicit --sort over the no_sort setting.
func sortImages() bool {
	if RootCmd.PersistentFlags().Changed("sort") {
		return flags.Sort
	}
	return conf.Conf.SortImages()
}

type thumbOptions struct {
	size       int
	width      int
	height     int
	filter     string
	background string
}

// resolve layers the command line options over the configured thumbnail.
func (o thumbOptions) resolve() (model.ThumbnailConfig, error) {
	cfg := conf.Conf.ThumbnailConfig()
	if o.size > 0 {
		cfg.MaxWidth, cfg.MaxHeight = o.size, o.size
	}
	if o.width > 0 {
		cfg.MaxWidth = o.width
	}
	if o.height > 0 {
		cfg.MaxHeight = o.height
	}
	if o.filter != "" {
		f, err := model.ParseResizeFilter(o.filter)
		if err != nil {
			return cfg, err
		}
		cfg.Filter = f
	}
	if o.background != "" {
		bg, err := model.ParseColor(o.background)
		if err != nil {
			return cfg, err
		}
		cfg.Background = bg
	}
	return cfg, errors.WithStack(cfg.Validate())
}

func isArchiveName(name string) bool {
	_, ok := model.ArchiveTypeFromExtension(utils.Ext(name))
	return ok
}

func isStdio(name string) bool {
	return strings.TrimSpace(name) == "-"
}
