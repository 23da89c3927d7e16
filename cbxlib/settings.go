package cbxlib

import (
	"github.com/cbxthumb/cbxthumb/cmd/flags"
	"github.com/cbxthumb/cbxthumb/internal/conf"
)

func SetConfigData(path string) {
	flags.DataDir = path
}

func SetConfigLogStd(b bool) {
	flags.LogStd = b
}

func SetConfigDebug(b bool) {
	flags.Debug = b
}

func SetConfigNoPrefix(b bool) {
	flags.NoPrefix = b
}

// SetSortImages overrides no_sort for this process. It needs Init first.
func SetSortImages(b bool) {
	if conf.Conf != nil {
		conf.Conf.NoSort = !b
	}
}
