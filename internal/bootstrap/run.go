package bootstrap

import (
	"github.com/cbxthumb/cbxthumb/internal/conf"
)

func Init() {
	InitConfig()
	Log()
	CleanTempDir()
}

func Release() {
	if conf.Conf != nil {
		CleanTempDir()
	}
}
