package bootstrap

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/cbxthumb/cbxthumb/cmd/flags"
	"github.com/cbxthumb/cbxthumb/internal/conf"
	"github.com/cbxthumb/cbxthumb/pkg/utils"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Program working directory
func PWD() string {
	if flags.ForceBinDir {
		ex, err := os.Executable()
		if err != nil {
			log.Fatal(err)
		}
		return filepath.Dir(ex)
	}
	d, err := os.Getwd()
	if err != nil {
		d = "."
	}
	return d
}

func InitConfig() {
	pwd := PWD()
	if !filepath.IsAbs(flags.DataDir) {
		flags.DataDir = filepath.Join(pwd, flags.DataDir)
	}
	configPath := flags.ConfigPath
	if configPath == "" {
		configPath = filepath.Join(flags.DataDir, "config.json")
	} else if !filepath.IsAbs(configPath) {
		configPath = filepath.Join(pwd, configPath)
	}
	c, err := loadConfig(configPath, flags.DataDir)
	if err != nil {
		log.Fatalf("%+v", err)
	}
	conf.Conf = c
	if !conf.Conf.Force {
		confFromEnv()
	}
	// convert abs path
	convertAbsPath := func(path *string) {
		if *path != "" && !filepath.IsAbs(*path) {
			*path = filepath.Join(pwd, *path)
		}
	}
	convertAbsPath(&conf.Conf.Log.Name)
	convertAbsPath(&conf.Conf.TempDir)

	if err := os.MkdirAll(conf.Conf.TempDir, 0o777); err != nil {
		log.Fatalf("create temp dir error: %+v", err)
	}
	log.Debugf("config: %+v", conf.Conf)
}

// loadConfig reads configPath over the defaults, creating it when missing,
// and writes it back so new keys show up in the file.
func loadConfig(configPath, dataDir string) (*conf.Config, error) {
	log.Infof("reading config file: %s", configPath)
	c := conf.DefaultConfig(dataDir)
	if !utils.Exists(configPath) {
		log.Infof("config file not exists, creating default config file")
		f, err := utils.CreateNestedFile(configPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create config file")
		}
		_ = f.Close()
		if !utils.WriteJsonToFile(configPath, c) {
			return nil, errors.New("failed to create default config file")
		}
		return c, nil
	}
	configBytes, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file error")
	}
	if err = utils.Json.Unmarshal(configBytes, c); err != nil {
		return nil, errors.Wrap(err, "load config error")
	}
	// update config.json struct
	confBody, err := utils.Json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal config error")
	}
	if err = os.WriteFile(configPath, confBody, 0o777); err != nil {
		return nil, errors.Wrap(err, "update config struct error")
	}
	return c, nil
}

func envPrefix() string {
	if flags.NoPrefix {
		return ""
	}
	return conf.EnvPrefix
}

func confFromEnv() {
	prefix := envPrefix()
	log.Infof("load config from env with prefix: %s", prefix)
	if err := env.ParseWithOptions(conf.Conf, env.Options{
		Prefix: prefix,
	}); err != nil {
		log.Fatalf("load config from env error: %+v", err)
	}
}

// CleanTempDir drops staging files left behind by an earlier run. Only
// files carrying the staging prefix are touched.
func CleanTempDir() {
	files, err := os.ReadDir(conf.Conf.TempDir)
	if err != nil {
		log.Errorln("failed list temp file: ", err)
		return
	}
	for _, file := range files {
		if !strings.HasPrefix(file.Name(), conf.TempFilePrefix) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(conf.Conf.TempDir, file.Name())); err != nil {
			log.Errorln("failed delete temp file: ", err)
		}
	}
}
