package utils

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Exists determine whether the file exists
func Exists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// CreateNestedFile create nested file
func CreateNestedFile(path string) (*os.File, error) {
	basePath := filepath.Dir(path)
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		log.Errorf("can't create folder, %s", err)
		return nil, err
	}
	return os.Create(path)
}

// WriteJsonToFile write struct to json file
func WriteJsonToFile(dst string, data interface{}) bool {
	str, err := Json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Errorf("failed convert Conf to []byte:%s", err.Error())
		return false
	}
	err = os.WriteFile(dst, str, 0o644)
	if err != nil {
		log.Errorf("failed to write json file:%s", err.Error())
		return false
	}
	return true
}
