package utils

import (
	stdpath "path"
	"path/filepath"
	"strings"
)

// Ext returns the lowercased extension of path without the leading dot.
func Ext(path string) string {
	ext := stdpath.Ext(path)
	if len(ext) > 0 && ext[0] == '.' {
		ext = ext[1:]
	}
	return strings.ToLower(ext)
}

// ReplaceExt swaps the extension of the base name of path for ext.
func ReplaceExt(path, ext string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + "." + strings.TrimPrefix(ext, ".")
}

// IsSystemFile matches OS metadata files that are never real content.
func IsSystemFile(filename string) bool {
	switch filename {
	case ".DS_Store", "desktop.ini", "Thumbs.db", "@eaDir":
		return true
	}
	return strings.HasPrefix(filename, "._")
}
