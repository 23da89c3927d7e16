package tool

import (
	"strings"

	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
)

var (
	Tools       = make(map[string]Tool)
	toolsByType = make(map[model.ArchiveType]Tool)
)

func RegisterTool(tool Tool) {
	for _, ext := range tool.AcceptedExtensions() {
		Tools[ext] = tool
	}
	toolsByType[tool.Type()] = tool
}

func GetArchiveTool(ext string) (Tool, error) {
	t, ok := Tools[strings.ToLower(strings.TrimPrefix(ext, "."))]
	if !ok {
		return nil, errs.NewErr(errs.UnsupportedFormat, "archive extension %q", ext)
	}
	return t, nil
}

func GetToolByType(t model.ArchiveType) (Tool, error) {
	tool, ok := toolsByType[t]
	if !ok {
		return nil, errs.NewErr(errs.UnsupportedFormat, "no backend registered for %s", t)
	}
	return tool, nil
}
