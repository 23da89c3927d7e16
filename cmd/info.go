package cmd

import (
	"fmt"

	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/op"
	"github.com/cbxthumb/cbxthumb/pkg/utils"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var infoJSON bool

type archiveInfo struct {
	Path           string `json:"path"`
	Type           string `json:"type,omitempty"`
	TotalFiles     int    `json:"total_files"`
	ImageCount     int    `json:"image_count"`
	CompressedSize uint64 `json:"compressed_size"`
	Cover          string `json:"cover,omitempty"`
	Error          string `json:"error,omitempty"`
	ErrorKind      string `json:"error_kind,omitempty"`
}

func collectInfo(path string, sort bool) archiveInfo {
	info := archiveInfo{Path: path}
	meta, cover, err := op.ArchiveInfo(path, sort)
	if meta.Type != 0 {
		info.Type = meta.Type.String()
	}
	info.TotalFiles = meta.TotalFiles
	info.ImageCount = meta.ImageCount
	info.CompressedSize = meta.CompressedSize
	info.Cover = cover.Name
	if err != nil {
		info.Error = err.Error()
		info.ErrorKind = errs.Kind(err)
	}
	return info
}

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info <archive...>",
	Short: "Show entry counts and the cover entry of comic archives",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Init()
		defer Release()
		sort := sortImages()
		infos := make([]archiveInfo, 0, len(args))
		for _, path := range args {
			infos = append(infos, collectInfo(path, sort))
		}
		out := cmd.OutOrStdout()
		if infoJSON {
			body, err := utils.Json.MarshalIndent(infos, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(body))
			return err
		}
		for _, info := range infos {
			if info.Type == "" {
				fmt.Fprintf(out, "%s: %s\n", info.Path, info.Error)
				continue
			}
			fmt.Fprintf(out, "%s: %s, %d files, %d images, %s\n", info.Path, info.Type,
				info.TotalFiles, info.ImageCount, humanize.IBytes(info.CompressedSize))
			if info.Cover != "" {
				fmt.Fprintf(out, "  cover: %s\n", info.Cover)
			} else {
				fmt.Fprintf(out, "  cover: none (%s)\n", info.ErrorKind)
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(InfoCmd)
	InfoCmd.Flags().BoolVar(&infoJSON, "json", false, "print JSON")
}
