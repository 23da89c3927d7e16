package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cbxthumb/cbxthumb/internal/archive"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/imgproc"
	"github.com/spf13/cobra"
)

// enough for the AVIF box walk
const detectHeadSize = 4096

// detectKind names what the content of path is: an archive type, an image
// format prefixed with "image/", or "unknown".
func detectKind(path string) (string, error) {
	t, err := archive.DetectFile(path)
	if err == nil {
		return t.String(), nil
	}
	if !errs.IsUnsupportedFormat(err) {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	head := make([]byte, detectHeadSize)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	format, err := imgproc.DetectFormat(head[:n])
	if err != nil {
		return "unknown", nil
	}
	return "image/" + format.String(), nil
}

// DetectCmd represents the detect command
var DetectCmd = &cobra.Command{
	Use:   "detect <file...>",
	Short: "Identify archives and images by their content",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, path := range args {
			kind, err := detectKind(path)
			if err != nil {
				fmt.Fprintf(out, "%s: error: %v\n", path, err)
				continue
			}
			fmt.Fprintf(out, "%s: %s\n", path, kind)
		}
	},
}

func init() {
	RootCmd.AddCommand(DetectCmd)
}
