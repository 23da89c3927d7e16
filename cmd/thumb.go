package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/internal/op"
	"github.com/cbxthumb/cbxthumb/pkg/buffer"
	"github.com/cbxthumb/cbxthumb/pkg/pool"
	"github.com/cbxthumb/cbxthumb/pkg/utils"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	thumbOpts   thumbOptions
	thumbOutput string
	thumbRaw    bool
	thumbHint   string
)

var stdinChunks = pool.NewBytes(256*1024, 16)

// ThumbCmd represents the thumb command
var ThumbCmd = &cobra.Command{
	Use:   "thumb <archive|->",
	Short: "Render the cover thumbnail of a comic archive",
	Long: `Render the cover thumbnail of a comic archive.
Use - to read the archive from stdin. The image format follows the
output extension; stdout gets PNG unless --raw is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Init()
		defer Release()
		cfg, err := thumbOpts.resolve()
		if err != nil {
			return err
		}
		th, err := renderThumb(args[0], cfg, sortImages())
		if err != nil {
			return err
		}
		out := thumbOutput
		if out == "" {
			out = defaultThumbOutput(args[0])
		}
		if err = writeThumb(cmd.OutOrStdout(), out, th, thumbRaw); err != nil {
			return err
		}
		log.Infof("%s: %s %dx%d", args[0], th.Entry.Name, th.Width, th.Height)
		return nil
	},
}

// defaultThumbOutput places the thumbnail next to the archive, or on stdout
// when the archive came from stdin.
func defaultThumbOutput(input string) string {
	if isStdio(input) {
		return "-"
	}
	return filepath.Join(filepath.Dir(input), utils.ReplaceExt(input, ".png"))
}

func renderThumb(input string, cfg model.ThumbnailConfig, sort bool) (*model.Thumbnail, error) {
	if !isStdio(input) {
		return op.ThumbnailFromFile(input, cfg, sort)
	}
	r := &buffer.Reader{}
	defer r.Reset()
	n, err := r.ReadFrom(os.Stdin, stdinChunks)
	if err != nil {
		return nil, errors.Wrap(err, "failed read stdin")
	}
	log.Debugf("read %d bytes from stdin", n)
	return op.ThumbnailFromStream(r, thumbHint, cfg, sort)
}

// writeThumb writes raw BGRA rows or an encoded image to out, "-" being stdout.
func writeThumb(stdout io.Writer, out string, th *model.Thumbnail, raw bool) error {
	if raw {
		if isStdio(out) {
			_, err := stdout.Write(th.Pix)
			return errors.WithStack(err)
		}
		return errors.WithStack(os.WriteFile(out, th.Pix, 0o644))
	}
	if isStdio(out) {
		return errors.WithStack(imaging.Encode(stdout, th.Image, imaging.PNG))
	}
	return errors.WithStack(imaging.Save(th.Image, out))
}

func init() {
	RootCmd.AddCommand(ThumbCmd)
	ThumbCmd.Flags().StringVarP(&thumbOutput, "output", "o", "", "output file, - for stdout (defaults to <archive name>.png next to the archive)")
	ThumbCmd.Flags().IntVar(&thumbOpts.size, "size", 0, "bound both sides of the thumbnail")
	ThumbCmd.Flags().IntVar(&thumbOpts.width, "width", 0, "maximum thumbnail width")
	ThumbCmd.Flags().IntVar(&thumbOpts.height, "height", 0, "maximum thumbnail height")
	ThumbCmd.Flags().StringVar(&thumbOpts.filter, "filter", "", "resize filter, bilinear or lanczos3")
	ThumbCmd.Flags().StringVar(&thumbOpts.background, "background", "", "background for transparent pixels, RRGGBB or RRGGBBAA")
	ThumbCmd.Flags().BoolVar(&thumbRaw, "raw", false, "write raw BGRA pixels instead of an encoded image")
	ThumbCmd.Flags().StringVar(&thumbHint, "hint", "", "file name or extension of the archive read from stdin")
}
