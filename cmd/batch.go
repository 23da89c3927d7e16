package cmd

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/cbxthumb/cbxthumb/internal/conf"
	"github.com/cbxthumb/cbxthumb/internal/errs"
	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/internal/op"
	"github.com/cbxthumb/cbxthumb/pkg/errgroup"
	"github.com/cbxthumb/cbxthumb/pkg/utils"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	batchOpts        thumbOptions
	batchOutput      string
	batchConcurrency int
	batchFormat      string
)

type batchResult struct {
	rendered, skipped, failed atomic.Int64
}

// findArchives lists archive files under root by extension, leaving out
// OS metadata files and folders.
func findArchives(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if utils.IsSystemFile(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && isArchiveName(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// thumbPath mirrors the layout of root under outDir. The archive extension
// stays in the name so a.cbz and a.cbr get distinct thumbnails.
func thumbPath(root, outDir, path, ext string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.Join(outDir, filepath.Dir(rel), filepath.Base(rel)+"."+strings.TrimPrefix(ext, "."))
}

func runBatch(ctx context.Context, root, outDir string, cfg model.ThumbnailConfig, sort bool, limit int) (*batchResult, error) {
	paths, err := findArchives(root)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed walk [%s]", root)
	}
	res := &batchResult{}
	g, _ := errgroup.NewGroupWithContext(ctx, limit)
	for _, path := range paths {
		g.Go(func(ctx context.Context) error {
			l := log.WithField("archive", path)
			th, err := op.ThumbnailFromFile(path, cfg, sort)
			if errs.IsSkippable(err) {
				l.Infof("skipped: %v", err)
				res.skipped.Add(1)
				return nil
			}
			if err != nil {
				l.Warnf("failed: %+v", err)
				res.failed.Add(1)
				return nil
			}
			dst := thumbPath(root, outDir, path, batchFormat)
			if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
				return errors.WithStack(err)
			}
			if err := imaging.Save(th.Image, dst); err != nil {
				return errors.WithMessagef(err, "failed save [%s]", dst)
			}
			l.Debugf("wrote %s", dst)
			res.rendered.Add(1)
			return nil
		})
	}
	return res, g.Wait()
}

// BatchCmd represents the batch command
var BatchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Render thumbnails for every comic archive under a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Init()
		defer Release()
		cfg, err := batchOpts.resolve()
		if err != nil {
			return err
		}
		limit := batchConcurrency
		if limit <= 0 {
			limit = conf.Conf.MaxConcurrency
		}
		res, err := runBatch(cmd.Context(), args[0], batchOutput, cfg, sortImages(), limit)
		if err != nil {
			return err
		}
		log.Infof("%d thumbnails, %d skipped, %d failed", res.rendered.Load(), res.skipped.Load(), res.failed.Load())
		if n := res.failed.Load(); n > 0 {
			return errors.Errorf("%d archives failed", n)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(BatchCmd)
	BatchCmd.Flags().StringVarP(&batchOutput, "output", "o", "thumbnails", "output directory")
	BatchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "archives processed at once (defaults to max_concurrency)")
	BatchCmd.Flags().StringVar(&batchFormat, "format", "png", "thumbnail file format, png or jpg")
	BatchCmd.Flags().IntVar(&batchOpts.size, "size", 0, "bound both sides of the thumbnail")
	BatchCmd.Flags().IntVar(&batchOpts.width, "width", 0, "maximum thumbnail width")
	BatchCmd.Flags().IntVar(&batchOpts.height, "height", 0, "maximum thumbnail height")
	BatchCmd.Flags().StringVar(&batchOpts.filter, "filter", "", "resize filter, bilinear or lanczos3")
	BatchCmd.Flags().StringVar(&batchOpts.background, "background", "", "background for transparent pixels, RRGGBB or RRGGBBAA")
}
