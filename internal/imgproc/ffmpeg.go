package imgproc

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os/exec"

	"github.com/cbxthumb/cbxthumb/internal/model"
	"github.com/cbxthumb/cbxthumb/internal/stream"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFmpegStrategy hands the bytes to the system ffmpeg install, which covers
// codecs the portable decoders lack (AVIF in particular). It never fails
// hard: every problem is reported as ErrNotApplicable.
type FFmpegStrategy struct {
	LookPath func(file string) (string, error)
	Stager   *stream.Stager
}

func NewFFmpegStrategy() *FFmpegStrategy {
	return &FFmpegStrategy{LookPath: exec.LookPath}
}

func (*FFmpegStrategy) Name() string {
	return "ffmpeg"
}

func (s *FFmpegStrategy) Decode(data []byte, format model.ImageFormat) (image.Image, error) {
	lookPath := s.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if _, err := lookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotApplicable, err)
	}
	stager := s.Stager
	if stager == nil {
		stager = stream.DefaultStager()
	}
	name, _, err := stager.CacheFullInTempFile(bytes.NewReader(data), "."+format.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotApplicable, err)
	}
	defer stager.Remove(name)
	input, ok := stager.RealPath(name)
	if !ok {
		return nil, fmt.Errorf("%w: staging area has no host path", ErrNotApplicable)
	}

	out, stderr := bytes.NewBuffer(nil), bytes.NewBuffer(nil)
	err = ffmpeg.Input(input).
		Output("pipe:", ffmpeg.KwArgs{"vframes": 1, "format": "image2", "vcodec": "png"}).
		GlobalArgs("-loglevel", "error").
		Silent(true).
		WithOutput(out, stderr).
		Run()
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %v: %s", ErrNotApplicable, err, bytes.TrimSpace(stderr.Bytes()))
	}
	img, err := png.Decode(out)
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg output: %v", ErrNotApplicable, err)
	}
	return img, nil
}
