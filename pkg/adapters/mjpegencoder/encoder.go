// Package mjpegencoder implements ports.VideoEncoder as a pure Go Motion
// JPEG encoder writing an AVI container. It needs nothing from the host
// runtime, so it is the candidate of last resort when no external
// encoder is available.
package mjpegencoder

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/user/scenecast/pkg/ports"
)

// Container and media type of the produced buffers.
const (
	Container = "avi"
	MediaType = "video/avi"
)

var (
	// ErrNotStarted is returned when frames arrive before Begin.
	ErrNotStarted = errors.New("mjpegencoder: encoder not started")
	// ErrNoFrames is returned by End when nothing was encoded.
	ErrNoFrames = errors.New("mjpegencoder: no frames encoded")
)

// Encoder accumulates JPEG frames and muxes them into an AVI on End.
// One Encoder handles one capture session.
type Encoder struct {
	width       int
	height      int
	fps         float64
	jpegQuality int
	began       bool
	frames      [][]byte
}

// New creates an idle encoder.
func New() *Encoder {
	return &Encoder{}
}

func (e *Encoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	if e.began {
		return errors.New("mjpegencoder: encoder already started")
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("mjpegencoder: invalid dimensions %dx%d", width, height)
	}
	if fps <= 0 {
		return fmt.Errorf("mjpegencoder: invalid fps %v", fps)
	}
	e.width = width
	e.height = height
	e.fps = fps
	e.jpegQuality = jpegQualityFor(opts.Quality)
	e.began = true
	e.frames = nil
	return nil
}

func (e *Encoder) EncodeFrame(img image.Image, timestampMs int) error {
	if !e.began {
		return ErrNotStarted
	}
	b := img.Bounds()
	if b.Dx() != e.width || b.Dy() != e.height {
		return fmt.Errorf("mjpegencoder: frame is %dx%d, session is %dx%d", b.Dx(), b.Dy(), e.width, e.height)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.jpegQuality}); err != nil {
		return fmt.Errorf("mjpegencoder: encode frame %d: %w", len(e.frames), err)
	}
	e.frames = append(e.frames, buf.Bytes())
	return nil
}

func (e *Encoder) End() ([]byte, error) {
	if !e.began {
		return nil, ErrNotStarted
	}
	e.began = false
	frames := e.frames
	e.frames = nil
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	return buildAVI(frames, e.width, e.height, e.fps)
}

// jpegQualityFor maps the pipeline's CRF-style quality knob (0-63, lower
// is better) onto the JPEG quality scale (higher is better).
func jpegQualityFor(crf int) int {
	q := 100 - crf
	if q > 100 {
		q = 100
	}
	if q < 40 {
		q = 40
	}
	return q
}

var _ ports.VideoEncoder = (*Encoder)(nil)
