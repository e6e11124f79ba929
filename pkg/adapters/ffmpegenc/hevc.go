package ffmpegenc

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/user/scenecast/pkg/ports"
)

// HEVCEncoder implements ports.VideoEncoder with libx265. HEVC in MP4
// needs a rewritten moov for faststart, so ffmpeg writes to a temp file
// that End reads back and removes.
type HEVCEncoder struct {
	mu       sync.Mutex
	width    int
	height   int
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	stderr   bytes.Buffer
	tempPath string
	scratch  *image.RGBA
	closed   bool
}

// NewHEVC creates an idle HEVC encoder.
func NewHEVC() *HEVCEncoder {
	return &HEVCEncoder{}
}

func (e *HEVCEncoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin != nil {
		return fmt.Errorf("ffmpegenc: hevc encoder already started")
	}

	path, err := FindBinary()
	if err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp("", "hevcencode_*.mp4")
	if err != nil {
		return fmt.Errorf("ffmpegenc: create temp file: %w", err)
	}
	e.tempPath = tmpFile.Name()
	tmpFile.Close()

	e.width = width
	e.height = height
	e.closed = false
	e.stderr.Reset()

	e.cmd = exec.Command(path, buildHEVCArgs(width, height, fps, opts, e.tempPath)...)
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		os.Remove(e.tempPath)
		e.tempPath = ""
		return fmt.Errorf("ffmpegenc: stdin pipe: %w", err)
	}

	if err := e.cmd.Start(); err != nil {
		stdin.Close()
		os.Remove(e.tempPath)
		e.tempPath = ""
		return fmt.Errorf("ffmpegenc: start ffmpeg: %w", err)
	}
	e.stdin = stdin
	return nil
}

func (e *HEVCEncoder) EncodeFrame(img image.Image, timestampMs int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil || e.closed {
		return ErrNotInitialized
	}

	var pix []byte
	e.scratch, pix = rgbaFrame(img, e.width, e.height, e.scratch)
	if _, err := e.stdin.Write(pix); err != nil {
		return fmt.Errorf("ffmpegenc: write frame: %w", err)
	}
	return nil
}

func (e *HEVCEncoder) End() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil || e.closed {
		return nil, ErrNotInitialized
	}

	e.stdin.Close()
	e.stdin = nil
	e.closed = true

	if err := e.cmd.Wait(); err != nil {
		os.Remove(e.tempPath)
		e.tempPath = ""
		return nil, fmt.Errorf("ffmpegenc: hevc encoding failed: %w\nstderr: %s", err, e.stderr.String())
	}

	data, err := os.ReadFile(e.tempPath)
	os.Remove(e.tempPath)
	e.tempPath = ""
	if err != nil {
		return nil, fmt.Errorf("ffmpegenc: read output: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoOutput
	}
	return data, nil
}

var _ ports.VideoEncoder = (*HEVCEncoder)(nil)
