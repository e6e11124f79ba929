package ffmpegenc

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os/exec"
	"sync"

	"github.com/user/scenecast/pkg/ports"
)

// H264Encoder implements ports.VideoEncoder with libx264. ffmpeg writes
// a raw Annex-B elementary stream to stdout as it encodes; End splits
// the collected stream into access units and muxes them into a
// fragmented MP4.
type H264Encoder struct {
	mu      sync.Mutex
	width   int
	height  int
	fps     float64
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stderr  bytes.Buffer
	scratch *image.RGBA
	closed  bool

	// Written by the stdout reader goroutine, read by End after readDone.
	chunkMu  sync.Mutex
	chunks   [][]byte
	readErr  error
	readDone chan struct{}
}

// NewH264 creates an idle H.264 encoder.
func NewH264() *H264Encoder {
	return &H264Encoder{}
}

func (e *H264Encoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin != nil {
		return fmt.Errorf("ffmpegenc: h264 encoder already started")
	}

	path, err := FindBinary()
	if err != nil {
		return err
	}

	e.width = width
	e.height = height
	e.fps = fps
	e.closed = false
	e.chunks = nil
	e.readErr = nil
	e.readDone = make(chan struct{})
	e.stderr.Reset()

	e.cmd = exec.Command(path, buildH264Args(width, height, fps, opts)...)
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("ffmpegenc: stdin pipe: %w", err)
	}
	stdout, err := e.cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return fmt.Errorf("ffmpegenc: stdout pipe: %w", err)
	}

	if err := e.cmd.Start(); err != nil {
		stdin.Close()
		return fmt.Errorf("ffmpegenc: start ffmpeg: %w", err)
	}
	e.stdin = stdin

	go e.readOutput(stdout)
	return nil
}

// readOutput collects stdout chunks in arrival order.
func (e *H264Encoder) readOutput(stdout io.Reader) {
	defer close(e.readDone)
	buf := make([]byte, 64*1024)
	for {
		n, err := stdout.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			e.chunkMu.Lock()
			e.chunks = append(e.chunks, chunk)
			e.chunkMu.Unlock()
		}
		if err != nil {
			if err != io.EOF {
				e.chunkMu.Lock()
				e.readErr = err
				e.chunkMu.Unlock()
			}
			return
		}
	}
}

func (e *H264Encoder) EncodeFrame(img image.Image, timestampMs int) error {
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

func (e *H264Encoder) End() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.stdin == nil || e.closed {
		return nil, ErrNotInitialized
	}

	e.stdin.Close()
	e.stdin = nil
	e.closed = true

	<-e.readDone
	if err := e.cmd.Wait(); err != nil {
		return nil, fmt.Errorf("ffmpegenc: h264 encoding failed: %w\nstderr: %s", err, e.stderr.String())
	}

	e.chunkMu.Lock()
	chunks := e.chunks
	readErr := e.readErr
	e.chunks = nil
	e.chunkMu.Unlock()

	if readErr != nil {
		return nil, fmt.Errorf("ffmpegenc: read h264 output: %w", readErr)
	}
	if len(chunks) == 0 {
		return nil, ErrNoOutput
	}
	return muxAVC(concatChunks(chunks), e.width, e.height, e.fps)
}

var _ ports.VideoEncoder = (*H264Encoder)(nil)
