// Package capture samples the rendering surface on a fixed interval and
// feeds the frames to an incremental video encoder.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/user/scenecast/pkg/ports"
	"github.com/user/scenecast/pkg/surface"
)

var (
	// ErrAlreadyStarted is returned when Begin is called twice.
	ErrAlreadyStarted = errors.New("capture: recorder already started")
	// ErrNotRecording is returned when Finish is called before Begin or
	// after Abort.
	ErrNotRecording = errors.New("capture: recorder is not recording")
	// ErrBadFrameRate rejects non-positive sampling rates.
	ErrBadFrameRate = errors.New("capture: fps must be positive")
)

// Output is one finished capture: the container-formatted buffer plus
// the metadata consumers need to tag and describe it.
type Output struct {
	Data       []byte
	MediaType  string
	Codec      ports.Codec
	Container  string
	FrameCount int
	DurationMs int
}

type recorderState int

const (
	stateIdle recorderState = iota
	stateRecording
	stateDone
)

// Recorder drives one capture session over a surface. The sampling loop
// runs in its own goroutine between Begin and Finish/Abort, concurrently
// with the timeline repainting the surface. A Recorder is single use.
type Recorder struct {
	surf   *surface.Surface
	enc    ports.VideoEncoder
	pick   ports.CodecSupport
	fps    float64
	opts   ports.EncoderOptions
	clock  ports.Clock
	logger ports.Logger

	mu    sync.Mutex
	state recorderState
	stop  chan struct{}
	group *errgroup.Group

	// Owned by the sampling goroutine while recording; read by
	// Finish only after the group has been waited on.
	started time.Time
	frames  int
	scratch *image.RGBA
}

// NewRecorder creates a recorder for one capture session. pick names the
// codec the encoder produces; its media type tags the finished buffer.
func NewRecorder(surf *surface.Surface, enc ports.VideoEncoder, pick ports.CodecSupport, fps float64, opts ports.EncoderOptions, clock ports.Clock, logger ports.Logger) *Recorder {
	return &Recorder{
		surf:   surf,
		enc:    enc,
		pick:   pick,
		fps:    fps,
		opts:   opts,
		clock:  clock,
		logger: logger.WithComponent("capture"),
	}
}

// FrameInterval returns the sampling period. Scene settle delays must not
// be shorter than this, or a scene could pass without a captured frame.
func (r *Recorder) FrameInterval() time.Duration {
	if r.fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / r.fps)
}

// Begin initializes the encoder and starts the sampling goroutine. The
// context cancels sampling when the owning run is superseded.
func (r *Recorder) Begin(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != stateIdle {
		return ErrAlreadyStarted
	}
	if r.fps <= 0 {
		return fmt.Errorf("%w: %v", ErrBadFrameRate, r.fps)
	}

	w, h := r.surf.Size()
	if err := r.enc.Begin(w, h, r.fps, r.opts); err != nil {
		return fmt.Errorf("capture: begin encoder: %w", err)
	}

	r.state = stateRecording
	r.started = r.clock.Now()
	r.stop = make(chan struct{})

	// Create the ticker before Begin returns so a manual clock advanced
	// immediately afterwards still delivers every tick to the sampler.
	ticker := r.clock.NewTicker(r.FrameInterval())
	g, gctx := errgroup.WithContext(ctx)
	r.group = g
	g.Go(func() error {
		defer ticker.Stop()
		return r.sample(gctx, ticker)
	})

	r.logger.Debug("Capture started: %dx%d at %.1f fps (%s)", w, h, r.fps, r.pick.Codec)
	return nil
}

// sample snapshots the surface once per frame interval until stopped.
// Frames reach the encoder from this single goroutine, so chunk order
// inside the encoder matches capture order.
func (r *Recorder) sample(ctx context.Context, ticker ports.Ticker) error {
	for {
		// Cancellation wins over a simultaneous stop signal.
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stop:
			return nil
		case now := <-ticker.C():
			ts := int(now.Sub(r.started).Milliseconds())
			r.scratch = r.surf.Snapshot(r.scratch)
			if err := r.enc.EncodeFrame(r.scratch, ts); err != nil {
				return fmt.Errorf("capture: encode frame %d: %w", r.frames, err)
			}
			r.frames++
		}
	}
}

// Finish stops sampling, waits for the encoder to flush and returns the
// finished buffer. A sampling error that occurred mid-capture surfaces
// here; partial output is discarded.
func (r *Recorder) Finish() (Output, error) {
	g, err := r.end()
	if err != nil {
		return Output{}, err
	}

	if err := g.Wait(); err != nil {
		if _, endErr := r.enc.End(); endErr != nil {
			r.logger.Debug("Encoder discarded after failure: %s", endErr)
		}
		return Output{}, err
	}

	data, err := r.enc.End()
	if err != nil {
		return Output{}, fmt.Errorf("capture: finalize encoder: %w", err)
	}
	out := Output{
		Data:       data,
		MediaType:  r.pick.MediaType,
		Codec:      r.pick.Codec,
		Container:  r.pick.Container,
		FrameCount: r.frames,
		DurationMs: int(r.clock.Now().Sub(r.started).Milliseconds()),
	}
	r.logger.Debug("Capture finished: %d frames, %d bytes (%s)", out.FrameCount, len(out.Data), out.MediaType)
	return out, nil
}

// Abort stops sampling and discards whatever the encoder produced. Used
// when a run is superseded or fails before its buffer is finalized.
func (r *Recorder) Abort() {
	g, err := r.end()
	if err != nil {
		return
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		r.logger.Debug("Capture sampler stopped with: %s", err)
	}
	if _, err := r.enc.End(); err != nil {
		r.logger.Debug("Encoder discarded: %s", err)
	}
	r.logger.Debug("Capture aborted after %d frames", r.frames)
}

// end flips the recorder out of the recording state and signals the
// sampler, returning the group to wait on.
func (r *Recorder) end() (*errgroup.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != stateRecording {
		return nil, ErrNotRecording
	}
	r.state = stateDone
	close(r.stop)
	return r.group, nil
}
