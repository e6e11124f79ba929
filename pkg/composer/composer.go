// Package composer orchestrates scene-to-video composition runs. One
// Composer owns the rendering surface and the published output resource
// across arbitrarily many runs: a generate request revokes the previous
// output, repaints the surface scene by scene on the timeline while the
// capture pipeline samples it, and publishes the encoded buffer as a
// revocable resource. A newer request supersedes any in-flight run.
package composer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/user/scenecast/pkg/capture"
	"github.com/user/scenecast/pkg/frame"
	"github.com/user/scenecast/pkg/ports"
	"github.com/user/scenecast/pkg/resource"
	"github.com/user/scenecast/pkg/scene"
	"github.com/user/scenecast/pkg/surface"
	"github.com/user/scenecast/pkg/timeline"
)

// Defaults for the capture timing knobs.
const (
	// DefaultFPS is the capture sampling rate.
	DefaultFPS = 5.0

	// DefaultSettleDelay is the extra hold after each scene render. It is
	// clamped up to the capture frame interval so every scene is sampled
	// at least once.
	DefaultSettleDelay = 200 * time.Millisecond

	// DefaultQuality is the encoder quality knob (0-63, lower is better).
	DefaultQuality = 28
)

// Options configure a Composer. Renderer, Selector, Clock, Logger and
// Sink are required; zero timing knobs fall back to the defaults above.
type Options struct {
	Renderer ports.Renderer
	Selector ports.EncoderSelector
	Clock    ports.Clock
	Logger   ports.Logger
	Sink     ports.DebugSink

	FPS         float64       // capture sampling rate in frames per second
	SettleDelay time.Duration // extra hold after each scene render
	Quality     int           // 0-63, lower is better
	Bitrate     int           // kbps, 0 lets the codec decide
	Preferences []ports.Codec // codec preference order, nil for default
}

// Composer is the composition state machine. All methods are safe for
// concurrent use; concurrent generate requests supersede each other so
// that at most one run owns the surface at a time.
type Composer struct {
	renderer ports.Renderer
	selector ports.EncoderSelector
	clock    ports.Clock
	logger   ports.Logger
	sink     ports.DebugSink

	fps     float64
	settle  time.Duration
	quality int
	bitrate int
	prefs   []ports.Codec

	painter  *frame.Painter
	registry *resource.Registry

	// surf is created on first use and reused by every later run. Runs
	// are serialized through the prevDone chain, so only the current run
	// touches it.
	surf *surface.Surface

	mu       sync.Mutex
	closed   bool
	state    State
	reason   string
	current  *resource.Resource
	lastRun  *RunInfo
	gen      uint64
	cancel   context.CancelFunc
	prevDone chan struct{}
}

// New creates an idle composer.
func New(opts Options) (*Composer, error) {
	switch {
	case opts.Renderer == nil:
		return nil, errors.New("composer: renderer is required")
	case opts.Selector == nil:
		return nil, errors.New("composer: encoder selector is required")
	case opts.Clock == nil:
		return nil, errors.New("composer: clock is required")
	case opts.Logger == nil:
		return nil, errors.New("composer: logger is required")
	case opts.Sink == nil:
		return nil, errors.New("composer: debug sink is required")
	}

	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	settle := opts.SettleDelay
	if settle <= 0 {
		settle = DefaultSettleDelay
	}
	if interval := time.Duration(float64(time.Second) / fps); settle < interval {
		opts.Logger.Debug("Settle delay raised to %s to cover the capture frame interval", interval)
		settle = interval
	}
	quality := opts.Quality
	if quality == 0 {
		quality = DefaultQuality
	}

	return &Composer{
		renderer: opts.Renderer,
		selector: opts.Selector,
		clock:    opts.Clock,
		logger:   opts.Logger,
		sink:     opts.Sink,
		fps:      fps,
		settle:   settle,
		quality:  quality,
		bitrate:  opts.Bitrate,
		prefs:    opts.Preferences,
		painter:  frame.NewPainter(),
		registry: resource.NewRegistry(),
		state:    StateIdle,
	}, nil
}

// Generate runs the full pipeline for the scene list and publishes the
// encoded video as a revocable resource. Starting a new run revokes the
// previously published resource and supersedes any run still in flight;
// the superseded caller gets ErrSuperseded and its artifacts are
// discarded. Generate blocks until this run completes, fails or is
// itself superseded.
func (c *Composer) Generate(ctx context.Context, scenes []scene.Scene) (*resource.Resource, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	prevDone := c.prevDone
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	done := make(chan struct{})
	c.prevDone = done
	if c.current != nil {
		c.registry.Revoke(c.current.Handle)
		c.current = nil
	}
	c.lastRun = nil
	c.state = StateRendering
	c.reason = ""
	c.mu.Unlock()

	defer close(done)
	defer cancel()

	// The superseded run may still be sampling the surface; wait for it
	// to unwind before repainting.
	if prevDone != nil {
		<-prevDone
	}

	c.logger.Info("Composition started: %d scenes, %.1fs of content", len(scenes), scene.TotalDuration(scenes).Seconds())
	out, err := c.run(runCtx, scenes)
	res, err := c.finalize(gen, len(scenes), out, err)
	if err == nil {
		c.saveRunArtifacts(len(scenes), out, res)
	}
	return res, err
}

// run executes one composition pipeline: validate, pick a codec, paint
// and hold every scene while the recorder samples the surface, then
// flush the encoder.
func (c *Composer) run(ctx context.Context, scenes []scene.Scene) (capture.Output, error) {
	if err := scene.ValidateList(scenes); err != nil {
		if errors.Is(err, scene.ErrNoScenes) {
			return capture.Output{}, ErrEmptySceneList
		}
		return capture.Output{}, fmt.Errorf("composer: invalid scene list: %w", err)
	}

	if !c.CanEncode() {
		return capture.Output{}, ErrUnsupportedRuntime
	}
	enc, pick, err := c.selector.Select(c.prefs)
	if err != nil {
		return capture.Output{}, fmt.Errorf("%w: %v", ErrUnsupportedCodec, err)
	}

	if err := c.acquireSurface(); err != nil {
		return capture.Output{}, err
	}

	rec := capture.NewRecorder(c.surf, enc, pick, c.fps, ports.EncoderOptions{Quality: c.quality, Bitrate: c.bitrate}, c.clock, c.logger)
	if err := rec.Begin(ctx); err != nil {
		return capture.Output{}, fmt.Errorf("%w: %v", ErrEncoderFailure, err)
	}

	events, errc := timeline.New(c.clock, c.settle, c.logger).Play(ctx, scenes, c.renderScene)
	for ev := range events {
		c.logger.Info("Scene %d/%d on screen", ev.Index+1, len(scenes))
	}
	if err := <-errc; err != nil {
		rec.Abort()
		return capture.Output{}, err
	}

	out, err := rec.Finish()
	if err != nil {
		return capture.Output{}, fmt.Errorf("%w: %v", ErrEncoderFailure, err)
	}
	return out, nil
}

// renderScene paints one scene onto the shared surface.
func (c *Composer) renderScene(index int, sc scene.Scene) error {
	pal := scene.PaletteFor(index)
	var renderErr error
	c.surf.Update(func(img *image.RGBA) {
		canvas := c.renderer.CanvasFor(img)
		if canvas == nil {
			renderErr = fmt.Errorf("%w: renderer returned no canvas", ErrSurfaceUnavailable)
			return
		}
		c.painter.Paint(canvas, sc, pal)
	})
	if renderErr != nil {
		return renderErr
	}

	if c.sink.Enabled() {
		if err := c.sink.SaveSceneFrame(index, c.surf.Snapshot(nil)); err != nil {
			c.logger.Warn("Debug frame save failed: %s", err)
		}
	}
	return nil
}

// acquireSurface creates the shared surface on first use and erases the
// previous run's last frame on every later one.
func (c *Composer) acquireSurface() error {
	if c.surf == nil {
		surf, err := surface.New(frame.Width, frame.Height)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
		}
		c.surf = surf
		return nil
	}
	c.surf.Reset()
	return nil
}

// finalize records the run result, unless a newer run has taken over in
// the meantime: a stale result is discarded without touching the state.
func (c *Composer) finalize(gen uint64, sceneCount int, out capture.Output, runErr error) (*resource.Resource, error) {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if c.gen != gen {
		c.mu.Unlock()
		c.logger.Debug("Stale run result discarded, a newer request took over")
		return nil, ErrSuperseded
	}
	if runErr != nil {
		c.state = StateError
		c.reason = runErr.Error()
		c.mu.Unlock()
		c.logger.Error("Composition failed: %s", runErr)
		return nil, runErr
	}

	res, err := c.registry.Publish(out.Data, out.MediaType)
	if err != nil {
		c.state = StateError
		c.reason = err.Error()
		c.mu.Unlock()
		return nil, err
	}
	c.current = res
	c.lastRun = &RunInfo{
		Scenes:     sceneCount,
		Codec:      out.Codec,
		Container:  out.Container,
		MediaType:  out.MediaType,
		Frames:     out.FrameCount,
		DurationMs: out.DurationMs,
		Bytes:      len(out.Data),
	}
	c.state = StateReady
	c.reason = ""
	c.mu.Unlock()

	c.logger.Info("Composition ready: %d frames, %d bytes (%s)", out.FrameCount, len(out.Data), out.MediaType)
	return res, nil
}

// runManifest is the debug metadata written next to a saved run.
type runManifest struct {
	Handle     string `json:"handle"`
	Scenes     int    `json:"scenes"`
	Codec      string `json:"codec"`
	Container  string `json:"container"`
	MediaType  string `json:"media_type"`
	Frames     int    `json:"frames"`
	DurationMs int    `json:"duration_ms"`
	Bytes      int    `json:"bytes"`
}

func (c *Composer) saveRunArtifacts(sceneCount int, out capture.Output, res *resource.Resource) {
	if !c.sink.Enabled() {
		return
	}
	if err := c.sink.SaveVideo(res.FileName(), out.Data); err != nil {
		c.logger.Warn("Debug video save failed: %s", err)
	}
	data, err := json.MarshalIndent(runManifest{
		Handle:     res.Handle,
		Scenes:     sceneCount,
		Codec:      string(out.Codec),
		Container:  out.Container,
		MediaType:  out.MediaType,
		Frames:     out.FrameCount,
		DurationMs: out.DurationMs,
		Bytes:      len(out.Data),
	}, "", "  ")
	if err != nil {
		return
	}
	if err := c.sink.SaveRunManifest(data); err != nil {
		c.logger.Warn("Debug manifest save failed: %s", err)
	}
}

// Status returns a snapshot of the machine.
func (c *Composer) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{State: c.state, Reason: c.reason, Resource: c.current, Run: c.lastRun}
}

// Capability reports the support state of every codec candidate, so
// callers can degrade to a static storyboard when encoding is impossible.
func (c *Composer) Capability() []ports.CodecSupport {
	return c.selector.Probe()
}

// CanEncode reports whether at least one codec candidate is usable.
func (c *Composer) CanEncode() bool {
	for _, s := range c.selector.Probe() {
		if s.Supported {
			return true
		}
	}
	return false
}

// Registry exposes the resource registry that owns published handles.
func (c *Composer) Registry() *resource.Registry {
	return c.registry
}

// Close cancels any in-flight run, revokes every published resource and
// rejects further requests.
func (c *Composer) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.cancel != nil {
		c.cancel()
	}
	c.current = nil
	c.lastRun = nil
	c.state = StateIdle
	c.reason = ""
	c.mu.Unlock()

	c.registry.Close()
}
