// Package integration exercises the full composition pipeline with the
// real renderer and encoder. Time is driven through the manual clock so
// every run is deterministic; only JPEG/PNG encoding runs at real speed.
package integration

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/user/scenecast/pkg/adapters/filesink"
	"github.com/user/scenecast/pkg/adapters/ggrenderer"
	"github.com/user/scenecast/pkg/adapters/logger"
	"github.com/user/scenecast/pkg/adapters/mediaprobe"
	"github.com/user/scenecast/pkg/adapters/mjpegencoder"
	"github.com/user/scenecast/pkg/adapters/nullsink"
	"github.com/user/scenecast/pkg/adapters/osfilesystem"
	"github.com/user/scenecast/pkg/composer"
	"github.com/user/scenecast/pkg/mocks"
	"github.com/user/scenecast/pkg/ports"
	"github.com/user/scenecast/pkg/resource"
	"github.com/user/scenecast/pkg/scene"
	"github.com/user/scenecast/pkg/storyboard"
)

// countingEncoder wraps the real MJPEG encoder so the test can gate
// clock advances on frames actually reaching the encoder.
type countingEncoder struct {
	inner ports.VideoEncoder

	mu sync.Mutex
	n  int
}

func (e *countingEncoder) Begin(width, height int, fps float64, opts ports.EncoderOptions) error {
	return e.inner.Begin(width, height, fps, opts)
}

func (e *countingEncoder) EncodeFrame(img image.Image, timestampMs int) error {
	if err := e.inner.EncodeFrame(img, timestampMs); err != nil {
		return err
	}
	e.mu.Lock()
	e.n++
	e.mu.Unlock()
	return nil
}

func (e *countingEncoder) End() ([]byte, error) {
	return e.inner.End()
}

func (e *countingEncoder) frames() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.n
}

// fixedSelector hands out one prepared encoder, bypassing the runtime
// probes so the test does not depend on an installed ffmpeg.
type fixedSelector struct {
	enc  ports.VideoEncoder
	pick ports.CodecSupport
}

func (s *fixedSelector) Probe() []ports.CodecSupport {
	return []ports.CodecSupport{s.pick}
}

func (s *fixedSelector) Select(prefer []ports.Codec) (ports.VideoEncoder, ports.CodecSupport, error) {
	if !s.pick.Supported {
		return nil, ports.CodecSupport{}, errors.New("integration: no supported codec")
	}
	return s.enc, s.pick, nil
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// aviFrames returns the payload of every video chunk in the movi list.
func aviFrames(t *testing.T, data []byte) [][]byte {
	t.Helper()
	movi := bytes.Index(data, []byte("movi"))
	if movi < 0 {
		t.Fatal("no movi list in AVI buffer")
	}

	var frames [][]byte
	pos := movi + 4
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		if id == "idx1" {
			break
		}
		if pos+8+size > len(data) {
			t.Fatalf("chunk %s at %d overruns the buffer", id, pos)
		}
		if id == "00dc" {
			frames = append(frames, data[pos+8:pos+8+size])
		}
		pos += 8 + size
		if size%2 != 0 {
			pos++
		}
	}
	return frames
}

// meanRB averages the red and blue channels over the rectangle.
func meanRB(img image.Image, rect image.Rectangle) (float64, float64) {
	var sumR, sumB, n float64
	for y := rect.Min.Y; y < rect.Max.Y; y += 4 {
		for x := rect.Min.X; x < rect.Max.X; x += 4 {
			r, _, b, _ := img.At(x, y).RGBA()
			sumR += float64(r >> 8)
			sumB += float64(b >> 8)
			n++
		}
	}
	return sumR / n, sumB / n
}

func testScenes() []scene.Scene {
	return []scene.Scene{
		{
			ID:              "dawn",
			Title:           "Sunrise over the bay",
			Narration:       "The harbor wakes slowly. Fishing boats slip past the breakwater while the sky turns from ash to amber.",
			VisualDirection: "Wide shot, warm gradient, slow push-in",
			DurationSeconds: 1.0,
		},
		{
			ID:              "depths",
			Title:           "Deep water currents",
			Narration:       "Below the surface the light fades fast. Cold currents carry nutrients along the shelf to the open sea.",
			VisualDirection: "Cool tones, drifting particles",
			DurationSeconds: 1.0,
		},
	}
}

// TestComposeProducesPlayableAVI drives two scenes through the composer
// with the real painter, renderer and MJPEG encoder, then picks the
// container apart and decodes individual frames.
func TestComposeProducesPlayableAVI(t *testing.T) {
	renderer, err := ggrenderer.New()
	if err != nil {
		t.Fatalf("ggrenderer.New: %v", err)
	}
	enc := &countingEncoder{inner: mjpegencoder.New()}
	sel := &fixedSelector{
		enc:  enc,
		pick: ports.CodecSupport{Codec: ports.CodecMJPEG, Container: "avi", MediaType: "video/avi", Supported: true, Detail: "builtin"},
	}
	clk := mocks.NewClock(time.Unix(1700000000, 0))
	debugDir := t.TempDir()
	sink := filesink.New(debugDir, osfilesystem.New(), renderer)

	comp, err := composer.New(composer.Options{
		Renderer:    renderer,
		Selector:    sel,
		Clock:       clk,
		Logger:      logger.NewNoop(),
		Sink:        sink,
		FPS:         5,
		SettleDelay: 200 * time.Millisecond,
		Quality:     30,
	})
	if err != nil {
		t.Fatalf("composer.New: %v", err)
	}
	defer comp.Close()

	scenes := testScenes()
	type result struct {
		res *resource.Resource
		err error
	}
	done := make(chan result, 1)
	go func() {
		res, err := comp.Generate(context.Background(), scenes)
		done <- result{res, err}
	}()

	// Scene 1 is committed and the timeline is sleeping off its settle
	// delay. One frame interval captures the warm backdrop.
	clk.BlockUntil(1)
	clk.Advance(200 * time.Millisecond)
	waitFor(t, "a frame from scene 1", func() bool { return enc.frames() >= 1 })

	// Hold scene 1 for its full duration.
	clk.BlockUntil(1)
	clk.Advance(time.Second)

	// Scene 2 is on the surface once its settle sleep shows up. After
	// the seventh tick every later frame shows the ocean backdrop.
	clk.BlockUntil(1)
	clk.Advance(200 * time.Millisecond)
	waitFor(t, "a frame from scene 2", func() bool { return enc.frames() >= 7 })

	clk.BlockUntil(1)
	clk.Advance(time.Second)

	got := <-done
	if got.err != nil {
		t.Fatalf("Generate: %v", got.err)
	}
	res := got.res

	if res.MediaType != "video/avi" {
		t.Errorf("media type = %q, want video/avi", res.MediaType)
	}
	if !strings.HasPrefix(res.Handle, resource.HandleScheme) {
		t.Errorf("handle = %q", res.Handle)
	}
	if name := res.FileName(); name != "scene-video.avi" {
		t.Errorf("file name = %q", name)
	}
	if len(res.Data) < 12 || !bytes.Equal(res.Data[:4], []byte("RIFF")) || !bytes.Equal(res.Data[8:12], []byte("AVI ")) {
		t.Fatal("output is not a RIFF AVI buffer")
	}

	info, err := mediaprobe.Detect(res.Data)
	if err != nil {
		t.Fatalf("mediaprobe.Detect: %v", err)
	}
	if info.Container != "avi" || info.Codec != ports.CodecMJPEG {
		t.Errorf("probe = %+v", info)
	}

	frames := aviFrames(t, res.Data)
	if len(frames) < 7 {
		t.Fatalf("container holds %d frames, want at least 7", len(frames))
	}
	if len(frames) != enc.frames() {
		t.Errorf("container holds %d frames, encoder saw %d", len(frames), enc.frames())
	}

	first, err := jpeg.Decode(bytes.NewReader(frames[0]))
	if err != nil {
		t.Fatalf("decode first frame: %v", err)
	}
	if b := first.Bounds(); b.Dx() != 720 || b.Dy() != 1280 {
		t.Errorf("frame size = %dx%d, want 720x1280", b.Dx(), b.Dy())
	}
	if r, b := meanRB(first, first.Bounds()); r <= b {
		t.Errorf("first frame mean R %.1f vs B %.1f, want a warm backdrop", r, b)
	}

	seventh, err := jpeg.Decode(bytes.NewReader(frames[6]))
	if err != nil {
		t.Fatalf("decode seventh frame: %v", err)
	}
	if r, b := meanRB(seventh, seventh.Bounds()); b <= r {
		t.Errorf("seventh frame mean R %.1f vs B %.1f, want a cool backdrop", r, b)
	}

	st := comp.Status()
	if st.State != composer.StateReady {
		t.Fatalf("state = %s, want ready", st.State)
	}
	if st.Run == nil {
		t.Fatal("status carries no run info")
	}
	if st.Run.Scenes != 2 || st.Run.Codec != ports.CodecMJPEG || st.Run.Frames != len(frames) {
		t.Errorf("run info = %+v", st.Run)
	}
	if st.Run.DurationMs != 2400 {
		t.Errorf("run duration = %d ms, want 2400", st.Run.DurationMs)
	}
	if _, ok := comp.Registry().Resolve(res.Handle); !ok {
		t.Error("published handle does not resolve")
	}

	// Debug sink artifacts land on disk next to the run.
	for _, name := range []string{"scene-00.png", "scene-01.png"} {
		raw, err := os.ReadFile(filepath.Join(debugDir, "frames", name))
		if err != nil {
			t.Fatalf("read debug frame %s: %v", name, err)
		}
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("decode debug frame %s: %v", name, err)
		}
		if b := img.Bounds(); b.Dx() != 720 || b.Dy() != 1280 {
			t.Errorf("debug frame %s size = %dx%d", name, b.Dx(), b.Dy())
		}
	}
	manifest, err := os.ReadFile(filepath.Join(debugDir, "run.json"))
	if err != nil {
		t.Fatalf("read run manifest: %v", err)
	}
	for _, want := range []string{`"codec": "mjpeg"`, `"scenes": 2`} {
		if !strings.Contains(string(manifest), want) {
			t.Errorf("manifest lacks %s:\n%s", want, manifest)
		}
	}
	saved, err := os.ReadFile(filepath.Join(debugDir, "scene-video.avi"))
	if err != nil {
		t.Fatalf("read debug video: %v", err)
	}
	if !bytes.Equal(saved, res.Data) {
		t.Error("debug video differs from the published buffer")
	}
}

// TestStoryboardSheetRendersScenes builds a contact sheet with the real
// renderer and checks the grid geometry and per-cell backdrops.
func TestStoryboardSheetRendersScenes(t *testing.T) {
	renderer, err := ggrenderer.New()
	if err != nil {
		t.Fatalf("ggrenderer.New: %v", err)
	}

	scenes := testScenes()
	data, err := storyboard.New(renderer, logger.NewNoop(), storyboard.DefaultOptions()).Build(scenes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode sheet: %v", err)
	}
	// Two scenes in one row: margins 32, header 72, cells 216x384 with
	// a 56 pixel label strip, gap 24.
	if b := img.Bounds(); b.Dx() != 520 || b.Dy() != 576 {
		t.Fatalf("sheet size = %dx%d, want 520x576", b.Dx(), b.Dy())
	}

	// Sample the top band of each thumbnail where the backdrop gradient
	// is unobstructed. Cells start at y=104; the first 38 thumbnail rows
	// map to the area above the content panel.
	warm := image.Rect(40, 112, 240, 134)
	cool := image.Rect(280, 112, 480, 134)
	if r, b := meanRB(img, warm); r <= b {
		t.Errorf("first cell mean R %.1f vs B %.1f, want a warm backdrop", r, b)
	}
	if r, b := meanRB(img, cool); b <= r {
		t.Errorf("second cell mean R %.1f vs B %.1f, want a cool backdrop", r, b)
	}
}

// TestComposeDegradesToStoryboard is the no-codec path: generation
// refuses with the runtime sentinel and the caller renders a sheet.
func TestComposeDegradesToStoryboard(t *testing.T) {
	renderer, err := ggrenderer.New()
	if err != nil {
		t.Fatalf("ggrenderer.New: %v", err)
	}
	sel := &fixedSelector{
		pick: ports.CodecSupport{Codec: ports.CodecH264, Container: "mp4", MediaType: "video/mp4", Supported: false, Detail: "ffmpeg not found"},
	}

	comp, err := composer.New(composer.Options{
		Renderer: renderer,
		Selector: sel,
		Clock:    mocks.NewClock(time.Unix(1700000000, 0)),
		Logger:   logger.NewNoop(),
		Sink:     nullsink.New(),
	})
	if err != nil {
		t.Fatalf("composer.New: %v", err)
	}
	defer comp.Close()

	if comp.CanEncode() {
		t.Fatal("CanEncode = true with no supported codec")
	}

	scenes := testScenes()
	if _, err := comp.Generate(context.Background(), scenes); !errors.Is(err, composer.ErrUnsupportedRuntime) {
		t.Fatalf("Generate = %v, want ErrUnsupportedRuntime", err)
	}

	data, err := storyboard.New(renderer, logger.NewNoop(), storyboard.DefaultOptions()).Build(scenes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Fatalf("fallback sheet is not a PNG: %v", err)
	}
}
