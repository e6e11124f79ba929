// Package main is a test program for sustained frame encoding throughput.
package main

import (
	"fmt"
	"image"
	"os"
	"time"

	"github.com/user/scenecast/pkg/adapters/ffmpegenc"
	"github.com/user/scenecast/pkg/adapters/ggrenderer"
	"github.com/user/scenecast/pkg/adapters/mjpegencoder"
	"github.com/user/scenecast/pkg/frame"
	"github.com/user/scenecast/pkg/ports"
	"github.com/user/scenecast/pkg/scene"
)

const (
	outDir     = "tmp"
	fps        = 30.0
	frameCount = 150
	quality    = 30
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", outDir, err)
	}

	// 1. Paint one frame per palette so the encoders see varied content.
	fmt.Println("Painting palette frames...")
	renderer, err := ggrenderer.New()
	if err != nil {
		return err
	}
	painter := frame.NewPainter()

	frames := make([]image.Image, 0, scene.PaletteCycleLength())
	for i := 0; i < scene.PaletteCycleLength(); i++ {
		pal := scene.PaletteFor(i)
		sc := scene.Scene{
			ID:              fmt.Sprintf("pal-%d", i),
			Title:           fmt.Sprintf("Palette check: %s", pal.Name),
			Narration:       "Throughput probe frame. The narration block is long enough to exercise wrapping across several lines of panel text.",
			VisualDirection: "Static frame, full panel",
			DurationSeconds: 1,
		}
		canvas := renderer.CreateCanvas(frame.Width, frame.Height, pal.Bottom)
		painter.Paint(canvas, sc, pal)
		frames = append(frames, canvas.ToImage())
		fmt.Printf("Painted %s\n", pal.Name)
	}

	// 2. MJPEG, always available.
	fmt.Printf("Encoding %d frames as MJPEG at %.0f fps...\n", frameCount, fps)
	data, elapsed, err := encodeLoop(mjpegencoder.New(), frames)
	if err != nil {
		return err
	}
	report("mjpeg", data, elapsed)
	if err := os.WriteFile(outDir+"/throughput.avi", data, 0644); err != nil {
		return err
	}

	// 3. H.264 when an ffmpeg with libx264 is on this machine.
	if ffmpegenc.IsAvailable() && ffmpegenc.HasEncoder("libx264") {
		fmt.Printf("Encoding %d frames as H.264 at %.0f fps...\n", frameCount, fps)
		data, elapsed, err := encodeLoop(ffmpegenc.NewH264(), frames)
		if err != nil {
			return err
		}
		report("h264", data, elapsed)
		if err := os.WriteFile(outDir+"/throughput-h264.mp4", data, 0644); err != nil {
			return err
		}
	} else {
		fmt.Println("No usable ffmpeg/libx264, skipping the H.264 pass")
	}

	return nil
}

// encodeLoop feeds the palette frames round-robin through one encoder
// session and times the full Begin/EncodeFrame/End cycle.
func encodeLoop(enc ports.VideoEncoder, frames []image.Image) ([]byte, time.Duration, error) {
	start := time.Now()
	if err := enc.Begin(frame.Width, frame.Height, fps, ports.EncoderOptions{Quality: quality}); err != nil {
		return nil, 0, err
	}
	interval := 1000 / int(fps)
	for i := 0; i < frameCount; i++ {
		if err := enc.EncodeFrame(frames[i%len(frames)], i*interval); err != nil {
			return nil, 0, err
		}
	}
	data, err := enc.End()
	if err != nil {
		return nil, 0, err
	}
	return data, time.Since(start), nil
}

func report(codec string, data []byte, elapsed time.Duration) {
	rate := float64(frameCount) / elapsed.Seconds()
	fmt.Printf("%s: %d frames in %s (%.1f fps), %d bytes\n", codec, frameCount, elapsed.Round(time.Millisecond), rate, len(data))
}
