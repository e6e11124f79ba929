package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/user/scenecast/pkg/adapters/ggrenderer"
	"github.com/user/scenecast/pkg/frame"
	"github.com/user/scenecast/pkg/scene"
)

func main() {
	renderer, err := ggrenderer.New()
	if err != nil {
		fmt.Printf("Error creating renderer: %v\n", err)
		os.Exit(1)
	}
	painter := frame.NewPainter()

	if err := os.MkdirAll("tmp", 0755); err != nil {
		fmt.Printf("Error creating tmp dir: %v\n", err)
		os.Exit(1)
	}

	for i := 0; i < scene.PaletteCycleLength(); i++ {
		pal := scene.PaletteFor(i)
		sc := scene.Scene{
			ID:              fmt.Sprintf("preview-%d", i),
			Title:           fmt.Sprintf("Palette preview: %s", pal.Name),
			Narration:       "サンプルのナレーションテキスト - Sample narration text that wraps across multiple panel lines to check spacing, contrast and the ellipsis handling of the layout engine.",
			VisualDirection: "Static hold, centered title, long caption line to verify shortening",
			DurationSeconds: 1,
		}

		canvas := renderer.CreateCanvas(frame.Width, frame.Height, pal.Bottom)
		painter.Paint(canvas, sc, pal)
		img := canvas.ToImage()

		filename := fmt.Sprintf("tmp/frame_%s.png", pal.Name)
		f, err := os.Create(filename)
		if err != nil {
			fmt.Printf("Error creating file: %v\n", err)
			continue
		}

		if err := png.Encode(f, img); err != nil {
			fmt.Printf("Error encoding PNG: %v\n", err)
		}
		f.Close()

		fmt.Printf("Generated %s (%dx%d)\n", filename, img.Bounds().Dx(), img.Bounds().Dy())
	}
}
