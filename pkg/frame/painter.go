// Package frame paints one scene onto a raster canvas. All geometry is
// fixed for the 720x1280 portrait surface used for vertical delivery.
package frame

import (
	"image/color"

	"github.com/user/scenecast/pkg/ports"
	"github.com/user/scenecast/pkg/scene"
	"github.com/user/scenecast/pkg/textlayout"
)

// Surface dimensions shared by the painter, the capture pipeline and the
// storyboard fallback.
const (
	Width  = 720
	Height = 1280
)

// Frame geometry. Values are tuned for the fixed surface size above.
const (
	panelMarginX      = 56
	panelTop          = 128
	panelBottomMargin = 176
	panelRadius       = 28
	panelPadding      = 44

	titleSize    = 56
	titleOffsetY = 110

	narrationSize       = 34
	narrationLineHeight = 50
	narrationOffsetY    = 212
	maxNarrationLines   = 12

	captionSize    = 26
	captionOffsetY = 64
)

var (
	panelColor     = color.RGBA{R: 0x0B, G: 0x12, B: 0x1E, A: 0xA8}
	titleColor     = color.RGBA{R: 0xF8, G: 0xFA, B: 0xFC, A: 0xFF}
	narrationColor = color.RGBA{R: 0xE2, G: 0xE8, B: 0xF0, A: 0xFF}
	captionColor   = color.RGBA{R: 0xCB, G: 0xD5, B: 0xE1, A: 0xDC}
)

// Painter renders scenes. It is stateless; rendering the same scene and
// palette twice produces identical pixels.
type Painter struct{}

// NewPainter creates a scene painter.
func NewPainter() *Painter {
	return &Painter{}
}

// Paint composes the full frame for a scene: palette gradient backdrop,
// content panel, title, wrapped narration and the visual direction
// caption. Every pixel of the canvas is overwritten.
func (p *Painter) Paint(c ports.Canvas, sc scene.Scene, pal scene.Palette) {
	panelW := Width - 2*panelMarginX
	panelH := Height - panelTop - panelBottomMargin
	textW := float64(panelW - 2*panelPadding)
	textX := panelMarginX + panelPadding

	c.DrawVerticalGradient(0, 0, Width, Height, pal.Top, pal.Bottom)
	c.DrawRoundedRect(panelMarginX, panelTop, panelW, panelH, panelRadius, panelColor)

	titleStyle := ports.TextStyle{FontSize: titleSize, Bold: true, Color: titleColor, Align: ports.AlignCenter}
	title := textlayout.Shorten(sc.Title, p.measurer(c, titleStyle), textW)
	c.DrawText(title, Width/2, panelTop+titleOffsetY, titleStyle)

	narrationStyle := ports.TextStyle{FontSize: narrationSize, Color: narrationColor, Align: ports.AlignLeft}
	lines := textlayout.Wrap(sc.Narration, p.measurer(c, narrationStyle), textW)
	if len(lines) > maxNarrationLines {
		lines = append(lines[:maxNarrationLines-1], textlayout.Ellipsis)
	}
	for i, line := range lines {
		y := panelTop + narrationOffsetY + i*narrationLineHeight
		c.DrawText(line, textX, y, narrationStyle)
	}

	captionStyle := ports.TextStyle{FontSize: captionSize, Color: captionColor, Align: ports.AlignLeft}
	caption := textlayout.Shorten(sc.VisualDirection, p.measurer(c, captionStyle), textW)
	c.DrawText(caption, textX, panelTop+panelH-captionOffsetY, captionStyle)
}

// measurer adapts Canvas.MeasureText to the width-only function the
// layout engine expects.
func (p *Painter) measurer(c ports.Canvas, style ports.TextStyle) textlayout.MeasureFunc {
	return func(s string) float64 {
		w, _ := c.MeasureText(s, style)
		return w
	}
}
