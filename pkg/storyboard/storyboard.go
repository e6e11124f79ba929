// Package storyboard renders a scene list as a static contact sheet.
// It is the fallback output for runtimes with no usable video codec:
// the same frames the video would hold, tiled on a single PNG.
package storyboard

import (
	"fmt"
	"image/color"

	"github.com/user/scenecast/pkg/frame"
	"github.com/user/scenecast/pkg/ports"
	"github.com/user/scenecast/pkg/scene"
	"github.com/user/scenecast/pkg/textlayout"
)

// MediaType tags the encoded contact sheet.
const MediaType = "image/png"

const (
	headerHeight = 72
	headerSize   = 30
	labelSize    = 22
	sublabelSize = 17
)

var (
	sheetColor    = color.RGBA{R: 0x0F, G: 0x17, B: 0x2A, A: 0xFF}
	headerColor   = color.RGBA{R: 0xF8, G: 0xFA, B: 0xFC, A: 0xFF}
	labelColor    = color.RGBA{R: 0xE2, G: 0xE8, B: 0xF0, A: 0xFF}
	sublabelColor = color.RGBA{R: 0x94, G: 0xA3, B: 0xB8, A: 0xFF}
)

// Options configures the contact sheet layout.
type Options struct {
	// Columns is the number of cells per row.
	Columns int
	// Gap is the spacing between cells in pixels.
	Gap int
	// Margin is the outer margin in pixels.
	Margin int
	// CellWidth is the thumbnail width. Height follows the portrait
	// surface aspect, so multiples of 9 divide evenly.
	CellWidth int
	// LabelHeight is the strip under each thumbnail for scene labels.
	LabelHeight int
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		Columns:     3,
		Gap:         24,
		Margin:      32,
		CellWidth:   216,
		LabelHeight: 56,
	}
}

// normalized replaces unusable values with their defaults.
func (o Options) normalized() Options {
	def := DefaultOptions()
	if o.Columns < 1 {
		o.Columns = def.Columns
	}
	if o.Gap < 0 {
		o.Gap = def.Gap
	}
	if o.Margin < 0 {
		o.Margin = def.Margin
	}
	if o.CellWidth < 90 {
		o.CellWidth = def.CellWidth
	}
	if o.LabelHeight < labelSize {
		o.LabelHeight = def.LabelHeight
	}
	return o
}

// Builder composes contact sheets. It renders each scene through the
// same painter the video pipeline uses, so thumbnails match the video
// frame for frame.
type Builder struct {
	renderer ports.Renderer
	painter  *frame.Painter
	logger   ports.Logger
	opts     Options
}

// New creates a contact sheet builder.
func New(renderer ports.Renderer, logger ports.Logger, opts Options) *Builder {
	return &Builder{
		renderer: renderer,
		painter:  frame.NewPainter(),
		logger:   logger.WithComponent("storyboard"),
		opts:     opts.normalized(),
	}
}

// Build renders every scene at full size, scales the results into a
// labeled grid and returns the encoded PNG.
func (b *Builder) Build(scenes []scene.Scene) ([]byte, error) {
	if err := scene.ValidateList(scenes); err != nil {
		return nil, fmt.Errorf("storyboard: invalid scene list: %w", err)
	}

	cellW := b.opts.CellWidth
	cellH := cellW * frame.Height / frame.Width
	cols := b.opts.Columns
	if len(scenes) < cols {
		cols = len(scenes)
	}
	rows := (len(scenes) + b.opts.Columns - 1) / b.opts.Columns

	sheetW := 2*b.opts.Margin + cols*cellW + (cols-1)*b.opts.Gap
	sheetH := 2*b.opts.Margin + headerHeight + rows*(cellH+b.opts.LabelHeight) + (rows-1)*b.opts.Gap
	b.logger.Debug("Storyboard grid: %d scenes in %d columns, %dx%d sheet", len(scenes), cols, sheetW, sheetH)

	sheet := b.renderer.CreateCanvas(sheetW, sheetH, sheetColor)
	b.drawHeader(sheet, scenes, sheetW)

	for i, sc := range scenes {
		col := i % b.opts.Columns
		row := i / b.opts.Columns
		x := b.opts.Margin + col*(cellW+b.opts.Gap)
		y := b.opts.Margin + headerHeight + row*(cellH+b.opts.LabelHeight+b.opts.Gap)

		full := b.renderer.CreateCanvas(frame.Width, frame.Height, color.Black)
		b.painter.Paint(full, sc, scene.PaletteFor(i))
		thumb := b.renderer.ResizeImage(full.ToImage(), cellW, cellH)
		sheet.DrawImage(thumb, x, y)

		b.drawLabel(sheet, i, sc, x, y+cellH, cellW)
	}

	data, err := b.renderer.EncodeImage(sheet.ToImage(), ports.FormatPNG, 0)
	if err != nil {
		return nil, fmt.Errorf("storyboard: encode sheet: %w", err)
	}
	b.logger.Debug("Storyboard rendered: %d scenes, %d bytes", len(scenes), len(data))
	return data, nil
}

func (b *Builder) drawHeader(sheet ports.Canvas, scenes []scene.Scene, sheetW int) {
	style := ports.TextStyle{FontSize: headerSize, Bold: true, Color: headerColor, Align: ports.AlignLeft}
	text := fmt.Sprintf("Storyboard: %d scenes, %.1fs", len(scenes), scene.TotalDuration(scenes).Seconds())
	text = textlayout.Shorten(text, b.measurer(sheet, style), float64(sheetW-2*b.opts.Margin))
	sheet.DrawText(text, b.opts.Margin, b.opts.Margin+headerHeight/2, style)
}

func (b *Builder) drawLabel(sheet ports.Canvas, index int, sc scene.Scene, x, y, cellW int) {
	title := ports.TextStyle{FontSize: labelSize, Bold: true, Color: labelColor, Align: ports.AlignLeft}
	text := textlayout.Shorten(fmt.Sprintf("%d. %s", index+1, sc.Title), b.measurer(sheet, title), float64(cellW))
	sheet.DrawText(text, x, y+b.opts.LabelHeight/3, title)

	sub := ports.TextStyle{FontSize: sublabelSize, Color: sublabelColor, Align: ports.AlignLeft}
	sheet.DrawText(fmt.Sprintf("%.1fs", sc.DurationSeconds), x, y+(b.opts.LabelHeight*3)/4, sub)
}

func (b *Builder) measurer(c ports.Canvas, style ports.TextStyle) textlayout.MeasureFunc {
	return func(s string) float64 {
		w, _ := c.MeasureText(s, style)
		return w
	}
}
