package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/user/scenecast/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	CanvasForFunc    func(img *image.RGBA) ports.Canvas
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc  func(img image.Image, width, height int) image.Image

	mu sync.Mutex
	// Canvases records every canvas handed out, in creation order.
	Canvases []*Canvas
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	c := &Canvas{Width: width, Height: height}
	m.record(c)
	return c
}

func (m *Renderer) CanvasFor(img *image.RGBA) ports.Canvas {
	if m.CanvasForFunc != nil {
		return m.CanvasForFunc(img)
	}
	b := img.Bounds()
	c := &Canvas{Width: b.Dx(), Height: b.Dy(), Target: img}
	m.record(c)
	return c
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte{0x89, 0x50, 0x4E, 0x47}, nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

func (m *Renderer) record(c *Canvas) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Canvases = append(m.Canvases, c)
}

// CanvasCount returns how many canvases the renderer handed out.
func (m *Renderer) CanvasCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Canvases)
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas is a mock implementation of ports.Canvas that records drawing
// operations for verification.
type Canvas struct {
	Width  int
	Height int
	Target *image.RGBA

	// MeasureTextFunc overrides text measurement. The default charges
	// half the font size per rune, so wrap points are predictable.
	MeasureTextFunc func(text string, style ports.TextStyle) (float64, float64)

	Gradients    []GradientOp
	Rects        []RectOp
	RoundedRects []RoundedRectOp
	Images       []ImageOp
	Texts        []TextOp
}

// GradientOp records a DrawVerticalGradient call.
type GradientOp struct {
	X, Y, W, H  int
	Top, Bottom color.Color
}

// RectOp records a DrawRect call.
type RectOp struct {
	X, Y, W, H int
	Color      color.Color
}

// RoundedRectOp records a DrawRoundedRect call.
type RoundedRectOp struct {
	X, Y, W, H, Radius int
	Color              color.Color
}

// ImageOp records a DrawImage call.
type ImageOp struct {
	X, Y int
	Img  image.Image
}

// TextOp records a DrawText call.
type TextOp struct {
	Text  string
	X, Y  int
	Style ports.TextStyle
}

func (m *Canvas) DrawVerticalGradient(x, y, w, h int, top, bottom color.Color) {
	m.Gradients = append(m.Gradients, GradientOp{X: x, Y: y, W: w, H: h, Top: top, Bottom: bottom})
}

func (m *Canvas) DrawRect(x, y, w, h int, c color.Color) {
	m.Rects = append(m.Rects, RectOp{X: x, Y: y, W: w, H: h, Color: c})
}

func (m *Canvas) DrawRoundedRect(x, y, w, h, radius int, c color.Color) {
	m.RoundedRects = append(m.RoundedRects, RoundedRectOp{X: x, Y: y, W: w, H: h, Radius: radius, Color: c})
}

func (m *Canvas) DrawImage(img image.Image, x, y int) {
	m.Images = append(m.Images, ImageOp{X: x, Y: y, Img: img})
}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	m.Texts = append(m.Texts, TextOp{Text: text, X: x, Y: y, Style: style})
}

func (m *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	if m.MeasureTextFunc != nil {
		return m.MeasureTextFunc(text, style)
	}
	return float64(len([]rune(text))) * style.FontSize * 0.5, style.FontSize
}

func (m *Canvas) ToImage() image.Image {
	if m.Target != nil {
		return m.Target
	}
	return image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
}

var _ ports.Canvas = (*Canvas)(nil)
