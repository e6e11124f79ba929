// Package surface owns the raster area that frames are painted onto and
// captured from. A process typically holds exactly one Surface, so runs
// must serialize their access to it.
package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
)

// ErrBadDimensions rejects surface sizes video encoders cannot handle.
var ErrBadDimensions = errors.New("surface: dimensions must be positive and even")

// Surface is a fixed-size RGBA raster with guarded access. Painting and
// snapshotting may happen from different goroutines; the lock keeps
// captured frames from showing half-painted scenes.
type Surface struct {
	mu     sync.RWMutex
	img    *image.RGBA
	width  int
	height int
	base   color.RGBA
}

// New allocates a surface. Width and height must be positive and even,
// matching the chroma subsampling requirements of the encoders.
func New(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, width, height)
	}
	s := &Surface{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
		base:   color.RGBA{A: 0xFF},
	}
	s.fill()
	return s, nil
}

// Size returns the surface dimensions in pixels.
func (s *Surface) Size() (width, height int) {
	return s.width, s.height
}

// Update runs fn with exclusive access to the backing image. The image
// must not be retained after fn returns.
func (s *Surface) Update(fn func(img *image.RGBA)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.img)
}

// Snapshot copies the current pixels into dst and returns it. A nil dst
// or one with mismatched bounds is replaced by a fresh allocation, so a
// sampling loop can reuse one buffer across frames.
func (s *Surface) Snapshot(dst *image.RGBA) *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if dst == nil || dst.Bounds() != s.img.Bounds() {
		dst = image.NewRGBA(s.img.Bounds())
	}
	copy(dst.Pix, s.img.Pix)
	return dst
}

// Reset repaints the surface with its base color, erasing the previous
// run's last frame.
func (s *Surface) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fill()
}

func (s *Surface) fill() {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(s.base), image.Point{}, draw.Src)
}
