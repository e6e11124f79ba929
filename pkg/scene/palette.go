package scene

import "image/color"

// Palette holds the gradient endpoints used as a scene's backdrop.
type Palette struct {
	Name   string
	Top    color.RGBA
	Bottom color.RGBA
}

// paletteCycle is the fixed backdrop rotation. Scenes pick their palette
// by list position so the same script always renders the same way.
var paletteCycle = []Palette{
	{Name: "sunset", Top: color.RGBA{R: 0xF9, G: 0x73, B: 0x16, A: 0xFF}, Bottom: color.RGBA{R: 0xDB, G: 0x27, B: 0x77, A: 0xFF}},
	{Name: "ocean", Top: color.RGBA{R: 0x0E, G: 0xA5, B: 0xE9, A: 0xFF}, Bottom: color.RGBA{R: 0x1D, G: 0x4E, B: 0xD8, A: 0xFF}},
	{Name: "forest", Top: color.RGBA{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF}, Bottom: color.RGBA{R: 0x04, G: 0x78, B: 0x57, A: 0xFF}},
	{Name: "violet", Top: color.RGBA{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF}, Bottom: color.RGBA{R: 0x4C, G: 0x1D, B: 0x95, A: 0xFF}},
	{Name: "slate", Top: color.RGBA{R: 0x64, G: 0x74, B: 0x8B, A: 0xFF}, Bottom: color.RGBA{R: 0x0F, G: 0x17, B: 0x2A, A: 0xFF}},
}

// PaletteFor returns the backdrop palette for the scene at the given
// list position. Positions wrap around the cycle.
func PaletteFor(index int) Palette {
	n := len(paletteCycle)
	i := index % n
	if i < 0 {
		i += n
	}
	return paletteCycle[i]
}

// PaletteCycleLength returns the number of palettes before positions repeat.
func PaletteCycleLength() int {
	return len(paletteCycle)
}
