package render

import "github.com/coreman2200/funtimes-ledmatrix/internal/model"

// Context is the per-frame immutable snapshot of display geometry and user
// brightness. A fresh value is built whenever either changes and handed to
// every live renderer; it is never mutated in place, so renderers may keep
// independent copies and read them concurrently.
type Context struct {
	Width      int
	Height     int
	Brightness int // 0-100
}

func NewContext(width, height, brightness int) Context {
	return Context{Width: width, Height: height, Brightness: brightness}
}

// ApplyBrightness scales each channel by brightness/100, truncating toward
// zero.
func (c Context) ApplyBrightness(col model.Color) model.Color {
	scale := float64(c.Brightness) / 100.0
	return model.Color{
		uint8(float64(col[0]) * scale),
		uint8(float64(col[1]) * scale),
		uint8(float64(col[2]) * scale),
	}
}

// CenteredTextY gives the baseline for vertically centered text. The -5 is a
// baseline correction for the 8x16 glyphs drawn in their 10px-wide cells.
func (c Context) CenteredTextY(fontHeight int) int {
	return c.Height/2 + fontHeight/2 - 5
}
