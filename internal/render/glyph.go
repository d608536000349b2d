package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

// Monospace layout constants shared by the text and clock renderers. Every
// character occupies a fixed 10px cell regardless of glyph width, which keeps
// scroll math and segment offsets trivially index-based.
const (
	charCellWidth = 10
	fontHeight    = 16
)

// textPixelWidth is the on-panel width of a string plus a small margin.
func textPixelWidth(s string) int {
	return len([]rune(s))*charCellWidth + 2
}

// drawChar rasterizes one glyph into a scratch buffer and copies only the lit
// pixels to the canvas. Going through a scratch image keeps the canvas
// write-only: drawing the face directly would also stamp the glyph's
// background.
func drawChar(canvas driver.Canvas, ch rune, cellX, baselineY int, col model.Color, bold bool) {
	face := font.Face(inconsolata.Regular8x16)
	if bold {
		face = inconsolata.Bold8x16
	}

	scratch := image.NewRGBA(image.Rect(0, 0, charCellWidth, fontHeight))
	ascent := face.Metrics().Ascent.Ceil()
	d := font.Drawer{
		Dst:  scratch,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(1, ascent),
	}
	d.DrawString(string(ch))

	top := baselineY - ascent
	for py := 0; py < fontHeight; py++ {
		for px := 0; px < charCellWidth; px++ {
			if _, _, _, a := scratch.At(px, py).RGBA(); a > 0x7fff {
				canvas.SetPixel(cellX+px, top+py, col[0], col[1], col[2])
			}
		}
	}
}

// drawString lays runes out left to right on fixed cells starting at x.
// baselineY is the text baseline; col must already have brightness applied.
func drawString(canvas driver.Canvas, s string, x, baselineY int, col model.Color, bold bool) {
	for i, ch := range []rune(s) {
		drawChar(canvas, ch, x+i*charCellWidth, baselineY, col, bold)
	}
}
