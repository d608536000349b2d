package render

import (
	"math"
	"math/rand"

	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

// borderRenderer overlays an animated frame around whatever the content
// renderer painted. It never drives transitions: IsComplete is always false.
type borderRenderer struct {
	effect model.BorderEffect
	ctx    Context

	animationState float64
	rng            *rand.Rand
}

func newBorderRenderer(item *model.PlayListItem, ctx Context) *borderRenderer {
	effect := model.BorderEffect{Kind: model.BorderNone}
	if item.BorderEffect != nil {
		effect = *item.BorderEffect
	}
	return &borderRenderer{
		effect: effect,
		ctx:    ctx,
		rng:    rand.New(rand.NewSource(rand.Int63())),
	}
}

func (r *borderRenderer) Update(dt float64) {
	if r.effect.Kind != model.BorderNone {
		r.animationState += dt
	}
}

func (r *borderRenderer) Render(canvas driver.Canvas) {
	switch r.effect.Kind {
	case model.BorderRainbow:
		r.renderRainbow(canvas)
	case model.BorderPulse:
		r.renderPulse(canvas, r.effect.Colors)
	case model.BorderSparkle:
		r.renderSparkle(canvas, r.effect.Colors)
	case model.BorderGradient:
		r.renderGradient(canvas, r.effect.Colors)
	}
}

func (r *borderRenderer) IsComplete() bool { return false }

func (r *borderRenderer) Reset() {
	r.animationState = 0
}

func (r *borderRenderer) UpdateContext(ctx Context) {
	r.ctx = ctx
}

// UpdateContent swaps the effect but keeps the accumulated animation state,
// so live edits don't restart the border.
func (r *borderRenderer) UpdateContent(item *model.PlayListItem) {
	if item.BorderEffect != nil {
		r.effect = *item.BorderEffect
	} else {
		r.effect = model.BorderEffect{Kind: model.BorderNone}
	}
}

func (r *borderRenderer) renderRainbow(canvas driver.Canvas) {
	width, height := r.ctx.Width, r.ctx.Height

	for i := 0; i < width; i++ {
		hue := wrap01(float64(i)/float64(width) + r.animationState)
		c := r.ctx.ApplyBrightness(hsvToRGB(hue, 1, 1))
		canvas.SetPixel(i, 0, c[0], c[1], c[2])
		canvas.SetPixel(i, 1, c[0], c[1], c[2])
		canvas.SetPixel(i, height-1, c[0], c[1], c[2])
		canvas.SetPixel(i, height-2, c[0], c[1], c[2])
	}

	for i := 0; i < height; i++ {
		hue := wrap01(float64(i)/float64(height) + r.animationState)
		c := r.ctx.ApplyBrightness(hsvToRGB(hue, 1, 1))
		canvas.SetPixel(0, i, c[0], c[1], c[2])
		canvas.SetPixel(1, i, c[0], c[1], c[2])
		canvas.SetPixel(width-1, i, c[0], c[1], c[2])
		canvas.SetPixel(width-2, i, c[0], c[1], c[2])
	}
}

func (r *borderRenderer) renderPulse(canvas driver.Canvas, colors []model.Color) {
	if len(colors) == 0 {
		return
	}

	adjustedTime := r.animationState * 0.7

	// Each palette color gets a 2 second triangle-wave cycle.
	const secondsPerColor = 2.0
	totalCycle := secondsPerColor * float64(len(colors))
	currentPosition := math.Mod(adjustedTime, totalCycle)
	colorIndex := int(currentPosition / secondsPerColor)
	if colorIndex >= len(colors) {
		return
	}

	progressInColor := math.Mod(currentPosition, secondsPerColor) / secondsPerColor
	effectBrightness := triangleWave(progressInColor)

	preScaled := scaleColor(colors[colorIndex], effectBrightness)
	c := r.ctx.ApplyBrightness(preScaled)
	r.drawSolidBorder(canvas, c)
}

func (r *borderRenderer) renderSparkle(canvas driver.Canvas, colors []model.Color) {
	if len(colors) == 0 {
		return
	}

	width, height := r.ctx.Width, r.ctx.Height
	perimeter := 2 * (width + height - 2)

	// Exact placement doesn't matter here, so a stateful RNG is fine.
	for i := 0; i < 30; i++ {
		c := r.ctx.ApplyBrightness(colors[r.rng.Intn(len(colors))])
		pos := r.rng.Intn(perimeter)
		inner := r.rng.Intn(2) == 0

		switch {
		case pos < width:
			row := 0
			if inner {
				row = 1
			}
			canvas.SetPixel(pos, row, c[0], c[1], c[2])
		case pos < width*2:
			row := height - 1
			if inner {
				row = height - 2
			}
			canvas.SetPixel(pos-width, row, c[0], c[1], c[2])
		case pos < width*2+height-2:
			col := 0
			if inner {
				col = 1
			}
			canvas.SetPixel(col, pos-width*2+1, c[0], c[1], c[2])
		default:
			col := width - 1
			if inner {
				col = width - 2
			}
			canvas.SetPixel(col, pos-(width*2+height-2)+1, c[0], c[1], c[2])
		}
	}
}

func (r *borderRenderer) renderGradient(canvas driver.Canvas, colors []model.Color) {
	if len(colors) == 0 {
		return
	}

	palette := colors
	if len(palette) == 1 {
		palette = []model.Color{palette[0], palette[0]}
	}

	width, height := r.ctx.Width, r.ctx.Height
	segments := len(palette)
	perimeter := 2 * (width + height - 2)
	segmentLength := perimeter / segments
	offset := int(r.animationState * float64(perimeter))

	for pos := 0; pos < perimeter; pos++ {
		adjusted := (pos + offset) % perimeter
		segIdx := adjusted / segmentLength
		if segIdx >= segments {
			segIdx = segments - 1
		}
		nextIdx := (segIdx + 1) % segments
		progress := float64(adjusted%segmentLength) / float64(segmentLength)

		c1, c2 := palette[segIdx], palette[nextIdx]
		blended := model.Color{
			uint8(float64(c1[0])*(1-progress) + float64(c2[0])*progress),
			uint8(float64(c1[1])*(1-progress) + float64(c2[1])*progress),
			uint8(float64(c1[2])*(1-progress) + float64(c2[2])*progress),
		}
		c := r.ctx.ApplyBrightness(blended)

		switch {
		case pos < width:
			canvas.SetPixel(pos, 0, c[0], c[1], c[2])
			canvas.SetPixel(pos, 1, c[0], c[1], c[2])
		case pos < width*2:
			canvas.SetPixel(pos-width, height-1, c[0], c[1], c[2])
			canvas.SetPixel(pos-width, height-2, c[0], c[1], c[2])
		case pos < width*2+height-2:
			canvas.SetPixel(0, pos-width*2+1, c[0], c[1], c[2])
			canvas.SetPixel(1, pos-width*2+1, c[0], c[1], c[2])
		default:
			canvas.SetPixel(width-1, pos-width*2-height+2+1, c[0], c[1], c[2])
			canvas.SetPixel(width-2, pos-width*2-height+2+1, c[0], c[1], c[2])
		}
	}
}

func (r *borderRenderer) drawSolidBorder(canvas driver.Canvas, c model.Color) {
	width, height := r.ctx.Width, r.ctx.Height

	for i := 0; i < width; i++ {
		canvas.SetPixel(i, 0, c[0], c[1], c[2])
		canvas.SetPixel(i, 1, c[0], c[1], c[2])
		canvas.SetPixel(i, height-1, c[0], c[1], c[2])
		canvas.SetPixel(i, height-2, c[0], c[1], c[2])
	}
	for i := 0; i < height; i++ {
		canvas.SetPixel(0, i, c[0], c[1], c[2])
		canvas.SetPixel(1, i, c[0], c[1], c[2])
		canvas.SetPixel(width-1, i, c[0], c[1], c[2])
		canvas.SetPixel(width-2, i, c[0], c[1], c[2])
	}
}

func hsvToRGB(h, s, v float64) model.Color {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h*6, 2)-1))
	m := v - c

	var rf, gf, bf float64
	switch int(h * 6) {
	case 0:
		rf, gf, bf = c, x, 0
	case 1:
		rf, gf, bf = x, c, 0
	case 2:
		rf, gf, bf = 0, c, x
	case 3:
		rf, gf, bf = 0, x, c
	case 4:
		rf, gf, bf = x, 0, c
	case 5:
		rf, gf, bf = c, 0, x
	}

	return model.Color{
		uint8((rf + m) * 255),
		uint8((gf + m) * 255),
		uint8((bf + m) * 255),
	}
}
