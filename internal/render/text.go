package render

import (
	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

// TextRenderer paints static or scrolling text with optional per-range
// color/formatting segments.
type TextRenderer struct {
	content model.TextContent
	ctx     Context

	textWidth        int
	scrollPosition   int
	completedScrolls int
	accumulatedTime  float64
	elapsed          float64

	repeatCount *int
	duration    *int
}

func NewTextRenderer(item *model.PlayListItem, ctx Context) *TextRenderer {
	if item.Content.Type != model.ContentText || item.Content.Text == nil {
		panic("text renderer requires text content")
	}
	r := &TextRenderer{
		content:        *item.Content.Text,
		ctx:            ctx,
		scrollPosition: ctx.Width,
		repeatCount:    item.RepeatCount,
		duration:       item.Duration,
	}
	r.textWidth = textPixelWidth(r.content.Text)
	return r
}

func (r *TextRenderer) Update(dt float64) {
	r.elapsed += dt
	if !r.content.Scroll {
		return
	}
	r.accumulatedTime += dt
	pixelsToMove := int(r.accumulatedTime * r.content.Speed)
	if pixelsToMove > 0 {
		r.scrollPosition -= pixelsToMove
		r.accumulatedTime = 0

		// Wrap to the right edge once the text has fully exited left.
		if r.scrollPosition < -r.textWidth {
			r.scrollPosition = r.ctx.Width
			r.completedScrolls++
		}
	}
}

func (r *TextRenderer) Render(canvas driver.Canvas) {
	baselineY := r.ctx.CenteredTextY(fontHeight)
	if len(r.content.Segments) > 0 {
		r.renderSegmented(canvas, baselineY)
	} else {
		r.renderSimple(canvas, baselineY)
	}
}

func (r *TextRenderer) IsComplete() bool {
	if r.duration != nil {
		return r.elapsed >= float64(*r.duration)
	}
	if r.repeatCount != nil {
		if *r.repeatCount == 0 {
			return false // infinite
		}
		return r.completedScrolls >= *r.repeatCount
	}
	return false
}

func (r *TextRenderer) Reset() {
	r.scrollPosition = r.ctx.Width
	r.completedScrolls = 0
	r.accumulatedTime = 0
	r.elapsed = 0
}

func (r *TextRenderer) UpdateContext(ctx Context) {
	r.ctx = ctx
}

// UpdateContent swaps the text in place while keeping scroll position and
// counters, so live edits don't restart the animation.
func (r *TextRenderer) UpdateContent(item *model.PlayListItem) {
	if item.Content.Type != model.ContentText || item.Content.Text == nil {
		return
	}
	textChanged := r.content.Text != item.Content.Text.Text
	r.content = *item.Content.Text
	r.repeatCount = item.RepeatCount
	r.duration = item.Duration

	if textChanged {
		r.textWidth = textPixelWidth(r.content.Text)
		if r.content.Scroll && r.scrollPosition < -r.textWidth {
			r.scrollPosition = r.ctx.Width
		}
	}
}

func (r *TextRenderer) startX() int {
	if r.content.Scroll {
		return r.scrollPosition
	}
	return (r.ctx.Width - r.textWidth) / 2
}

func (r *TextRenderer) renderSimple(canvas driver.Canvas, baselineY int) {
	col := r.ctx.ApplyBrightness(r.content.Color)
	drawString(canvas, r.content.Text, r.startX(), baselineY, col, false)
}

func (r *TextRenderer) renderSegmented(canvas driver.Canvas, baselineY int) {
	xStart := r.startX()
	chars := []rune(r.content.Text)

	type lineEffect struct {
		x, width      int
		color         model.Color
		underline     bool
		strikethrough bool
	}
	var effects []lineEffect

	for _, seg := range r.content.Segments {
		segColor := r.content.Color
		if seg.Color != nil {
			segColor = *seg.Color
		}
		applied := r.ctx.ApplyBrightness(segColor)

		start := min(seg.Start, len(chars))
		end := min(seg.End, len(chars))
		if start >= end {
			continue
		}

		segWidth := (end - start) * charCellWidth
		xPos := xStart + start*charCellWidth

		bold := seg.Formatting != nil && seg.Formatting.Bold
		drawString(canvas, string(chars[start:end]), xPos, baselineY, applied, bold)

		underline := seg.Formatting != nil && seg.Formatting.Underline
		strikethrough := seg.Formatting != nil && seg.Formatting.Strikethrough
		if underline || strikethrough {
			effects = append(effects, lineEffect{xPos, segWidth, applied, underline, strikethrough})
		}
	}

	// Lines go on after all glyphs so they are never overdrawn.
	for _, e := range effects {
		if e.underline {
			y := baselineY + 3
			for i := 0; i < e.width; i++ {
				canvas.SetPixel(e.x+i, y, e.color[0], e.color[1], e.color[2])
			}
		}
		if e.strikethrough {
			sc := r.strikethroughColor(e.color)
			y := baselineY - 5
			for i := 0; i < e.width; i++ {
				canvas.SetPixel(e.x+i, y, sc[0], sc[1], sc[2])
				canvas.SetPixel(e.x+i, y-1, sc[0], sc[1], sc[2])
			}
		}
	}
}

// strikethroughColor picks a line color that stays visible against the text
// it crosses: red over grayscale text, a desaturated blend over red-family
// text, white otherwise.
func (r *TextRenderer) strikethroughColor(c model.Color) model.Color {
	cr, cg, cb := int(c[0]), int(c[1]), int(c[2])
	abs := func(v int) int {
		if v < 0 {
			return -v
		}
		return v
	}

	grayscale := abs(cr-cg) < 20 && abs(cg-cb) < 20 && abs(cr-cb) < 20
	if grayscale {
		return r.ctx.ApplyBrightness(model.Color{255, 0, 0})
	}

	if abs(cg-cb) < 20 && cr > cg+30 {
		redRatio := float64(cr) / float64(cr+cg+cb)
		blend := clamp((redRatio-0.4)*2.5, 0, 1)
		mixed := uint8(blend * 255.0)
		return r.ctx.ApplyBrightness(model.Color{255, mixed, mixed})
	}

	return r.ctx.ApplyBrightness(model.Color{255, 255, 255})
}
