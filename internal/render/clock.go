package render

import (
	"strings"
	"time"

	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

// ClockRenderer shows live wall-clock time, centered. It keeps no animation
// state beyond its completion timer; every frame reads the system clock.
type ClockRenderer struct {
	content  model.ClockContent
	ctx      Context
	duration *int
	elapsed  float64
	now      func() time.Time
}

func NewClockRenderer(item *model.PlayListItem, ctx Context) *ClockRenderer {
	if item.Content.Type != model.ContentClock || item.Content.Clock == nil {
		panic("clock renderer requires clock content")
	}
	return &ClockRenderer{
		content:  *item.Content.Clock,
		ctx:      ctx,
		duration: item.Duration,
		now:      time.Now,
	}
}

func (r *ClockRenderer) Update(dt float64) {
	r.elapsed += dt
}

func (r *ClockRenderer) Render(canvas driver.Canvas) {
	timeStr := r.formatTime()
	textWidth := len([]rune(timeStr)) * charCellWidth
	x := (r.ctx.Width - textWidth) / 2
	y := r.ctx.CenteredTextY(fontHeight)
	col := r.ctx.ApplyBrightness(r.content.Color)
	drawString(canvas, timeStr, x, y, col, false)
}

func (r *ClockRenderer) IsComplete() bool {
	if r.duration != nil {
		return r.elapsed >= float64(*r.duration)
	}
	return false
}

func (r *ClockRenderer) Reset() {
	r.elapsed = 0
}

func (r *ClockRenderer) UpdateContext(ctx Context) {
	r.ctx = ctx
}

func (r *ClockRenderer) UpdateContent(item *model.PlayListItem) {
	if item.Content.Type != model.ContentClock || item.Content.Clock == nil {
		return
	}
	r.content = *item.Content.Clock
	r.duration = item.Duration
	r.elapsed = 0
}

func (r *ClockRenderer) formatTime() string {
	now := r.now()

	var layout string
	switch r.content.Format {
	case model.Clock12h:
		if r.content.ShowSeconds {
			layout = "03:04:05 PM"
		} else {
			layout = "03:04 PM"
		}
	default:
		if r.content.ShowSeconds {
			layout = "15:04:05"
		} else {
			layout = "15:04"
		}
	}

	s := now.Format(layout)
	if r.content.Format == model.Clock12h {
		s = strings.TrimLeft(s, "0")
	}
	return s
}
