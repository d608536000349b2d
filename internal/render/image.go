package render

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

const minImageScale = 0.01

// DecodedImage is an image already decoded to a flat RGB buffer, row-major.
type DecodedImage struct {
	Width  int
	Height int
	Pixels []uint8
}

func (d *DecodedImage) sample(x, y int) model.Color {
	i := (y*d.Width + x) * 3
	return model.Color{d.Pixels[i], d.Pixels[i+1], d.Pixels[i+2]}
}

type preciseTransform struct {
	x, y, scale float64
}

// ImageRenderer nearest-neighbor-samples a decoded image onto the canvas with
// an optional keyframed transform animation. A missing image makes the item
// unplayable: render nothing, complete immediately, move on.
type ImageRenderer struct {
	ctx     Context
	content model.ImageContent
	images  ImageSource
	decoded *DecodedImage

	duration            *int
	elapsed             float64
	animationElapsedMs  float64
	completedIterations int
	maxIterations       int // 0 = unbounded
	complete            bool
}

func NewImageRenderer(item *model.PlayListItem, ctx Context, images ImageSource) *ImageRenderer {
	if item.Content.Type != model.ContentImage || item.Content.Image == nil {
		panic("image renderer requires image content")
	}
	content := *item.Content.Image

	var decoded *DecodedImage
	if images != nil {
		decoded = images.Decode(content.ImageID)
	}
	if decoded == nil {
		log.Warn().
			Str("image_id", content.ImageID).
			Str("item_id", item.ID).
			Msg("failed to load image for playlist item")
	}

	return &ImageRenderer{
		ctx:           ctx,
		content:       content,
		images:        images,
		decoded:       decoded,
		duration:      item.Duration,
		maxIterations: iterationCap(item.RepeatCount),
	}
}

func iterationCap(repeatCount *int) int {
	if repeatCount == nil {
		return 0
	}
	return *repeatCount
}

func (r *ImageRenderer) Update(dt float64) {
	if r.decoded == nil {
		r.complete = true
		return
	}
	if r.complete {
		return
	}

	if r.duration != nil {
		r.elapsed += dt
		if r.elapsed >= float64(*r.duration) {
			r.complete = true
		}
	}

	anim := r.content.Animation
	if anim == nil || len(anim.Keyframes) < 2 {
		return
	}

	r.animationElapsedMs += dt * 1000.0
	cycleLength := math.Max(float64(animationLengthMs(anim)), 1)
	for r.animationElapsedMs >= cycleLength {
		r.completedIterations++
		if (r.maxIterations != 0 && r.completedIterations >= r.maxIterations) || r.complete {
			r.animationElapsedMs = cycleLength
			r.complete = true
			break
		}
		r.animationElapsedMs -= cycleLength
	}
}

func (r *ImageRenderer) Render(canvas driver.Canvas) {
	if r.decoded == nil {
		return
	}

	t := r.currentTransform()
	scale := math.Max(t.scale, minImageScale)
	scaledWidth := float64(r.decoded.Width) * scale
	scaledHeight := float64(r.decoded.Height) * scale

	startX := int(math.Floor(t.x))
	endX := int(math.Ceil(t.x + scaledWidth))
	if endX <= startX {
		endX = startX + 1
	}
	startY := int(math.Floor(t.y))
	endY := int(math.Ceil(t.y + scaledHeight))
	if endY <= startY {
		endY = startY + 1
	}

	for panelY := startY; panelY < endY; panelY++ {
		if panelY < 0 || panelY >= r.ctx.Height {
			continue
		}
		srcY := int(clamp(math.Floor((float64(panelY)-t.y)/scale), 0, float64(r.decoded.Height-1)))

		for panelX := startX; panelX < endX; panelX++ {
			if panelX < 0 || panelX >= r.ctx.Width {
				continue
			}
			srcX := int(clamp(math.Floor((float64(panelX)-t.x)/scale), 0, float64(r.decoded.Width-1)))

			c := r.ctx.ApplyBrightness(r.decoded.sample(srcX, srcY))
			canvas.SetPixel(panelX, panelY, c[0], c[1], c[2])
		}
	}
}

func (r *ImageRenderer) IsComplete() bool {
	return r.complete
}

func (r *ImageRenderer) Reset() {
	r.elapsed = 0
	r.animationElapsedMs = 0
	r.completedIterations = 0
	r.complete = false
}

func (r *ImageRenderer) UpdateContext(ctx Context) {
	r.ctx = ctx
}

func (r *ImageRenderer) UpdateContent(item *model.PlayListItem) {
	if item.Content.Type != model.ContentImage || item.Content.Image == nil {
		return
	}
	next := *item.Content.Image
	if r.content.ImageID != next.ImageID && r.images != nil {
		r.decoded = r.images.Decode(next.ImageID)
	}
	r.content = next
	r.duration = item.Duration
	r.maxIterations = iterationCap(item.RepeatCount)
	r.Reset()
}

func (r *ImageRenderer) currentTransform() preciseTransform {
	if anim := r.content.Animation; anim != nil && len(anim.Keyframes) >= 2 {
		if t, ok := interpolateTransform(anim, r.animationElapsedMs); ok {
			return t
		}
	}
	return preciseTransform{
		x:     float64(r.content.Transform.X),
		y:     float64(r.content.Transform.Y),
		scale: r.content.Transform.Scale,
	}
}

// interpolateTransform linearly blends between the keyframes straddling
// elapsedMs; past the last keyframe it holds the final pose.
func interpolateTransform(anim *model.ImageAnimation, elapsedMs float64) (preciseTransform, bool) {
	if len(anim.Keyframes) < 2 {
		return preciseTransform{}, false
	}

	prev := anim.Keyframes[0]
	for _, next := range anim.Keyframes[1:] {
		if elapsedMs <= float64(next.TimestampMs) {
			segMs := math.Max(float64(next.TimestampMs-prev.TimestampMs), 1)
			progress := clamp((elapsedMs-float64(prev.TimestampMs))/segMs, 0, 1)
			return preciseTransform{
				x:     lerp(float64(prev.X), float64(next.X), progress),
				y:     lerp(float64(prev.Y), float64(next.Y), progress),
				scale: math.Max(lerp(prev.Scale, next.Scale, progress), minImageScale),
			}, true
		}
		prev = next
	}

	last := anim.Keyframes[len(anim.Keyframes)-1]
	return preciseTransform{
		x:     float64(last.X),
		y:     float64(last.Y),
		scale: math.Max(last.Scale, minImageScale),
	}, true
}

func animationLengthMs(anim *model.ImageAnimation) int {
	if len(anim.Keyframes) == 0 {
		return 0
	}
	return anim.Keyframes[len(anim.Keyframes)-1].TimestampMs
}
