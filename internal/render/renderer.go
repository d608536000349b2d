package render

import (
	"fmt"

	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

// Renderer is the common contract every content and border renderer
// implements. Update advances animation state, Render paints the current
// frame without mutating state, and IsComplete tells the playback controller
// when this item's display cycle has finished.
type Renderer interface {
	Update(dt float64)
	Render(canvas driver.Canvas)
	IsComplete() bool
	Reset()
	UpdateContext(ctx Context)
	UpdateContent(item *model.PlayListItem)
}

// ImageSource resolves an image id to its decoded pixels. A nil result means
// the image is unavailable; the image renderer treats that as unplayable
// content rather than an error.
type ImageSource interface {
	Decode(imageID string) *DecodedImage
}

// NewRenderer builds the content renderer for an item's variant. A tag that
// does not match its payload is a defect in the caller, so the concrete
// constructors panic rather than degrade.
func NewRenderer(item *model.PlayListItem, ctx Context, images ImageSource) Renderer {
	switch item.Content.Type {
	case model.ContentText:
		return NewTextRenderer(item, ctx)
	case model.ContentImage:
		return NewImageRenderer(item, ctx, images)
	case model.ContentClock:
		return NewClockRenderer(item, ctx)
	case model.ContentAnimation:
		return NewAnimationRenderer(item, ctx)
	default:
		panic(fmt.Sprintf("no renderer for content type %q", item.Content.Type))
	}
}

// NewBorderRenderer always succeeds; an item without a border effect renders
// nothing.
func NewBorderRenderer(item *model.PlayListItem, ctx Context) Renderer {
	return newBorderRenderer(item, ctx)
}
