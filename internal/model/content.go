package model

import (
	"encoding/json"
	"fmt"
)

// Color is an RGB triple, 0-255 per channel. Serialized as a JSON array.
type Color = [3]uint8

// ContentType tags the variant carried by a ContentData.
type ContentType string

const (
	ContentText      ContentType = "Text"
	ContentImage     ContentType = "Image"
	ContentClock     ContentType = "Clock"
	ContentAnimation ContentType = "Animation"
)

// ContentData pairs a content type tag with exactly one variant payload.
// JSON shape: {"type":"Text","data":{"type":"Text",...fields}}.
type ContentData struct {
	Type      ContentType
	Text      *TextContent
	Image     *ImageContent
	Clock     *ClockContent
	Animation *AnimationContent
}

type contentEnvelope struct {
	Type ContentType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (c ContentData) MarshalJSON() ([]byte, error) {
	var payload any
	switch c.Type {
	case ContentText:
		payload = taggedText{ContentText, c.Text}
	case ContentImage:
		payload = taggedImage{ContentImage, c.Image}
	case ContentClock:
		payload = taggedClock{ContentClock, c.Clock}
	case ContentAnimation:
		payload = taggedAnimation{ContentAnimation, c.Animation}
	default:
		return nil, fmt.Errorf("unknown content type %q", c.Type)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(contentEnvelope{Type: c.Type, Data: data})
}

// Wrappers that repeat the variant tag inside the data object, matching the
// persisted playlist format.
type taggedText struct {
	Type ContentType `json:"type"`
	*TextContent
}

type taggedImage struct {
	Type ContentType `json:"type"`
	*ImageContent
}

type taggedClock struct {
	Type ContentType `json:"type"`
	*ClockContent
}

type taggedAnimation struct {
	Type ContentType `json:"type"`
	*AnimationContent
}

func (c *ContentData) UnmarshalJSON(data []byte) error {
	var env contentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	c.Type = env.Type
	c.Text, c.Image, c.Clock, c.Animation = nil, nil, nil, nil
	switch env.Type {
	case ContentText:
		c.Text = &TextContent{}
		return json.Unmarshal(env.Data, c.Text)
	case ContentImage:
		c.Image = &ImageContent{}
		return json.Unmarshal(env.Data, c.Image)
	case ContentClock:
		c.Clock = &ClockContent{Format: Clock24h, Color: Color{255, 255, 255}}
		return json.Unmarshal(env.Data, c.Clock)
	case ContentAnimation:
		c.Animation = &AnimationContent{}
		return json.Unmarshal(env.Data, c.Animation)
	default:
		return fmt.Errorf("unknown content type %q", env.Type)
	}
}

// TextFormatting carries the per-segment style flags.
type TextFormatting struct {
	Bold          bool `json:"bold"`
	Underline     bool `json:"underline"`
	Strikethrough bool `json:"strikethrough"`
}

// TextSegment overrides color/formatting for a character range [Start,End).
type TextSegment struct {
	Start      int             `json:"start"`
	End        int             `json:"end"`
	Color      *Color          `json:"color,omitempty"`
	Formatting *TextFormatting `json:"formatting,omitempty"`
}

type TextContent struct {
	Text     string        `json:"text"`
	Scroll   bool          `json:"scroll"`
	Color    Color         `json:"color"`
	Speed    float64       `json:"speed"`
	Segments []TextSegment `json:"text_segments,omitempty"`
}

// ImageTransform positions a decoded image on the panel.
type ImageTransform struct {
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Scale float64 `json:"scale"`
}

// ImageKeyframe is one point of a piecewise-linear transform animation.
type ImageKeyframe struct {
	TimestampMs int     `json:"timestamp_ms"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Scale       float64 `json:"scale"`
}

// ImageAnimation loops its keyframes Iterations times (nil or 0 = infinite).
type ImageAnimation struct {
	Keyframes  []ImageKeyframe `json:"keyframes"`
	Iterations *int            `json:"iterations,omitempty"`
}

type ImageContent struct {
	ImageID       string          `json:"image_id"`
	NaturalWidth  int             `json:"natural_width"`
	NaturalHeight int             `json:"natural_height"`
	Transform     ImageTransform  `json:"transform"`
	Animation     *ImageAnimation `json:"animation,omitempty"`
}

func (ic *ImageContent) UnmarshalJSON(data []byte) error {
	type raw ImageContent
	tmp := raw{Transform: ImageTransform{Scale: 1.0}}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.Transform.Scale == 0 {
		tmp.Transform.Scale = 1.0
	}
	for i := range tmp.Animation.keyframesOrNil() {
		if tmp.Animation.Keyframes[i].Scale == 0 {
			tmp.Animation.Keyframes[i].Scale = 1.0
		}
	}
	*ic = ImageContent(tmp)
	return nil
}

func (a *ImageAnimation) keyframesOrNil() []ImageKeyframe {
	if a == nil {
		return nil
	}
	return a.Keyframes
}

// ClockFormat selects 12h or 24h rendering.
type ClockFormat string

const (
	Clock24h ClockFormat = "24h"
	Clock12h ClockFormat = "12h"
)

type ClockContent struct {
	Format      ClockFormat `json:"format"`
	ShowSeconds bool        `json:"show_seconds"`
	Color       Color       `json:"color"`
}
