package model

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Playlist is the ordered item queue plus playback bookkeeping. Owned by the
// playback controller; the web layer mutates it only through controller
// operations.
type Playlist struct {
	Items       []PlayListItem `json:"items"`
	ActiveIndex int            `json:"active_index"`
	Repeat      bool           `json:"repeat"`
}

// DefaultPlaylist starts empty and repeating.
func DefaultPlaylist() Playlist {
	return Playlist{Items: nil, ActiveIndex: 0, Repeat: true}
}

// PlayListItem is one queue entry. Exactly one of Duration (seconds) or
// RepeatCount (cycles, 0 = infinite) is set; which one depends on the content
// variant. Items are validated at construction and assumed valid afterwards.
type PlayListItem struct {
	ID           string        `json:"id"`
	Duration     *int          `json:"duration,omitempty"`
	RepeatCount  *int          `json:"repeat_count,omitempty"`
	BorderEffect *BorderEffect `json:"border_effect,omitempty"`
	Content      ContentData   `json:"content"`
}

func (p *PlayListItem) UnmarshalJSON(data []byte) error {
	type raw PlayListItem
	var tmp raw
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.ID == "" {
		tmp.ID = uuid.NewString()
	}
	item := PlayListItem(tmp)
	if err := item.Validate(); err != nil {
		return err
	}
	*p = item
	return nil
}

// Validate enforces the structural invariants: exactly one timing field, the
// content-variant-specific timing requirement, and per-variant parameter
// checks. Renderers never re-validate.
func (p *PlayListItem) Validate() error {
	switch {
	case p.Duration != nil && p.RepeatCount != nil:
		return fmt.Errorf("both 'duration' and 'repeat_count' cannot be provided together")
	case p.Duration == nil && p.RepeatCount == nil:
		return fmt.Errorf("either 'duration' or 'repeat_count' must be provided")
	}

	switch p.Content.Type {
	case ContentText:
		tc := p.Content.Text
		if tc == nil {
			return fmt.Errorf("text content missing payload")
		}
		if !tc.Scroll && p.RepeatCount != nil {
			return fmt.Errorf("when 'scroll' is false, 'duration' must be used instead of 'repeat_count'")
		}
		if tc.Scroll && p.Duration != nil {
			return fmt.Errorf("when 'scroll' is true, 'repeat_count' must be used instead of 'duration'")
		}
	case ContentImage:
		ic := p.Content.Image
		if ic == nil {
			return fmt.Errorf("image content missing payload")
		}
		if ic.ImageID == "" {
			return fmt.Errorf("image content requires a valid 'image_id'")
		}
		if ic.NaturalWidth == 0 || ic.NaturalHeight == 0 {
			return fmt.Errorf("image content requires non-zero natural dimensions")
		}
		if ic.Animation != nil {
			if len(ic.Animation.Keyframes) < 2 {
				return fmt.Errorf("animated images require at least two keyframes")
			}
			if p.Duration != nil {
				return fmt.Errorf("animated images must use 'repeat_count' instead of 'duration'")
			}
		} else if p.Duration == nil {
			return fmt.Errorf("static images require 'duration' instead of 'repeat_count'")
		}
	case ContentClock:
		if p.Content.Clock == nil {
			return fmt.Errorf("clock content missing payload")
		}
		if p.Duration == nil {
			return fmt.Errorf("clock content requires 'duration' instead of 'repeat_count'")
		}
	case ContentAnimation:
		ac := p.Content.Animation
		if ac == nil {
			return fmt.Errorf("animation content missing payload")
		}
		if p.Duration == nil {
			return fmt.Errorf("animation content requires 'duration' instead of 'repeat_count'")
		}
		if err := ac.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown content type %q", p.Content.Type)
	}
	return nil
}

// RequiresRepeatCount reports whether this item completes by cycle count
// rather than elapsed duration.
func (p *PlayListItem) RequiresRepeatCount() bool {
	switch p.Content.Type {
	case ContentText:
		return p.Content.Text != nil && p.Content.Text.Scroll
	case ContentImage:
		return p.Content.Image != nil && p.Content.Image.Animation != nil
	default:
		return false
	}
}
