package display

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

// Playlist edit operations. All of them serialize against the update loop on
// the controller mutex and leave active_index valid.

// Snapshot returns a copy of the playlist for persistence or API responses.
func (c *Controller) Snapshot() model.Playlist {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := c.playlist
	out.Items = append([]model.PlayListItem(nil), c.playlist.Items...)
	return out
}

// Items returns a copy of the queue in order.
func (c *Controller) Items() []model.PlayListItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.PlayListItem(nil), c.playlist.Items...)
}

// Item looks an item up by id.
func (c *Controller) Item(id string) (model.PlayListItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.playlist.Items {
		if item.ID == id {
			return item, true
		}
	}
	return model.PlayListItem{}, false
}

// AddItem appends to the queue. Adding to an empty queue replaces the default
// fallback content immediately.
func (c *Controller) AddItem(item model.PlayListItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasEmpty := len(c.playlist.Items) == 0
	c.playlist.Items = append(c.playlist.Items, item)
	log.Info().Str("item", item.ID).Int("queue", len(c.playlist.Items)).Msg("playlist item added")

	if wasEmpty {
		c.playlist.ActiveIndex = 0
		c.resetDisplayStateLocked()
	}
}

// UpdateItem replaces the item with the same id. Editing the on-screen item
// refreshes its renderer in place when the content type allows, so the edit
// appears without restarting the animation.
func (c *Controller) UpdateItem(item model.PlayListItem) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.playlist.Items {
		if c.playlist.Items[i].ID != item.ID {
			continue
		}
		typeChanged := c.playlist.Items[i].Content.Type != item.Content.Type
		c.playlist.Items[i] = item

		if i == c.playlist.ActiveIndex && !c.previewMode {
			if typeChanged || c.activeRenderer == nil {
				c.setupActiveRenderer()
			} else {
				c.activeRenderer.UpdateContent(&item)
				if item.BorderEffect != nil {
					if c.borderRenderer != nil {
						c.borderRenderer.UpdateContent(&item)
					} else {
						c.setupActiveRenderer()
					}
				} else {
					c.borderRenderer = nil
				}
			}
		}
		return true
	}
	return false
}

// DeleteItem removes by id, clamping active_index and rebuilding the active
// renderer when the removal shifts what should be on screen.
func (c *Controller) DeleteItem(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.playlist.Items {
		if c.playlist.Items[i].ID != id {
			continue
		}
		c.playlist.Items = append(c.playlist.Items[:i], c.playlist.Items[i+1:]...)
		log.Info().Str("item", id).Int("queue", len(c.playlist.Items)).Msg("playlist item removed")

		switch {
		case len(c.playlist.Items) == 0:
			c.playlist.ActiveIndex = 0
			c.resetDisplayStateLocked()
		case i < c.playlist.ActiveIndex:
			c.playlist.ActiveIndex--
		case i == c.playlist.ActiveIndex:
			if c.playlist.ActiveIndex >= len(c.playlist.Items) {
				c.playlist.ActiveIndex = 0
			}
			c.resetDisplayStateLocked()
		}
		return true
	}
	return false
}

// Reorder rearranges the queue to match ids, which must be a permutation of
// the current item ids. The active item keeps playing wherever it lands.
func (c *Controller) Reorder(ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(ids) != len(c.playlist.Items) {
		return fmt.Errorf("reorder list has %d ids, playlist has %d items", len(ids), len(c.playlist.Items))
	}

	byID := make(map[string]model.PlayListItem, len(c.playlist.Items))
	for _, item := range c.playlist.Items {
		byID[item.ID] = item
	}

	activeID := ""
	if len(c.playlist.Items) > 0 {
		activeID = c.playlist.Items[c.playlist.ActiveIndex].ID
	}

	reordered := make([]model.PlayListItem, 0, len(ids))
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			return fmt.Errorf("unknown playlist item id %q", id)
		}
		delete(byID, id)
		reordered = append(reordered, item)
	}

	c.playlist.Items = reordered
	for i, item := range reordered {
		if item.ID == activeID {
			c.playlist.ActiveIndex = i
			break
		}
	}
	return nil
}

// SetRepeat toggles whether the queue wraps after its last item.
func (c *Controller) SetRepeat(repeat bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playlist.Repeat = repeat
}

// Repeat reports the wrap setting.
func (c *Controller) Repeat() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playlist.Repeat
}
