package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

func intPtr(v int) *int { return &v }

func textItem(id, text string, durationSec int) model.PlayListItem {
	return model.PlayListItem{
		ID:       id,
		Duration: intPtr(durationSec),
		Content: model.ContentData{
			Type: model.ContentText,
			Text: &model.TextContent{Text: text, Color: model.Color{255, 255, 255}},
		},
	}
}

func newTestController(t *testing.T) *Controller {
	t.Helper()
	return NewController(driver.NewSim(64, 32), 64, 32, 100, 3000, nil)
}

func TestEmptyPlaylistShowsDefaultContent(t *testing.T) {
	c := newTestController(t)

	assert.False(t, c.CheckTransition())

	current := c.GetCurrentContent()
	require.Equal(t, model.ContentText, current.Content.Type)
	assert.True(t, current.Content.Text.Scroll)
	assert.Contains(t, current.Content.Text.Text, "Web interface")
	require.NotNil(t, current.BorderEffect)
	assert.Equal(t, model.BorderPulse, current.BorderEffect.Kind)

	// The default item renders: a frame tick must not panic and transitions
	// stay suppressed.
	for i := 0; i < 10; i++ {
		c.UpdateRenderers(0.1)
		c.UpdateDisplay()
		assert.False(t, c.CheckTransition())
	}
}

func TestNonRepeatingPlaylistParksOnLastItem(t *testing.T) {
	c := newTestController(t)
	c.SetPlaylist(model.Playlist{
		Items:  []model.PlayListItem{textItem("a", "first", 1), textItem("b", "second", 1)},
		Repeat: false,
	})

	// Run the first item to completion.
	c.UpdateRenderers(1.1)
	require.True(t, c.CheckTransition())
	assert.Equal(t, "b", c.GetCurrentContent().ID)

	// Last item completes but the index must not wrap.
	c.UpdateRenderers(1.1)
	require.True(t, c.CheckTransition())
	assert.Equal(t, "b", c.GetCurrentContent().ID)
}

func TestRepeatingPlaylistWrapsToStart(t *testing.T) {
	c := newTestController(t)
	c.SetPlaylist(model.Playlist{
		Items:  []model.PlayListItem{textItem("a", "first", 1), textItem("b", "second", 1)},
		Repeat: true,
	})

	c.UpdateRenderers(1.1)
	require.True(t, c.CheckTransition())
	assert.Equal(t, "b", c.GetCurrentContent().ID)

	c.UpdateRenderers(1.1)
	require.True(t, c.CheckTransition())
	assert.Equal(t, "a", c.GetCurrentContent().ID)
}

func TestThreeItemSequencePlaysInOrder(t *testing.T) {
	c := newTestController(t)
	c.SetPlaylist(model.Playlist{
		Items: []model.PlayListItem{
			textItem("a", "one", 1),
			textItem("b", "two", 1),
			textItem("c", "three", 1),
		},
		Repeat: false,
	})

	visited := []string{c.GetCurrentContent().ID}

	// ~3.1 seconds of 10ms ticks.
	for i := 0; i < 310; i++ {
		c.UpdateRenderers(0.010)
		if c.CheckTransition() {
			visited = append(visited, c.GetCurrentContent().ID)
		}
		c.UpdateDisplay()
	}

	assert.Equal(t, []string{"a", "b", "c"}, visited[:3])
	assert.Equal(t, "c", c.GetCurrentContent().ID)
}

func TestPreviewSuspendsTransitions(t *testing.T) {
	c := newTestController(t)
	c.SetPlaylist(model.Playlist{
		Items:  []model.PlayListItem{textItem("a", "one", 1), textItem("b", "two", 1)},
		Repeat: true,
	})

	c.EnterPreview(textItem("preview", "candidate", 30), "s1")
	require.True(t, c.IsInPreviewMode())
	assert.Equal(t, "preview", c.GetCurrentContent().ID)

	// Even with the active item long complete, no transition while previewing.
	c.UpdateRenderers(5.0)
	assert.False(t, c.CheckTransition())

	c.ExitPreview()
	assert.False(t, c.IsInPreviewMode())
	assert.Equal(t, "a", c.GetCurrentContent().ID)
}

func TestPreviewTimeoutReturnsSession(t *testing.T) {
	c := newTestController(t)
	c.EnterPreview(textItem("preview", "candidate", 30), "s1")

	// Fresh preview is not stale.
	_, timedOut := c.CheckPreviewTimeout(DefaultPreviewTimeout)
	assert.False(t, timedOut)

	// Age the last ping past the threshold.
	c.mu.Lock()
	c.lastPreviewPing = time.Now().Add(-6 * time.Second)
	c.mu.Unlock()

	session, timedOut := c.CheckPreviewTimeout(DefaultPreviewTimeout)
	require.True(t, timedOut)
	assert.Equal(t, "s1", session)
	assert.False(t, c.IsInPreviewMode())
}

func TestPreviewPingKeepsSessionAlive(t *testing.T) {
	c := newTestController(t)

	assert.False(t, c.PingPreview(), "ping without preview is rejected")

	c.EnterPreview(textItem("preview", "candidate", 30), "s1")
	c.mu.Lock()
	c.lastPreviewPing = time.Now().Add(-4 * time.Second)
	c.mu.Unlock()

	require.True(t, c.PingPreview())
	_, timedOut := c.CheckPreviewTimeout(DefaultPreviewTimeout)
	assert.False(t, timedOut)
}

func TestPreviewSessionOwnership(t *testing.T) {
	c := newTestController(t)

	assert.False(t, c.IsPreviewSessionOwner("s1"))

	c.EnterPreview(textItem("preview", "candidate", 30), "s1")
	assert.True(t, c.IsPreviewSessionOwner("s1"))
	assert.False(t, c.IsPreviewSessionOwner("s2"))

	c.ExitPreview()
	assert.False(t, c.IsPreviewSessionOwner("s1"))
}

func TestUpdatePreviewKeepsOwnership(t *testing.T) {
	c := newTestController(t)
	c.EnterPreview(textItem("p1", "first draft", 30), "s1")

	c.UpdatePreview(textItem("p2", "second draft", 30))
	assert.True(t, c.IsPreviewSessionOwner("s1"))
	assert.Equal(t, "p2", c.GetCurrentContent().ID)

	// Content type change swaps the renderer instead of updating in place.
	zero := 0
	c.UpdatePreview(model.PlayListItem{
		ID:       "p3",
		Duration: &zero,
		Content: model.ContentData{
			Type:  model.ContentClock,
			Clock: &model.ClockContent{Format: model.Clock24h, Color: model.Color{255, 255, 255}},
		},
	})
	assert.Equal(t, "p3", c.GetCurrentContent().ID)
	c.UpdateRenderers(0.1)
	c.UpdateDisplay()
}

func TestSetBrightnessClampsAndPropagates(t *testing.T) {
	c := newTestController(t)

	c.SetBrightness(150)
	assert.Equal(t, 100, c.Brightness())

	c.SetBrightness(-5)
	assert.Equal(t, 0, c.Brightness())

	c.SetBrightness(42)
	assert.Equal(t, 42, c.Brightness())
	assert.Equal(t, 42, c.ctx.Brightness)
}

func TestAddItemToEmptyQueueTakesOver(t *testing.T) {
	c := newTestController(t)
	require.Equal(t, "default-content", c.GetCurrentContent().ID)

	c.AddItem(textItem("a", "hello", 5))
	assert.Equal(t, "a", c.GetCurrentContent().ID)
}

func TestDeleteActiveItemRebuildsRenderer(t *testing.T) {
	c := newTestController(t)
	c.SetPlaylist(model.Playlist{
		Items:  []model.PlayListItem{textItem("a", "one", 1), textItem("b", "two", 1)},
		Repeat: true,
	})

	require.True(t, c.DeleteItem("a"))
	assert.Equal(t, "b", c.GetCurrentContent().ID)

	require.True(t, c.DeleteItem("b"))
	assert.Equal(t, "default-content", c.GetCurrentContent().ID)
	assert.False(t, c.DeleteItem("b"), "double delete is rejected")
}

func TestDeleteEarlierItemShiftsActiveIndex(t *testing.T) {
	c := newTestController(t)
	c.SetPlaylist(model.Playlist{
		Items: []model.PlayListItem{
			textItem("a", "one", 1),
			textItem("b", "two", 1),
			textItem("c", "three", 1),
		},
		Repeat: true,
	})

	c.UpdateRenderers(1.1)
	require.True(t, c.CheckTransition()) // now on "b"

	require.True(t, c.DeleteItem("a"))
	assert.Equal(t, "b", c.GetCurrentContent().ID)
}

func TestReorderKeepsActiveItem(t *testing.T) {
	c := newTestController(t)
	c.SetPlaylist(model.Playlist{
		Items: []model.PlayListItem{
			textItem("a", "one", 1),
			textItem("b", "two", 1),
			textItem("c", "three", 1),
		},
		Repeat: true,
	})

	require.NoError(t, c.Reorder([]string{"c", "a", "b"}))
	assert.Equal(t, "a", c.GetCurrentContent().ID)

	items := c.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
	assert.Equal(t, "b", items[2].ID)

	assert.Error(t, c.Reorder([]string{"a", "b"}), "length mismatch rejected")
	assert.Error(t, c.Reorder([]string{"a", "b", "x"}), "unknown id rejected")
}

func TestUpdateItemInPlace(t *testing.T) {
	c := newTestController(t)
	c.SetPlaylist(model.Playlist{
		Items:  []model.PlayListItem{textItem("a", "before", 5)},
		Repeat: true,
	})

	edited := textItem("a", "after", 5)
	require.True(t, c.UpdateItem(edited))
	assert.Equal(t, "after", c.GetCurrentContent().Content.Text.Text)

	assert.False(t, c.UpdateItem(textItem("missing", "x", 5)))
}

func TestShutdownPushesFinalBlackFrame(t *testing.T) {
	sim := driver.NewSim(8, 8)
	var lastFrame []uint8
	sim.SetFrameSink(func(rgb []uint8, w, h int) {
		lastFrame = append(lastFrame[:0], rgb...)
	})

	c := NewController(sim, 8, 8, 100, 3000, nil)
	c.UpdateRenderers(0.1)
	c.UpdateDisplay()
	c.Shutdown()

	require.NotEmpty(t, lastFrame)
	for _, v := range lastFrame {
		assert.Zero(t, v, "final frame must be black")
	}
}
