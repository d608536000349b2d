package display

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
	"github.com/coreman2200/funtimes-ledmatrix/internal/render"
	"github.com/coreman2200/funtimes-ledmatrix/internal/sysutil"
)

// Controller owns the playlist, the live renderer pair, the preview overlay,
// and the canvas. One mutex serializes the update loop against API mutations;
// every operation takes a consistent multi-field snapshot under it.
type Controller struct {
	mu sync.Mutex

	playlist model.Playlist
	drv      driver.Driver
	canvas   driver.Canvas
	images   render.ImageSource

	width      int
	height     int
	brightness int
	ctx        render.Context

	defaultItem    model.PlayListItem
	lastTransition time.Time

	activeRenderer render.Renderer
	borderRenderer render.Renderer

	previewMode           bool
	previewContent        *model.PlayListItem
	previewRenderer       render.Renderer
	previewBorderRenderer render.Renderer
	previewSessionID      string
	lastPreviewPing       time.Time
}

// NewController takes the driver's canvas and starts on an empty playlist.
// webPort is advertised in the fallback message shown while the playlist is
// empty.
func NewController(drv driver.Driver, width, height, brightness int, webPort int, images render.ImageSource) *Controller {
	log.Info().
		Int("width", width).
		Int("height", height).
		Int("brightness", brightness).
		Msg("initializing display controller")

	c := &Controller{
		playlist:       model.DefaultPlaylist(),
		drv:            drv,
		canvas:         drv.TakeCanvas(),
		images:         images,
		width:          width,
		height:         height,
		brightness:     brightness,
		ctx:            render.NewContext(width, height, brightness),
		defaultItem:    defaultItem(webPort),
		lastTransition: time.Now(),
	}
	c.setupActiveRenderer()
	return c
}

// defaultItem is the "no content" fallback: a scrolling pointer at the web UI
// with a pulsing green border. The local IP is resolved once, here.
func defaultItem(webPort int) model.PlayListItem {
	ip := sysutil.LocalIP()
	if ip == "" {
		ip = "localhost"
	}
	zero := 0
	return model.PlayListItem{
		ID:          "default-content",
		RepeatCount: &zero, // infinite
		BorderEffect: &model.BorderEffect{
			Kind:   model.BorderPulse,
			Colors: []model.Color{{0, 255, 0}, {0, 200, 0}},
		},
		Content: model.ContentData{
			Type: model.ContentText,
			Text: &model.TextContent{
				Text:   fmt.Sprintf("LED Matrix Controller | Web interface: http://%s:%d | Use web UI to configure display", ip, webPort),
				Scroll: true,
				Color:  model.Color{0, 255, 0},
				Speed:  30.0,
			},
		},
	}
}

// SetPlaylist replaces the queue wholesale and restarts from the first item.
func (c *Controller) SetPlaylist(p model.Playlist) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log.Info().Int("items", len(p.Items)).Msg("playlist replaced")
	c.playlist = p
	c.playlist.ActiveIndex = 0
	c.setupActiveRenderer()
}

// GetCurrentContent returns what is on screen right now: the preview item if
// previewing, the active playlist item, or the built-in default when the
// queue is empty.
func (c *Controller) GetCurrentContent() model.PlayListItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.currentContentLocked()
}

func (c *Controller) currentContentLocked() *model.PlayListItem {
	if c.previewMode && c.previewContent != nil {
		return c.previewContent
	}
	if len(c.playlist.Items) == 0 {
		return &c.defaultItem
	}
	return &c.playlist.Items[c.playlist.ActiveIndex]
}

// CheckTransition advances the playlist when the active renderer reports
// completion. Returns true if a transition happened. Preview mode suspends
// transitions entirely.
func (c *Controller) CheckTransition() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.previewMode || len(c.playlist.Items) == 0 {
		return false
	}
	if c.activeRenderer == nil || !c.activeRenderer.IsComplete() {
		return false
	}
	c.advanceLocked()
	return true
}

func (c *Controller) advanceLocked() {
	if len(c.playlist.Items) == 0 {
		return
	}

	oldIndex := c.playlist.ActiveIndex
	if oldIndex+1 < len(c.playlist.Items) {
		c.playlist.ActiveIndex = oldIndex + 1
	} else if c.playlist.Repeat {
		c.playlist.ActiveIndex = 0
	}
	// A non-repeating playlist stays parked on its last item.

	c.lastTransition = time.Now()
	c.setupActiveRenderer()
	if c.activeRenderer != nil {
		c.activeRenderer.Reset()
	}

	log.Debug().
		Int("from", oldIndex).
		Int("to", c.playlist.ActiveIndex).
		Msg("playlist advanced")
}

// setupActiveRenderer rebuilds the active content+border renderer pair for
// whatever currentContentLocked resolves to. Callers hold the lock.
func (c *Controller) setupActiveRenderer() {
	current := c.currentContentLocked()
	if c.previewMode {
		// Preview renderers are managed separately.
		current = c.activePlaylistItemLocked()
	}
	c.activeRenderer = render.NewRenderer(current, c.ctx, c.images)
	if current.BorderEffect != nil {
		c.borderRenderer = render.NewBorderRenderer(current, c.ctx)
	} else {
		c.borderRenderer = nil
	}
}

func (c *Controller) activePlaylistItemLocked() *model.PlayListItem {
	if len(c.playlist.Items) == 0 {
		return &c.defaultItem
	}
	return &c.playlist.Items[c.playlist.ActiveIndex]
}

// UpdateRenderers advances animation state on every live renderer.
func (c *Controller) UpdateRenderers(dt float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.activeRenderer != nil {
		c.activeRenderer.Update(dt)
	}
	if c.borderRenderer != nil {
		c.borderRenderer.Update(dt)
	}
	if c.previewMode {
		if c.previewRenderer != nil {
			c.previewRenderer.Update(dt)
		}
		if c.previewBorderRenderer != nil {
			c.previewBorderRenderer.Update(dt)
		}
	}
}

// UpdateDisplay renders one frame and trades the canvas with the driver.
func (c *Controller) UpdateDisplay() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.canvas == nil {
		return
	}
	c.canvas.Fill(0, 0, 0)

	content := c.activeRenderer
	border := c.borderRenderer
	if c.previewMode {
		if c.previewRenderer != nil {
			content = c.previewRenderer
		}
		if c.previewBorderRenderer != nil {
			border = c.previewBorderRenderer
		} else {
			border = nil
		}
	}

	if content != nil {
		content.Render(c.canvas)
	}
	if border != nil {
		border.Render(c.canvas)
	}

	c.canvas = c.drv.UpdateCanvas(c.canvas)
}

// SetBrightness clamps to 0-100 and propagates a fresh context to every live
// renderer without touching animation state, so the change is seamless.
func (c *Controller) SetBrightness(brightness int) {
	if brightness < 0 {
		brightness = 0
	}
	if brightness > 100 {
		brightness = 100
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	log.Debug().Int("brightness", brightness).Msg("updating display brightness")
	c.brightness = brightness
	c.ctx = render.NewContext(c.width, c.height, brightness)

	if c.activeRenderer != nil {
		c.activeRenderer.UpdateContext(c.ctx)
	}
	if c.borderRenderer != nil {
		c.borderRenderer.UpdateContext(c.ctx)
	}
	if c.previewMode {
		if c.previewRenderer != nil {
			c.previewRenderer.UpdateContext(c.ctx)
		}
		if c.previewBorderRenderer != nil {
			c.previewBorderRenderer.UpdateContext(c.ctx)
		}
	}
}

func (c *Controller) Brightness() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.brightness
}

// Size returns the panel dimensions in pixels.
func (c *Controller) Size() (int, int) {
	return c.width, c.height
}

// EnterPreview suspends normal playback and shows the given item live,
// recording session as the editor-lock holder.
func (c *Controller) EnterPreview(item model.PlayListItem, session string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.previewMode {
		log.Info().Str("session", session).Msg("entering preview mode")
	}
	c.previewMode = true
	c.previewSessionID = session
	c.updatePreviewRenderersLocked(&item)
}

// UpdatePreview refreshes preview content without changing session ownership.
func (c *Controller) UpdatePreview(item model.PlayListItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.previewMode {
		return
	}
	c.updatePreviewRenderersLocked(&item)
}

// updatePreviewRenderersLocked swaps content in place when the variant is
// unchanged, preserving animation continuity; a type change replaces the
// renderer outright since update-in-place would be a variant mismatch.
func (c *Controller) updatePreviewRenderersLocked(item *model.PlayListItem) {
	typeChanged := c.previewContent == nil || c.previewContent.Content.Type != item.Content.Type

	if c.previewRenderer != nil && !typeChanged {
		c.previewRenderer.UpdateContent(item)
	} else {
		c.previewRenderer = render.NewRenderer(item, c.ctx, c.images)
	}

	if item.BorderEffect != nil {
		if c.previewBorderRenderer != nil {
			c.previewBorderRenderer.UpdateContent(item)
		} else {
			c.previewBorderRenderer = render.NewBorderRenderer(item, c.ctx)
		}
	} else {
		c.previewBorderRenderer = nil
	}

	itemCopy := *item
	c.previewContent = &itemCopy
	c.lastPreviewPing = time.Now()
}

// PingPreview refreshes preview liveness. Returns false when no preview is
// active.
func (c *Controller) PingPreview() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.previewMode {
		return false
	}
	c.lastPreviewPing = time.Now()
	return true
}

// CheckPreviewTimeout force-exits a preview whose last ping is older than
// timeout and returns the freed session id so the caller can broadcast the
// unlock.
func (c *Controller) CheckPreviewTimeout(timeout time.Duration) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.previewMode {
		return "", false
	}
	elapsed := time.Since(c.lastPreviewPing)
	if elapsed <= timeout {
		return "", false
	}

	log.Info().
		Dur("inactive", elapsed).
		Str("session", c.previewSessionID).
		Msg("preview mode timed out")
	session := c.previewSessionID
	c.exitPreviewLocked()
	return session, true
}

func (c *Controller) IsInPreviewMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.previewMode
}

// IsPreviewSessionOwner reports whether session holds the editor lock.
func (c *Controller) IsPreviewSessionOwner(session string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.previewMode && c.previewSessionID == session
}

func (c *Controller) ExitPreview() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exitPreviewLocked()
}

func (c *Controller) exitPreviewLocked() {
	if !c.previewMode {
		return
	}
	log.Info().Str("session", c.previewSessionID).Msg("exiting preview mode")
	c.previewMode = false
	c.previewContent = nil
	c.previewRenderer = nil
	c.previewBorderRenderer = nil
	c.previewSessionID = ""
}

// ResetDisplayState restarts the current item from scratch. Called after
// playlist edits.
func (c *Controller) ResetDisplayState() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetDisplayStateLocked()
}

func (c *Controller) resetDisplayStateLocked() {
	c.lastTransition = time.Now()
	if c.activeRenderer != nil {
		c.activeRenderer.Reset()
	}
	if c.borderRenderer != nil {
		c.borderRenderer.Reset()
	}
	c.setupActiveRenderer()
}

// Shutdown blanks the panel, pushes one final frame, and stops the driver.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	log.Info().Msg("shutting down display controller")
	if c.canvas != nil {
		c.canvas.Fill(0, 0, 0)
		c.canvas = c.drv.UpdateCanvas(c.canvas)
	}
	c.drv.Shutdown()
}
