package display

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Events receives notifications the update loop produces as a side effect of
// playback, currently just the editor lock being released on preview timeout.
type Events interface {
	EditorLockChanged(locked bool, session string)
}

// DefaultPreviewTimeout is how long a preview survives without a ping.
const DefaultPreviewTimeout = 5 * time.Second

// frameSleep paces the loop. Real elapsed time is measured each iteration, so
// this only bounds the frame rate, it does not define it.
const frameSleep = 2 * time.Millisecond

// RunUpdateLoop ticks the controller until ctx is cancelled: preview timeout
// check, transition check, renderer update with measured dt, frame present.
func RunUpdateLoop(ctx context.Context, c *Controller, events Events, previewTimeout time.Duration) {
	log.Info().Msg("starting display update loop")

	lastTime := time.Now()
	frameCount := 0
	lastStatsTime := lastTime

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("display update loop stopped")
			return
		default:
		}

		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if session, timedOut := c.CheckPreviewTimeout(previewTimeout); timedOut {
			if events != nil {
				events.EditorLockChanged(false, session)
			}
		}

		if c.CheckTransition() {
			current := c.GetCurrentContent()
			log.Info().
				Str("item", current.ID).
				Str("content", string(current.Content.Type)).
				Msg("transitioned to next playlist item")
		}

		c.UpdateRenderers(dt)
		c.UpdateDisplay()

		frameCount++
		if now.Sub(lastStatsTime) >= time.Minute {
			fps := float64(frameCount) / now.Sub(lastStatsTime).Seconds()
			log.Info().Float64("fps", fps).Msg("display performance")
			frameCount = 0
			lastStatsTime = now
		}

		time.Sleep(frameSleep)
	}
}
