package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

func intPtr(v int) *int { return &v }

func animationItem(content model.AnimationContent, durationSec int) *model.PlayListItem {
	return &model.PlayListItem{
		ID:       "anim-test",
		Duration: intPtr(durationSec),
		Content: model.ContentData{
			Type:      model.ContentAnimation,
			Animation: &content,
		},
	}
}

func framePixel(f *driver.Frame, x, y int) model.Color {
	w, _ := f.Size()
	i := (y*w + x) * 3
	rgb := f.RGB()
	return model.Color{rgb[i], rgb[i+1], rgb[i+2]}
}

func TestStrobeFixedCycleEnvelope(t *testing.T) {
	item := animationItem(model.AnimationContent{
		Preset:  model.PresetStrobe,
		Colors:  []model.Color{{255, 255, 255}},
		FlashMs: 100,
		FadeMs:  100,
	}, 10)
	ctx := NewContext(4, 4, 100)
	canvas := driver.NewFrame(4, 4)

	r := NewAnimationRenderer(item, ctx)

	// Flash phase: full brightness for the first 100ms of each 200ms cycle.
	r.Update(0.050)
	r.Render(canvas)
	assert.Equal(t, model.Color{255, 255, 255}, framePixel(canvas, 0, 0))

	// Halfway through the fade: linear decay to 0.5.
	r.Update(0.100)
	r.Render(canvas)
	assert.Equal(t, model.Color{127, 127, 127}, framePixel(canvas, 1, 1))

	// Next cycle flashes again.
	r.Update(0.100)
	r.Render(canvas)
	assert.Equal(t, model.Color{255, 255, 255}, framePixel(canvas, 2, 2))
}

func TestStrobeRandomizedIsDeterministic(t *testing.T) {
	content := model.AnimationContent{
		Preset:              model.PresetStrobe,
		Colors:              []model.Color{{255, 0, 0}, {0, 0, 255}},
		FlashMs:             80,
		FadeMs:              120,
		Randomize:           true,
		RandomizationFactor: 0.35,
	}
	ctx := NewContext(4, 4, 100)

	a := NewAnimationRenderer(animationItem(content, 10), ctx)
	b := NewAnimationRenderer(animationItem(content, 10), ctx)

	for i := 0; i < 50; i++ {
		a.Update(0.033)
		b.Update(0.033)
		ca := driver.NewFrame(4, 4)
		cb := driver.NewFrame(4, 4)
		a.Render(ca)
		b.Render(cb)
		require.Equal(t, ca.RGB(), cb.RGB(), "frame %d", i)
	}
}

func TestSparkleZeroDensityLeavesCanvasUntouched(t *testing.T) {
	item := animationItem(model.AnimationContent{
		Preset:    model.PresetSparkle,
		Colors:    []model.Color{{255, 255, 255}},
		Density:   0,
		TwinkleMs: 600,
	}, 5)
	ctx := NewContext(8, 8, 100)
	canvas := driver.NewFrame(8, 8)
	canvas.Fill(7, 7, 7)

	r := NewAnimationRenderer(item, ctx)
	r.Update(0.5)
	r.Render(canvas)

	for _, v := range canvas.RGB() {
		require.Equal(t, uint8(7), v)
	}
}

func TestSparkleFullDensityGatesEveryPixel(t *testing.T) {
	item := animationItem(model.AnimationContent{
		Preset:    model.PresetSparkle,
		Colors:    []model.Color{{255, 255, 255}},
		Density:   1,
		TwinkleMs: 600,
	}, 5)
	ctx := NewContext(8, 8, 100)
	canvas := driver.NewFrame(8, 8)

	r := NewAnimationRenderer(item, ctx)
	r.Update(0.25)
	r.Render(canvas)

	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := framePixel(canvas, x, y)
			lit := c[0] > 0 || c[1] > 0 || c[2] > 0
			require.True(t, lit, "pixel (%d,%d) should be gated on", x, y)
		}
	}
}

func TestPulseFollowsTriangleEnvelope(t *testing.T) {
	item := animationItem(model.AnimationContent{
		Preset:  model.PresetPulse,
		Colors:  []model.Color{{200, 200, 200}},
		CycleMs: 2000,
	}, 5)
	ctx := NewContext(4, 4, 100)
	canvas := driver.NewFrame(4, 4)

	r := NewAnimationRenderer(item, ctx)

	// Quarter cycle: triangle wave at 0.5.
	r.Update(0.5)
	r.Render(canvas)
	assert.Equal(t, model.Color{100, 100, 100}, framePixel(canvas, 0, 0))

	// Half cycle: peak brightness.
	r.Update(0.5)
	r.Render(canvas)
	assert.Equal(t, model.Color{200, 200, 200}, framePixel(canvas, 0, 0))
}

func TestDualPulseAveragesOffsetWaves(t *testing.T) {
	item := animationItem(model.AnimationContent{
		Preset:      model.PresetDualPulse,
		Colors:      []model.Color{{100, 100, 100}},
		CycleMs:     2000,
		PhaseOffset: 0.5,
	}, 5)
	ctx := NewContext(4, 4, 100)
	canvas := driver.NewFrame(4, 4)

	r := NewAnimationRenderer(item, ctx)
	r.Update(0.5) // progress 0.25, offset wave at 0.75, both triangles read 0.5
	r.Render(canvas)
	assert.Equal(t, model.Color{50, 50, 50}, framePixel(canvas, 0, 0))
}

func TestColorFadeDriftsThroughPalette(t *testing.T) {
	item := animationItem(model.AnimationContent{
		Preset:     model.PresetColorFade,
		Colors:     []model.Color{{255, 0, 0}, {0, 0, 255}},
		DriftSpeed: 0.25,
	}, 5)
	ctx := NewContext(4, 4, 100)
	canvas := driver.NewFrame(4, 4)

	r := NewAnimationRenderer(item, ctx)
	r.Update(2.0) // progress 0.5 lands exactly on the second palette entry
	r.Render(canvas)
	assert.Equal(t, model.Color{0, 0, 255}, framePixel(canvas, 0, 0))
}

func TestPaletteWaveCoversCanvas(t *testing.T) {
	item := animationItem(model.AnimationContent{
		Preset:    model.PresetPaletteWave,
		Colors:    []model.Color{{255, 0, 0}, {0, 255, 0}},
		CycleMs:   2000,
		WaveCount: 3,
	}, 5)
	ctx := NewContext(8, 8, 100)
	canvas := driver.NewFrame(8, 8)

	r := NewAnimationRenderer(item, ctx)
	r.Update(0.3)
	r.Render(canvas)

	lit := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := framePixel(canvas, x, y)
			if c[0] > 0 || c[1] > 0 || c[2] > 0 {
				lit++
			}
		}
	}
	// Brightness floor is 0.6, so every pixel carries some color.
	assert.Equal(t, 64, lit)
}

func TestMosaicTwinkleIsStablePerTile(t *testing.T) {
	item := animationItem(model.AnimationContent{
		Preset:    model.PresetMosaicTwinkle,
		Colors:    []model.Color{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}},
		TileSize:  4,
		FlowSpeed: 0.35,
	}, 5)
	ctx := NewContext(8, 8, 100)

	r := NewAnimationRenderer(item, ctx)
	r.Update(0.5)

	c1 := driver.NewFrame(8, 8)
	c2 := driver.NewFrame(8, 8)
	r.Render(c1)
	r.Render(c2)
	assert.Equal(t, c1.RGB(), c2.RGB(), "render must be idempotent without an update")

	// All pixels within one tile share a color.
	base := framePixel(c1, 0, 0)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			require.Equal(t, base, framePixel(c1, x, y))
		}
	}
}

func TestPlasmaBoundedOutput(t *testing.T) {
	item := animationItem(model.AnimationContent{
		Preset:     model.PresetPlasma,
		Colors:     []model.Color{{255, 0, 128}, {0, 128, 255}},
		FlowSpeed:  1.85,
		NoiseScale: 1.75,
	}, 5)
	ctx := NewContext(8, 8, 100)
	canvas := driver.NewFrame(8, 8)

	r := NewAnimationRenderer(item, ctx)
	for i := 0; i < 10; i++ {
		r.Update(0.1)
		r.Render(canvas)
	}

	// Brightness floor of 0.3 on a non-black palette keeps every pixel lit.
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := framePixel(canvas, x, y)
			lit := c[0] > 0 || c[1] > 0 || c[2] > 0
			require.True(t, lit, "pixel (%d,%d)", x, y)
		}
	}
}

func TestAnimationCompletesOnDuration(t *testing.T) {
	item := animationItem(model.AnimationContent{
		Preset:  model.PresetPulse,
		Colors:  []model.Color{{255, 255, 255}},
		CycleMs: 2000,
	}, 1)
	r := NewAnimationRenderer(item, NewContext(4, 4, 100))

	assert.False(t, r.IsComplete())
	r.Update(0.5)
	assert.False(t, r.IsComplete())
	r.Update(0.6)
	assert.True(t, r.IsComplete())

	r.Reset()
	assert.False(t, r.IsComplete())
}
