package render

import (
	"math"

	"github.com/coreman2200/funtimes-ledmatrix/internal/driver"
	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

// AnimationRenderer drives the eight procedural presets. Every preset is a
// pure function of (elapsed, palette, params, coordinates); the only state
// mutated between frames is the elapsed-time accumulator.
type AnimationRenderer struct {
	content  model.AnimationContent
	ctx      Context
	elapsed  float64
	duration *int
}

func NewAnimationRenderer(item *model.PlayListItem, ctx Context) *AnimationRenderer {
	if item.Content.Type != model.ContentAnimation || item.Content.Animation == nil {
		panic("animation renderer requires animation content")
	}
	return &AnimationRenderer{
		content:  *item.Content.Animation,
		ctx:      ctx,
		duration: item.Duration,
	}
}

func (r *AnimationRenderer) Update(dt float64) {
	r.elapsed += dt
}

func (r *AnimationRenderer) Render(canvas driver.Canvas) {
	c := &r.content
	switch c.Preset {
	case model.PresetPulse:
		r.renderPulse(canvas, c.Colors, float64(c.CycleMs)/1000.0)
	case model.PresetPaletteWave:
		r.renderPaletteWave(canvas, c.Colors, float64(c.CycleMs)/1000.0, c.WaveCount)
	case model.PresetDualPulse:
		r.renderDualPulse(canvas, c.Colors, float64(c.CycleMs)/1000.0, c.PhaseOffset)
	case model.PresetColorFade:
		r.renderColorFade(canvas, c.Colors, c.DriftSpeed)
	case model.PresetStrobe:
		r.renderStrobe(canvas, c.Colors, c.FlashMs, c.FadeMs, c.Randomize, c.RandomizationFactor)
	case model.PresetSparkle:
		r.renderSparkle(canvas, c.Colors, c.Density, c.TwinkleMs)
	case model.PresetMosaicTwinkle:
		r.renderMosaicTwinkle(canvas, c.Colors, c.TileSize, c.FlowSpeed, c.BorderSize, c.BorderColor)
	case model.PresetPlasma:
		r.renderPlasma(canvas, c.Colors, c.FlowSpeed, c.NoiseScale)
	}
}

func (r *AnimationRenderer) IsComplete() bool {
	if r.duration != nil {
		return r.elapsed >= float64(*r.duration)
	}
	return false
}

func (r *AnimationRenderer) Reset() {
	r.elapsed = 0
}

func (r *AnimationRenderer) UpdateContext(ctx Context) {
	r.ctx = ctx
}

func (r *AnimationRenderer) UpdateContent(item *model.PlayListItem) {
	if item.Content.Type == model.ContentAnimation && item.Content.Animation != nil {
		r.content = *item.Content.Animation
		r.duration = item.Duration
	}
}

func (r *AnimationRenderer) fillCanvas(canvas driver.Canvas, color model.Color) {
	c := r.ctx.ApplyBrightness(color)
	canvas.Fill(c[0], c[1], c[2])
}

// loopProgress maps elapsed time onto [0,1) per cycle.
func (r *AnimationRenderer) loopProgress(cycleS float64) float64 {
	if cycleS <= 0 {
		return 0
	}
	return fract(r.elapsed / cycleS)
}

func (r *AnimationRenderer) renderPulse(canvas driver.Canvas, colors []model.Color, cycleS float64) {
	if len(colors) == 0 {
		return
	}
	progress := r.loopProgress(cycleS)
	color := samplePalette(colors, progress)
	r.fillCanvas(canvas, scaleColor(color, triangleWave(progress)))
}

func (r *AnimationRenderer) renderDualPulse(canvas driver.Canvas, colors []model.Color, cycleS, phaseOffset float64) {
	if len(colors) == 0 {
		return
	}
	progress := r.loopProgress(cycleS)
	second := fract(progress + phaseOffset)
	brightness := clamp(triangleWave(progress)+triangleWave(second), 0, 2) * 0.5
	color := samplePalette(colors, progress)
	r.fillCanvas(canvas, scaleColor(color, brightness))
}

func (r *AnimationRenderer) renderPaletteWave(canvas driver.Canvas, colors []model.Color, cycleS float64, waveCount int) {
	if len(colors) == 0 {
		return
	}
	if waveCount < 1 {
		waveCount = 1
	}
	offset := r.loopProgress(cycleS)
	width, height := r.ctx.Width, r.ctx.Height

	for y := 0; y < height; y++ {
		normY := float64(y) / float64(height)
		for x := 0; x < width; x++ {
			normX := float64(x) / float64(width)
			base := fract(normX + normY*0.25 + offset)
			wave := fract(base * float64(waveCount))
			brightness := 0.6 + 0.4*triangleWave(base)
			color := scaleColor(samplePalette(colors, wave), brightness)
			c := r.ctx.ApplyBrightness(color)
			canvas.SetPixel(x, y, c[0], c[1], c[2])
		}
	}
}

func (r *AnimationRenderer) renderColorFade(canvas driver.Canvas, colors []model.Color, driftSpeed float64) {
	if len(colors) == 0 || math.IsInf(driftSpeed, 0) || math.IsNaN(driftSpeed) {
		return
	}
	progress := fract(r.elapsed * driftSpeed)
	r.fillCanvas(canvas, samplePalette(colors, progress))
}

func (r *AnimationRenderer) renderStrobe(canvas driver.Canvas, colors []model.Color, flashMs, fadeMs int, randomize bool, factor float64) {
	if len(colors) == 0 || flashMs <= 0 || fadeMs <= 0 {
		return
	}

	baseCycleMs := uint32(flashMs + fadeMs)
	elapsedMs := uint32(r.elapsed * 1000.0)

	var cycleIndex int
	var phaseMs uint32
	if randomize && factor > 0 {
		cycleIndex, phaseMs = strobeRandomizedCycle(elapsedMs, baseCycleMs, factor)
	} else {
		cycleIndex = int(elapsedMs / baseCycleMs)
		phaseMs = elapsedMs % baseCycleMs
	}

	paletteIndex := cycleIndex % len(colors)

	var brightness float64
	if phaseMs < uint32(flashMs) {
		brightness = 1.0
	} else {
		fadeProgress := float64(phaseMs-uint32(flashMs)) / float64(fadeMs)
		brightness = clamp(1.0-fadeProgress, 0, 1)
	}

	r.fillCanvas(canvas, scaleColor(colors[paletteIndex], brightness))
}

// strobeRandomizedCycle finds the cycle containing elapsedMs by accumulating
// per-cycle jittered durations. Each cycle's jitter is a deterministic hash
// of its index so the sequence replays identically after a reset. The search
// is bounded; past the bound an approximate closed-form estimate is used.
func strobeRandomizedCycle(elapsedMs, baseCycleMs uint32, factor float64) (int, uint32) {
	clamped := clamp(factor, 0, 1)
	minMultiplier := 1.0 - clamped
	maxMultiplier := 1.0 + clamped

	const maxCycles = 10000

	randomizedDuration := func(cycle int) uint32 {
		seed := tileSeed(uint32(cycle), 531441)
		multiplier := minMultiplier + (maxMultiplier-minMultiplier)*pseudoRandom(seed)
		d := uint32(math.Round(float64(baseCycleMs) * multiplier))
		if d == 0 {
			d = 1
		}
		return d
	}

	var accumulated uint32
	for cycle := 0; accumulated <= elapsedMs && cycle < maxCycles; cycle++ {
		duration := randomizedDuration(cycle)
		if accumulated+duration > elapsedMs {
			return cycle, elapsedMs - accumulated
		}
		accumulated += duration
	}

	// Long-running fallback: estimate the cycle from the mean duration.
	approxCycle := int(float64(elapsedMs) / (float64(baseCycleMs) * (1.0 + clamped*0.5)))
	duration := randomizedDuration(approxCycle)
	return approxCycle, elapsedMs % duration
}

func sparkleBrightness(phase float64) float64 {
	wave := math.Sin(2*math.Pi*phase)*0.5 + 0.5
	return 0.1 + 0.9*math.Pow(wave, 2.2)
}

func (r *AnimationRenderer) renderSparkle(canvas driver.Canvas, colors []model.Color, density float64, twinkleMs int) {
	if len(colors) == 0 || density <= 0 || twinkleMs <= 0 {
		return
	}

	width, height := r.ctx.Width, r.ctx.Height
	activeDensity := clamp(density, 0.01, 1.0)
	phaseBase := (r.elapsed * 1000.0) / float64(twinkleMs)

	canvas.Fill(0, 0, 0)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			seed := tileSeed(uint32(y), uint32(x))
			if pseudoRandom(seed) > activeDensity {
				continue
			}

			paletteIndex := int(seed) % len(colors)
			speedVariation := 0.6 + 1.2*pseudoRandom(seed*31415927)
			phaseOffset := pseudoRandom(seed * 97531)
			twinklePhase := fract(phaseBase*speedVariation + phaseOffset)
			brightness := sparkleBrightness(twinklePhase)

			color := scaleColor(colors[paletteIndex], brightness)
			c := r.ctx.ApplyBrightness(color)
			canvas.SetPixel(x, y, c[0], c[1], c[2])
		}
	}
}

func (r *AnimationRenderer) renderMosaicTwinkle(canvas driver.Canvas, colors []model.Color, tileSize int, flowSpeed float64, borderSize int, borderColor model.Color) {
	if len(colors) == 0 || tileSize <= 0 || math.IsNaN(flowSpeed) || math.IsInf(flowSpeed, 0) || flowSpeed <= 0 {
		return
	}

	width, height := r.ctx.Width, r.ctx.Height
	tile := tileSize
	cols := (width + tile - 1) / tile
	rows := (height + tile - 1) / tile

	effectiveBorder := 0
	if borderSize > 0 {
		effectiveBorder = borderSize
		if effectiveBorder > tileSize {
			effectiveBorder = tileSize
		}
		// The ring never eats more than half the tile.
		if half := (tileSize - 1) / 2; effectiveBorder > half {
			effectiveBorder = half
		}
	}

	if borderSize == 0 {
		canvas.Fill(0, 0, 0)
	} else {
		bc := r.ctx.ApplyBrightness(borderColor)
		canvas.Fill(bc[0], bc[1], bc[2])
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			seed := tileSeed(uint32(row), uint32(col))
			baseColor := colors[int(seed)%len(colors)]

			speedVariation := 0.6 + 0.6*pseudoRandom(seed*31415927)
			phaseOffset := pseudoRandom(seed * 97531)
			phase := fract(r.elapsed*flowSpeed*speedVariation + phaseOffset)
			shimmer := 0.65 + 0.35*math.Sin(2*math.Pi*phase)

			color := scaleColor(baseColor, clamp(shimmer, 0.2, 1.0))
			c := r.ctx.ApplyBrightness(color)

			startX := col * tile
			endX := min((col+1)*tile, width)
			startY := row * tile
			endY := min((row+1)*tile, height)

			innerStartX, innerEndX := startX, endX
			if col > 0 {
				innerStartX += effectiveBorder
			}
			if col < cols-1 {
				innerEndX -= effectiveBorder
			}
			innerStartY, innerEndY := startY, endY
			if row > 0 {
				innerStartY += effectiveBorder
			}
			if row < rows-1 {
				innerEndY -= effectiveBorder
			}

			if innerStartX >= innerEndX || innerStartY >= innerEndY {
				// Tile too small for a full ring; fill the whole cell.
				for y := startY; y < endY; y++ {
					for x := startX; x < endX; x++ {
						canvas.SetPixel(x, y, c[0], c[1], c[2])
					}
				}
				continue
			}

			for y := innerStartY; y < innerEndY; y++ {
				for x := innerStartX; x < innerEndX; x++ {
					canvas.SetPixel(x, y, c[0], c[1], c[2])
				}
			}
		}
	}
}

func (r *AnimationRenderer) renderPlasma(canvas driver.Canvas, colors []model.Color, flowSpeed, noiseScale float64) {
	if len(colors) == 0 ||
		math.IsNaN(flowSpeed) || math.IsInf(flowSpeed, 0) || flowSpeed <= 0 ||
		math.IsNaN(noiseScale) || math.IsInf(noiseScale, 0) || noiseScale <= 0 {
		return
	}

	width, height := max(r.ctx.Width, 1), max(r.ctx.Height, 1)
	invWidth := 1.0 / float64(width)
	invHeight := 1.0 / float64(height)
	scale := math.Max(noiseScale, 0.1)
	time := r.elapsed * flowSpeed
	ringScale := math.Max(scale*0.8, 0.2)

	for y := 0; y < height; y++ {
		ny := float64(y) * invHeight
		for x := 0; x < width; x++ {
			nx := float64(x) * invWidth

			cx := nx - 0.5
			cy := ny - 0.5
			radius := math.Sqrt(cx*cx + cy*cy)
			radiusNorm := math.Min(radius*2.0, 1.6)
			angle := math.Atan2(cy, cx)
			spin := angle + time*0.35

			swirlX := cx*math.Cos(spin) - cy*math.Sin(spin)
			swirlY := cx*math.Sin(spin) + cy*math.Cos(spin)

			fieldX := swirlX*scale*3.4 + time*0.6
			fieldY := swirlY*scale*3.4 - time*0.45

			base := fractalNoise(fieldX, fieldY, 4, 0.52, 2.1, 0x9e3779b9)
			polar := fractalNoise(
				radiusNorm*scale*4.8+time*0.35,
				spin*0.45+time*0.18,
				3, 0.6, 2.35, 0x85ebca77,
			)

			ringWave := math.Sin(radiusNorm*ringScale*6.0-time*0.9+spin*0.75)*0.5 + 0.5

			palettePosition := wrap01(base*0.5 + polar*0.35 + ringWave*0.15 + time*0.05)
			energy := clamp(base*0.45+polar*0.35+ringWave*0.2, 0, 1)
			shimmerPhase := wrap01(polar*0.6 + ringWave*0.4 + time*0.1)
			shimmer := math.Sin(2*math.Pi*shimmerPhase)*0.5 + 0.5
			brightness := 0.3 + 0.7*(0.65*energy+0.35*shimmer)

			color := scaleColor(samplePalette(colors, palettePosition), brightness)
			c := r.ctx.ApplyBrightness(color)
			canvas.SetPixel(x, y, c[0], c[1], c[2])
		}
	}
}
