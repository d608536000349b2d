package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

func TestSamplePaletteEmpty(t *testing.T) {
	assert.Equal(t, model.Color{0, 0, 0}, samplePalette(nil, 0.5))
}

func TestSamplePaletteSingleColor(t *testing.T) {
	c := model.Color{12, 34, 56}
	for _, pos := range []float64{0, 0.25, 0.5, 0.99} {
		assert.Equal(t, c, samplePalette([]model.Color{c}, pos))
	}
}

func TestSamplePaletteInterpolates(t *testing.T) {
	palette := []model.Color{{0, 0, 0}, {200, 100, 50}}
	mid := samplePalette(palette, 0.25) // quarter into the first of two segments
	assert.Equal(t, model.Color{100, 50, 25}, mid)
}

func TestSamplePaletteWrapContinuity(t *testing.T) {
	palette := []model.Color{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}
	nearEnd := samplePalette(palette, 0.9999)
	atStart := samplePalette(palette, 0.0)
	// The last segment interpolates back toward the first color.
	for ch := 0; ch < 3; ch++ {
		diff := int(nearEnd[ch]) - int(atStart[ch])
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, 1, "channel %d", ch)
	}
}

func TestTriangleWave(t *testing.T) {
	assert.Equal(t, 0.0, triangleWave(0))
	assert.Equal(t, 1.0, triangleWave(0.5))
	assert.InDelta(t, 0.0, triangleWave(0.9999), 0.001)
	assert.Equal(t, 0.5, triangleWave(0.25))
	assert.Equal(t, 0.5, triangleWave(0.75))
}

func TestPseudoRandomDeterministicAndBounded(t *testing.T) {
	for seed := uint32(0); seed < 5000; seed += 7 {
		v := pseudoRandom(seed)
		require.Equal(t, v, pseudoRandom(seed))
		require.GreaterOrEqual(t, v, 0.0)
		require.Less(t, v, 1.0)
	}
}

func TestTileSeedDecorrelatesNeighbours(t *testing.T) {
	assert.NotEqual(t, tileSeed(0, 1), tileSeed(1, 0))
	assert.NotEqual(t, tileSeed(3, 4), tileSeed(4, 3))
	assert.NotEqual(t, tileSeed(10, 10), tileSeed(10, 11))
}

func TestScaleColorTruncates(t *testing.T) {
	assert.Equal(t, model.Color{127, 63, 31}, scaleColor(model.Color{255, 127, 63}, 0.5))
	assert.Equal(t, model.Color{0, 0, 0}, scaleColor(model.Color{255, 255, 255}, 0))
	assert.Equal(t, model.Color{255, 255, 255}, scaleColor(model.Color{255, 255, 255}, 2.0))
}

func TestValueNoiseBounded(t *testing.T) {
	for _, salt := range []uint32{0x9e3779b9, 0x85ebca77, 1} {
		for i := 0; i < 200; i++ {
			x := float64(i) * 0.37
			y := float64(i) * 0.53
			v := valueNoise(x, y, salt)
			require.GreaterOrEqual(t, v, 0.0)
			require.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestFractalNoiseBoundedAndDeterministic(t *testing.T) {
	v1 := fractalNoise(1.3, 2.7, 4, 0.52, 2.1, 0x9e3779b9)
	v2 := fractalNoise(1.3, 2.7, 4, 0.52, 2.1, 0x9e3779b9)
	assert.Equal(t, v1, v2)
	assert.GreaterOrEqual(t, v1, 0.0)
	assert.LessOrEqual(t, v1, 1.0)

	assert.Equal(t, 0.0, fractalNoise(1.0, 1.0, 0, 0.5, 2.0, 1))
}

func TestWrap01(t *testing.T) {
	assert.Equal(t, 0.25, wrap01(1.25))
	assert.InDelta(t, 0.75, wrap01(-0.25), 1e-9)
	assert.Equal(t, 0.0, wrap01(3.0))
}
