package render

import (
	"math"

	"github.com/coreman2200/funtimes-ledmatrix/internal/model"
)

// Shared procedural math. Everything here is a pure function of its inputs so
// identical coordinates and times always reproduce identical output.

// samplePalette maps position in [0,1) onto the palette, interpolating
// linearly between neighbours and wrapping the last entry back to the first.
func samplePalette(colors []model.Color, position float64) model.Color {
	switch len(colors) {
	case 0:
		return model.Color{}
	case 1:
		return colors[0]
	default:
		pos := clamp(position, 0, 0.9999) * float64(len(colors))
		idx := int(math.Floor(pos))
		frac := pos - float64(idx)
		next := (idx + 1) % len(colors)
		return model.Color{
			lerpChannel(colors[idx][0], colors[next][0], frac),
			lerpChannel(colors[idx][1], colors[next][1], frac),
			lerpChannel(colors[idx][2], colors[next][2], frac),
		}
	}
}

func lerpChannel(a, b uint8, t float64) uint8 {
	v := math.Round(float64(a)*(1-t) + float64(b)*t)
	return uint8(clamp(v, 0, 255))
}

// scaleColor multiplies each channel by factor (clamped to [0,1]),
// truncating.
func scaleColor(c model.Color, factor float64) model.Color {
	f := clamp(factor, 0, 1)
	return model.Color{
		uint8(float64(c[0]) * f),
		uint8(float64(c[1]) * f),
		uint8(float64(c[2]) * f),
	}
}

// triangleWave rises 0→1 over [0,0.5) and falls 1→0 over [0.5,1).
func triangleWave(t float64) float64 {
	if t < 0.5 {
		return t * 2
	}
	return (1 - t) * 2
}

// pseudoRandom is an xorshift hash of the seed normalized to [0,1).
func pseudoRandom(seed uint32) float64 {
	x := seed
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return fract(float64(x) / float64(math.MaxUint32))
}

// tileSeed decorrelates adjacent cells with two large odd multipliers.
func tileSeed(row, col uint32) uint32 {
	return row*73856093 ^ col*19349663
}

func fract(v float64) float64 { return v - math.Floor(v) }

func wrap01(v float64) float64 {
	v = math.Mod(v, 1)
	if v < 0 {
		v++
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func smoothstep(t float64) float64 {
	t = clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// hashCoords hashes an integer lattice point with a salt into [0,1].
func hashCoords(x, y int32, salt uint32) float64 {
	n := uint32(x)
	n = n*374761393 + (uint32(y) ^ 668265263)
	n ^= n >> 13
	n ^= n << 17
	n ^= n >> 5
	n ^= salt
	return clamp(float64(n)/float64(math.MaxUint32), 0, 1)
}

// valueNoise is salted lattice noise: hash the four surrounding corners,
// smooth the fractional offsets, interpolate bilinearly.
func valueNoise(x, y float64, salt uint32) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	sx := smoothstep(x - x0)
	sy := smoothstep(y - y0)

	n00 := hashCoords(int32(x0), int32(y0), salt)
	n10 := hashCoords(int32(x0)+1, int32(y0), salt)
	n01 := hashCoords(int32(x0), int32(y0)+1, salt)
	n11 := hashCoords(int32(x0)+1, int32(y0)+1, salt)

	ix0 := lerp(n00, n10, sx)
	ix1 := lerp(n01, n11, sx)
	return lerp(ix0, ix1, sy)
}

// fractalNoise sums octaves of valueNoise at rising frequency and falling
// amplitude, normalized back to [0,1].
func fractalNoise(x, y float64, octaves int, persistence, lacunarity float64, salt uint32) float64 {
	if octaves <= 0 {
		return 0
	}
	amplitude := 1.0
	frequency := 1.0
	maxAmplitude := 0.0
	total := 0.0
	for o := 0; o < octaves; o++ {
		total += valueNoise(x*frequency, y*frequency, salt+uint32(o)) * amplitude
		maxAmplitude += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if maxAmplitude <= 1e-9 {
		return 0
	}
	return clamp(total/maxAmplitude, 0, 1)
}
