package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// AnimationPreset enumerates the procedural animation presets.
type AnimationPreset string

const (
	PresetPulse         AnimationPreset = "Pulse"
	PresetPaletteWave   AnimationPreset = "PaletteWave"
	PresetDualPulse     AnimationPreset = "DualPulse"
	PresetColorFade     AnimationPreset = "ColorFade"
	PresetStrobe        AnimationPreset = "Strobe"
	PresetSparkle       AnimationPreset = "Sparkle"
	PresetMosaicTwinkle AnimationPreset = "MosaicTwinkle"
	PresetPlasma        AnimationPreset = "Plasma"
)

// AnimationContent holds the preset tag plus the union of per-preset
// parameters. JSON is internally tagged:
// {"preset":"Pulse","colors":[...],"cycle_ms":2000}.
type AnimationContent struct {
	Preset AnimationPreset `json:"preset"`
	Colors []Color         `json:"colors"`

	// Pulse / PaletteWave / DualPulse
	CycleMs     int     `json:"cycle_ms,omitempty"`
	WaveCount   int     `json:"wave_count,omitempty"`
	PhaseOffset float64 `json:"phase_offset,omitempty"`

	// ColorFade
	DriftSpeed float64 `json:"drift_speed,omitempty"`

	// Strobe
	FlashMs             int     `json:"flash_ms,omitempty"`
	FadeMs              int     `json:"fade_ms,omitempty"`
	Randomize           bool    `json:"randomize,omitempty"`
	RandomizationFactor float64 `json:"randomization_factor,omitempty"`

	// Sparkle
	Density   float64 `json:"density,omitempty"`
	TwinkleMs int     `json:"twinkle_ms,omitempty"`

	// MosaicTwinkle / Plasma
	TileSize    int     `json:"tile_size,omitempty"`
	FlowSpeed   float64 `json:"flow_speed,omitempty"`
	BorderSize  int     `json:"border_size,omitempty"`
	BorderColor Color   `json:"border_color,omitempty"`
	NoiseScale  float64 `json:"noise_scale,omitempty"`
}

func (a *AnimationContent) UnmarshalJSON(data []byte) error {
	type raw AnimationContent
	var tmp raw
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*a = AnimationContent(tmp)
	a.applyDefaults()
	return nil
}

// applyDefaults fills the preset-specific zero values with the defaults the
// web UI relies on.
func (a *AnimationContent) applyDefaults() {
	switch a.Preset {
	case PresetPulse:
		if a.CycleMs == 0 {
			a.CycleMs = 2000
		}
	case PresetPaletteWave:
		if a.CycleMs == 0 {
			a.CycleMs = 2000
		}
		if a.WaveCount == 0 {
			a.WaveCount = 3
		}
	case PresetDualPulse:
		if a.CycleMs == 0 {
			a.CycleMs = 2000
		}
		if a.PhaseOffset == 0 {
			a.PhaseOffset = 0.5
		}
	case PresetColorFade:
		if a.DriftSpeed == 0 {
			a.DriftSpeed = 0.25
		}
	case PresetStrobe:
		if a.FlashMs == 0 {
			a.FlashMs = 180
		}
		if a.FadeMs == 0 {
			a.FadeMs = 220
		}
		if a.RandomizationFactor == 0 {
			a.RandomizationFactor = 0.35
		}
	case PresetSparkle:
		if a.Density == 0 {
			a.Density = 0.12
		}
		if a.TwinkleMs == 0 {
			a.TwinkleMs = 600
		}
	case PresetMosaicTwinkle:
		if a.TileSize == 0 {
			a.TileSize = 1
		}
		if a.FlowSpeed == 0 {
			a.FlowSpeed = 0.35
		}
		if a.BorderColor == (Color{}) {
			a.BorderColor = Color{50, 0, 0}
		}
	case PresetPlasma:
		if a.FlowSpeed == 0 {
			a.FlowSpeed = 1.85
		}
		if a.NoiseScale == 0 {
			a.NoiseScale = 1.75
		}
	}
}

// Validate checks the preset parameters. Called at item construction time;
// renderers assume animations they receive already passed.
func (a *AnimationContent) Validate() error {
	if len(a.Colors) == 0 {
		return fmt.Errorf("animation presets require at least one color")
	}

	switch a.Preset {
	case PresetPulse, PresetPaletteWave, PresetDualPulse:
		if a.CycleMs <= 0 {
			return fmt.Errorf("cycle_ms must be greater than zero")
		}
	case PresetColorFade:
		if !isFinitePositive(a.DriftSpeed) {
			return fmt.Errorf("drift_speed must be a positive finite value")
		}
	case PresetStrobe:
		if a.FlashMs <= 0 {
			return fmt.Errorf("flash_ms must be greater than zero")
		}
		if a.FadeMs <= 0 {
			return fmt.Errorf("fade_ms must be greater than zero")
		}
		if math.IsNaN(a.RandomizationFactor) || math.IsInf(a.RandomizationFactor, 0) ||
			a.RandomizationFactor < 0 || a.RandomizationFactor > 1 {
			return fmt.Errorf("randomization_factor must be between 0.0 and 1.0")
		}
	case PresetSparkle:
		if !isFinitePositive(a.Density) || a.Density > 1 {
			return fmt.Errorf("density must be in the range (0, 1]")
		}
		if a.TwinkleMs <= 0 {
			return fmt.Errorf("twinkle_ms must be greater than zero")
		}
	case PresetMosaicTwinkle:
		if a.TileSize < 1 {
			return fmt.Errorf("tile_size must be at least 1")
		}
		if !isFinitePositive(a.FlowSpeed) {
			return fmt.Errorf("flow_speed must be a positive finite value")
		}
		if a.BorderSize > a.TileSize {
			return fmt.Errorf("border_size must be less than or equal to tile_size")
		}
	case PresetPlasma:
		if !isFinitePositive(a.FlowSpeed) {
			return fmt.Errorf("flow_speed must be a positive finite value")
		}
		if !isFinitePositive(a.NoiseScale) {
			return fmt.Errorf("noise_scale must be a positive finite value")
		}
	default:
		return fmt.Errorf("unknown animation preset %q", a.Preset)
	}

	switch a.Preset {
	case PresetPaletteWave:
		if a.WaveCount < 1 {
			return fmt.Errorf("wave_count must be at least 1")
		}
	case PresetDualPulse:
		if math.IsNaN(a.PhaseOffset) || math.IsInf(a.PhaseOffset, 0) {
			return fmt.Errorf("phase_offset must be finite")
		}
	}
	return nil
}

func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
