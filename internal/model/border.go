package model

import (
	"encoding/json"
	"fmt"
)

// BorderKind enumerates the border effect variants.
type BorderKind string

const (
	BorderNone     BorderKind = "None"
	BorderRainbow  BorderKind = "Rainbow"
	BorderPulse    BorderKind = "Pulse"
	BorderSparkle  BorderKind = "Sparkle"
	BorderGradient BorderKind = "Gradient"
)

// BorderEffect is an externally tagged variant: {"None":null}, {"Rainbow":null},
// or {"Pulse":{"colors":[...]}} and friends.
type BorderEffect struct {
	Kind   BorderKind
	Colors []Color
}

type borderColors struct {
	Colors []Color `json:"colors"`
}

func (b BorderEffect) MarshalJSON() ([]byte, error) {
	switch b.Kind {
	case BorderNone, BorderRainbow:
		return json.Marshal(map[string]any{string(b.Kind): nil})
	case BorderPulse, BorderSparkle, BorderGradient:
		return json.Marshal(map[string]borderColors{string(b.Kind): {Colors: b.Colors}})
	default:
		return nil, fmt.Errorf("unknown border effect %q", b.Kind)
	}
}

func (b *BorderEffect) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	if len(m) != 1 {
		return fmt.Errorf("border effect must have exactly one variant, got %d", len(m))
	}
	for key, raw := range m {
		kind := BorderKind(key)
		switch kind {
		case BorderNone, BorderRainbow:
			b.Kind = kind
			b.Colors = nil
			return nil
		case BorderPulse, BorderSparkle, BorderGradient:
			var payload borderColors
			if len(raw) > 0 && string(raw) != "null" {
				if err := json.Unmarshal(raw, &payload); err != nil {
					return err
				}
			}
			b.Kind = kind
			b.Colors = payload.Colors
			return nil
		default:
			return fmt.Errorf("unknown border effect %q", key)
		}
	}
	return fmt.Errorf("empty border effect")
}
