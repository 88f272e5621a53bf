package model

import "strings"

// ThinkingLevel is how much reasoning a Gemini model may do before it
// starts emitting the new state.
type ThinkingLevel int

// Thinking levels, from least to most reasoning.
const (
	ThinkingOff ThinkingLevel = iota
	ThinkingMinimal
	ThinkingLow
)

// String returns the level name.
func (l ThinkingLevel) String() string {
	switch l {
	case ThinkingOff:
		return "off"
	case ThinkingMinimal:
		return "minimal"
	case ThinkingLow:
		return "low"
	default:
		return "unknown"
	}
}

// Budget returns the thinking token budget that corresponds to the level.
func (l ThinkingLevel) Budget() int32 {
	switch l {
	case ThinkingMinimal:
		return 128
	case ThinkingLow:
		return 1024
	default:
		return 0
	}
}

// ThinkingFor returns the thinking level for a Gemini model.
//
// Gemini 3 models cannot turn thinking off: flash variants get minimal, the
// rest low. Older models run flash variants with thinking off and everything
// else with a minimal budget.
func ThinkingFor(name string) ThinkingLevel {
	lower := strings.ToLower(name)
	flash := strings.Contains(lower, "flash")

	if strings.Contains(lower, "gemini-3") {
		if flash {
			return ThinkingMinimal
		}
		return ThinkingLow
	}
	if flash {
		return ThinkingOff
	}
	return ThinkingMinimal
}
