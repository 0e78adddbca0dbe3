package convert

import (
	"fmt"
	"strings"
)

// LFE detection strategies, as named in configuration.
const (
	StrategyFixedIndex = "fixed_index"
	StrategyLabel      = "label"
)

// DefaultLFEPosition is the bed position conventionally carrying LFE.
const DefaultLFEPosition = 4

// DefaultLFELabel is matched by the label strategy.
const DefaultLFELabel = "lfe"

// LFEDetector decides which bed channel is emitted as an LFE node instead
// of a direct speaker. Position is the channel's 1-based place in input order.
type LFEDetector interface {
	IsLFE(position int, rec DirectSpeakerRecord) bool
	Name() string
}

// FixedIndexDetector treats the channel at one position as LFE, whatever
// its label says.
type FixedIndexDetector struct {
	Position int
}

func (d FixedIndexDetector) IsLFE(position int, _ DirectSpeakerRecord) bool {
	return position == d.Position
}

func (d FixedIndexDetector) Name() string {
	return fmt.Sprintf("%s(%d)", StrategyFixedIndex, d.Position)
}

// LabelDetector treats a channel as LFE when its speaker label or name
// contains Substring, ignoring case.
type LabelDetector struct {
	Substring string
}

func (d LabelDetector) IsLFE(_ int, rec DirectSpeakerRecord) bool {
	needle := strings.ToLower(d.Substring)
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(rec.SpeakerLabel), needle) ||
		strings.Contains(strings.ToLower(rec.Name), needle)
}

func (d LabelDetector) Name() string {
	return fmt.Sprintf("%s(%q)", StrategyLabel, d.Substring)
}

// NewLFEDetector builds the strategy named by cfg. Empty strategy means
// fixed index; a non-positive position or empty label takes the default.
func NewLFEDetector(strategy string, position int, label string) (LFEDetector, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case StrategyFixedIndex, "":
		if position <= 0 {
			position = DefaultLFEPosition
		}
		return FixedIndexDetector{Position: position}, nil
	case StrategyLabel:
		if strings.TrimSpace(label) == "" {
			label = DefaultLFELabel
		}
		return LabelDetector{Substring: label}, nil
	default:
		return nil, fmt.Errorf("lfe detection %q: want %s or %s", strategy, StrategyFixedIndex, StrategyLabel)
	}
}
