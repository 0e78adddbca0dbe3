package scene

import (
	"math"
	"strings"
)

// TimeUnit is the unit frame times are written in.
type TimeUnit string

const (
	Seconds      TimeUnit = "seconds"
	Milliseconds TimeUnit = "milliseconds"
	Samples      TimeUnit = "samples"
)

var timeUnitAliases = map[string]TimeUnit{
	"seconds":      Seconds,
	"s":            Seconds,
	"milliseconds": Milliseconds,
	"ms":           Milliseconds,
	"samples":      Samples,
	"samp":         Samples,
}

// ParseTimeUnit resolves a unit name or alias, ignoring case and
// surrounding whitespace.
func ParseTimeUnit(s string) (TimeUnit, bool) {
	u, ok := timeUnitAliases[strings.ToLower(strings.TrimSpace(s))]
	return u, ok
}

// ToSeconds converts v from u to seconds.
func (u TimeUnit) ToSeconds(v float64, sampleRate int) (float64, error) {
	switch u {
	case Milliseconds:
		return v / 1000, nil
	case Samples:
		if sampleRate <= 0 {
			return 0, NewInvalidSampleRateError(sampleRate)
		}
		return v / float64(sampleRate), nil
	default:
		return v, nil
	}
}

// FromSeconds converts seconds to u. For milliseconds and samples it returns
// a value that ToSeconds maps back to exactly s whenever one exists near
// the naive product, so encoding a parsed scene reproduces its times.
func (u TimeUnit) FromSeconds(s float64, sampleRate int) (float64, error) {
	var factor float64
	switch u {
	case Milliseconds:
		factor = 1000
	case Samples:
		if sampleRate <= 0 {
			return 0, NewInvalidSampleRateError(sampleRate)
		}
		factor = float64(sampleRate)
	default:
		return s, nil
	}

	naive := s * factor
	for _, c := range preimageCandidates(naive) {
		if back, _ := u.ToSeconds(c, sampleRate); back == s {
			return c, nil
		}
	}
	return naive, nil
}

// preimageCandidates lists values near v, short decimal forms first.
func preimageCandidates(v float64) []float64 {
	out := make([]float64, 0, 12)
	if r := math.Round(v); math.Abs(r-v) < 1e-6 {
		out = append(out, r)
	}
	out = append(out, math.Round(v*1e9)/1e9, v)
	up, down := v, v
	for range 4 {
		up = math.Nextafter(up, math.Inf(1))
		down = math.Nextafter(down, math.Inf(-1))
		out = append(out, up, down)
	}
	return out
}
