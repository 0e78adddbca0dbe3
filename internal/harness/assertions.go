package harness

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

// frameTimeTolerance absorbs float noise in expected frame times.
const frameTimeTolerance = 1e-9

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Field    string // expect field that failed
	Expected string // human-readable expected outcome
	Actual   string // human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "expect.%s failed\n", e.Field)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateExpectations checks a result against every expectation set in
// expect and returns one message per failure.
//
// When a fatal error occurred, only error and diagnostics are meaningful;
// scene expectations then fail because there is no scene to inspect.
func EvaluateExpectations(result *Result, expect Expectation) []string {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	add(assertErrorKind(result.ErrorKind, expect.Error))
	add(assertDiagnostics(result.Diagnostics, expect))

	// Remaining checks need a scene.
	if result.Scene == nil {
		if expect.Frames != nil || expect.FrameTimes != nil || expect.AudioObjectGroups != nil ||
			expect.DirectSpeakerGroups != nil || expect.HasLFE != nil {
			errs = append(errs, (&AssertionError{
				Field:    "scene",
				Expected: "a scene",
				Actual:   "no scene (fatal error)",
			}).Error())
		}
		return errs
	}

	sc := result.Scene
	if expect.Frames != nil && sc.FrameCount() != *expect.Frames {
		add(&AssertionError{
			Field:    "frames",
			Expected: fmt.Sprintf("%d frames", *expect.Frames),
			Actual:   fmt.Sprintf("%d frames", sc.FrameCount()),
		})
	}
	if expect.FrameTimes != nil {
		add(assertFrameTimes(sc, expect.FrameTimes))
	}
	if expect.AudioObjectGroups != nil {
		add(assertGroups("audio_object_groups", sc.AudioObjectGroups(), *expect.AudioObjectGroups))
	}
	if expect.DirectSpeakerGroups != nil {
		add(assertGroups("direct_speaker_groups", sc.DirectSpeakerGroups(), *expect.DirectSpeakerGroups))
	}
	if expect.HasLFE != nil && sc.HasLFE() != *expect.HasLFE {
		add(&AssertionError{
			Field:    "has_lfe",
			Expected: fmt.Sprintf("%t", *expect.HasLFE),
			Actual:   fmt.Sprintf("%t", sc.HasLFE()),
		})
	}

	return errs
}

func assertErrorKind(actual, expected string) error {
	if actual == expected {
		return nil
	}
	return &AssertionError{
		Field:    "error",
		Expected: orNone(expected),
		Actual:   orNone(actual),
	}
}

func assertDiagnostics(diags scene.Diagnostics, expect Expectation) error {
	if expect.NoDiagnostics && len(diags) > 0 {
		return &AssertionError{
			Field:    "no_diagnostics",
			Expected: "no diagnostics",
			Actual:   strings.Join(diags.Codes(), ", "),
		}
	}

	var missing []string
	for _, code := range expect.Diagnostics {
		if !diags.Has(code) {
			missing = append(missing, code)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &AssertionError{
		Field:    "diagnostics",
		Expected: "codes " + strings.Join(expect.Diagnostics, ", "),
		Actual:   fmt.Sprintf("missing %s (got %s)", strings.Join(missing, ", "), orNone(strings.Join(diags.Codes(), ", "))),
	}
}

func assertFrameTimes(sc *scene.Scene, expected []float64) error {
	actual := make([]float64, len(sc.Frames))
	for i, f := range sc.Frames {
		actual[i] = f.Time
	}
	equal := slices.EqualFunc(actual, expected, func(a, b float64) bool {
		return math.Abs(a-b) <= frameTimeTolerance
	})
	if equal {
		return nil
	}
	return &AssertionError{
		Field:    "frame_times",
		Expected: fmt.Sprintf("%v", expected),
		Actual:   fmt.Sprintf("%v", actual),
	}
}

func assertGroups(field string, actual, expected []int) error {
	if slices.Equal(actual, expected) {
		return nil
	}
	return &AssertionError{
		Field:    field,
		Expected: fmt.Sprintf("%v", expected),
		Actual:   fmt.Sprintf("%v", actual),
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
