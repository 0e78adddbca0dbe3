package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

// GoldenDir is where golden snapshots live, relative to the test package.
const GoldenDir = "testdata/scenarios/golden"

// GoldenSuffix is the extension of golden snapshot files.
const GoldenSuffix = ".golden"

// Snapshot returns the canonical JSON snapshot of a scenario outcome,
// newline terminated:
//
//	{"diagnostics":["W120"],"scenario":"dedup-keep-last","scene":{...}}
//
// A run that ended in a fatal error carries "error" instead of "scene".
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	codes := make(scene.Array, len(result.Diagnostics))
	for i, d := range result.Diagnostics {
		codes[i] = scene.String(d.Code)
	}

	snap := scene.Object{
		"scenario":    scene.String(scenarioName),
		"diagnostics": codes,
	}
	if result.ErrorKind != "" {
		snap["error"] = scene.String(result.ErrorKind)
	}
	if result.Scene != nil {
		doc, err := result.Scene.Document()
		if err != nil {
			return nil, err
		}
		snap["scene"] = doc
	}

	data, err := scene.MarshalCanonical(snap)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/scenarios/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an already computed result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(GoldenSuffix),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
