package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Cult-DSP/LUSID/internal/convert"
	"github.com/Cult-DSP/LUSID/internal/scene"
)

// Scenario represents a conformance test case loaded from YAML.
type Scenario struct {
	// Name is the unique identifier for this scenario.
	// It also names the golden snapshot file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Document is a scene JSON file run through the parser.
	Document string `yaml:"document,omitempty"`

	// Records is a converter input file (.json or YAML) run through Convert.
	Records string `yaml:"records,omitempty"`

	// Options tune the parser or converter for this run.
	Options Options `yaml:"options,omitempty"`

	// Expect holds the checks applied to the outcome.
	Expect Expectation `yaml:"expect"`
}

// Options mirrors the tunables of the parser and the converter.
// Zero values fall back to the package defaults.
type Options struct {
	CoordinatePolicy string  `yaml:"coordinate_policy,omitempty"`
	CoordinateBound  float64 `yaml:"coordinate_bound,omitempty"`

	// Converter only.
	LFEDetection   string `yaml:"lfe_detection,omitempty"`
	LFEPosition    int    `yaml:"lfe_position,omitempty"`
	LFELabel       string `yaml:"lfe_label,omitempty"`
	TicksPerSecond int64  `yaml:"ticks_per_second,omitempty"`
	TimeUnit       string `yaml:"time_unit,omitempty"`
}

// Expectation lists what a run must produce. Nil fields are not checked.
type Expectation struct {
	// Error is the expected fatal error kind, for example MalformedDocument.
	Error string `yaml:"error,omitempty"`

	Frames     *int      `yaml:"frames,omitempty"`
	FrameTimes []float64 `yaml:"frame_times,omitempty"`

	// Diagnostics are codes that must each appear at least once.
	Diagnostics   []string `yaml:"diagnostics,omitempty"`
	NoDiagnostics bool     `yaml:"no_diagnostics,omitempty"`

	AudioObjectGroups   *[]int `yaml:"audio_object_groups,omitempty"`
	DirectSpeakerGroups *[]int `yaml:"direct_speaker_groups,omitempty"`
	HasLFE              *bool  `yaml:"has_lfe,omitempty"`
}

// LoadScenario reads and parses a YAML scenario file.
// Input paths are resolved relative to the scenario file's directory.
//
// Returns an error if:
//   - File cannot be read
//   - YAML is malformed
//   - Unknown fields are present (strict mode)
//   - Required fields are missing or the input file does not exist
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath loads a scenario file, resolving relative input
// paths against basePath instead of the scenario's own directory.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos in field names
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	scenario.Document = resolvePath(scenario.Document, basePath)
	scenario.Records = resolvePath(scenario.Records, basePath)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

func resolvePath(p, basePath string) string {
	if p == "" || filepath.IsAbs(p) || basePath == "" {
		return p
	}
	return filepath.Join(basePath, p)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case s.Document == "" && s.Records == "":
		return fmt.Errorf("one of document or records is required")
	case s.Document != "" && s.Records != "":
		return fmt.Errorf("document and records are mutually exclusive")
	}

	input := s.Document
	if input == "" {
		input = s.Records
	}
	if _, err := os.Stat(input); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", input)
	}

	if _, err := scene.ParseCoordinatePolicy(s.Options.CoordinatePolicy); err != nil {
		return fmt.Errorf("options.coordinate_policy: %w", err)
	}
	if s.Options.CoordinateBound < 0 {
		return fmt.Errorf("options.coordinate_bound must be non-negative")
	}

	if s.Document != "" && s.Options.usesConverter() {
		return fmt.Errorf("options: converter options are not valid for a document scenario")
	}
	if s.Options.LFEDetection != "" {
		if _, err := convert.NewLFEDetector(s.Options.LFEDetection, s.Options.LFEPosition, s.Options.LFELabel); err != nil {
			return fmt.Errorf("options.lfe_detection: %w", err)
		}
	}
	if s.Options.TimeUnit != "" {
		if _, ok := scene.ParseTimeUnit(s.Options.TimeUnit); !ok {
			return fmt.Errorf("options.time_unit: unknown unit %q", s.Options.TimeUnit)
		}
	}
	if s.Options.TicksPerSecond < 0 {
		return fmt.Errorf("options.ticks_per_second must be non-negative")
	}

	return validateExpectation(&s.Expect)
}

// validateExpectation rejects expectations that could never be met.
func validateExpectation(e *Expectation) error {
	if e.Error != "" {
		switch scene.ErrorKind(e.Error) {
		case scene.KindMalformedDocument, scene.KindMissingInitialKeyframe, scene.KindInvalidSampleRate:
		default:
			return fmt.Errorf("expect.error: unknown error kind %q", e.Error)
		}
	}

	if e.Frames != nil && *e.Frames < 0 {
		return fmt.Errorf("expect.frames must be non-negative")
	}

	if e.NoDiagnostics && len(e.Diagnostics) > 0 {
		return fmt.Errorf("expect: no_diagnostics conflicts with diagnostics")
	}

	for i, code := range e.Diagnostics {
		if code == "" {
			return fmt.Errorf("expect.diagnostics[%d]: code is required", i)
		}
	}

	return nil
}

func (o Options) usesConverter() bool {
	return o.LFEDetection != "" || o.LFEPosition != 0 || o.LFELabel != "" ||
		o.TicksPerSecond != 0 || o.TimeUnit != ""
}
