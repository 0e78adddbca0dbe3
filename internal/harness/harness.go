package harness

import (
	"fmt"
	"log/slog"

	"github.com/Cult-DSP/LUSID/internal/convert"
	"github.com/Cult-DSP/LUSID/internal/parser"
	"github.com/Cult-DSP/LUSID/internal/scene"
)

// Harness runs scenarios with a shared logger.
type Harness struct {
	logger *slog.Logger
}

// New returns a harness that logs every diagnostic to logger at debug level.
// A nil logger discards.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a discarding logger.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run executes a test scenario and returns the result.
//
// A fatal scene error (MalformedDocument, MissingInitialKeyframe,
// InvalidSampleRate) is an outcome, recorded in Result.ErrorKind and checked
// against expect.error. Any other failure, such as an unreadable input file,
// is returned as an error.
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	logger := h.logger.With(slog.String("scenario", scenario.Name))

	var (
		sc    *scene.Scene
		diags scene.Diagnostics
		err   error
	)
	switch {
	case scenario.Document != "":
		sc, diags, err = parser.ParseFile(scenario.Document, scenario.Options.parserOptions(logger))
	case scenario.Records != "":
		sc, diags, err = h.convert(scenario, logger)
	default:
		return nil, fmt.Errorf("scenario %q has no input", scenario.Name)
	}

	result := NewResult()
	if err != nil {
		kind := scene.KindOf(err)
		if kind == "" {
			return nil, fmt.Errorf("failed to run scenario %q: %w", scenario.Name, err)
		}
		result.ErrorKind = string(kind)
	}
	if diags != nil {
		result.Diagnostics = diags
	}

	if sc != nil {
		fp, err := scene.Fingerprint(sc)
		if err != nil {
			return nil, fmt.Errorf("failed to fingerprint scene: %w", err)
		}
		result.Scene = sc
		result.Fingerprint = fp
	}

	for _, msg := range EvaluateExpectations(result, scenario.Expect) {
		result.AddError(msg)
	}

	logger.Debug("scenario finished",
		slog.Bool("pass", result.Pass),
		slog.Int("diagnostics", len(result.Diagnostics)),
		slog.String("error_kind", result.ErrorKind),
	)
	return result, nil
}

func (h *Harness) convert(scenario *Scenario, logger *slog.Logger) (*scene.Scene, scene.Diagnostics, error) {
	in, err := convert.LoadInput(scenario.Records)
	if err != nil {
		return nil, nil, err
	}
	opts, err := scenario.Options.convertOptions(logger)
	if err != nil {
		return nil, nil, err
	}
	return convert.Convert(*in, opts)
}

func (o Options) parserOptions(logger *slog.Logger) parser.Options {
	// Policy was checked when the scenario was loaded.
	policy, _ := scene.ParseCoordinatePolicy(o.CoordinatePolicy)
	return parser.Options{
		CoordinatePolicy: policy,
		CoordinateBound:  o.CoordinateBound,
		Logger:           logger,
	}
}

func (o Options) convertOptions(logger *slog.Logger) (convert.Options, error) {
	policy, err := scene.ParseCoordinatePolicy(o.CoordinatePolicy)
	if err != nil {
		return convert.Options{}, err
	}
	detector, err := convert.NewLFEDetector(o.LFEDetection, o.LFEPosition, o.LFELabel)
	if err != nil {
		return convert.Options{}, err
	}
	unit := scene.Seconds
	if o.TimeUnit != "" {
		u, ok := scene.ParseTimeUnit(o.TimeUnit)
		if !ok {
			return convert.Options{}, fmt.Errorf("unknown time unit %q", o.TimeUnit)
		}
		unit = u
	}
	return convert.Options{
		LFE:              detector,
		TicksPerSecond:   o.TicksPerSecond,
		TimeUnit:         unit,
		CoordinatePolicy: policy,
		CoordinateBound:  o.CoordinateBound,
		Logger:           logger,
	}, nil
}
