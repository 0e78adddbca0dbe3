package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

// FmtOptions holds flags for the fmt command.
type FmtOptions struct {
	*RootOptions
	Output           string
	Canonical        bool
	Clamp            float64
	TimeUnit         string
	CoordinatePolicy string
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FmtOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Rewrite a scene document in normalized form",
		Long: `Parse a scene document and write it back in normalized form.

Dropped nodes and frames stay dropped, duplicate ids keep the later node
and frames come out sorted by time. Diagnostics go to stderr.

Examples:
  lusid fmt scene.json -o clean.json
  lusid fmt scene.json --canonical
  lusid fmt scene.json --time-unit samples
  lusid fmt scene.json --coordinate-policy clamp`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.Canonical, "canonical", false, "write canonical JSON (sorted keys, no whitespace)")
	cmd.Flags().Float64Var(&opts.Clamp, "clamp", 0, "clamp every direction component into [-bound, bound] after parsing")
	cmd.Flags().StringVar(&opts.TimeUnit, "time-unit", "", "rewrite frame times in this unit (seconds|milliseconds|samples)")
	cmd.Flags().StringVar(&opts.CoordinatePolicy, "coordinate-policy", "", "out-of-range coordinates: reject or clamp")

	return cmd
}

func runFmt(opts *FmtOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	if opts.Clamp < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "--clamp must be non-negative", nil)
	}
	var unit scene.TimeUnit
	if opts.TimeUnit != "" {
		u, ok := scene.ParseTimeUnit(opts.TimeUnit)
		if !ok {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("unknown time unit %q", opts.TimeUnit), nil)
		}
		unit = u
	}

	sc, diags, err := opts.parseInput(cmd, path, opts.CoordinatePolicy)
	if err != nil {
		return formatter.SceneError(err)
	}

	if opts.Clamp > 0 {
		clamped, changed := sc.Clamp(opts.Clamp)
		for i, ids := range changed {
			formatter.VerboseLog("frames[%d]: clamped %v", i, ids)
		}
		sc = clamped
	}
	if unit != "" {
		if sc, err = withTimeUnit(sc, unit); err != nil {
			return formatter.SceneError(err)
		}
	}
	if sc.SampleRate <= 0 && formatter.Format != "json" {
		fmt.Fprintln(formatter.GetErrWriter(), "Warning: no sampleRate in output; lusid validate will reject it")
	}

	write := func(w io.Writer) error { return encodeScene(w, sc, opts.Canonical) }
	if err := writeOutput(cmd, opts.Output, write); err != nil {
		if scene.KindOf(err) != "" {
			return formatter.SceneError(err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write document", err)
	}

	if formatter.Format != "json" {
		writeDiagnostics(formatter.GetErrWriter(), diags)
	}
	return nil
}

// withTimeUnit returns a copy of sc declaring unit. Frames are shared.
func withTimeUnit(sc *scene.Scene, unit scene.TimeUnit) (*scene.Scene, error) {
	if unit == scene.Samples && sc.SampleRate <= 0 {
		return nil, scene.NewInvalidSampleRateError(sc.SampleRate)
	}
	out := *sc
	out.TimeUnit = unit
	return &out, nil
}
