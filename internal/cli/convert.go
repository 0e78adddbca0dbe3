package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Cult-DSP/LUSID/internal/convert"
)

// ConvertOptions holds flags for the convert command.
type ConvertOptions struct {
	*RootOptions
	Output      string
	Input       string // json | yaml; inferred from the extension when empty
	LFE         string
	LFEPosition int
	LFELabel    string
	TimeUnit    string
	Canonical   bool
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConvertOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "convert <records>",
		Short: "Convert extracted metadata records into a scene",
		Long: `Convert bed channel and object records into a LUSID scene document.

Bed channels take groups 1..N in orderIndex order; objects follow. The LFE
channel is chosen by position (fixed_index) or by speaker label (label).
Every object must have a keyframe at t=0.

Records are JSON when the file ends in .json, YAML otherwise. Use "-" with
--input to read from standard input.

Examples:
  lusid convert records.yaml -o scene.json
  lusid convert records.json --lfe label --lfe-label sub
  lusid convert - --input json < records.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.Input, "input", "", "records format (json|yaml)")
	cmd.Flags().StringVar(&opts.LFE, "lfe", "", "LFE detection (fixed_index|label)")
	cmd.Flags().IntVar(&opts.LFEPosition, "lfe-position", 0, "1-based bed position treated as LFE by fixed_index")
	cmd.Flags().StringVar(&opts.LFELabel, "lfe-label", "", "label substring matched by label detection")
	cmd.Flags().StringVar(&opts.TimeUnit, "time-unit", "", "time unit of the written document (seconds|milliseconds|samples)")
	cmd.Flags().BoolVar(&opts.Canonical, "canonical", false, "write canonical JSON (sorted keys, no whitespace)")

	return cmd
}

func runConvert(opts *ConvertOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg := *opts.Config()
	if opts.LFE != "" {
		cfg.Converter.LFEDetection = opts.LFE
	}
	if opts.LFEPosition != 0 {
		cfg.Converter.LFEPosition = opts.LFEPosition
	}
	if opts.LFELabel != "" {
		cfg.Converter.LFELabel = opts.LFELabel
	}
	if opts.TimeUnit != "" {
		cfg.Converter.TimeUnit = opts.TimeUnit
	}
	copts, err := convertOptions(&cfg, opts.Logger())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "invalid converter options", err)
	}

	in, err := opts.loadRecords(cmd, path, opts.Input)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidInput, "failed to load records", err)
	}

	sc, diags, err := convert.Convert(*in, copts)
	if err != nil {
		return formatter.SceneError(err)
	}
	formatter.VerboseLog("Converted %s with %s: %d frame(s)", path, copts.LFE.Name(), sc.FrameCount())

	write := func(w io.Writer) error { return encodeScene(w, sc, opts.Canonical) }
	if err := writeOutput(cmd, opts.Output, write); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write document", err)
	}

	if formatter.Format != "json" {
		writeDiagnostics(formatter.GetErrWriter(), diags)
	}
	return nil
}

// loadRecords decodes converter input from path ("-" for stdin). format
// overrides the extension-based choice between JSON and YAML.
func (o *RootOptions) loadRecords(cmd *cobra.Command, path, format string) (*convert.Input, error) {
	switch strings.ToLower(format) {
	case "":
		if path != "-" {
			return convert.LoadInput(path)
		}
		format = "yaml"
	case "json", "yaml", "yml":
	default:
		return nil, fmt.Errorf("unknown records format %q", format)
	}

	r, err := openInput(cmd, path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if strings.EqualFold(format, "json") {
		return convert.DecodeJSON(r)
	}
	return convert.DecodeYAML(r)
}
