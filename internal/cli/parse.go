package cli

import (
	"github.com/spf13/cobra"

	"github.com/Cult-DSP/LUSID/internal/parser"
	"github.com/Cult-DSP/LUSID/internal/scene"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	CoordinatePolicy string // overrides [parser] coordinate_policy
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a scene document and summarize it",
		Long: `Parse a LUSID scene document with the tolerant parser.

Prints a summary of the scene and every diagnostic raised while parsing.
Use "-" to read from standard input.

Exit codes:
  0 - Parsed (diagnostics do not fail the command)
  1 - Fatal error (MalformedDocument)
  2 - Command error (file not found, bad options)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CoordinatePolicy, "coordinate-policy", "", "out-of-range coordinates: reject or clamp")

	return cmd
}

func runParse(opts *ParseOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	sc, diags, err := opts.parseInput(cmd, path, opts.CoordinatePolicy)
	if err != nil {
		return formatter.SceneError(err)
	}
	formatter.VerboseLog("Parsed %s: %d frame(s), %d diagnostic(s)", path, sc.FrameCount(), len(diags))

	report, err := newSceneReport(sc, diags)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "failed to fingerprint scene", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(report)
	}
	writeSceneReport(formatter.Writer, report)
	return nil
}

// parseInput parses the document at path ("-" for stdin) using the
// configured parser options, with an optional policy override.
func (o *RootOptions) parseInput(cmd *cobra.Command, path, policy string) (*scene.Scene, scene.Diagnostics, error) {
	cfg := *o.Config()
	if policy != "" {
		cfg.Parser.CoordinatePolicy = policy
	}
	popts, err := parserOptions(&cfg, o.Logger())
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "invalid parser options", err)
	}

	r, err := openInput(cmd, path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open input", err)
	}
	defer r.Close()

	return parser.ParseReader(r, popts)
}
