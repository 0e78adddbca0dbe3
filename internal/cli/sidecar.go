package cli

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

// SidecarOptions holds flags for the sidecar command.
type SidecarOptions struct {
	*RootOptions
	Output  string
	Records bool
	Input   string
}

// NewSidecarCommand creates the sidecar command.
func NewSidecarCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SidecarOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sidecar <file>",
		Short: "Extract analysis data as per-group time series",
		Long: `Collect spectral_features and agent_state nodes into a JSON sidecar,
keyed by group and node type, with times in seconds.

Renderers only need the spatial nodes; the sidecar carries the rest.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSidecar(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.Records, "records", false, "treat the input as converter records")
	cmd.Flags().StringVar(&opts.Input, "input", "", "records format (json|yaml) with --records")

	return cmd
}

func runSidecar(opts *SidecarOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	var (
		sc  *scene.Scene
		err error
	)
	if opts.Records {
		sc, _, err = opts.convertInput(cmd, path, opts.Input)
	} else {
		sc, _, err = opts.parseInput(cmd, path, "")
	}
	if err != nil {
		return formatter.SceneError(err)
	}

	data, err := scene.MarshalValue(sc.Sidecar())
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "failed to encode sidecar", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return formatter.Fail(ExitFailure, ErrCodeGeneric, "failed to encode sidecar", err)
	}
	buf.WriteByte('\n')

	write := func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	}
	if err := writeOutput(cmd, opts.Output, write); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write sidecar", err)
	}
	return nil
}
