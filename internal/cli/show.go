package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Cult-DSP/LUSID/internal/scene"
	"github.com/Cult-DSP/LUSID/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	DBPath   string
	Document bool
}

// SceneDetail is the payload of show for a single scene.
type SceneDetail struct {
	store.SceneSummary
	Groups         map[string][]int  `json:"groups"`
	DiagnosticList scene.Diagnostics `json:"diagnostic_list"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [fingerprint]",
		Short: "List stored scenes or show one",
		Long: `Without arguments, list every scene in the catalog in import order.

With a fingerprint (or a unique prefix of one), show the scene's summary,
the groups holding each node type and the diagnostics recorded at import.
--document prints the stored scene document instead.

Examples:
  lusid show
  lusid show 3fa9c2
  lusid show 3fa9c2 --document > scene.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runList(opts, cmd)
			}
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "catalog database (default [store] path)")
	cmd.Flags().BoolVar(&opts.Document, "document", false, "print the stored scene document")

	return cmd
}

func runList(opts *ShowOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := opts.openStore(opts.DBPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open catalog", err)
	}
	defer st.Close()

	summaries, err := st.ListScenes(commandContext(cmd))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to list scenes", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(formatter.Writer, "No scenes stored.")
		return nil
	}

	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			strconv.FormatInt(s.Seq, 10),
			shortFingerprint(s.Fingerprint),
			s.Source,
			strconv.Itoa(s.FrameCount),
			fmt.Sprintf("%gs", s.Duration),
			strconv.Itoa(s.Diagnostics),
		}
	}
	headers := []string{"#", "Fingerprint", "Source", "Frames", "Duration", "Diagnostics"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight}
	fmt.Fprintln(formatter.Writer, renderTable(formatter.Writer, headers, rows, aligns))
	return nil
}

func runShow(opts *ShowOptions, fingerprint string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := opts.openStore(opts.DBPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open catalog", err)
	}
	defer st.Close()

	if opts.Document {
		sc, err := st.LoadScene(ctx, fingerprint)
		if err != nil {
			return storeFailure(formatter, err)
		}
		return encodeScene(formatter.Writer, sc, false)
	}

	summary, err := st.Summary(ctx, fingerprint)
	if err != nil {
		return storeFailure(formatter, err)
	}
	detail := SceneDetail{SceneSummary: summary, Groups: map[string][]int{}}
	for _, t := range scene.NodeTypes {
		groups, err := st.Groups(ctx, summary.Fingerprint, t)
		if err != nil {
			return storeFailure(formatter, err)
		}
		if len(groups) > 0 {
			detail.Groups[string(t)] = groups
		}
	}
	detail.DiagnosticList, err = st.Diagnostics(ctx, summary.Fingerprint)
	if err != nil {
		return storeFailure(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(detail)
	}

	rows := [][]string{
		{"Fingerprint", summary.Fingerprint},
		{"Seq", strconv.FormatInt(summary.Seq, 10)},
		{"Run", summary.RunID},
		{"Source", summary.Source},
		{"Version", summary.Version},
		{"Time unit", string(summary.TimeUnit)},
		{"Sample rate", formatSampleRate(summary.SampleRate)},
		{"Frames", strconv.Itoa(summary.FrameCount)},
		{"Duration", fmt.Sprintf("%gs", summary.Duration)},
	}
	for _, t := range scene.NodeTypes {
		if groups, ok := detail.Groups[string(t)]; ok {
			rows = append(rows, []string{"Groups: " + string(t), formatGroups(groups)})
		}
	}
	fmt.Fprintln(formatter.Writer, renderTable(formatter.Writer, []string{"Field", "Value"}, rows, nil))
	writeDiagnostics(formatter.Writer, detail.DiagnosticList)
	return nil
}

func storeFailure(formatter *OutputFormatter, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return formatter.Fail(ExitFailure, ErrCodeNotFound, "scene not found", err)
	}
	return formatter.Fail(ExitCommandError, ErrCodeStore, "catalog query failed", err)
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}
