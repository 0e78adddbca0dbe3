package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

// SceneReport summarizes a scene for display.
type SceneReport struct {
	Fingerprint         string            `json:"fingerprint"`
	Version             string            `json:"version"`
	TimeUnit            string            `json:"time_unit"`
	SampleRate          int               `json:"sample_rate,omitempty"`
	Duration            float64           `json:"duration"`
	Frames              int               `json:"frames"`
	Nodes               map[string]int    `json:"nodes"`
	AudioObjectGroups   []int             `json:"audio_object_groups"`
	DirectSpeakerGroups []int             `json:"direct_speaker_groups"`
	HasLFE              bool              `json:"has_lfe"`
	Diagnostics         scene.Diagnostics `json:"diagnostics"`
}

func newSceneReport(sc *scene.Scene, diags scene.Diagnostics) (SceneReport, error) {
	fp, err := scene.Fingerprint(sc)
	if err != nil {
		return SceneReport{}, err
	}
	nodes := make(map[string]int, len(scene.NodeTypes))
	for t, n := range sc.NodeCounts() {
		nodes[string(t)] = n
	}
	if diags == nil {
		diags = scene.Diagnostics{}
	}
	return SceneReport{
		Fingerprint:         fp,
		Version:             sc.Version,
		TimeUnit:            string(sc.TimeUnit),
		SampleRate:          sc.SampleRate,
		Duration:            sc.DurationSeconds(),
		Frames:              sc.FrameCount(),
		Nodes:               nodes,
		AudioObjectGroups:   sc.AudioObjectGroups(),
		DirectSpeakerGroups: sc.DirectSpeakerGroups(),
		HasLFE:              sc.HasLFE(),
		Diagnostics:         diags,
	}, nil
}

// writeSceneReport prints the report as a two-column table followed by
// the diagnostics table.
func writeSceneReport(w io.Writer, r SceneReport) {
	rows := [][]string{
		{"Fingerprint", r.Fingerprint},
		{"Version", r.Version},
		{"Time unit", r.TimeUnit},
		{"Sample rate", formatSampleRate(r.SampleRate)},
		{"Duration", fmt.Sprintf("%gs", r.Duration)},
		{"Frames", strconv.Itoa(r.Frames)},
	}
	for _, t := range scene.NodeTypes {
		if n := r.Nodes[string(t)]; n > 0 {
			rows = append(rows, []string{"Nodes: " + string(t), strconv.Itoa(n)})
		}
	}
	rows = append(rows,
		[]string{"Audio object groups", formatGroups(r.AudioObjectGroups)},
		[]string{"Direct speaker groups", formatGroups(r.DirectSpeakerGroups)},
		[]string{"LFE", strconv.FormatBool(r.HasLFE)},
	)
	fmt.Fprintln(w, renderTable(w, []string{"Field", "Value"}, rows, nil))
	writeDiagnostics(w, r.Diagnostics)
}

func formatSampleRate(rate int) string {
	if rate <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d Hz", rate)
}

func formatGroups(groups []int) string {
	if len(groups) == 0 {
		return "-"
	}
	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = strconv.Itoa(g)
	}
	return strings.Join(parts, ", ")
}

// openInput opens path for reading; "-" is standard input.
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return os.Open(path)
}

// writeOutput runs write against the file at path, or standard output when
// path is empty or "-". The file is only touched once write has succeeded.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// encodeScene writes sc as indented JSON, or canonical JSON when asked.
func encodeScene(w io.Writer, sc *scene.Scene, canonical bool) error {
	if !canonical {
		return sc.Encode(w, true)
	}
	data, err := scene.Canonical(sc)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
