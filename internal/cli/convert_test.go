package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cult-DSP/LUSID/internal/parser"
	"github.com/Cult-DSP/LUSID/internal/scene"
)

func TestConvertRecords(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "records.yaml", recordsDoc)
	out := filepath.Join(dir, "scene.json")

	_, stderr, err := execute(t, "convert", in, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, scene.CodeSilentObject)

	sc, diags, err := parser.ParseFile(out, parser.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, 2, sc.FrameCount())
	assert.Equal(t, 48000, sc.SampleRate)
	assert.True(t, sc.HasLFE())
	assert.Equal(t, []int{1, 2, 3}, sc.DirectSpeakerGroups())
	assert.Len(t, sc.AudioObjectGroups(), 1)
}

func TestConvertLFEByLabel(t *testing.T) {
	in := writeFile(t, t.TempDir(), "records.yaml", recordsDoc)

	out, _, err := execute(t, "convert", in, "--lfe", "label", "--lfe-label", "rc_c")
	require.NoError(t, err)

	sc, _, err := parser.ParseReader(strings.NewReader(out), parser.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4}, sc.DirectSpeakerGroups())
	assert.Equal(t, []int{3}, sc.GroupsOf(scene.TypeLFE))
}

func TestConvertLFEPosition(t *testing.T) {
	in := writeFile(t, t.TempDir(), "records.yaml", recordsDoc)

	out, _, err := execute(t, "convert", in, "--lfe-position", "1")
	require.NoError(t, err)

	sc, _, err := parser.ParseReader(strings.NewReader(out), parser.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []int{1}, sc.GroupsOf(scene.TypeLFE))
	assert.Equal(t, []int{2, 3, 4}, sc.DirectSpeakerGroups())
}

func TestConvertTimeUnit(t *testing.T) {
	in := writeFile(t, t.TempDir(), "records.yaml", recordsDoc)

	out, _, err := execute(t, "convert", in, "--time-unit", "milliseconds", "--canonical")
	require.NoError(t, err)
	assert.Contains(t, out, `"timeUnit":"milliseconds"`)
	assert.Contains(t, out, `"time":1000`)
}

func TestConvertStdinJSON(t *testing.T) {
	records := `{"global": {"sampleRate": 48000}, "objects": [
  {"orderIndex": 1, "trajectory": [{"time": 0, "directionVector": [0, 1, 0]}]}
]}`
	var stdout bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(records))
	cmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "absent.toml"), "convert", "-", "--input", "json"})

	require.NoError(t, cmd.Execute())
	sc, _, err := parser.ParseReader(strings.NewReader(stdout.String()), parser.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, sc.FrameCount())
	assert.Equal(t, []int{1}, sc.AudioObjectGroups())
}

func TestConvertMissingInitialKeyframe(t *testing.T) {
	records := `objects:
  - orderIndex: 1
    trajectory:
      - time: 0.5
        directionVector: [0, 1, 0]
`
	in := writeFile(t, t.TempDir(), "late.yaml", records)

	out, _, err := execute(t, "--format", "json", "convert", in)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, string(scene.KindMissingInitialKeyframe))
}

func TestConvertRejectsUnknownFields(t *testing.T) {
	in := writeFile(t, t.TempDir(), "records.yaml", "global:\n  bitDepth: 24\n")

	out, _, err := execute(t, "convert", in)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeInvalidInput)
}

func TestConvertInvalidDetection(t *testing.T) {
	in := writeFile(t, t.TempDir(), "records.yaml", recordsDoc)

	_, _, err := execute(t, "convert", in, "--lfe", "loudest")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
