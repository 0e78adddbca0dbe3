package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

func decodeReport(t *testing.T, out string) SceneReport {
	t.Helper()
	var resp struct {
		Status string      `json:"status"`
		Data   SceneReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestParseText(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scene.json", sceneDoc)

	out, _, err := execute(t, "parse", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Fingerprint")
	assert.Contains(t, out, "Diagnostics (2):")
	assert.Contains(t, out, scene.CodeDuplicateNodeID)
	assert.Contains(t, out, scene.CodeCoordinateRange)
}

func TestParseJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scene.json", sceneDoc)

	out, _, err := execute(t, "--format", "json", "parse", path)
	require.NoError(t, err)

	report := decodeReport(t, out)
	assert.Equal(t, 2, report.Frames)
	assert.Equal(t, "seconds", report.TimeUnit)
	assert.Equal(t, 48000, report.SampleRate)
	assert.Equal(t, []int{11}, report.AudioObjectGroups)
	assert.Equal(t, []int{1}, report.DirectSpeakerGroups)
	assert.True(t, report.HasLFE)
	assert.Equal(t, []string{scene.CodeDuplicateNodeID, scene.CodeCoordinateRange}, report.Diagnostics.Codes())
	assert.Len(t, report.Fingerprint, 64)
}

func TestParseCoordinatePolicyFlag(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scene.json", sceneDoc)

	rejectOut, _, err := execute(t, "--format", "json", "parse", path)
	require.NoError(t, err)
	clampOut, _, err := execute(t, "--format", "json", "parse", path, "--coordinate-policy", "clamp")
	require.NoError(t, err)

	rejected := decodeReport(t, rejectOut)
	clamped := decodeReport(t, clampOut)
	assert.Equal(t, 1, rejected.Nodes[string(scene.TypeAudioObject)])
	assert.Equal(t, 2, clamped.Nodes[string(scene.TypeAudioObject)])
	assert.NotEqual(t, rejected.Fingerprint, clamped.Fingerprint)
}

func TestParseStdin(t *testing.T) {
	var stdout bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(sceneDoc))
	cmd.SetArgs([]string{"--config", writeFile(t, t.TempDir(), "lusid.toml", ""), "--format", "json", "parse", "-"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, 2, decodeReport(t, stdout.String()).Frames)
}

func TestParseMalformedDocument(t *testing.T) {
	path := writeFile(t, t.TempDir(), "list.json", `[1, 2, 3]`)

	out, _, err := execute(t, "parse", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [MalformedDocument]")
}

func TestParseMalformedDocumentJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "frames.json", `{"frames": 3}`)

	out, _, err := execute(t, "--format", "json", "parse", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(scene.KindMalformedDocument), resp.Error.Code)
}

func TestParseMissingFile(t *testing.T) {
	_, _, err := execute(t, "parse", "/nonexistent/scene.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestParseInvalidPolicy(t *testing.T) {
	path := writeFile(t, t.TempDir(), "scene.json", sceneDoc)

	_, _, err := execute(t, "parse", path, "--coordinate-policy", "wrap")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
