package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// sceneDoc is a small tolerant-parse input with one duplicate id.
const sceneDoc = `{
  "version": "0.5",
  "sampleRate": 48000,
  "timeUnit": "seconds",
  "frames": [
    {"time": 0, "nodes": [
      {"id": "1.1", "type": "direct_speaker", "cart": [-1, 1, 0], "speakerLabel": "L", "channelID": "AC_00011001"},
      {"id": "4.1", "type": "LFE"},
      {"id": "11.1", "type": "audio_object", "cart": [0, 1, 0]},
      {"id": "11.1", "type": "audio_object", "cart": [0, 1, 0.5]},
      {"id": "11.2", "type": "spectral_features", "centroid": 5000}
    ]},
    {"time": 1.5, "nodes": [
      {"id": "11.1", "type": "audio_object", "cart": [2, 0, 0]}
    ]}
  ]
}`

// recordsDoc is converter input with a silent object and a bed LFE.
const recordsDoc = `global:
  sampleRate: 48000
directSpeakers:
  - orderIndex: 1
    speakerLabel: RC_L
    channelID: AC_00011001
    directionVector: [-1, 1, 0]
  - orderIndex: 2
    speakerLabel: RC_R
    channelID: AC_00011002
    directionVector: [1, 1, 0]
  - orderIndex: 3
    speakerLabel: RC_C
    channelID: AC_00011003
    directionVector: [0, 1, 0]
  - orderIndex: 4
    speakerLabel: RC_LFE
    channelID: AC_00011004
    directionVector: [0, 0, 0]
objects:
  - orderIndex: 1
    trajectory:
      - time: 0
        directionVector: [0, 1, 0]
      - time: 1
        directionVector: [1, 0, 0]
  - orderIndex: 2
    isSilent: true
    trajectory:
      - time: 0
        directionVector: [-1, 0, 0]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the root command with an isolated, absent config file.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	configPath := filepath.Join(t.TempDir(), "absent.toml")
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
