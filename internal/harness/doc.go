// Package harness runs conformance scenarios against the parser and the
// metadata converter.
//
// # Scenario Format
//
// Scenarios are YAML files. Each names exactly one input, either a scene
// document or a converter records file, resolved relative to the scenario:
//
//	name: dedup-keep-last
//	description: "Duplicate ids in one frame keep the later node"
//	document: inputs/duplicate.json
//	options:
//	  coordinate_policy: clamp
//	expect:
//	  frames: 2
//	  diagnostics: [W120]
//	  audio_object_groups: [1]
//	  direct_speaker_groups: []
//	  has_lfe: false
//
// A converter scenario uses records instead of document and may set the
// LFE options:
//
//	name: bed-and-objects
//	description: "Beds at t=0, objects merged by time"
//	records: inputs/records.yaml
//	options:
//	  lfe_detection: label
//	expect:
//	  error: MissingInitialKeyframe
//
// # Expectations
//
// Every expect field is optional; a field left out is not checked.
//
//   - error: the fatal error kind the run must end with
//   - frames: exact frame count
//   - frame_times: exact frame times in seconds
//   - diagnostics: codes that must each appear at least once
//   - no_diagnostics: no diagnostic at all may be reported
//   - audio_object_groups, direct_speaker_groups: exact group lists
//   - has_lfe: whether any frame carries an LFE node
//
// # Golden Snapshots
//
// The canonical JSON of the resulting scene document is the snapshot.
// RunWithGolden compares it against testdata/scenarios/golden/<name>.golden,
// the same layout the test command uses next to any scenario directory.
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Runs are deterministic: the same scenario always produces the same
// snapshot bytes.
package harness
