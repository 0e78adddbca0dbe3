package convert

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cult-DSP/LUSID/internal/parser"
	"github.com/Cult-DSP/LUSID/internal/scene"
)

func id(s string) scene.NodeID { return scene.MustParseNodeID(s) }

func bed(order int, label string, dir ...float64) DirectSpeakerRecord {
	return DirectSpeakerRecord{OrderIndex: order, SpeakerLabel: label, Direction: dir}
}

func kf(t float64, dir ...float64) Keyframe {
	return Keyframe{Time: t, Direction: dir}
}

// scenarioInput is three beds, a silent fourth bed and two objects.
func scenarioInput() Input {
	return Input{
		Global: GlobalRecord{SampleRate: 48000},
		DirectSpeakers: []DirectSpeakerRecord{
			bed(1, "L", -1, 1, 0),
			bed(2, "R", 1, 1, 0),
			bed(3, "C", 0, 1, 0),
			{OrderIndex: 4, SpeakerLabel: "LFE", Direction: []float64{0, 0, 0}, IsSilent: true},
		},
		Objects: []ObjectRecord{
			{OrderIndex: 1, Name: "lead", Trajectory: []Keyframe{kf(0, 0, 1, 0), kf(1, 1, 0, 0)}},
			{OrderIndex: 2, Name: "pad", Trajectory: []Keyframe{kf(0, -1, 0, 0)}},
		},
	}
}

func TestConvertScenario(t *testing.T) {
	sc, diags, err := Convert(scenarioInput(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, sc.DirectSpeakerGroups())
	assert.Equal(t, []int{5, 6}, sc.AudioObjectGroups())
	assert.False(t, sc.HasLFE(), "silent bed in the LFE slot is suppressed before detection")
	assert.Equal(t, []string{scene.CodeSilentChannel}, diags.Codes())

	require.Equal(t, 2, sc.FrameCount())

	f0 := sc.Frames[0]
	assert.Equal(t, 0.0, f0.Time)
	require.Len(t, f0.Nodes, 5)
	assert.Equal(t, scene.DirectSpeaker{ID: id("1.1"), Cart: scene.Cart{-1, 1, 0}, SpeakerLabel: "L"}, f0.Nodes[0])
	assert.Equal(t, scene.NewAudioObject(id("5.1"), scene.Cart{0, 1, 0}), f0.Nodes[3])
	assert.Equal(t, scene.NewAudioObject(id("6.1"), scene.Cart{-1, 0, 0}), f0.Nodes[4])

	f1 := sc.Frames[1]
	assert.Equal(t, 1.0, f1.Time)
	require.Len(t, f1.Nodes, 1)
	assert.Equal(t, scene.NewAudioObject(id("5.1"), scene.Cart{1, 0, 0}), f1.Nodes[0])
}

func TestConvertMissingInitialKeyframe(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		Objects: []ObjectRecord{
			{OrderIndex: 1, Trajectory: []Keyframe{kf(0, 0, 1, 0)}},
			{OrderIndex: 2, Name: "late", Trajectory: []Keyframe{kf(0.5, 0, 1, 0), kf(1, 1, 0, 0)}},
		},
	}

	sc, diags, err := Convert(in, Options{})
	require.Error(t, err)
	assert.Nil(t, sc)
	assert.Nil(t, diags)
	assert.True(t, scene.IsMissingInitialKeyframe(err))

	var se *scene.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "2.1 (late)", se.Source)
	assert.Contains(t, se.Message, "0.5")
}

func TestConvertEmptyTrajectoryIsMissingInitialKeyframe(t *testing.T) {
	in := Input{Objects: []ObjectRecord{{OrderIndex: 1}}}

	_, _, err := Convert(in, Options{})
	assert.True(t, scene.IsMissingInitialKeyframe(err))
}

func TestConvertSilentObjectSkipsKeyframeCheck(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		Objects: []ObjectRecord{
			{OrderIndex: 1, IsSilent: true, Trajectory: []Keyframe{kf(2, 0, 1, 0)}},
			{OrderIndex: 2, Trajectory: []Keyframe{kf(0, 0, 1, 0)}},
		},
	}

	sc, diags, err := Convert(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, sc.AudioObjectGroups(), "silent object keeps its group number unused")
	assert.True(t, diags.Has(scene.CodeSilentObject))
}

func TestConvertFixedIndexLFE(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		DirectSpeakers: []DirectSpeakerRecord{
			bed(1, "L", -1, 1, 0),
			bed(2, "R", 1, 1, 0),
			bed(3, "C", 0, 1, 0),
			bed(4, "whatever", 0, 0, 0),
			bed(5, "Ls", -1, -1, 0),
		},
	}

	sc, diags, err := Convert(in, Options{})
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.True(t, sc.HasLFE())
	assert.Equal(t, []int{1, 2, 3, 5}, sc.DirectSpeakerGroups())

	n, ok := sc.Frames[0].Node(id("4.1"))
	require.True(t, ok)
	assert.Equal(t, scene.LFE{ID: id("4.1")}, n)
}

func TestConvertLabelLFE(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		DirectSpeakers: []DirectSpeakerRecord{
			bed(1, "L", -1, 1, 0),
			bed(2, "LFE1", 0, 0, 0),
			bed(3, "C", 0, 1, 0),
			bed(4, "Ls", -1, -1, 0),
		},
	}

	sc, _, err := Convert(in, Options{LFE: LabelDetector{Substring: "lfe"}})
	require.NoError(t, err)

	n, ok := sc.Frames[0].Node(id("2.1"))
	require.True(t, ok)
	assert.Equal(t, scene.TypeLFE, n.NodeType())
	assert.Equal(t, []int{1, 3, 4}, sc.DirectSpeakerGroups())
}

func TestConvertSortsByOrderIndex(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		DirectSpeakers: []DirectSpeakerRecord{
			bed(2, "R", 1, 1, 0),
			bed(1, "L", -1, 1, 0),
		},
		Objects: []ObjectRecord{
			{OrderIndex: 9, Name: "second", Trajectory: []Keyframe{kf(0, 0, 0, 1)}},
			{OrderIndex: 3, Name: "first", Trajectory: []Keyframe{kf(0, 0, 1, 0)}},
		},
	}

	sc, _, err := Convert(in, Options{})
	require.NoError(t, err)

	n, _ := sc.Frames[0].Node(id("1.1"))
	assert.Equal(t, "L", n.(scene.DirectSpeaker).SpeakerLabel)
	n, _ = sc.Frames[0].Node(id("3.1"))
	assert.Equal(t, scene.Cart{0, 1, 0}, n.(scene.AudioObject).Cart)
	n, _ = sc.Frames[0].Node(id("4.1"))
	assert.Equal(t, scene.Cart{0, 0, 1}, n.(scene.AudioObject).Cart)
}

func TestConvertMergesInterleavedTrajectories(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		Objects: []ObjectRecord{
			{OrderIndex: 1, Trajectory: []Keyframe{kf(0, 0, 1, 0), kf(0.5, 0, 1, 0), kf(2, 0, 1, 0)}},
			{OrderIndex: 2, Trajectory: []Keyframe{kf(0, 1, 0, 0), kf(1, 1, 0, 0), kf(2, 1, 0, 0)}},
			{OrderIndex: 3, Trajectory: []Keyframe{kf(0, 0, 0, 1), kf(1.5, 0, 0, 1)}},
		},
	}

	sc, diags, err := Convert(in, Options{})
	require.NoError(t, err)
	assert.Empty(t, diags)

	var times []float64
	var sizes []int
	for _, f := range sc.Frames {
		times = append(times, f.Time)
		sizes = append(sizes, len(f.Nodes))
	}
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2}, times)
	assert.Equal(t, []int{3, 1, 1, 1, 2}, sizes)

	last := sc.Frames[4]
	assert.Equal(t, id("1.1"), last.Nodes[0].NodeID())
	assert.Equal(t, id("2.1"), last.Nodes[1].NodeID())
}

func TestConvertBucketsNearlyEqualTimes(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		Objects: []ObjectRecord{
			{OrderIndex: 1, Trajectory: []Keyframe{kf(0, 0, 1, 0), kf(0.1+0.2, 0, 1, 0)}},
			{OrderIndex: 2, Trajectory: []Keyframe{kf(0, 1, 0, 0), kf(0.3, 1, 0, 0)}},
		},
	}

	sc, _, err := Convert(in, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, sc.FrameCount())
	assert.Equal(t, 0.3, sc.Frames[1].Time)
	assert.Len(t, sc.Frames[1].Nodes, 2)
}

func TestConvertDuplicateKeyframeKeepsLater(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		Objects: []ObjectRecord{
			{OrderIndex: 1, Trajectory: []Keyframe{kf(0, 0, 1, 0), kf(0.0000001, 1, 0, 0)}},
		},
	}

	sc, diags, err := Convert(in, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, sc.FrameCount())
	assert.Equal(t, scene.Cart{1, 0, 0}, sc.Frames[0].Nodes[0].(scene.AudioObject).Cart)
	assert.Equal(t, 1, diags.Count(scene.CodeDuplicateKeyframe))
}

func TestConvertCoarseTicks(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		Objects: []ObjectRecord{
			{OrderIndex: 1, Trajectory: []Keyframe{kf(0, 0, 1, 0), kf(1.004, 0, 1, 0)}},
			{OrderIndex: 2, Trajectory: []Keyframe{kf(0, 1, 0, 0), kf(0.998, 1, 0, 0)}},
		},
	}

	sc, _, err := Convert(in, Options{TicksPerSecond: 100})
	require.NoError(t, err)
	require.Equal(t, 2, sc.FrameCount())
	assert.Equal(t, 1.0, sc.Frames[1].Time)
}

func TestConvertUnsortedTrajectory(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		Objects: []ObjectRecord{
			{OrderIndex: 1, Trajectory: []Keyframe{kf(1, 1, 0, 0), kf(0, 0, 1, 0)}},
		},
	}

	sc, diags, err := Convert(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{scene.CodeTrajectoryReordered}, diags.Codes())
	require.Equal(t, 2, sc.FrameCount())
	assert.Equal(t, scene.Cart{0, 1, 0}, sc.Frames[0].Nodes[0].(scene.AudioObject).Cart)
}

func TestConvertKeyframeValidation(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		Objects: []ObjectRecord{
			{OrderIndex: 1, Trajectory: []Keyframe{
				kf(0, 0, 1, 0),
				kf(1, 0, 1),
				kf(2, 0, 3, 0),
				kf(3, 0, 0, 1),
			}},
		},
	}

	t.Run("reject", func(t *testing.T) {
		sc, diags, err := Convert(in, Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{scene.CodeInvalidKeyframe, scene.CodeKeyframeRange}, diags.Codes())
		assert.Equal(t, 2, sc.FrameCount())
		assert.Equal(t, "objects[0].trajectory[2]", diags[1].Path)
	})

	t.Run("clamp", func(t *testing.T) {
		sc, diags, err := Convert(in, Options{CoordinatePolicy: scene.ClampCoordinates})
		require.NoError(t, err)
		assert.Equal(t, []string{scene.CodeInvalidKeyframe, scene.CodeKeyframeRange}, diags.Codes())
		require.Equal(t, 3, sc.FrameCount())
		assert.Equal(t, scene.Cart{0, 1, 0}, sc.Frames[1].Nodes[0].(scene.AudioObject).Cart)
	})
}

func TestConvertRoundsToNearestTick(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		Objects: []ObjectRecord{
			{OrderIndex: 1, Trajectory: []Keyframe{
				kf(0, 0, 1, 0),
				kf(0.0000014, 1, 0, 0),
				kf(0.0000016, 0, 0, 1),
				kf(0.0000024, -1, 0, 0),
			}},
		},
	}

	sc, diags, err := Convert(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{scene.CodeDuplicateKeyframe}, diags.Codes())
	require.Equal(t, 3, sc.FrameCount())
	assert.Equal(t, []float64{0, 1e-6, 2e-6}, []float64{sc.Frames[0].Time, sc.Frames[1].Time, sc.Frames[2].Time})
	assert.Equal(t, scene.Cart{-1, 0, 0}, sc.Frames[2].Nodes[0].(scene.AudioObject).Cart)
}

func TestConvertDropsKeyframeBeyondTickRange(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		Objects: []ObjectRecord{
			{OrderIndex: 1, Trajectory: []Keyframe{kf(0, 0, 1, 0), kf(2, 0, 0, 1), kf(1e13, 1, 0, 0)}},
		},
	}

	sc, diags, err := Convert(in, Options{})
	require.NoError(t, err)
	require.Equal(t, []string{scene.CodeInvalidKeyframe}, diags.Codes())
	assert.Equal(t, "objects[0].trajectory[2]", diags[0].Path)
	require.Equal(t, 2, sc.FrameCount())
	assert.Equal(t, 0.0, sc.Frames[0].Time)
	assert.Equal(t, 2.0, sc.Frames[1].Time)
}

func TestConvertRejectedFirstKeyframeIsMissingInitial(t *testing.T) {
	in := Input{
		Objects: []ObjectRecord{
			{OrderIndex: 1, Trajectory: []Keyframe{kf(0, 5, 0, 0), kf(1, 0, 1, 0)}},
		},
	}

	_, _, err := Convert(in, Options{})
	assert.True(t, scene.IsMissingInitialKeyframe(err))
}

func TestConvertInvalidBedDirection(t *testing.T) {
	in := Input{
		Global: GlobalRecord{SampleRate: 48000},
		DirectSpeakers: []DirectSpeakerRecord{
			bed(1, "L", -1, 1),
			bed(2, "R", 1, 1, 0),
		},
	}

	sc, diags, err := Convert(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{scene.CodeInvalidBedDirection}, diags.Codes())
	assert.Equal(t, "directSpeakers[0]", diags[0].Path)
	assert.Equal(t, []int{2}, sc.DirectSpeakerGroups())
}

func TestConvertHeader(t *testing.T) {
	dur := 12.5
	in := Input{Global: GlobalRecord{
		SampleRate:      44100,
		DurationSeconds: &dur,
		SourceFormat:    "ADM",
		Format:          "BW64",
	}}

	sc, diags, err := Convert(in, Options{})
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, scene.CurrentVersion, sc.Version)
	assert.Equal(t, 44100, sc.SampleRate)
	assert.Equal(t, scene.Seconds, sc.TimeUnit)
	require.NotNil(t, sc.Duration)
	assert.Equal(t, 12.5, *sc.Duration)
	assert.Equal(t, scene.Object{"sourceFormat": scene.String("ADM"), "format": scene.String("BW64")}, sc.Metadata)
	assert.Equal(t, 0, sc.FrameCount())
}

func TestConvertHeaderDefaults(t *testing.T) {
	dur := -1.0
	in := Input{Global: GlobalRecord{DurationSeconds: &dur}}

	sc, diags, err := Convert(in, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{scene.CodeDefaultSampleRate, scene.CodeInvalidDurationRec}, diags.Codes())
	assert.Equal(t, DefaultSampleRate, sc.SampleRate)
	assert.Nil(t, sc.Duration)
	assert.Nil(t, sc.Metadata)
}

func TestConvertSamplesWithoutRate(t *testing.T) {
	_, _, err := Convert(Input{}, Options{TimeUnit: scene.Samples, DefaultSampleRate: -1})
	assert.True(t, scene.IsInvalidSampleRate(err))
}

func TestConvertedSceneRoundTrips(t *testing.T) {
	for _, unit := range []scene.TimeUnit{scene.Seconds, scene.Milliseconds, scene.Samples} {
		t.Run(string(unit), func(t *testing.T) {
			in := scenarioInput()
			in.Objects[0].Trajectory = append(in.Objects[0].Trajectory, kf(1.1, 0, 0, 1), kf(2.35, 0, -1, 0))

			sc, _, err := Convert(in, Options{TimeUnit: unit})
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, sc.Encode(&buf, false))

			again, diags, err := parser.ParseBytes(buf.Bytes(), parser.DefaultOptions())
			require.NoError(t, err)
			assert.Empty(t, diags)
			assert.Equal(t, sc, again)
		})
	}
}

func TestConvertLogsDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, _, err := Convert(scenarioInput(), Options{Logger: logger})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "code="+scene.CodeSilentChannel)
	assert.Contains(t, buf.String(), "metadata converted")
}
