package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cult-DSP/LUSID/internal/scene"
	"github.com/Cult-DSP/LUSID/internal/testutil"
)

func importSample(t *testing.T, s *Store) ImportRecord {
	t.Helper()
	rec, err := s.ImportScene(context.Background(), testutil.SampleScene(), "sample.json", testutil.SampleDiagnostics())
	require.NoError(t, err)
	return rec
}

func TestLoadScene_RoundTrips(t *testing.T) {
	s := createTestStore(t)
	rec := importSample(t, s)

	sc, err := s.LoadScene(context.Background(), rec.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleScene(), sc)
	assert.Equal(t, rec.Fingerprint, scene.MustFingerprint(sc))
}

func TestLoadScene_KeepsOutOfRangeCoordinates(t *testing.T) {
	s := createTestStore(t)
	f, _ := scene.NewFrame(0, []scene.Node{scene.NewAudioObject(scene.NodeID{Group: 1, Level: 1}, scene.Cart{2, 0, 0})})
	wide, _ := scene.NewScene(scene.Header{SampleRate: 48000}, []scene.Frame{f})

	rec, err := s.ImportScene(context.Background(), wide, "wide.json", nil)
	require.NoError(t, err)

	sc, err := s.LoadScene(context.Background(), rec.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, wide, sc)
}

func TestLoadScene_Prefix(t *testing.T) {
	s := createTestStore(t)
	rec := importSample(t, s)

	sc, err := s.LoadScene(context.Background(), rec.Fingerprint[:12])
	require.NoError(t, err)
	assert.Equal(t, 2, sc.FrameCount())
}

func TestLoadScene_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.LoadScene(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.LoadScene(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListScenes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	list, err := s.ListScenes(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	rec := importSample(t, s)
	empty, _ := scene.NewScene(scene.Header{SampleRate: 44100, TimeUnit: scene.Samples}, nil)
	_, err = s.ImportScene(ctx, empty, "empty.json", nil)
	require.NoError(t, err)

	list, err = s.ListScenes(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, SceneSummary{
		Fingerprint: rec.Fingerprint,
		Seq:         1,
		RunID:       "run-0001",
		Source:      "sample.json",
		Version:     scene.CurrentVersion,
		TimeUnit:    scene.Seconds,
		SampleRate:  48000,
		FrameCount:  2,
		Duration:    1.5,
		Diagnostics: 2,
	}, list[0])
	assert.Equal(t, "empty.json", list[1].Source)
	assert.Equal(t, scene.Samples, list[1].TimeUnit)
	assert.Equal(t, 0, list[1].FrameCount)
}

func TestSummary(t *testing.T) {
	s := createTestStore(t)
	rec := importSample(t, s)

	sum, err := s.Summary(context.Background(), rec.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, "sample.json", sum.Source)

	_, err = s.Summary(context.Background(), "ffff")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGroups(t *testing.T) {
	s := createTestStore(t)
	rec := importSample(t, s)
	ctx := context.Background()

	tests := []struct {
		nodeType scene.NodeType
		want     []int
	}{
		{scene.TypeAudioObject, []int{11, 12}},
		{scene.TypeDirectSpeaker, []int{1, 2}},
		{scene.TypeLFE, []int{4}},
		{scene.TypeSpectralFeatures, []int{11}},
		{scene.TypeAgentState, []int{12}},
	}
	sc := testutil.SampleScene()
	for _, tt := range tests {
		t.Run(string(tt.nodeType), func(t *testing.T) {
			got, err := s.Groups(ctx, rec.Fingerprint, tt.nodeType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, sc.GroupsOf(tt.nodeType), got)
		})
	}
}

func TestDiagnostics(t *testing.T) {
	s := createTestStore(t)
	rec := importSample(t, s)

	diags, err := s.Diagnostics(context.Background(), rec.Fingerprint)
	require.NoError(t, err)
	assert.Equal(t, testutil.SampleDiagnostics(), diags)

	empty, _ := scene.NewScene(scene.Header{}, nil)
	rec, err = s.ImportScene(context.Background(), empty, "empty.json", nil)
	require.NoError(t, err)
	diags, err = s.Diagnostics(context.Background(), rec.Fingerprint)
	require.NoError(t, err)
	assert.NotNil(t, diags)
	assert.Empty(t, diags)
}
