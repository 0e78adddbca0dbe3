package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFrameKeepsLastDuplicate(t *testing.T) {
	id := MustParseNodeID("1.1")
	first := NewAudioObject(id, Cart{0, 1, 0})
	other := LFE{ID: MustParseNodeID("4.1")}
	second := NewAudioObject(id, Cart{1, 0, 0})

	f, dups := NewFrame(0, []Node{first, other, second})

	require.Len(t, f.Nodes, 2)
	assert.Equal(t, other, f.Nodes[0])
	assert.Equal(t, second, f.Nodes[1])

	require.Len(t, dups, 1)
	assert.Equal(t, Duplicate{Index: 0, Winner: 2, Node: first}, dups[0])
}

func TestNewFrameTripleDuplicate(t *testing.T) {
	id := MustParseNodeID("2.1")
	nodes := []Node{
		NewAudioObject(id, Cart{0, 0, 1}),
		NewAudioObject(id, Cart{0, 0, 0.5}),
		NewAudioObject(id, Cart{0, 0, 0.25}),
	}

	f, dups := NewFrame(1, nodes)

	require.Len(t, f.Nodes, 1)
	assert.Equal(t, Cart{0, 0, 0.25}, f.Nodes[0].(AudioObject).Cart)
	require.Len(t, dups, 2)
	assert.Equal(t, 2, dups[0].Winner)
	assert.Equal(t, 2, dups[1].Winner)
}

func TestNewFrameUniqueNodesUntouched(t *testing.T) {
	nodes := []Node{
		LFE{ID: NodeID{4, 1}},
		SpectralFeatures{ID: NodeID{4, 2}, Data: Object{"centroid": Number(5000)}},
	}
	f, dups := NewFrame(0.5, nodes)
	assert.Empty(t, dups)
	assert.Equal(t, nodes, f.Nodes)
	assert.Equal(t, 0.5, f.Time)
}

func TestFrameLookups(t *testing.T) {
	f, _ := NewFrame(0, []Node{
		NewAudioObject(NodeID{11, 1}, Cart{0, 1, 0}),
		SpectralFeatures{ID: NodeID{11, 2}},
		DirectSpeaker{ID: NodeID{1, 1}, Cart: Cart{-1, 1, 0}, SpeakerLabel: "L"},
	})

	assert.Len(t, f.NodesByGroup(11), 2)
	assert.Len(t, f.NodesByType(TypeDirectSpeaker), 1)
	assert.Empty(t, f.NodesByType(TypeLFE))

	n, ok := f.Node(NodeID{1, 1})
	require.True(t, ok)
	assert.Equal(t, "L", n.(DirectSpeaker).SpeakerLabel)

	_, ok = f.Node(NodeID{2, 1})
	assert.False(t, ok)
}
