package testutil

import "github.com/Cult-DSP/LUSID/internal/scene"

// SampleScene returns a small scene exercising every node type: two bed
// channels, an LFE, two objects and both metadata node kinds across two
// frames. Each call returns a fresh value.
func SampleScene() *scene.Scene {
	f0, _ := scene.NewFrame(0, []scene.Node{
		scene.DirectSpeaker{ID: scene.NodeID{Group: 1, Level: 1}, Cart: scene.Cart{-1, 1, 0}, SpeakerLabel: "L", ChannelID: "AC_00011001"},
		scene.DirectSpeaker{ID: scene.NodeID{Group: 2, Level: 1}, Cart: scene.Cart{1, 1, 0}, SpeakerLabel: "R", ChannelID: "AC_00011002"},
		scene.LFE{ID: scene.NodeID{Group: 4, Level: 1}},
		scene.NewAudioObject(scene.NodeID{Group: 11, Level: 1}, scene.Cart{0, 1, 0}),
		scene.SpectralFeatures{ID: scene.NodeID{Group: 11, Level: 2}, Data: scene.Object{"centroid": scene.Number(5000)}},
		scene.NewAudioObject(scene.NodeID{Group: 12, Level: 1}, scene.Cart{-1, 0, 0}),
	})
	f1, _ := scene.NewFrame(1.5, []scene.Node{
		scene.AudioObject{ID: scene.NodeID{Group: 11, Level: 1}, Cart: scene.Cart{1, 0, 0}, Gain: 0.5},
		scene.AgentState{ID: scene.NodeID{Group: 12, Level: 2}, Data: scene.Object{"mood": scene.String("calm")}},
	})
	sc, _ := scene.NewScene(scene.Header{
		Version:    scene.CurrentVersion,
		SampleRate: 48000,
		TimeUnit:   scene.Seconds,
		Metadata:   scene.Object{"title": scene.String("sample")},
	}, []scene.Frame{f0, f1})
	return sc
}

// SampleDiagnostics returns diagnostics shaped like a tolerant parse of a
// slightly messy document.
func SampleDiagnostics() scene.Diagnostics {
	var diags scene.Diagnostics
	diags.Add(scene.CodeUnknownField, "extra", "unknown top-level field ignored")
	diags.Add(scene.CodeDuplicateNodeID, "frames[0].nodes[1]", "node 1.1 overwritten by nodes[2]")
	return diags
}
