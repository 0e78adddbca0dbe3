package scene

import (
	"math"
	"slices"
	"sort"
	"strconv"
)

// Header holds the scene-wide fields of a document.
type Header struct {
	Version string

	// SampleRate in Hz. Zero means unset.
	SampleRate int

	// TimeUnit is the unit frame times are written in when encoded.
	TimeUnit TimeUnit

	// Duration in seconds, if declared.
	Duration *float64

	Metadata Object
}

// Scene is an ordered timeline of frames.
type Scene struct {
	Header
	Frames []Frame
}

// NewScene stably sorts frames by time and reports whether any reordering
// was necessary. An empty TimeUnit or Version is filled with the default.
func NewScene(h Header, frames []Frame) (*Scene, bool) {
	if h.TimeUnit == "" {
		h.TimeUnit = Seconds
	}
	if h.Version == "" {
		h.Version = CurrentVersion
	}
	reordered := !slices.IsSortedFunc(frames, compareFrameTime)
	if reordered {
		frames = slices.Clone(frames)
		slices.SortStableFunc(frames, compareFrameTime)
	}
	return &Scene{Header: h, Frames: frames}, reordered
}

func compareFrameTime(a, b Frame) int {
	switch {
	case a.Time < b.Time:
		return -1
	case a.Time > b.Time:
		return 1
	}
	return 0
}

// FrameCount returns the number of frames.
func (s *Scene) FrameCount() int {
	return len(s.Frames)
}

// Frame returns the frame at index i.
func (s *Scene) Frame(i int) (Frame, error) {
	if i < 0 || i >= len(s.Frames) {
		return Frame{}, NewIndexOutOfRangeError(i, len(s.Frames))
	}
	return s.Frames[i], nil
}

// AudioObjectGroups returns the sorted groups holding at least one audio object.
func (s *Scene) AudioObjectGroups() []int {
	return s.GroupsOf(TypeAudioObject)
}

// DirectSpeakerGroups returns the sorted groups holding at least one direct speaker.
func (s *Scene) DirectSpeakerGroups() []int {
	return s.GroupsOf(TypeDirectSpeaker)
}

// GroupsOf returns the sorted groups holding at least one node of type t.
func (s *Scene) GroupsOf(t NodeType) []int {
	seen := make(map[int]struct{})
	for _, f := range s.Frames {
		for _, n := range f.Nodes {
			if n.NodeType() == t {
				seen[n.NodeID().Group] = struct{}{}
			}
		}
	}
	groups := make([]int, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Ints(groups)
	return groups
}

// HasLFE reports whether any frame holds an LFE node.
func (s *Scene) HasLFE() bool {
	for _, f := range s.Frames {
		for _, n := range f.Nodes {
			if n.NodeType() == TypeLFE {
				return true
			}
		}
	}
	return false
}

// LastTime returns the time of the last frame in seconds, or 0 when empty.
func (s *Scene) LastTime() float64 {
	if len(s.Frames) == 0 {
		return 0
	}
	return s.Frames[len(s.Frames)-1].Time
}

// DurationSeconds returns the declared duration, or the last frame time
// when none was declared.
func (s *Scene) DurationSeconds() float64 {
	if s.Duration != nil {
		return *s.Duration
	}
	return s.LastTime()
}

// NodeCounts totals nodes per type across all frames.
func (s *Scene) NodeCounts() map[NodeType]int {
	counts := make(map[NodeType]int, len(NodeTypes))
	for _, f := range s.Frames {
		for _, n := range f.Nodes {
			counts[n.NodeType()]++
		}
	}
	return counts
}

// Clamp returns a copy of the scene with every direction component clamped
// into [-bound, bound], along with the ids of nodes that changed per frame
// index. The receiver is not modified.
func (s *Scene) Clamp(bound float64) (*Scene, map[int][]NodeID) {
	out := &Scene{Header: s.Header, Frames: make([]Frame, len(s.Frames))}
	changed := make(map[int][]NodeID)
	for i, f := range s.Frames {
		nodes := make([]Node, len(f.Nodes))
		for j, n := range f.Nodes {
			nodes[j] = n
			c, ok := CartOf(n)
			if !ok || c.Within(bound) {
				continue
			}
			nodes[j] = withCart(n, c.Clamp(bound))
			changed[i] = append(changed[i], n.NodeID())
		}
		out.Frames[i] = Frame{Time: f.Time, Nodes: nodes}
	}
	return out, changed
}

// Sidecar collects spectral_features and agent_state data as time series
// keyed by group, then node type. Times are seconds rounded to microseconds.
//
//	{"version": "0.5", "timeUnit": "seconds", "groups": {"1": {"spectral_features": [{"time": 0, ...}]}}}
func (s *Scene) Sidecar() Object {
	groups := Object{}
	for _, f := range s.Frames {
		for _, n := range f.Nodes {
			var data Object
			switch v := n.(type) {
			case SpectralFeatures:
				data = v.Data
			case AgentState:
				data = v.Data
			default:
				continue
			}
			entry := data.Clone()
			if entry == nil {
				entry = Object{}
			}
			entry["time"] = Number(math.Round(f.Time*1e6) / 1e6)

			groupKey := strconv.Itoa(n.NodeID().Group)
			byType, _ := groups[groupKey].(Object)
			if byType == nil {
				byType = Object{}
				groups[groupKey] = byType
			}
			series, _ := byType[string(n.NodeType())].(Array)
			byType[string(n.NodeType())] = append(series, entry)
		}
	}
	return Object{
		"version":  String(s.Version),
		"timeUnit": String(Seconds),
		"groups":   groups,
	}
}
