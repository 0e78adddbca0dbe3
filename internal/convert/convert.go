package convert

import (
	"cmp"
	"container/heap"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

// DefaultTicksPerSecond sets the bucketing resolution: keyframe times are
// rounded to the nearest microsecond tick, and keyframes on the same tick
// land in the same frame.
const DefaultTicksPerSecond = 1_000_000

// DefaultSampleRate is used when the global record carries none.
const DefaultSampleRate = 48000

// Options configures a conversion. The zero value is usable.
type Options struct {
	// LFE picks the bed channel emitted as LFE. Nil means FixedIndexDetector{4}.
	LFE LFEDetector

	// TicksPerSecond is the time bucketing resolution.
	TicksPerSecond int64

	// TimeUnit is the unit the resulting scene declares. Empty means seconds.
	TimeUnit scene.TimeUnit

	// DefaultSampleRate replaces a missing or non-positive global sample rate.
	DefaultSampleRate int

	CoordinatePolicy scene.CoordinatePolicy
	CoordinateBound  float64

	// Logger receives every diagnostic at debug level. Nil discards.
	Logger *slog.Logger
}

func (o Options) normalized() Options {
	if o.LFE == nil {
		o.LFE = FixedIndexDetector{Position: DefaultLFEPosition}
	}
	if o.TicksPerSecond <= 0 {
		o.TicksPerSecond = DefaultTicksPerSecond
	}
	if o.TimeUnit == "" {
		o.TimeUnit = scene.Seconds
	}
	if o.DefaultSampleRate == 0 {
		o.DefaultSampleRate = DefaultSampleRate
	}
	if o.CoordinateBound <= 0 || math.IsNaN(o.CoordinateBound) {
		o.CoordinateBound = scene.DefaultCoordinateBound
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Convert builds a scene from extracted metadata records.
//
// Bed channels take groups 1..N in input order (silent ones leave their
// number unused) and appear only in the t=0 frame. Objects take groups N+1
// onward and contribute a node to every frame where their trajectory has a
// keyframe. Every surviving source must start at t=0, otherwise Convert
// fails with a MissingInitialKeyframe error and returns no scene.
func Convert(in Input, opts Options) (*scene.Scene, scene.Diagnostics, error) {
	c := &converter{opts: opts.normalized()}

	header, err := c.header(in.Global)
	if err != nil {
		return nil, nil, err
	}

	beds := slices.Clone(in.DirectSpeakers)
	slices.SortStableFunc(beds, func(a, b DirectSpeakerRecord) int { return cmp.Compare(a.OrderIndex, b.OrderIndex) })
	objects := slices.Clone(in.Objects)
	slices.SortStableFunc(objects, func(a, b ObjectRecord) int { return cmp.Compare(a.OrderIndex, b.OrderIndex) })

	bedNodes := c.beds(beds)

	tracks := make([]*track, 0, len(objects))
	for k, rec := range objects {
		group := len(beds) + k + 1
		tr, err := c.track(group, fmt.Sprintf("objects[%d]", k), rec)
		if err != nil {
			return nil, nil, err
		}
		if tr != nil {
			tracks = append(tracks, tr)
		}
	}

	frames := c.merge(bedNodes, tracks)
	sc, _ := scene.NewScene(header, frames)

	c.opts.Logger.Debug("metadata converted",
		slog.Int("beds", len(bedNodes)),
		slog.Int("objects", len(tracks)),
		slog.Int("frames", sc.FrameCount()),
		slog.String("lfe_detection", c.opts.LFE.Name()),
	)
	return sc, c.diags, nil
}

type converter struct {
	opts  Options
	diags scene.Diagnostics
}

func (c *converter) warn(code, path, format string, args ...any) {
	c.diags.Add(code, path, format, args...)
	d := c.diags[len(c.diags)-1]
	c.opts.Logger.Debug("conversion diagnostic",
		slog.String("code", d.Code),
		slog.String("path", d.Path),
		slog.String("message", d.Message),
	)
}

func (c *converter) header(g GlobalRecord) (scene.Header, error) {
	h := scene.Header{
		Version:    scene.CurrentVersion,
		TimeUnit:   c.opts.TimeUnit,
		SampleRate: g.SampleRate,
	}
	if h.SampleRate <= 0 {
		c.warn(scene.CodeDefaultSampleRate, "global.sampleRate", "sample rate %d invalid, using %d", g.SampleRate, c.opts.DefaultSampleRate)
		h.SampleRate = max(c.opts.DefaultSampleRate, 0)
	}
	if h.TimeUnit == scene.Samples && h.SampleRate <= 0 {
		return scene.Header{}, scene.NewInvalidSampleRateError(h.SampleRate)
	}

	if d := g.DurationSeconds; d != nil {
		if *d >= 0 && !math.IsInf(*d, 0) && !math.IsNaN(*d) {
			v := *d
			h.Duration = &v
		} else {
			c.warn(scene.CodeInvalidDurationRec, "global.durationSeconds", "duration %v ignored", *d)
		}
	}

	meta := scene.Object{}
	if g.SourceFormat != "" {
		meta["sourceFormat"] = scene.String(g.SourceFormat)
	}
	if g.Format != "" {
		meta["format"] = scene.String(g.Format)
	}
	if len(meta) > 0 {
		h.Metadata = meta
	}
	return h, nil
}

// beds emits the t=0 nodes for bed channels. Silence is checked before LFE
// detection, so a silent channel in the LFE slot yields no node at all.
func (c *converter) beds(beds []DirectSpeakerRecord) []scene.Node {
	nodes := make([]scene.Node, 0, len(beds))
	for k, rec := range beds {
		position := k + 1
		id := scene.NodeID{Group: position, Level: 1}
		path := fmt.Sprintf("directSpeakers[%d]", k)

		if rec.IsSilent {
			c.warn(scene.CodeSilentChannel, path, "bed channel %s suppressed as silent", describeSource(id, rec.Name, rec.SpeakerLabel))
			continue
		}
		if c.opts.LFE.IsLFE(position, rec) {
			nodes = append(nodes, scene.LFE{ID: id})
			continue
		}
		cart, ok := c.direction(path, rec.Direction, scene.CodeInvalidBedDirection)
		if !ok {
			continue
		}
		nodes = append(nodes, scene.DirectSpeaker{
			ID:           id,
			Cart:         cart,
			SpeakerLabel: rec.SpeakerLabel,
			ChannelID:    rec.ChannelID,
		})
	}
	return nodes
}

// track is one object's keyframes reduced to one position per tick.
type track struct {
	id    scene.NodeID
	ticks []int64
	carts []scene.Cart
}

func (c *converter) track(group int, path string, rec ObjectRecord) (*track, error) {
	id := scene.NodeID{Group: group, Level: 1}
	source := describeSource(id, rec.Name, "")

	if rec.IsSilent {
		c.warn(scene.CodeSilentObject, path, "object %s suppressed as silent", source)
		return nil, nil
	}

	kfs := slices.Clone(rec.Trajectory)
	byTime := func(a, b Keyframe) int { return cmp.Compare(a.Time, b.Time) }
	if !slices.IsSortedFunc(kfs, byTime) {
		c.warn(scene.CodeTrajectoryReordered, path, "trajectory of %s was not in time order and has been sorted", source)
		slices.SortStableFunc(kfs, byTime)
	}

	tr := &track{id: id}
	for i, kf := range kfs {
		kfPath := fmt.Sprintf("%s.trajectory[%d]", path, i)
		if math.IsNaN(kf.Time) || math.IsInf(kf.Time, 0) {
			c.warn(scene.CodeInvalidKeyframe, kfPath, "keyframe time %v not finite, dropped", kf.Time)
			continue
		}
		cart, ok := c.direction(kfPath, kf.Direction, scene.CodeInvalidKeyframe)
		if !ok {
			continue
		}
		tick, ok := c.tick(kf.Time)
		if !ok {
			c.warn(scene.CodeInvalidKeyframe, kfPath, "keyframe time %gs out of range, dropped", kf.Time)
			continue
		}
		if n := len(tr.ticks); n > 0 && tr.ticks[n-1] == tick {
			c.warn(scene.CodeDuplicateKeyframe, kfPath, "keyframe at %gs shares a frame with the previous keyframe of %s, later kept", kf.Time, source)
			tr.carts[n-1] = cart
			continue
		}
		tr.ticks = append(tr.ticks, tick)
		tr.carts = append(tr.carts, cart)
	}

	if len(tr.ticks) == 0 {
		return nil, &scene.Error{
			Kind:    scene.KindMissingInitialKeyframe,
			Message: "trajectory has no usable keyframes",
			Source:  source,
		}
	}
	if tr.ticks[0] != 0 {
		return nil, scene.NewMissingInitialKeyframeError(source, c.seconds(tr.ticks[0]))
	}
	return tr, nil
}

// direction validates a direction vector and applies the coordinate policy.
func (c *converter) direction(path string, v []float64, invalidCode string) (scene.Cart, bool) {
	if len(v) != 3 {
		c.warn(invalidCode, path, "direction must have 3 components, got %d, dropped", len(v))
		return scene.Cart{}, false
	}
	cart := scene.Cart{v[0], v[1], v[2]}
	if !cart.Finite() {
		c.warn(invalidCode, path, "direction %v not finite, dropped", v)
		return scene.Cart{}, false
	}
	bound := c.opts.CoordinateBound
	if cart.Within(bound) {
		return cart, true
	}
	if c.opts.CoordinatePolicy == scene.ClampCoordinates {
		clamped := cart.Clamp(bound)
		c.warn(scene.CodeKeyframeRange, path, "direction %v outside [-%g, %g], clamped to %v", v, bound, bound, [3]float64(clamped))
		return clamped, true
	}
	c.warn(scene.CodeKeyframeRange, path, "direction %v outside [-%g, %g], dropped", v, bound, bound)
	return scene.Cart{}, false
}

// tick reports false when seconds does not fit in an int64 tick count.
func (c *converter) tick(seconds float64) (int64, bool) {
	scaled := math.Round(seconds * float64(c.opts.TicksPerSecond))
	if scaled >= math.MaxInt64 || scaled < math.MinInt64 {
		return 0, false
	}
	return int64(scaled), true
}

func (c *converter) seconds(tick int64) float64 {
	return float64(tick) / float64(c.opts.TicksPerSecond)
}

// merge walks every track in tick order with a min-heap of cursors and
// emits one frame per distinct tick. The t=0 frame also carries the beds.
// Within a frame, nodes are ordered by group.
func (c *converter) merge(beds []scene.Node, tracks []*track) []scene.Frame {
	h := make(cursorHeap, 0, len(tracks))
	for _, tr := range tracks {
		h = append(h, &cursor{track: tr})
	}
	heap.Init(&h)

	frames := []scene.Frame{}
	if len(beds) > 0 || len(tracks) > 0 {
		frames = append(frames, scene.Frame{Time: 0, Nodes: slices.Clone(beds)})
	}
	var lastTick int64
	for h.Len() > 0 {
		cur := h[0]
		if tick := cur.tick(); tick != lastTick {
			frames = append(frames, scene.Frame{Time: c.seconds(tick)})
			lastTick = tick
		}
		last := &frames[len(frames)-1]
		last.Nodes = append(last.Nodes, scene.NewAudioObject(cur.track.id, cur.cart()))

		cur.pos++
		if cur.pos < len(cur.track.ticks) {
			heap.Fix(&h, 0)
		} else {
			heap.Pop(&h)
		}
	}
	return frames
}

type cursor struct {
	track *track
	pos   int
}

func (c *cursor) tick() int64      { return c.track.ticks[c.pos] }
func (c *cursor) cart() scene.Cart { return c.track.carts[c.pos] }

// cursorHeap orders cursors by next tick, then group.
type cursorHeap []*cursor

func (h cursorHeap) Len() int { return len(h) }
func (h cursorHeap) Less(i, j int) bool {
	if h[i].tick() != h[j].tick() {
		return h[i].tick() < h[j].tick()
	}
	return h[i].track.id.Group < h[j].track.id.Group
}
func (h cursorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *cursorHeap) Push(x any)   { *h = append(*h, x.(*cursor)) }
func (h *cursorHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func describeSource(id scene.NodeID, name, label string) string {
	switch {
	case name != "":
		return fmt.Sprintf("%s (%s)", id, name)
	case label != "":
		return fmt.Sprintf("%s (%s)", id, label)
	}
	return id.String()
}
