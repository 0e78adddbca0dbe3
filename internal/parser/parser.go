package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

// Top-level document fields.
const (
	fieldVersion    = "version"
	fieldSampleRate = "sampleRate"
	fieldTimeUnit   = "timeUnit"
	fieldDuration   = "duration"
	fieldMetadata   = "metadata"
	fieldFrames     = "frames"
)

var knownFields = []string{
	fieldVersion, fieldSampleRate, fieldTimeUnit, fieldDuration, fieldMetadata, fieldFrames,
}

// Parse builds a scene from a decoded JSON value tree.
//
// Data-quality problems never fail the parse: the offending field, frame or
// node is defaulted or dropped and a diagnostic is recorded. Only a top level
// that is not an object, or a frames value that is not an array of objects,
// fails with a MalformedDocument error, in which case no scene is returned.
func Parse(raw any, opts Options) (*scene.Scene, scene.Diagnostics, error) {
	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, nil, scene.NewMalformedDocumentError("", fmt.Sprintf("document must be an object, got %s", describe(raw)))
	}

	p := &parseState{
		opts:         opts,
		bound:        opts.bound(),
		log:          opts.logger(),
		unknownTypes: make(map[string]struct{}),
	}

	header := p.header(doc)
	rawFrames, err := p.frameList(doc)
	if err != nil {
		return nil, nil, err
	}

	frames := make([]scene.Frame, 0, len(rawFrames))
	for i, rf := range rawFrames {
		if f, ok := p.frame(fmt.Sprintf("frames[%d]", i), rf, header); ok {
			frames = append(frames, f)
		}
	}

	sc, reordered := scene.NewScene(header, frames)
	if reordered {
		p.warn(scene.CodeFramesReordered, fieldFrames, "frames were not in time order and have been sorted")
	}

	p.log.Debug("scene parsed",
		slog.Int("frames", sc.FrameCount()),
		slog.Int("diagnostics", len(p.diags)),
	)
	return sc, p.diags, nil
}

// ParseBytes decodes JSON text and parses it. Text that is not valid JSON
// fails with a MalformedDocument error.
func ParseBytes(data []byte, opts Options) (*scene.Scene, scene.Diagnostics, error) {
	return ParseReader(bytes.NewReader(data), opts)
}

// ParseReader decodes one JSON document from r and parses it.
func ParseReader(r io.Reader, opts Options) (*scene.Scene, scene.Diagnostics, error) {
	raw, err := Decode(r)
	if err != nil {
		return nil, nil, err
	}
	return Parse(raw, opts)
}

// ParseFile reads and parses the document at path.
func ParseFile(path string, opts Options) (*scene.Scene, scene.Diagnostics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	return ParseReader(f, opts)
}

// Decode reads exactly one JSON value from r, keeping numbers as json.Number
// so that integral sample counts are not rounded through float64 early.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, &scene.Error{Kind: scene.KindMalformedDocument, Message: "invalid JSON: " + err.Error()}
	}
	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, &scene.Error{Kind: scene.KindMalformedDocument, Message: "trailing data after JSON document"}
	}
	return raw, nil
}

// parseState is local to one Parse call. Nothing in it outlives the call,
// so concurrent parses never see each other's diagnostics.
type parseState struct {
	opts         Options
	bound        float64
	log          *slog.Logger
	diags        scene.Diagnostics
	unknownTypes map[string]struct{}
}

func (p *parseState) warn(code, path, format string, args ...any) {
	p.diags.Add(code, path, format, args...)
	d := p.diags[len(p.diags)-1]
	p.log.Debug("scene diagnostic",
		slog.String("code", d.Code),
		slog.String("path", d.Path),
		slog.String("message", d.Message),
	)
}

// frameList validates the structural shape of "frames" before anything else
// is interpreted.
func (p *parseState) frameList(doc map[string]any) ([]map[string]any, error) {
	raw, present := doc[fieldFrames]
	if !present || raw == nil {
		p.warn(scene.CodeMissingFrames, fieldFrames, "frames missing, scene is empty")
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, scene.NewMalformedDocumentError(fieldFrames, fmt.Sprintf("frames must be an array, got %s", describe(raw)))
	}
	out := make([]map[string]any, len(list))
	for i, elem := range list {
		obj, ok := elem.(map[string]any)
		if !ok {
			return nil, scene.NewMalformedDocumentError(
				fmt.Sprintf("frames[%d]", i),
				fmt.Sprintf("frame must be an object, got %s", describe(elem)))
		}
		out[i] = obj
	}
	return out, nil
}

func (p *parseState) header(doc map[string]any) scene.Header {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if !slices.Contains(knownFields, k) {
			p.warn(scene.CodeUnknownField, k, "unknown top-level field ignored")
		}
	}

	h := scene.Header{
		Version:    p.version(doc),
		TimeUnit:   p.timeUnit(doc),
		SampleRate: p.sampleRate(doc),
		Duration:   p.duration(doc),
		Metadata:   p.metadata(doc),
	}
	if h.TimeUnit == scene.Samples && h.SampleRate <= 0 {
		p.warn(scene.CodeSampleRateRequired, fieldSampleRate,
			"timeUnit is samples but no positive sampleRate is given, frame times cannot be converted")
	}
	return h
}

func (p *parseState) version(doc map[string]any) string {
	raw, present := doc[fieldVersion]
	var v string
	switch val := raw.(type) {
	case string:
		v = val
	case json.Number, float64, bool:
		v = fmt.Sprint(val)
		p.warn(scene.CodeMissingVersion, fieldVersion, "version should be a string, using %q", v)
	default:
		if present {
			p.warn(scene.CodeMissingVersion, fieldVersion, "version must be a string, got %s, using %q", describe(raw), scene.CurrentVersion)
		} else {
			p.warn(scene.CodeMissingVersion, fieldVersion, "version missing, using %q", scene.CurrentVersion)
		}
		return scene.CurrentVersion
	}
	if v != scene.CurrentVersion {
		p.warn(scene.CodeVersionMismatch, fieldVersion, "version %q differs from supported %q, parsing anyway", v, scene.CurrentVersion)
	}
	return v
}

func (p *parseState) timeUnit(doc map[string]any) scene.TimeUnit {
	raw, present := doc[fieldTimeUnit]
	if !present {
		p.warn(scene.CodeUnknownTimeUnit, fieldTimeUnit, "timeUnit missing, assuming seconds")
		return scene.Seconds
	}
	s, _ := raw.(string)
	u, ok := scene.ParseTimeUnit(s)
	if !ok {
		p.warn(scene.CodeUnknownTimeUnit, fieldTimeUnit, "unrecognized timeUnit %s, assuming seconds", describeValue(raw))
		return scene.Seconds
	}
	return u
}

func (p *parseState) sampleRate(doc map[string]any) int {
	raw, present := doc[fieldSampleRate]
	if !present || raw == nil {
		return 0
	}
	f, ok := number(raw)
	if !ok || f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		p.warn(scene.CodeInvalidSampleRate, fieldSampleRate, "sampleRate must be a positive integer, got %s", describeValue(raw))
		return 0
	}
	return int(f)
}

func (p *parseState) duration(doc map[string]any) *float64 {
	raw, present := doc[fieldDuration]
	if !present || raw == nil {
		return nil
	}
	f, ok := number(raw)
	if !ok || f < 0 {
		p.warn(scene.CodeInvalidDuration, fieldDuration, "duration must be a non-negative number, got %s", describeValue(raw))
		return nil
	}
	return &f
}

func (p *parseState) metadata(doc map[string]any) scene.Object {
	raw, present := doc[fieldMetadata]
	if !present || raw == nil {
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		p.warn(scene.CodeInvalidMetadata, fieldMetadata, "metadata must be an object, got %s", describe(raw))
		return nil
	}
	v, err := scene.ValueOf(m)
	if err != nil {
		p.warn(scene.CodeInvalidMetadata, fieldMetadata, "metadata ignored: %v", err)
		return nil
	}
	return v.(scene.Object)
}

func (p *parseState) frame(path string, raw map[string]any, h scene.Header) (scene.Frame, bool) {
	rawTime, present := raw["time"]
	t, ok := number(rawTime)
	if !present || !ok {
		p.warn(scene.CodeInvalidFrameTime, scene.JoinPath(path, "time"), "frame time must be a finite number, got %s, frame dropped", describeValue(rawTime))
		return scene.Frame{}, false
	}
	seconds, err := h.TimeUnit.ToSeconds(t, h.SampleRate)
	if err != nil {
		p.warn(scene.CodeUnconvertibleTime, scene.JoinPath(path, "time"), "cannot convert %v %s to seconds, frame dropped", t, h.TimeUnit)
		return scene.Frame{}, false
	}

	nodes := []scene.Node{}
	var rawIndex []int
	rawNodes, present := raw["nodes"]
	list, isList := rawNodes.([]any)
	switch {
	case !present:
		p.warn(scene.CodeInvalidNodes, scene.JoinPath(path, "nodes"), "frame has no nodes field")
	case !isList:
		p.warn(scene.CodeInvalidNodes, scene.JoinPath(path, "nodes"), "nodes must be an array, got %s", describe(rawNodes))
	default:
		nodes = make([]scene.Node, 0, len(list))
		rawIndex = make([]int, 0, len(list))
		for j, rn := range list {
			if n, ok := p.node(nodePath(path, j), rn); ok {
				nodes = append(nodes, n)
				rawIndex = append(rawIndex, j)
			}
		}
	}

	f, dups := scene.NewFrame(seconds, nodes)
	for _, d := range dups {
		p.warn(scene.CodeDuplicateNodeID, nodePath(path, rawIndex[d.Index]),
			"node %s overwritten by %s with the same id", d.Node.NodeID(), nodePath(path, rawIndex[d.Winner]))
	}
	return f, true
}

func nodePath(framePath string, j int) string {
	return scene.JoinPath(framePath, fmt.Sprintf("nodes[%d]", j))
}
