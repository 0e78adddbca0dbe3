package scene

import "fmt"

// Diagnostic codes. W1xx are raised while parsing documents, W2xx while
// converting metadata records. Codes are stable and safe to match on.
const (
	// Parser: document header (W101-W109)
	CodeUnknownField        = "W101" // unknown top-level field ignored
	CodeMissingVersion      = "W102" // version missing or not a string
	CodeVersionMismatch     = "W103" // version differs from CurrentVersion
	CodeUnknownTimeUnit     = "W104" // timeUnit missing or unrecognized, seconds assumed
	CodeInvalidSampleRate   = "W105" // sampleRate not a positive integer, ignored
	CodeSampleRateRequired  = "W106" // samples time unit without a usable sampleRate
	CodeInvalidDuration     = "W107" // duration not a non-negative number, ignored
	CodeInvalidMetadata     = "W108" // metadata not an object, ignored
	CodeMissingFrames       = "W109" // frames missing or null, scene is empty
	CodeUnconvertibleTime   = "W110" // frame time cannot be converted to seconds, frame dropped
	CodeInvalidFrameTime    = "W111" // frame time missing or not finite, frame dropped
	CodeInvalidNodes        = "W112" // frame nodes missing or not an array, frame kept empty
	CodeInvalidNode         = "W113" // node is not an object, dropped
	CodeInvalidNodeID       = "W114" // node id missing or malformed, dropped
	CodeMissingNodeType     = "W115" // node type missing, dropped
	CodeUnknownNodeType     = "W116" // unknown node type, dropped (reported once per type)
	CodeInvalidNodeField    = "W117" // required node field missing or invalid, dropped
	CodeCoordinateRange     = "W118" // direction component outside the coordinate bound
	CodeInvalidOptional     = "W119" // optional node field invalid, default used
	CodeDuplicateNodeID     = "W120" // node overwritten by a later node with the same id
	CodeFramesReordered     = "W121" // frames were not sorted by time

	// Converter (W201-W209)
	CodeSilentChannel       = "W201" // silent bed channel suppressed
	CodeSilentObject        = "W202" // silent object suppressed
	CodeTrajectoryReordered = "W203" // object trajectory was not sorted by time
	CodeDuplicateKeyframe   = "W204" // two keyframes in one time bucket, later kept
	CodeInvalidKeyframe     = "W205" // keyframe time or direction unusable, dropped
	CodeKeyframeRange       = "W206" // keyframe direction outside the coordinate bound
	CodeDefaultSampleRate   = "W207" // sample rate missing or invalid, default used
	CodeInvalidDurationRec  = "W208" // negative duration ignored
	CodeInvalidBedDirection = "W209" // bed channel direction invalid, channel dropped
)

// Diagnostic is a recoverable observation about the input. Diagnostics never
// change whether an operation succeeds.
type Diagnostic struct {
	Code    string `json:"code"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// String formats the diagnostic for logs and terminals.
func (d Diagnostic) String() string {
	if d.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", d.Code, d.Path, d.Message)
	}
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}

// Diagnostics is an ordered diagnostic list.
type Diagnostics []Diagnostic

// Add appends a formatted diagnostic.
func (ds *Diagnostics) Add(code, path, format string, args ...any) {
	*ds = append(*ds, Diagnostic{Code: code, Path: path, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether any diagnostic carries code.
func (ds Diagnostics) Has(code string) bool {
	return ds.Count(code) > 0
}

// Count returns how many diagnostics carry code.
func (ds Diagnostics) Count(code string) int {
	n := 0
	for _, d := range ds {
		if d.Code == code {
			n++
		}
	}
	return n
}

// Codes returns the code of every diagnostic, in order.
func (ds Diagnostics) Codes() []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}
	return out
}

// JoinPath appends a child segment ("nodes[2]", "[3]", "time") to a path.
func JoinPath(prefix, child string) string {
	if prefix == "" {
		return child
	}
	if child == "" {
		return prefix
	}
	if child[0] == '[' {
		return prefix + child
	}
	return prefix + "." + child
}
