package schema

import (
	_ "embed"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed lusid.cue
var lusidSchema string

// Validation error codes (E300-E399)
const (
	ErrSyntax          = "E300" // document is not valid JSON
	ErrNotObject       = "E301" // top level is not an object
	ErrHeader          = "E302" // header field missing, unknown or wrong type
	ErrFrame           = "E303" // frame missing time or nodes, or has unknown fields
	ErrNodeID          = "E304" // node id missing or malformed
	ErrNodeType        = "E305" // node type missing or unknown
	ErrNodeField       = "E306" // node field missing, unknown or out of range
	ErrFramesUnsorted  = "E307" // frame times decrease
	ErrDuplicateNodeID = "E308" // two nodes in one frame share an id
	ErrSchema          = "E399" // embedded schema failed to compile
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a JSON scene document. filename only labels positions.
// Returns all errors found (does not fail-fast), in document order.
func Validate(data []byte, filename string) []ValidationError {
	ctx := cuecontext.New()
	schema := ctx.CompileString(lusidSchema, cue.Filename("lusid.cue"))
	if err := schema.Err(); err != nil {
		return []ValidationError{{Field: "schema", Message: err.Error(), Code: ErrSchema}}
	}

	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return []ValidationError{{
			Field:   "document",
			Message: firstMessage(err),
			Code:    ErrSyntax,
			Line:    errorLine(err, filename),
		}}
	}
	doc := ctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return []ValidationError{{Field: "document", Message: firstMessage(err), Code: ErrSyntax}}
	}
	if doc.IncompleteKind() != cue.StructKind {
		return []ValidationError{{
			Field:   "document",
			Message: fmt.Sprintf("top level must be an object, got %s", doc.IncompleteKind()),
			Code:    ErrNotObject,
			Line:    lineOf(doc),
		}}
	}

	v := &validator{schema: schema, filename: filename}
	v.check("", ErrHeader, doc, v.schema.LookupPath(cue.ParsePath("#Header")))

	frames := doc.LookupPath(cue.ParsePath("frames"))
	if frames.IncompleteKind() == cue.ListKind {
		v.frames(frames)
	}
	return v.errs
}

type validator struct {
	schema   cue.Value
	filename string
	errs     []ValidationError
}

func (v *validator) frames(frames cue.Value) {
	iter, err := frames.List()
	if err != nil {
		return
	}
	prev := 0.0
	for i := 0; iter.Next(); i++ {
		frame := iter.Value()
		path := fmt.Sprintf("frames[%d]", i)
		if frame.IncompleteKind() != cue.StructKind {
			v.add(ErrFrame, path, "frame must be an object", frame)
			continue
		}
		v.check(path, ErrFrame, frame, v.schema.LookupPath(cue.ParsePath("#Frame")))

		if t, err := frame.LookupPath(cue.ParsePath("time")).Float64(); err == nil {
			if i > 0 && t < prev {
				v.add(ErrFramesUnsorted, path+".time", fmt.Sprintf("time %g is earlier than the previous frame (%g)", t, prev), frame)
			}
			prev = t
		}

		nodes := frame.LookupPath(cue.ParsePath("nodes"))
		if nodes.IncompleteKind() == cue.ListKind {
			v.nodes(path, nodes)
		}
	}
}

func (v *validator) nodes(framePath string, nodes cue.Value) {
	iter, err := nodes.List()
	if err != nil {
		return
	}
	seen := map[string]int{}
	for j := 0; iter.Next(); j++ {
		node := iter.Value()
		path := fmt.Sprintf("%s.nodes[%d]", framePath, j)
		if node.IncompleteKind() != cue.StructKind {
			v.add(ErrNodeField, path, "node must be an object", node)
			continue
		}

		typ, err := node.LookupPath(cue.ParsePath("type")).String()
		if err != nil {
			v.add(ErrNodeType, path+".type", "type must be a string", node)
			continue
		}
		def := v.schema.LookupPath(cue.MakePath(cue.Def("#Node"), cue.Str(typ)))
		if !def.Exists() {
			v.add(ErrNodeType, path+".type", fmt.Sprintf("unknown node type %q", typ), node)
			continue
		}
		v.check(path, ErrNodeField, node, def)

		if id, err := node.LookupPath(cue.ParsePath("id")).String(); err == nil {
			if first, dup := seen[id]; dup {
				v.add(ErrDuplicateNodeID, path+".id", fmt.Sprintf("id %q already used by nodes[%d]", id, first), node)
			} else {
				seen[id] = j
			}
		}
	}
}

// check unifies val with a schema definition and records every violation.
func (v *validator) check(prefix, code string, val, def cue.Value) {
	err := def.Unify(val).Validate(cue.Concrete(true))
	if err == nil {
		return
	}
	roots := [][]string{selectors(def), selectors(val)}
	for _, e := range cueerrors.Errors(err) {
		path := e.Path()
		for _, root := range roots {
			if len(root) > 0 && len(path) >= len(root) && slices.Equal(path[:len(root)], root) {
				path = path[len(root):]
				break
			}
		}
		field := joinField(prefix, path)
		c := code
		if code == ErrNodeField && strings.HasSuffix(field, ".id") {
			c = ErrNodeID
		}
		line := positionLine(e, v.filename)
		if line == 0 {
			line = lineOf(val)
		}
		format, args := e.Msg()
		v.errs = append(v.errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    c,
			Line:    line,
		})
	}
}

func (v *validator) add(code, field, msg string, at cue.Value) {
	v.errs = append(v.errs, ValidationError{Field: field, Message: msg, Code: code, Line: lineOf(at)})
}

func selectors(v cue.Value) []string {
	var out []string
	for _, sel := range v.Path().Selectors() {
		out = append(out, sel.String())
	}
	return out
}

// joinField renders a CUE error path relative to prefix, dropping
// definition selectors.
func joinField(prefix string, path []string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, sel := range path {
		if strings.HasPrefix(sel, "#") {
			continue
		}
		if _, err := strconv.Atoi(sel); err == nil {
			b.WriteString("[" + sel + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(sel)
	}
	if b.Len() == 0 {
		return "document"
	}
	return b.String()
}

func positionLine(e cueerrors.Error, filename string) int {
	positions := append([]token.Pos{e.Position()}, e.InputPositions()...)
	for _, p := range positions {
		if p.IsValid() && p.Filename() == filename {
			return p.Line()
		}
	}
	return 0
}

func errorLine(err error, filename string) int {
	for _, e := range cueerrors.Errors(err) {
		if line := positionLine(e, filename); line > 0 {
			return line
		}
	}
	return 0
}

func lineOf(v cue.Value) int {
	if p := v.Pos(); p.IsValid() {
		return p.Line()
	}
	return 0
}

func firstMessage(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	format, args := errs[0].Msg()
	return fmt.Sprintf(format, args...)
}
