package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func hasError(errs []ValidationError, code, field string) bool {
	for _, e := range errs {
		if e.Code == code && e.Field == field {
			return true
		}
	}
	return false
}

func TestValidateValidDocument(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "valid.json"))
	require.NoError(t, err)

	assert.Empty(t, Validate(data, "valid.json"))
}

func TestValidateSyntaxError(t *testing.T) {
	errs := Validate([]byte(`{"version": "0.5",`), "broken.json")
	require.Len(t, errs, 1)
	assert.Equal(t, ErrSyntax, errs[0].Code)
}

func TestValidateNotObject(t *testing.T) {
	errs := Validate([]byte(`[1, 2, 3]`), "list.json")
	require.Len(t, errs, 1)
	assert.Equal(t, ErrNotObject, errs[0].Code)
}

func TestValidateHeader(t *testing.T) {
	doc := `{
  "version": "0.5",
  "sampleRate": -1,
  "timeUnit": "frames",
  "extra": true,
  "frames": []
}`
	errs := Validate([]byte(doc), "header.json")
	require.NotEmpty(t, errs)
	for _, e := range errs {
		assert.Equal(t, ErrHeader, e.Code, e.Error())
	}
	assert.True(t, hasError(errs, ErrHeader, "sampleRate"), "%v", errs)
	assert.True(t, hasError(errs, ErrHeader, "timeUnit"), "%v", errs)
	assert.True(t, hasError(errs, ErrHeader, "extra"), "%v", errs)
}

func TestValidateMissingFrames(t *testing.T) {
	errs := Validate([]byte(`{"version": "0.5", "sampleRate": 48000, "timeUnit": "s"}`), "empty.json")
	assert.True(t, hasError(errs, ErrHeader, "frames"), "%v", errs)
}

func TestValidateNodes(t *testing.T) {
	doc := `{
  "version": "0.5",
  "sampleRate": 48000,
  "timeUnit": "seconds",
  "frames": [
    {"time": 0, "nodes": [
      {"id": "1.0", "type": "LFE"},
      {"id": "2.1", "type": "audio_object", "cart": [0, 2, 0]},
      {"id": "3.1", "type": "reverb_zone"},
      {"id": "4.1", "type": "direct_speaker", "cart": [0, 1, 0], "color": "red"}
    ]}
  ]
}`
	errs := Validate([]byte(doc), "nodes.json")

	assert.True(t, hasError(errs, ErrNodeID, "frames[0].nodes[0].id"), "%v", errs)
	assert.True(t, hasError(errs, ErrNodeField, "frames[0].nodes[1].cart[1]"), "%v", errs)
	assert.True(t, hasError(errs, ErrNodeType, "frames[0].nodes[2].type"), "%v", errs)
	assert.True(t, hasError(errs, ErrNodeField, "frames[0].nodes[3].color"), "%v", errs)

	for _, e := range errs {
		if e.Code == ErrNodeType {
			assert.Equal(t, 9, e.Line)
		}
	}
}

func TestValidateOrderingAndDuplicates(t *testing.T) {
	doc := `{
  "version": "0.5",
  "sampleRate": 48000,
  "timeUnit": "seconds",
  "frames": [
    {"time": 1, "nodes": [
      {"id": "1.1", "type": "LFE"},
      {"id": "1.1", "type": "LFE"}
    ]},
    {"time": 0.5, "nodes": []}
  ]
}`
	errs := Validate([]byte(doc), "order.json")
	assert.ElementsMatch(t, []string{ErrDuplicateNodeID, ErrFramesUnsorted}, codes(errs))
	assert.True(t, hasError(errs, ErrDuplicateNodeID, "frames[0].nodes[1].id"))
	assert.True(t, hasError(errs, ErrFramesUnsorted, "frames[1].time"))
}

func TestValidateFrameShape(t *testing.T) {
	doc := `{"version": "0.5", "sampleRate": 48000, "timeUnit": "seconds",
  "frames": [{"nodes": []}, "nope", {"time": 1, "nodes": [], "label": "x"}]}`
	errs := Validate([]byte(doc), "frames.json")

	assert.True(t, hasError(errs, ErrFrame, "frames[0].time"), "%v", errs)
	assert.True(t, hasError(errs, ErrFrame, "frames[1]"), "%v", errs)
	assert.True(t, hasError(errs, ErrFrame, "frames[2].label"), "%v", errs)
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Field: "frames[0].time", Message: "required", Code: ErrFrame, Line: 4}
	assert.Equal(t, "[E303] line 4: frames[0].time: required", e.Error())

	e.Line = 0
	assert.Equal(t, "[E303] frames[0].time: required", e.Error())
}
