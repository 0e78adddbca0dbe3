package scene

import (
	"errors"
	"fmt"
)

// ErrorKind names the cause of a fatal error.
type ErrorKind string

const (
	// KindMalformedDocument: the top level is not an object, or frames is
	// not an array of objects.
	KindMalformedDocument ErrorKind = "MalformedDocument"

	// KindMissingInitialKeyframe: a converter source has no keyframe at t=0.
	KindMissingInitialKeyframe ErrorKind = "MissingInitialKeyframe"

	// KindInvalidSampleRate: samples must be converted but the rate is not positive.
	KindInvalidSampleRate ErrorKind = "InvalidSampleRate"

	// KindIndexOutOfRange: a frame lookup outside [0, FrameCount).
	KindIndexOutOfRange ErrorKind = "IndexOutOfRange"
)

// Error is a fatal error raised while building or querying a scene.
// No partial scene accompanies it.
type Error struct {
	Kind ErrorKind

	// Message is a human-readable description.
	Message string

	// Source names the offending input (a JSON path or a converter source).
	Source string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Source)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// KindOf returns the kind of a wrapped *Error, or "" when err is not one.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsMalformedDocument reports whether err is a MalformedDocument error.
func IsMalformedDocument(err error) bool {
	return KindOf(err) == KindMalformedDocument
}

// IsMissingInitialKeyframe reports whether err is a MissingInitialKeyframe error.
func IsMissingInitialKeyframe(err error) bool {
	return KindOf(err) == KindMissingInitialKeyframe
}

// IsInvalidSampleRate reports whether err is an InvalidSampleRate error.
func IsInvalidSampleRate(err error) bool {
	return KindOf(err) == KindInvalidSampleRate
}

// IsIndexOutOfRange reports whether err is an IndexOutOfRange error.
func IsIndexOutOfRange(err error) bool {
	return KindOf(err) == KindIndexOutOfRange
}

// NewMalformedDocumentError creates an Error for unrecoverable document structure.
func NewMalformedDocumentError(path, message string) *Error {
	return &Error{Kind: KindMalformedDocument, Message: message, Source: path}
}

// NewMissingInitialKeyframeError creates an Error for a source whose first
// keyframe is not at time 0.
func NewMissingInitialKeyframeError(source string, first float64) *Error {
	return &Error{
		Kind:    KindMissingInitialKeyframe,
		Message: fmt.Sprintf("first keyframe at %gs, want 0", first),
		Source:  source,
	}
}

// NewInvalidSampleRateError creates an Error for a non-positive sample rate.
func NewInvalidSampleRateError(rate int) *Error {
	return &Error{
		Kind:    KindInvalidSampleRate,
		Message: fmt.Sprintf("sample rate %d must be positive to convert samples", rate),
	}
}

// NewIndexOutOfRangeError creates an Error for a frame lookup out of bounds.
func NewIndexOutOfRangeError(index, count int) *Error {
	return &Error{
		Kind:    KindIndexOutOfRange,
		Message: fmt.Sprintf("frame index %d out of range [0, %d)", index, count),
	}
}
