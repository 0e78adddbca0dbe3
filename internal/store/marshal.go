package store

import (
	"fmt"
	"math"

	"github.com/Cult-DSP/LUSID/internal/parser"
	"github.com/Cult-DSP/LUSID/internal/scene"
)

// marshalScene returns the canonical document stored in scenes.document.
func marshalScene(sc *scene.Scene) (string, error) {
	data, err := scene.Canonical(sc)
	if err != nil {
		return "", fmt.Errorf("marshal scene: %w", err)
	}
	return string(data), nil
}

// unmarshalScene rebuilds a scene from a stored document. Stored documents
// were validated on import, so coordinates are accepted at any magnitude:
// a scene imported with a wider bound must load unchanged.
func unmarshalScene(data string) (*scene.Scene, error) {
	sc, _, err := parser.ParseBytes([]byte(data), parser.Options{
		CoordinatePolicy: scene.RejectCoordinates,
		CoordinateBound:  math.Inf(1),
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal scene: %w", err)
	}
	return sc, nil
}
