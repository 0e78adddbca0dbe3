package scene

import (
	"fmt"
	"strings"
)

// CoordinatePolicy decides what happens to a direction vector with a
// component outside [-bound, bound].
type CoordinatePolicy string

const (
	// RejectCoordinates drops the node or keyframe. This is the default.
	RejectCoordinates CoordinatePolicy = "reject"

	// ClampCoordinates clamps each component into range and keeps it.
	ClampCoordinates CoordinatePolicy = "clamp"
)

// DefaultCoordinateBound is the largest accepted direction component magnitude.
const DefaultCoordinateBound = 1.0

// ParseCoordinatePolicy resolves a policy name. Empty means reject.
func ParseCoordinatePolicy(s string) (CoordinatePolicy, error) {
	switch CoordinatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case RejectCoordinates, "":
		return RejectCoordinates, nil
	case ClampCoordinates:
		return ClampCoordinates, nil
	default:
		return "", fmt.Errorf("coordinate policy %q: want reject or clamp", s)
	}
}
