package parser

import (
	"log/slog"
	"math"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

// Options configures a parse. The zero value is usable.
type Options struct {
	// CoordinatePolicy for out-of-range direction components. Empty rejects.
	CoordinatePolicy scene.CoordinatePolicy

	// CoordinateBound defaults to scene.DefaultCoordinateBound when not positive.
	CoordinateBound float64

	// Logger receives every diagnostic at debug level. Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns reject-and-drop coordinates with the unit bound.
func DefaultOptions() Options {
	return Options{
		CoordinatePolicy: scene.RejectCoordinates,
		CoordinateBound:  scene.DefaultCoordinateBound,
	}
}

func (o Options) bound() float64 {
	if o.CoordinateBound <= 0 || math.IsNaN(o.CoordinateBound) {
		return scene.DefaultCoordinateBound
	}
	return o.CoordinateBound
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}
