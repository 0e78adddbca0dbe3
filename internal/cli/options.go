package cli

import (
	"fmt"
	"log/slog"

	"github.com/Cult-DSP/LUSID/internal/config"
	"github.com/Cult-DSP/LUSID/internal/convert"
	"github.com/Cult-DSP/LUSID/internal/parser"
	"github.com/Cult-DSP/LUSID/internal/scene"
)

// parserOptions maps the [parser] section onto parser.Options.
func parserOptions(cfg *config.Config, logger *slog.Logger) (parser.Options, error) {
	policy, err := scene.ParseCoordinatePolicy(cfg.Parser.CoordinatePolicy)
	if err != nil {
		return parser.Options{}, err
	}
	return parser.Options{
		CoordinatePolicy: policy,
		CoordinateBound:  cfg.Parser.CoordinateBound,
		Logger:           logger,
	}, nil
}

// convertOptions maps the [converter] and [parser] sections onto
// convert.Options. The coordinate policy is shared with the parser.
func convertOptions(cfg *config.Config, logger *slog.Logger) (convert.Options, error) {
	policy, err := scene.ParseCoordinatePolicy(cfg.Parser.CoordinatePolicy)
	if err != nil {
		return convert.Options{}, err
	}
	detector, err := convert.NewLFEDetector(cfg.Converter.LFEDetection, cfg.Converter.LFEPosition, cfg.Converter.LFELabel)
	if err != nil {
		return convert.Options{}, err
	}
	unit, ok := scene.ParseTimeUnit(cfg.Converter.TimeUnit)
	if !ok {
		return convert.Options{}, fmt.Errorf("time unit %q: want seconds, milliseconds or samples", cfg.Converter.TimeUnit)
	}
	return convert.Options{
		LFE:               detector,
		TicksPerSecond:    cfg.Converter.TicksPerSecond,
		TimeUnit:          unit,
		DefaultSampleRate: cfg.Converter.DefaultSampleRate,
		CoordinatePolicy:  policy,
		CoordinateBound:   cfg.Parser.CoordinateBound,
		Logger:            logger,
	}, nil
}
