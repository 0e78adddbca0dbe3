package config

import (
	"errors"
	"fmt"
	"math"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateParser(); err != nil {
		return err
	}
	if err := c.validateConverter(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateParser() error {
	if _, err := scene.ParseCoordinatePolicy(c.Parser.CoordinatePolicy); err != nil {
		return fmt.Errorf("parser.coordinate_policy: %w", err)
	}
	bound := c.Parser.CoordinateBound
	if bound <= 0 || math.IsNaN(bound) || math.IsInf(bound, 0) {
		return errors.New("parser.coordinate_bound must be a positive finite number")
	}
	return nil
}

func (c *Config) validateConverter() error {
	switch c.Converter.LFEDetection {
	case "fixed_index", "label":
	default:
		return fmt.Errorf("converter.lfe_detection must be fixed_index or label, got %q", c.Converter.LFEDetection)
	}
	if c.Converter.LFEPosition < 1 {
		return errors.New("converter.lfe_position must be 1 or greater")
	}
	if c.Converter.TicksPerSecond < 1 {
		return errors.New("converter.ticks_per_second must be positive")
	}
	if _, ok := scene.ParseTimeUnit(c.Converter.TimeUnit); !ok {
		return fmt.Errorf("converter.time_unit must be seconds, milliseconds or samples, got %q", c.Converter.TimeUnit)
	}
	if c.Converter.DefaultSampleRate < 1 {
		return errors.New("converter.default_sample_rate must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
