package config

import (
	"fmt"
	"strings"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

func (c *Config) normalize() error {
	c.normalizeParser()
	c.normalizeConverter()
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeParser() {
	c.Parser.CoordinatePolicy = strings.ToLower(strings.TrimSpace(c.Parser.CoordinatePolicy))
	if c.Parser.CoordinatePolicy == "" {
		c.Parser.CoordinatePolicy = defaultCoordinatePolicy
	}
	if c.Parser.CoordinateBound == 0 {
		c.Parser.CoordinateBound = defaultCoordinateBound
	}
}

func (c *Config) normalizeConverter() {
	c.Converter.LFEDetection = strings.ToLower(strings.TrimSpace(c.Converter.LFEDetection))
	if c.Converter.LFEDetection == "" {
		c.Converter.LFEDetection = defaultLFEDetection
	}
	if c.Converter.LFEPosition == 0 {
		c.Converter.LFEPosition = defaultLFEPosition
	}
	c.Converter.LFELabel = strings.TrimSpace(c.Converter.LFELabel)
	if c.Converter.LFELabel == "" {
		c.Converter.LFELabel = defaultLFELabel
	}
	if c.Converter.TicksPerSecond == 0 {
		c.Converter.TicksPerSecond = defaultTicksPerSecond
	}
	unit := strings.TrimSpace(c.Converter.TimeUnit)
	if unit == "" {
		unit = defaultTimeUnit
	}
	// Aliases such as "ms" become canonical names; unknown values are left
	// for Validate to report.
	if u, ok := scene.ParseTimeUnit(unit); ok {
		unit = string(u)
	}
	c.Converter.TimeUnit = unit
	if c.Converter.DefaultSampleRate == 0 {
		c.Converter.DefaultSampleRate = defaultSampleRate
	}
}

func (c *Config) normalizeStore() error {
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = defaultStorePath
	}
	if c.Store.Path == ":memory:" {
		return nil
	}
	var err error
	if c.Store.Path, err = expandPath(c.Store.Path); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
