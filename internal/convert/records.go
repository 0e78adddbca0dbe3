package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DirectSpeakerRecord describes one bed channel with a static position.
type DirectSpeakerRecord struct {
	OrderIndex   int       `json:"orderIndex" yaml:"orderIndex"`
	Name         string    `json:"name,omitempty" yaml:"name,omitempty"`
	Direction    []float64 `json:"directionVector" yaml:"directionVector"`
	SpeakerLabel string    `json:"speakerLabel,omitempty" yaml:"speakerLabel,omitempty"`
	ChannelID    string    `json:"channelID,omitempty" yaml:"channelID,omitempty"`
	IsSilent     bool      `json:"isSilent,omitempty" yaml:"isSilent,omitempty"`
}

// Keyframe is one timed position of an object. Time is in seconds.
type Keyframe struct {
	Time      float64   `json:"time" yaml:"time"`
	Direction []float64 `json:"directionVector" yaml:"directionVector"`
}

// ObjectRecord describes one audio object with its own trajectory.
type ObjectRecord struct {
	OrderIndex int        `json:"orderIndex" yaml:"orderIndex"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
	Trajectory []Keyframe `json:"trajectory" yaml:"trajectory"`
	IsSilent   bool       `json:"isSilent,omitempty" yaml:"isSilent,omitempty"`
}

// GlobalRecord carries transport information for the whole program.
type GlobalRecord struct {
	SampleRate      int      `json:"sampleRate" yaml:"sampleRate"`
	DurationSeconds *float64 `json:"durationSeconds,omitempty" yaml:"durationSeconds,omitempty"`
	SourceFormat    string   `json:"sourceFormat,omitempty" yaml:"sourceFormat,omitempty"`
	Format          string   `json:"format,omitempty" yaml:"format,omitempty"`
}

// Input is everything an upstream metadata extractor hands the converter.
type Input struct {
	Global         GlobalRecord          `json:"global" yaml:"global"`
	DirectSpeakers []DirectSpeakerRecord `json:"directSpeakers" yaml:"directSpeakers"`
	Objects        []ObjectRecord        `json:"objects" yaml:"objects"`
}

// LoadInput reads converter input from a .json file, or YAML otherwise.
// Unknown fields are rejected in both formats.
func LoadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return DecodeJSON(bytes.NewReader(data))
	}
	return DecodeYAML(bytes.NewReader(data))
}

// DecodeYAML decodes converter input written as YAML.
func DecodeYAML(r io.Reader) (*Input, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var in Input
	if err := dec.Decode(&in); err != nil {
		if err == io.EOF {
			return &in, nil
		}
		return nil, fmt.Errorf("parse records: %w", err)
	}
	return &in, nil
}

// DecodeJSON decodes converter input written as JSON.
func DecodeJSON(r io.Reader) (*Input, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var in Input
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	return &in, nil
}
