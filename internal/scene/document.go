package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Document returns the scene in document form with frame times expressed in
// the declared TimeUnit. Reparsing the result yields an equal scene.
func (s *Scene) Document() (Object, error) {
	unit := s.TimeUnit
	if unit == "" {
		unit = Seconds
	}

	frames := make(Array, len(s.Frames))
	for i, f := range s.Frames {
		t, err := unit.FromSeconds(f.Time, s.SampleRate)
		if err != nil {
			return nil, fmt.Errorf("frames[%d]: %w", i, err)
		}
		nodes := make(Array, len(f.Nodes))
		for j, n := range f.Nodes {
			nodes[j] = NodeDocument(n)
		}
		frames[i] = Object{"time": Number(t), "nodes": nodes}
	}

	doc := Object{
		"version":  String(s.Version),
		"timeUnit": String(unit),
		"frames":   frames,
	}
	if s.SampleRate > 0 {
		doc["sampleRate"] = Number(s.SampleRate)
	}
	if s.Duration != nil {
		doc["duration"] = Number(*s.Duration)
	}
	if s.Metadata != nil {
		doc["metadata"] = s.Metadata.Clone()
	}
	return doc, nil
}

// NodeDocument returns the document form of a single node. Optional fields
// holding their default value are omitted.
func NodeDocument(n Node) Object {
	var obj Object
	switch v := n.(type) {
	case AudioObject:
		obj = Object{"cart": cartArray(v.Cart)}
		if v.Gain != DefaultGain {
			obj["gain"] = Number(v.Gain)
		}
	case DirectSpeaker:
		obj = Object{"cart": cartArray(v.Cart)}
		if v.SpeakerLabel != "" {
			obj["speakerLabel"] = String(v.SpeakerLabel)
		}
		if v.ChannelID != "" {
			obj["channelID"] = String(v.ChannelID)
		}
	case LFE:
		obj = Object{}
	case SpectralFeatures:
		obj = v.Data.Clone()
	case AgentState:
		obj = v.Data.Clone()
	}
	if obj == nil {
		obj = Object{}
	}
	obj["id"] = String(n.NodeID().String())
	obj["type"] = String(n.NodeType())
	return obj
}

func cartArray(c Cart) Array {
	return Array{Number(c[0]), Number(c[1]), Number(c[2])}
}

// MarshalJSON implements json.Marshaler using the document form.
func (s *Scene) MarshalJSON() ([]byte, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	return doc.MarshalJSON()
}

// Encode writes the document form to w, indented when indent is true.
func (s *Scene) Encode(w io.Writer, indent bool) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if indent {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return fmt.Errorf("indent scene: %w", err)
		}
		data = buf.Bytes()
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
