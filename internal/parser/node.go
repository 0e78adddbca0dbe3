package parser

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

// node validates the id first, then dispatches on type. Any failure drops
// only this node.
func (p *parseState) node(path string, raw any) (scene.Node, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		p.warn(scene.CodeInvalidNode, path, "node must be an object, got %s, dropped", describe(raw))
		return nil, false
	}

	rawID, present := obj["id"]
	idText, isString := rawID.(string)
	if !present || !isString {
		p.warn(scene.CodeInvalidNodeID, scene.JoinPath(path, "id"), "node id must be a string, got %s, dropped", describeValue(rawID))
		return nil, false
	}
	id, err := scene.ParseNodeID(idText)
	if err != nil {
		p.warn(scene.CodeInvalidNodeID, scene.JoinPath(path, "id"), "node id %q must match group.level, dropped", idText)
		return nil, false
	}

	rawType, present := obj["type"]
	typeText, isString := rawType.(string)
	if !present || !isString {
		p.warn(scene.CodeMissingNodeType, scene.JoinPath(path, "type"), "node %s has no string type, dropped", id)
		return nil, false
	}
	nodeType, known := scene.ParseNodeType(typeText)
	if !known {
		if _, seen := p.unknownTypes[typeText]; !seen {
			p.unknownTypes[typeText] = struct{}{}
			p.warn(scene.CodeUnknownNodeType, scene.JoinPath(path, "type"),
				"unknown node type %q dropped, further nodes of this type are dropped silently", typeText)
		}
		return nil, false
	}

	switch nodeType {
	case scene.TypeAudioObject:
		cart, ok := p.cart(path, id, obj)
		if !ok {
			return nil, false
		}
		n := scene.NewAudioObject(id, cart)
		if rawGain, present := obj["gain"]; present {
			if g, ok := number(rawGain); ok {
				n.Gain = g
			} else {
				p.warn(scene.CodeInvalidOptional, scene.JoinPath(path, "gain"),
					"gain must be a finite number, got %s, using %g", describeValue(rawGain), scene.DefaultGain)
			}
		}
		return n, true

	case scene.TypeDirectSpeaker:
		cart, ok := p.cart(path, id, obj)
		if !ok {
			return nil, false
		}
		return scene.DirectSpeaker{
			ID:           id,
			Cart:         cart,
			SpeakerLabel: p.optionalString(path, obj, "speakerLabel"),
			ChannelID:    p.optionalString(path, obj, "channelID"),
		}, true

	case scene.TypeLFE:
		return scene.LFE{ID: id}, true

	case scene.TypeSpectralFeatures, scene.TypeAgentState:
		data, err := payload(obj)
		if err != nil {
			p.warn(scene.CodeInvalidNodeField, path, "node %s data: %v, dropped", id, err)
			return nil, false
		}
		if nodeType == scene.TypeSpectralFeatures {
			return scene.SpectralFeatures{ID: id, Data: data}, true
		}
		return scene.AgentState{ID: id, Data: data}, true
	}
	return nil, false
}

// cart requires exactly three finite numbers, then applies the coordinate
// policy to out-of-range components.
func (p *parseState) cart(path string, id scene.NodeID, obj map[string]any) (scene.Cart, bool) {
	cartPath := scene.JoinPath(path, "cart")
	raw, present := obj["cart"]
	if !present {
		p.warn(scene.CodeInvalidNodeField, cartPath, "node %s missing cart, dropped", id)
		return scene.Cart{}, false
	}
	list, ok := raw.([]any)
	if !ok || len(list) != 3 {
		p.warn(scene.CodeInvalidNodeField, cartPath, "node %s cart must be [x, y, z], got %s, dropped", id, describeValue(raw))
		return scene.Cart{}, false
	}
	var c scene.Cart
	for i, v := range list {
		f, ok := number(v)
		if !ok {
			p.warn(scene.CodeInvalidNodeField, cartPath, "node %s cart[%d] must be a finite number, got %s, dropped", id, i, describeValue(v))
			return scene.Cart{}, false
		}
		c[i] = f
	}

	if c.Within(p.bound) {
		return c, true
	}
	if p.opts.CoordinatePolicy == scene.ClampCoordinates {
		clamped := c.Clamp(p.bound)
		p.warn(scene.CodeCoordinateRange, cartPath, "node %s cart %v outside [-%g, %g], clamped to %v", id, [3]float64(c), p.bound, p.bound, [3]float64(clamped))
		return clamped, true
	}
	p.warn(scene.CodeCoordinateRange, cartPath, "node %s cart %v outside [-%g, %g], dropped", id, [3]float64(c), p.bound, p.bound)
	return scene.Cart{}, false
}

func (p *parseState) optionalString(path string, obj map[string]any, key string) string {
	raw, present := obj[key]
	if !present || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		p.warn(scene.CodeInvalidOptional, scene.JoinPath(path, key), "%s must be a string, got %s, ignored", key, describeValue(raw))
		return ""
	}
	return s
}

// payload collects every field except id and type.
func payload(obj map[string]any) (scene.Object, error) {
	data := make(scene.Object, len(obj))
	for k, v := range obj {
		if k == "id" || k == "type" {
			continue
		}
		val, err := scene.ValueOf(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		data[k] = val
	}
	return data, nil
}

// number accepts json.Number and Go numeric types holding a finite value.
// Booleans and numeric strings are not numbers.
func number(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// describe names the JSON kind of a decoded value.
func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, float32, int, int64, int32, uint64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// describeValue shows scalars verbatim and containers by kind.
func describeValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", val)
	case map[string]any, []any:
		return describe(v)
	default:
		return fmt.Sprint(val)
	}
}
