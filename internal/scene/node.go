package scene

import "math"

// NodeType is the discriminant written in a node's "type" field.
type NodeType string

const (
	TypeAudioObject      NodeType = "audio_object"
	TypeDirectSpeaker    NodeType = "direct_speaker"
	TypeLFE              NodeType = "LFE"
	TypeSpectralFeatures NodeType = "spectral_features"
	TypeAgentState       NodeType = "agent_state"
)

// NodeTypes lists every known node type in document order.
var NodeTypes = []NodeType{
	TypeAudioObject,
	TypeDirectSpeaker,
	TypeLFE,
	TypeSpectralFeatures,
	TypeAgentState,
}

// ParseNodeType matches the exact, case-sensitive type string.
func ParseNodeType(s string) (NodeType, bool) {
	for _, t := range NodeTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Node is a sealed interface over the five node variants.
// Only AudioObject, DirectSpeaker, LFE, SpectralFeatures and AgentState
// implement it, so a type switch over them is exhaustive.
type Node interface {
	NodeID() NodeID
	NodeType() NodeType
	sceneNode()
}

// Cart is a Cartesian direction vector. It is not required to be unit length.
type Cart [3]float64

// Finite reports whether every component is a finite number.
func (c Cart) Finite() bool {
	for _, v := range c {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Within reports whether every component lies in [-bound, bound].
func (c Cart) Within(bound float64) bool {
	for _, v := range c {
		if v < -bound || v > bound {
			return false
		}
	}
	return true
}

// Clamp returns c with every component clamped into [-bound, bound].
func (c Cart) Clamp(bound float64) Cart {
	var out Cart
	for i, v := range c {
		out[i] = max(-bound, min(bound, v))
	}
	return out
}

// DefaultGain is the gain of an audio object that does not specify one.
const DefaultGain = 1.0

// AudioObject is a moving point source.
type AudioObject struct {
	ID   NodeID
	Cart Cart
	Gain float64
}

func (n AudioObject) NodeID() NodeID     { return n.ID }
func (n AudioObject) NodeType() NodeType { return TypeAudioObject }
func (AudioObject) sceneNode()           {}

// NewAudioObject returns an audio object with the default gain.
func NewAudioObject(id NodeID, cart Cart) AudioObject {
	return AudioObject{ID: id, Cart: cart, Gain: DefaultGain}
}

// DirectSpeaker is a bed channel routed to a fixed speaker position.
type DirectSpeaker struct {
	ID           NodeID
	Cart         Cart
	SpeakerLabel string
	ChannelID    string
}

func (n DirectSpeaker) NodeID() NodeID     { return n.ID }
func (n DirectSpeaker) NodeType() NodeType { return TypeDirectSpeaker }
func (DirectSpeaker) sceneNode()           {}

// LFE is the low-frequency effects channel. It has no position.
type LFE struct {
	ID NodeID
}

func (n LFE) NodeID() NodeID     { return n.ID }
func (n LFE) NodeType() NodeType { return TypeLFE }
func (LFE) sceneNode()           {}

// SpectralFeatures carries per-frame analysis data for a group.
type SpectralFeatures struct {
	ID   NodeID
	Data Object
}

func (n SpectralFeatures) NodeID() NodeID     { return n.ID }
func (n SpectralFeatures) NodeType() NodeType { return TypeSpectralFeatures }
func (SpectralFeatures) sceneNode()           {}

// AgentState carries free-form agent state for a group.
type AgentState struct {
	ID   NodeID
	Data Object
}

func (n AgentState) NodeID() NodeID     { return n.ID }
func (n AgentState) NodeType() NodeType { return TypeAgentState }
func (AgentState) sceneNode()           {}

// CartOf returns the direction of positional nodes.
func CartOf(n Node) (Cart, bool) {
	switch v := n.(type) {
	case AudioObject:
		return v.Cart, true
	case DirectSpeaker:
		return v.Cart, true
	default:
		return Cart{}, false
	}
}

// withCart returns n with its direction replaced; non-positional nodes are
// returned unchanged.
func withCart(n Node, c Cart) Node {
	switch v := n.(type) {
	case AudioObject:
		v.Cart = c
		return v
	case DirectSpeaker:
		v.Cart = c
		return v
	default:
		return n
	}
}
