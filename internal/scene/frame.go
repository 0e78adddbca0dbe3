package scene

// Frame is the set of nodes emitted at one instant.
type Frame struct {
	// Time is in seconds regardless of the scene's declared TimeUnit.
	Time  float64
	Nodes []Node
}

// Duplicate records a node discarded by NewFrame because a later node in
// the input carried the same id.
type Duplicate struct {
	// Index of the discarded node in the input slice.
	Index int

	// Winner is the index of the node that replaced it.
	Winner int

	Node Node
}

// NewFrame builds a frame whose node ids are unique. When two nodes share an
// id the later one wins: the earlier is removed and the later keeps its own
// position relative to the other survivors. Every discarded node is
// returned so the caller can report it.
func NewFrame(t float64, nodes []Node) (Frame, []Duplicate) {
	last := make(map[NodeID]int, len(nodes))
	for i, n := range nodes {
		last[n.NodeID()] = i
	}
	if len(last) == len(nodes) {
		return Frame{Time: t, Nodes: nodes}, nil
	}

	var dups []Duplicate
	kept := make([]Node, 0, len(last))
	for i, n := range nodes {
		if winner := last[n.NodeID()]; winner != i {
			dups = append(dups, Duplicate{Index: i, Winner: winner, Node: n})
			continue
		}
		kept = append(kept, n)
	}
	return Frame{Time: t, Nodes: kept}, dups
}

// Node returns the node with id, if present.
func (f Frame) Node(id NodeID) (Node, bool) {
	for _, n := range f.Nodes {
		if n.NodeID() == id {
			return n, true
		}
	}
	return nil, false
}

// NodesByType returns the nodes of type t in frame order.
func (f Frame) NodesByType(t NodeType) []Node {
	var out []Node
	for _, n := range f.Nodes {
		if n.NodeType() == t {
			out = append(out, n)
		}
	}
	return out
}

// NodesByGroup returns the nodes of group g in frame order.
func (f Frame) NodesByGroup(g int) []Node {
	var out []Node
	for _, n := range f.Nodes {
		if n.NodeID().Group == g {
			out = append(out, n)
		}
	}
	return out
}
