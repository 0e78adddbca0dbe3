package scene

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// nodeIDPattern is the only accepted id form: two positive integers without
// leading zeros joined by a single dot.
var nodeIDPattern = regexp.MustCompile(`^[1-9][0-9]*\.[1-9][0-9]*$`)

// NodeID identifies a node within a frame as group.level.
// Level 1 is the primary node of a group; levels 2 and above carry
// metadata attached to that group.
type NodeID struct {
	Group int
	Level int
}

// ParseNodeID parses the textual group.level form.
func ParseNodeID(s string) (NodeID, error) {
	if !nodeIDPattern.MatchString(s) {
		return NodeID{}, fmt.Errorf("node id %q does not match group.level", s)
	}
	groupText, levelText, _ := strings.Cut(s, ".")
	group, err := strconv.Atoi(groupText)
	if err != nil {
		return NodeID{}, fmt.Errorf("node id %q: group: %w", s, err)
	}
	level, err := strconv.Atoi(levelText)
	if err != nil {
		return NodeID{}, fmt.Errorf("node id %q: level: %w", s, err)
	}
	return NodeID{Group: group, Level: level}, nil
}

// MustParseNodeID is like ParseNodeID but panics on error.
// Use only in tests or with literal ids.
func MustParseNodeID(s string) NodeID {
	id, err := ParseNodeID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the group.level form.
func (id NodeID) String() string {
	return strconv.Itoa(id.Group) + "." + strconv.Itoa(id.Level)
}

// Valid reports whether both components are positive.
func (id NodeID) Valid() bool {
	return id.Group >= 1 && id.Level >= 1
}

// IsPrimary reports whether the id addresses the primary node of its group.
func (id NodeID) IsPrimary() bool {
	return id.Level == 1
}

// Compare orders ids by group, then level.
func (id NodeID) Compare(other NodeID) int {
	if c := cmp.Compare(id.Group, other.Group); c != 0 {
		return c
	}
	return cmp.Compare(id.Level, other.Level)
}

// MarshalText implements encoding.TextMarshaler.
func (id NodeID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("invalid node id %d.%d", id.Group, id.Level)
	}
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *NodeID) UnmarshalText(text []byte) error {
	parsed, err := ParseNodeID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
