package pathfinding

import "voxelpath/internal/world"

// NodeID is a handle into the node arena of a single search.
type NodeID int32

const noParent NodeID = -1

// unscored marks a G/H/F value that has not been computed yet.
const unscored = -1.0

// Offset is a coordinate relative to the search origin.
type Offset struct {
	X, Y, Z int
}

// OffsetBetween returns coord expressed relative to origin.
func OffsetBetween(origin, coord world.BlockCoord) Offset {
	return Offset{X: coord.X - origin.X, Y: coord.Y - origin.Y, Z: coord.Z - origin.Z}
}

// Abs converts the offset back to an absolute coordinate.
func (o Offset) Abs(origin world.BlockCoord) world.BlockCoord {
	return origin.Add(o.X, o.Y, o.Z)
}

// Node is one visited or candidate cell. Position and terrain never change
// after creation; only the parent link and scores of an open node may be
// rebound to a cheaper predecessor.
type Node struct {
	Coord   world.BlockCoord
	Offset  Offset
	Parent  NodeID
	Terrain Terrain

	depth   int
	g, h, f float64
}

func (n *Node) G() float64 { return n.g }
func (n *Node) H() float64 { return n.h }
func (n *Node) F() float64 { return n.f }

// Depth is the number of steps from the start node.
func (n *Node) Depth() int { return n.depth }

func (n *Node) scored() bool { return n.f != unscored }

// arena owns every node of one search. Parent links are indices, so the
// whole tree is dropped by truncating the slice.
type arena struct {
	origin world.BlockCoord
	nodes  []Node
}

func (a *arena) reset(origin world.BlockCoord) {
	a.origin = origin
	a.nodes = a.nodes[:0]
}

func (a *arena) len() int { return len(a.nodes) }

func (a *arena) node(id NodeID) *Node {
	return &a.nodes[id]
}

func (a *arena) add(coord world.BlockCoord, parent NodeID, terrain Terrain) NodeID {
	depth := 0
	if parent != noParent {
		depth = a.nodes[parent].depth + 1
	}
	a.nodes = append(a.nodes, Node{
		Coord:   coord,
		Offset:  OffsetBetween(a.origin, coord),
		Parent:  parent,
		Terrain: terrain,
		depth:   depth,
		g:       unscored,
		h:       unscored,
		f:       unscored,
	})
	return NodeID(len(a.nodes) - 1)
}

// rebind moves an open node under a new parent and clears its scores.
func (a *arena) rebind(id, parent NodeID) {
	n := &a.nodes[id]
	n.Parent = parent
	n.depth = a.nodes[parent].depth + 1
	n.g, n.h, n.f = unscored, unscored, unscored
}

// path walks parent links from id back to the root and returns the
// coordinates in root-to-id order.
func (a *arena) path(id NodeID) []world.BlockCoord {
	path := make([]world.BlockCoord, a.nodes[id].depth+1)
	for i := len(path) - 1; id != noParent; i-- {
		path[i] = a.nodes[id].Coord
		id = a.nodes[id].Parent
	}
	return path
}
