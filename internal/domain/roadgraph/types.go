// Package roadgraph implements the compressed road network (spec.md §4.C)
// and the snapping/routing layer built on top of it (spec.md §4.D): nodes,
// one-way edges, pillar geometry, strongly-connected-component pruning,
// nearest-position snapping and bidirectional A* with a per-position
// single-source Dijkstra lookup cache.
package roadgraph

import "math"

// InvalidIndex marks a pruned node's EdgeHead, or the absence of a link in
// an edge's intrusive adjacency list.
const InvalidIndex = ^uint32(0)

// One-way direction flags on Edge.Flags.
const (
	FlagAtoB uint32 = 1 << 0
	FlagBtoA uint32 = 1 << 1
)

// Pos is a lattice point in the normalised [0, 65535]^2 rectangle covering
// the map plus its padding ring.
type Pos struct {
	Lat uint16
	Lon uint16
}

// Node is a tower node in the road graph. EdgeHead indexes into Graph.edges
// as the first edge of this node's intrusive adjacency list; InvalidIndex
// marks a node pruned by strongly-connected-component filtering.
type Node struct {
	EdgeHead uint32
	P        Pos
}

// Edge connects NodeA to NodeB with per-direction traversal flags. LinkA is
// the next edge incident on NodeA (the intrusive list head lives on the
// node); LinkB is the next edge incident on NodeB. Dist is in metres·10³ as
// spec.md's wire format uses. GeoRef indexes the geometry segment table;
// NameRef indexes an interned street-name table.
type Edge struct {
	NodeA, NodeB uint32
	LinkA, LinkB uint32
	Dist         uint32
	Flags        uint32
	GeoRef       uint32
	NameRef      uint32
}

// Invalid reports whether an edge has been pruned (both endpoints zeroed
// out by SCC pruning leaves Flags at 0, which never occurs on a live edge).
func (e Edge) Invalid() bool {
	return e.Flags == 0
}

// AllowsAtoB reports whether this edge may be traversed from NodeA to NodeB.
func (e Edge) AllowsAtoB() bool {
	return e.Flags&FlagAtoB != 0
}

// AllowsBtoA reports whether this edge may be traversed from NodeB to NodeA.
func (e Edge) AllowsBtoA() bool {
	return e.Flags&FlagBtoA != 0
}

// GraphPosition is a unified coordinate on the road graph: either a node
// (EdgePos == 0) or a fractional position along an edge's A→B arc.
// (EdgePos - 0.5) / 255 gives the fractional arc position when EdgePos != 0.
type GraphPosition struct {
	ID      uint32 // node index, or edge index when EdgePos != 0
	EdgePos uint8
}

// IsNode reports whether this position denotes a tower node exactly.
func (g GraphPosition) IsNode() bool {
	return g.EdgePos == 0
}

// ArcFraction returns the fractional position along the edge's A→B arc;
// only meaningful when !IsNode().
func (g GraphPosition) ArcFraction() float64 {
	return (float64(g.EdgePos) - 0.5) / 255.0
}

// NewEdgeGraphPosition builds a GraphPosition on edge edgeIdx at the given
// arc fraction in (0,1).
func NewEdgeGraphPosition(edgeIdx uint32, fraction float64) GraphPosition {
	pos := uint8(math.Round(fraction*255.0 + 0.5))
	if pos == 0 {
		pos = 1
	}
	return GraphPosition{ID: edgeIdx, EdgePos: pos}
}
