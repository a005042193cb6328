package roadgraph

import (
	"fmt"

	"github.com/andrescamacho/massim-fleetctl/pkg/arena"
)

// GeometrySegment is one edge's pillar polyline, given as an offset/count
// pair into Graph's flat geometry point array.
type GeometrySegment struct {
	Offset uint32
	Count  uint32
}

// RawNode, RawEdge and RawGeometry are the in-memory form of the binary
// graph file records (internal/adapters/graphfile), independent of the
// on-disk layout so Build never sees file-format concerns.
type RawNode struct {
	Lat, Lon int32
}

type RawEdge struct {
	NodeA, NodeB int32
	LinkA, LinkB int32
	Dist         int32
	Flags        int32
	Geo          int32
	Name         int32
}

type RawGeometry struct {
	Points []RawNode
}

// Graph is the arena-backed, immutable-after-load road network.
type Graph struct {
	arena     *arena.Arena
	nodes     arena.FlatArray[Node]
	edges     arena.FlatArray[Edge]
	geoPoints arena.FlatArray[Pos]
	geoIndex  []GeometrySegment

	Bounds Bounds
}

// NodeCount returns the number of tower nodes, including pruned ones.
func (g *Graph) NodeCount() int {
	return g.nodes.Len(g.arena)
}

// EdgeCount returns the number of edges, including pruned ones.
func (g *Graph) EdgeCount() int {
	return g.edges.Len(g.arena)
}

// Node returns node i.
func (g *Graph) Node(i uint32) Node {
	return g.nodes.At(g.arena, int(i))
}

// Edge returns edge i.
func (g *Graph) Edge(i uint32) Edge {
	return g.edges.At(g.arena, int(i))
}

func (g *Graph) setEdge(i uint32, e Edge) {
	g.edges.Set(g.arena, int(i), e)
}

// Geometry returns the pillar polyline for edge i, ordered node_a -> node_b.
func (g *Graph) Geometry(i uint32) []Pos {
	seg := g.geoIndex[g.Edge(i).GeoRef]
	out := make([]Pos, seg.Count)
	for k := uint32(0); k < seg.Count; k++ {
		out[k] = g.geoPoints.At(g.arena, int(seg.Offset+k))
	}
	return out
}

// Build lays raw node/edge/geometry records into a fresh arena-backed Graph
// and runs iterative Tarjan pruning, discarding every node outside the
// largest strongly connected component.
func Build(bounds Bounds, rawNodes []RawNode, rawEdges []RawEdge, rawGeo []RawGeometry) (*Graph, error) {
	if len(rawEdges) > 0 && len(rawGeo) != 0 && len(rawGeo) < len(rawEdges) {
		return nil, fmt.Errorf("roadgraph: geometry table shorter than edge table: %d < %d", len(rawGeo), len(rawEdges))
	}

	a := arena.New(len(rawNodes)*12 + len(rawEdges)*32)
	a.Reserve(len(rawNodes)*12 + len(rawEdges)*32)

	nodes := arena.NewFlatArray[Node](a)
	for _, rn := range rawNodes {
		nodes.PushBack(a, Node{
			EdgeHead: InvalidIndex,
			P:        bounds.ToPos(float64(rn.Lat)/1e6, float64(rn.Lon)/1e6),
		})
	}

	edges := arena.NewFlatArray[Edge](a)
	for _, re := range rawEdges {
		edges.PushBack(a, Edge{
			NodeA:   uint32(re.NodeA),
			NodeB:   uint32(re.NodeB),
			LinkA:   asLink(re.LinkA),
			LinkB:   asLink(re.LinkB),
			Dist:    uint32(re.Dist),
			Flags:   uint32(re.Flags),
			GeoRef:  uint32(re.Geo),
			NameRef: uint32(re.Name),
		})
	}

	geoPoints := arena.NewFlatArray[Pos](a)
	geoIndex := make([]GeometrySegment, len(rawGeo))
	for i, rg := range rawGeo {
		offset := geoPoints.Len(a)
		for _, p := range rg.Points {
			geoPoints.PushBack(a, bounds.ToPos(float64(p.Lat)/1e6, float64(p.Lon)/1e6))
		}
		geoIndex[i] = GeometrySegment{Offset: uint32(offset), Count: uint32(len(rg.Points))}
	}

	g := &Graph{
		arena:     a,
		nodes:     nodes,
		edges:     edges,
		geoPoints: geoPoints,
		geoIndex:  geoIndex,
		Bounds:    bounds,
	}

	g.linkAdjacency()
	g.pruneToLargestSCC()

	return g, nil
}

func asLink(v int32) uint32 {
	if v < 0 {
		return InvalidIndex
	}
	return uint32(v)
}

// linkAdjacency rebuilds each node's intrusive adjacency list from the edge
// table, in case the loaded file's link fields are absent or stale. Every
// edge is pushed onto the head of its endpoints' lists.
func (g *Graph) linkAdjacency() {
	n := g.NodeCount()
	heads := make([]uint32, n)
	for i := range heads {
		heads[i] = InvalidIndex
	}

	m := g.EdgeCount()
	for i := uint32(0); i < uint32(m); i++ {
		e := g.Edge(i)
		if e.Invalid() {
			continue
		}
		e.LinkA = heads[e.NodeA]
		heads[e.NodeA] = i
		e.LinkB = heads[e.NodeB]
		heads[e.NodeB] = i
		g.setEdge(i, e)
	}

	for i := 0; i < n; i++ {
		node := g.Node(uint32(i))
		node.EdgeHead = heads[i]
		g.nodes.Set(g.arena, i, node)
	}
}

// ForEachIncident walks the intrusive adjacency list of node n, calling fn
// with each incident edge index and whether n is that edge's NodeA.
func (g *Graph) ForEachIncident(n uint32, fn func(edgeIdx uint32, atNodeA bool)) {
	node := g.Node(n)
	edgeIdx := node.EdgeHead
	for edgeIdx != InvalidIndex {
		e := g.Edge(edgeIdx)
		atA := e.NodeA == n
		fn(edgeIdx, atA)
		if atA {
			edgeIdx = e.LinkA
		} else {
			edgeIdx = e.LinkB
		}
	}
}
