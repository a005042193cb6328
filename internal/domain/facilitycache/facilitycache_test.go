package facilitycache

import (
	"testing"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
)

func testGraph(t *testing.T) *roadgraph.Graph {
	t.Helper()
	bounds := roadgraph.Bounds{MinLat: 0, MaxLat: 1, MinLon: 0, MaxLon: 1}
	rawNodes := []roadgraph.RawNode{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1_000_000},
		{Lat: 1_000_000, Lon: 1_000_000},
	}
	bothWays := int32(roadgraph.FlagAtoB | roadgraph.FlagBtoA)
	rawEdges := []roadgraph.RawEdge{
		{NodeA: 0, NodeB: 1, LinkA: -1, LinkB: -1, Dist: 1000, Flags: bothWays},
		{NodeA: 1, NodeB: 2, LinkA: -1, LinkB: -1, Dist: 1000, Flags: bothWays},
	}
	rawGeo := []roadgraph.RawGeometry{{}, {}}

	g, err := roadgraph.Build(bounds, rawNodes, rawEdges, rawGeo)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestFacilityCacheWarmsAndLooksUp(t *testing.T) {
	g := testGraph(t)
	fc := New(g)

	posA := g.Node(0).P
	posB := g.Node(2).P

	fc.RegisterPos(1, posA, true)
	fc.RegisterPos(2, posB, true)
	fc.CalcFacilities()

	d, ok := fc.DistanceByID(1, 2)
	if !ok {
		t.Fatalf("expected a warm distance between registered facilities")
	}
	if d == 0 {
		t.Fatalf("expected nonzero distance between distinct facilities")
	}
}

func TestFacilityCacheResetKeepsFacilities(t *testing.T) {
	g := testGraph(t)
	fc := New(g)

	posA := g.Node(0).P
	posB := g.Node(2).P
	fc.RegisterPos(1, posA, true)
	fc.RegisterPos(2, posB, true)
	fc.CalcFacilities()

	agentPos := g.Node(1).P
	fc.RegisterPos(10, agentPos, false)

	fc.Reset()

	if _, ok := fc.IndexOf(1); !ok {
		t.Fatalf("expected facility 1 to survive Reset")
	}
	if _, ok := fc.IndexOf(10); ok {
		t.Fatalf("expected agent entry 10 to be evicted by Reset")
	}
}
