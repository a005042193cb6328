package roadgraph

import "testing"

func square(t *testing.T) *Graph {
	t.Helper()

	bounds := Bounds{MinLat: 0, MaxLat: 1, MinLon: 0, MaxLon: 1}

	// A 4-node square with bidirectional edges on every side, all in one
	// strongly connected component.
	rawNodes := []RawNode{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1_000_000},
		{Lat: 1_000_000, Lon: 1_000_000},
		{Lat: 1_000_000, Lon: 0},
	}

	bothWays := int32(FlagAtoB | FlagBtoA)
	rawEdges := []RawEdge{
		{NodeA: 0, NodeB: 1, LinkA: -1, LinkB: -1, Dist: 1000, Flags: bothWays, Geo: 0, Name: 0},
		{NodeA: 1, NodeB: 2, LinkA: -1, LinkB: -1, Dist: 1000, Flags: bothWays, Geo: 1, Name: 0},
		{NodeA: 2, NodeB: 3, LinkA: -1, LinkB: -1, Dist: 1000, Flags: bothWays, Geo: 2, Name: 0},
		{NodeA: 3, NodeB: 0, LinkA: -1, LinkB: -1, Dist: 1000, Flags: bothWays, Geo: 3, Name: 0},
	}

	rawGeo := []RawGeometry{{}, {}, {}, {}}

	g, err := Build(bounds, rawNodes, rawEdges, rawGeo)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestPosRoundTrip(t *testing.T) {
	bounds := Bounds{MinLat: 10, MaxLat: 20, MinLon: 30, MaxLon: 40}
	lat, lon := 15.5, 35.25

	p := bounds.ToPos(lat, lon)
	gotLat, gotLon := bounds.FromPos(p)

	const tolerance = 0.001
	if abs(gotLat-lat) > tolerance || abs(gotLon-lon) > tolerance {
		t.Fatalf("round trip drifted: got (%f, %f), want approx (%f, %f)", gotLat, gotLon, lat, lon)
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestSnapExactNodeReturnsThatNode(t *testing.T) {
	g := square(t)
	node0 := g.Node(0)

	pos := g.Snap(node0.P)
	if !pos.IsNode() || pos.ID != 0 {
		t.Fatalf("snapping a node's own position should return that node, got %+v", pos)
	}
}

func TestDistRoadSymmetry(t *testing.T) {
	g := square(t)

	s := GraphPosition{ID: 0, EdgePos: 0}
	tpos := GraphPosition{ID: 2, EdgePos: 0}

	d1, _, err := g.DistRoad(s, tpos, false)
	if err != nil {
		t.Fatalf("DistRoad(s,t) failed: %v", err)
	}
	d2, _, err := g.DistRoad(tpos, s, false)
	if err != nil {
		t.Fatalf("DistRoad(t,s) failed: %v", err)
	}
	if d1 != d2 {
		t.Fatalf("expected symmetric distances, got %d vs %d", d1, d2)
	}
}

func TestDistRoadSameNodeIsZero(t *testing.T) {
	g := square(t)
	s := GraphPosition{ID: 1, EdgePos: 0}

	d, _, err := g.DistRoad(s, s, false)
	if err != nil {
		t.Fatalf("DistRoad same node failed: %v", err)
	}
	if d != 0 {
		t.Fatalf("expected zero distance for identical positions, got %d", d)
	}
}

func TestDistCacheAgreesWithDistRoad(t *testing.T) {
	g := square(t)
	cache := NewDistCache(g)

	s := GraphPosition{ID: 0, EdgePos: 0}
	tpos := GraphPosition{ID: 2, EdgePos: 0}

	cache.AddLookup(s)

	want, _, err := g.DistRoad(s, tpos, false)
	if err != nil {
		t.Fatalf("DistRoad failed: %v", err)
	}

	got, err := cache.Lookup(s, tpos)
	if err != nil {
		t.Fatalf("cache Lookup failed: %v", err)
	}
	if got != want {
		t.Fatalf("cached distance %d != DistRoad %d", got, want)
	}
}

func TestSCCPruningKeepsAllNodesOfConnectedSquare(t *testing.T) {
	g := square(t)
	for i := uint32(0); i < 4; i++ {
		if g.Node(i).EdgeHead == InvalidIndex {
			t.Fatalf("node %d was pruned from a fully connected square", i)
		}
	}
}

func TestSCCPruningRemovesIsolatedNode(t *testing.T) {
	bounds := Bounds{MinLat: 0, MaxLat: 1, MinLon: 0, MaxLon: 1}
	rawNodes := []RawNode{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 1_000_000},
		{Lat: 1_000_000, Lon: 1_000_000}, // connected only one-way, not in main SCC
	}
	rawEdges := []RawEdge{
		{NodeA: 0, NodeB: 1, LinkA: -1, LinkB: -1, Dist: 1000, Flags: int32(FlagAtoB | FlagBtoA), Geo: 0},
		{NodeA: 1, NodeB: 2, LinkA: -1, LinkB: -1, Dist: 1000, Flags: int32(FlagAtoB), Geo: 1}, // one-way in only
	}
	rawGeo := []RawGeometry{{}, {}}

	g, err := Build(bounds, rawNodes, rawEdges, rawGeo)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if g.Node(2).EdgeHead != InvalidIndex {
		t.Fatalf("expected node 2 to be pruned: it cannot reach back to the main component")
	}
	if g.Node(0).EdgeHead == InvalidIndex || g.Node(1).EdgeHead == InvalidIndex {
		t.Fatalf("nodes 0 and 1 form the largest strongly connected component and must survive")
	}
}
