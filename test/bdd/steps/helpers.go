// Package steps holds the godog step definitions driving the scenarios
// under test/bdd/features, grounded on the teacher's test/bdd/steps
// package: one context struct per feature, a reset hook, and Initialize*
// functions registering Given/When/Then regexes.
package steps

import (
	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/world"
)

// twoNodeGraph builds a trivial A-B road with the given hop distance in
// metres.
func twoNodeGraph(distMetres uint32) (*roadgraph.Graph, error) {
	bounds := roadgraph.Bounds{MinLat: 0, MaxLat: 1, MinLon: 0, MaxLon: 1}
	rawNodes := []roadgraph.RawNode{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1_000_000}}
	bothWays := int32(roadgraph.FlagAtoB | roadgraph.FlagBtoA)
	rawEdges := []roadgraph.RawEdge{{NodeA: 0, NodeB: 1, LinkA: -1, LinkB: -1, Dist: int32(distMetres), Flags: bothWays}}
	rawGeo := []roadgraph.RawGeometry{{}}
	return roadgraph.Build(bounds, rawNodes, rawEdges, rawGeo)
}

// threeNodeChain builds a 0-1-2 chain with each hop costing hopMetres, so a
// charging stop at the midpoint is reachable on a budget too small to cover
// the whole trip directly.
func threeNodeChain(hopMetres uint32) (*roadgraph.Graph, error) {
	bounds := roadgraph.Bounds{MinLat: 0, MaxLat: 1, MinLon: 0, MaxLon: 1}
	rawNodes := []roadgraph.RawNode{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 500_000},
		{Lat: 0, Lon: 1_000_000},
	}
	bothWays := int32(roadgraph.FlagAtoB | roadgraph.FlagBtoA)
	rawEdges := []roadgraph.RawEdge{
		{NodeA: 0, NodeB: 1, LinkA: -1, LinkB: -1, Dist: int32(hopMetres), Flags: bothWays},
		{NodeA: 1, NodeB: 2, LinkA: -1, LinkB: -1, Dist: int32(hopMetres), Flags: bothWays},
	}
	rawGeo := []roadgraph.RawGeometry{{}, {}}
	return roadgraph.Build(bounds, rawNodes, rawEdges, rawGeo)
}

// tieBreakGraph builds three collinear tower nodes 0-1-2 with a direct 0-2
// edge whose single pillar point coincides exactly with node 1's position,
// so a query placed there ties precisely between the node and the edge.
func tieBreakGraph() (*roadgraph.Graph, error) {
	bounds := roadgraph.Bounds{MinLat: 0, MaxLat: 1, MinLon: 0, MaxLon: 5}
	rawNodes := []roadgraph.RawNode{
		{Lat: 0, Lon: 0},
		{Lat: 0, Lon: 2_000_000},
		{Lat: 0, Lon: 4_000_000},
	}
	bothWays := int32(roadgraph.FlagAtoB | roadgraph.FlagBtoA)
	rawEdges := []roadgraph.RawEdge{
		{NodeA: 0, NodeB: 1, LinkA: -1, LinkB: -1, Dist: 200000, Flags: bothWays, Geo: 0},
		{NodeA: 1, NodeB: 2, LinkA: -1, LinkB: -1, Dist: 200000, Flags: bothWays, Geo: 1},
		{NodeA: 0, NodeB: 2, LinkA: -1, LinkB: -1, Dist: 400000, Flags: bothWays, Geo: 2},
	}
	rawGeo := []roadgraph.RawGeometry{
		{},
		{},
		{Points: []roadgraph.RawNode{{Lat: 0, Lon: 2_000_000}}},
	}
	return roadgraph.Build(bounds, rawNodes, rawEdges, rawGeo)
}

// testWorld builds a minimal one-role World over g, the shape every domain
// package's own unit tests already use.
func testWorld(g *roadgraph.Graph, tools map[uint8]bool) *world.World {
	var roles [strategy.NumAgents]uint8
	return world.Build(
		[]world.Item{{ID: 1, Volume: 1}},
		[]world.Role{{ID: 0, Speed: 50, BatteryMax: 200, LoadMax: 10, Tools: tools}},
		roles,
		g,
		1, 1000, 500,
	)
}
