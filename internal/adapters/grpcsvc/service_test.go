package grpcsvc_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/massim-fleetctl/internal/adapters/grpcsvc"
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
	require.NoError(t, err)
	return g
}

func TestGraphServerRoutesBetweenEndpoints(t *testing.T) {
	g := testGraph(t)
	srv := grpcsvc.NewGraphServer(g)

	latA, lonA := g.Bounds.FromPos(g.Node(0).P)
	latB, lonB := g.Bounds.FromPos(g.Node(2).P)

	resp, err := srv.Route(context.Background(), &grpcsvc.RouteRequest{
		From:      grpcsvc.LatLon{Lat: latA, Lon: lonA},
		To:        grpcsvc.LatLon{Lat: latB, Lon: lonB},
		WithRoute: true,
	})

	require.NoError(t, err)
	assert.Equal(t, uint32(2000), resp.DistanceMetres)
	assert.Len(t, resp.Route, 3)
}

func TestGraphServerRouteWithoutPathOmitsRoute(t *testing.T) {
	g := testGraph(t)
	srv := grpcsvc.NewGraphServer(g)

	latA, lonA := g.Bounds.FromPos(g.Node(0).P)
	latB, lonB := g.Bounds.FromPos(g.Node(2).P)

	resp, err := srv.Route(context.Background(), &grpcsvc.RouteRequest{
		From: grpcsvc.LatLon{Lat: latA, Lon: lonA},
		To:   grpcsvc.LatLon{Lat: latB, Lon: lonB},
	})

	require.NoError(t, err)
	assert.Equal(t, uint32(2000), resp.DistanceMetres)
	assert.Empty(t, resp.Route)
}
