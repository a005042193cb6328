package planner

import (
	"context"
	"testing"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/action"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/facilitycache"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/situation"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/world"
)

func testGraph(t *testing.T) *roadgraph.Graph {
	t.Helper()
	bounds := roadgraph.Bounds{MinLat: 0, MaxLat: 1, MinLon: 0, MaxLon: 1}
	rawNodes := []roadgraph.RawNode{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1_000_000}}
	bothWays := int32(roadgraph.FlagAtoB | roadgraph.FlagBtoA)
	rawEdges := []roadgraph.RawEdge{{NodeA: 0, NodeB: 1, LinkA: -1, LinkB: -1, Dist: 50, Flags: bothWays}}
	rawGeo := []roadgraph.RawGeometry{{}}

	g, err := roadgraph.Build(bounds, rawNodes, rawEdges, rawGeo)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestPlannerStepSkipsWithEmptyStrategy(t *testing.T) {
	g := testGraph(t)
	var roles [strategy.NumAgents]uint8
	w := world.Build(nil, []world.Role{{ID: 0, Speed: 10, BatteryMax: 100}}, roles, g, 1, 0, 500)
	fc := facilitycache.New(g)

	pl := New(w, fc, 200, 0, nil, 42)

	var percepts [strategy.NumAgents]situation.Percept
	for i := range percepts {
		percepts[i] = situation.Percept{SimulationStep: 1, AgentIndex: i}
	}
	actions, err := pl.Step(context.Background(), percepts)
	if err != nil {
		t.Fatalf("expected no error with an empty strategy, got %v", err)
	}
	for i, a := range actions {
		if a.Type != action.Abort {
			t.Fatalf("expected agent %d to abort with no tasks, got %v", i, a.Type)
		}
	}
}

func TestPlannerStepRespectsDeadline(t *testing.T) {
	g := testGraph(t)
	var roles [strategy.NumAgents]uint8
	w := world.Build(nil, []world.Role{{ID: 0, Speed: 10, BatteryMax: 100}}, roles, g, 1, 0, 500)
	fc := facilitycache.New(g)

	pl := New(w, fc, 200, 0, nil, 42)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var percepts [strategy.NumAgents]situation.Percept
	for i := range percepts {
		percepts[i] = situation.Percept{SimulationStep: 1, AgentIndex: i}
	}
	if _, err := pl.Step(ctx, percepts); err == nil {
		t.Fatalf("expected an already-cancelled context to surface as an error")
	}
}
