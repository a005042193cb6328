package repair

import (
	"context"
	"testing"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/facilitycache"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/situation"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/world"
)

func twoNodeGraph(t *testing.T) *roadgraph.Graph {
	t.Helper()
	bounds := roadgraph.Bounds{MinLat: 0, MaxLat: 1, MinLon: 0, MaxLon: 1}
	rawNodes := []roadgraph.RawNode{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1_000_000}}
	bothWays := int32(roadgraph.FlagAtoB | roadgraph.FlagBtoA)
	rawEdges := []roadgraph.RawEdge{{NodeA: 0, NodeB: 1, LinkA: -1, LinkB: -1, Dist: 100, Flags: bothWays}}
	rawGeo := []roadgraph.RawGeometry{{}}

	g, err := roadgraph.Build(bounds, rawNodes, rawEdges, rawGeo)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

// chainGraph builds a three-node chain 0-1-2, each hop costing 50, so a
// charging stop at the midpoint node is reachable on a budget too small to
// cover the full 0->2 trip directly.
func chainGraph(t *testing.T) *roadgraph.Graph {
	t.Helper()
	bounds := roadgraph.Bounds{MinLat: 0, MaxLat: 1, MinLon: 0, MaxLon: 1}
	rawNodes := []roadgraph.RawNode{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 500_000}, {Lat: 0, Lon: 1_000_000}}
	bothWays := int32(roadgraph.FlagAtoB | roadgraph.FlagBtoA)
	rawEdges := []roadgraph.RawEdge{
		{NodeA: 0, NodeB: 1, LinkA: -1, LinkB: -1, Dist: 50, Flags: bothWays},
		{NodeA: 1, NodeB: 2, LinkA: -1, LinkB: -1, Dist: 50, Flags: bothWays},
	}
	rawGeo := []roadgraph.RawGeometry{{}, {}}

	g, err := roadgraph.Build(bounds, rawNodes, rawEdges, rawGeo)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func testWorld(g *roadgraph.Graph) *world.World {
	var roles [strategy.NumAgents]uint8
	return world.Build(
		[]world.Item{{ID: 1, Volume: 1}},
		[]world.Role{{ID: 0, Speed: 50, BatteryMax: 100, LoadMax: 10}},
		roles,
		g,
		1, 1000, 500,
	)
}

func TestRepairInsertsChargeStopForOutOfBattery(t *testing.T) {
	g := chainGraph(t)
	w := testWorld(g)

	s := &situation.Situation{
		ChargingStations: []situation.ChargingStation{{ID: 1, Pos: g.Node(1).P, Rate: 100}},
		Storages:         []situation.Storage{{ID: 2, Pos: g.Node(2).P}},
	}
	s.Selves[0].Pos = g.Node(0).P
	s.Selves[0].Charge = 1 // enough to reach the midpoint charger, not the storage directly
	s.Strategy.Tasks[0].PushBack(strategy.Task{ID: 1, Type: strategy.TaskVisit, WhereID: 2})

	fc := facilitycache.New(g)
	fc.RegisterPos(1, s.ChargingStations[0].Pos, true)
	fc.RegisterPos(2, s.Storages[0].Pos, true)
	fc.CalcFacilities()
	fc.RegisterPos(facilitycache.AgentSlotID(0), s.Selves[0].Pos, false)
	r := New(g, fc)

	fixed, err := r.Repair(context.Background(), w, s, 500, nil)
	if err != nil {
		t.Fatalf("expected repair to converge, got error: %v", err)
	}

	q := fixed.Tasks[0]
	if q.Len != 2 {
		t.Fatalf("expected a CHARGE task inserted ahead of the original task, got %d tasks", q.Len)
	}
	if q.Slots[0].Task.Type != strategy.TaskCharge {
		t.Fatalf("expected first task to be CHARGE, got %v", q.Slots[0].Task.Type)
	}
}

// TestInsertAcquireViaPeerRecruitsBuyerAndAssistant exercises the
// CRAFT_NO_ITEM edit directly: a crafter short one ingredient gets a peer
// recruited to buy it and CRAFT_ASSIST, rather than detouring itself.
func TestInsertAcquireViaPeerRecruitsBuyerAndAssistant(t *testing.T) {
	g := twoNodeGraph(t)
	w := testWorld(g)

	s := &situation.Situation{
		Shops: []situation.Shop{{ID: 4, Pos: g.Node(0).P, Items: []situation.ShopItem{{Item: 1, Amount: 5, Cost: 10}}}},
	}
	s.Selves[0].Pos = g.Node(0).P
	s.Selves[1].Pos = g.Node(0).P

	fc := facilitycache.New(g)
	fc.RegisterPos(4, s.Shops[0].Pos, true)
	fc.CalcFacilities()
	fc.RegisterPos(facilitycache.AgentSlotID(0), s.Selves[0].Pos, false)
	fc.RegisterPos(facilitycache.AgentSlotID(1), s.Selves[1].Pos, false)
	r := New(g, fc)

	strat := strategy.Strategy{}
	f := failure{agent: 0, index: 0, code: strategy.CraftNoItem, arg: strategy.ItemStack{Item: 1, Amount: 1}, where: 3}

	if !r.insertAcquireViaPeer(w, s, &strat, f, nil) {
		t.Fatalf("expected insertAcquireViaPeer to find a capable peer and shop")
	}

	peer := strat.Tasks[1]
	if peer.Len != 2 {
		t.Fatalf("expected agent 1 recruited with 2 tasks (buy, assist), got %d", peer.Len)
	}
	if peer.Slots[0].Task.Type != strategy.TaskBuyItem || peer.Slots[0].Task.WhereID != 4 {
		t.Fatalf("expected agent 1's first task to be BUY_ITEM at shop 4, got %+v", peer.Slots[0].Task)
	}
	if peer.Slots[1].Task.Type != strategy.TaskCraftAssist || peer.Slots[1].Task.CrafterID != 0 || peer.Slots[1].Task.WhereID != 3 {
		t.Fatalf("expected agent 1's second task to be CRAFT_ASSIST for agent 0 at workshop 3, got %+v", peer.Slots[1].Task)
	}
	if strat.Tasks[0].Len != 0 {
		t.Fatalf("expected the crafter's own queue untouched, got %d tasks", strat.Tasks[0].Len)
	}
}

func TestRepairRemovesTaskForInvalidJob(t *testing.T) {
	g := twoNodeGraph(t)
	w := testWorld(g)

	s := &situation.Situation{}
	s.Selves[0].Pos = g.Node(0).P
	s.Strategy.Tasks[0].PushBack(strategy.Task{ID: 1, Type: strategy.TaskDeliverItem, WhereID: 99, JobID: 42})

	fc := facilitycache.New(g)
	fc.CalcFacilities()
	fc.RegisterPos(facilitycache.AgentSlotID(0), s.Selves[0].Pos, false)
	r := New(g, fc)

	fixed, err := r.Repair(context.Background(), w, s, 10, nil)
	if err != nil {
		t.Fatalf("expected repair to converge by dropping the bad task, got error: %v", err)
	}
	if fixed.Tasks[0].Len != 0 {
		t.Fatalf("expected the unresolvable task removed, got %d remaining", fixed.Tasks[0].Len)
	}
}
