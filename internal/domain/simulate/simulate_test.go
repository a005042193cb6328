package simulate

import (
	"testing"

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

func TestFastForwardChargeTask(t *testing.T) {
	g := twoNodeGraph(t)
	w := testWorld(g)
	sim := New(g)

	s := &situation.Situation{
		ChargingStations: []situation.ChargingStation{{ID: 1, Pos: g.Node(1).P, Rate: 20, Price: 5}},
	}
	s.Selves[0].Pos = g.Node(0).P
	s.Selves[0].Charge = 100
	s.Strategy.Tasks[0].PushBack(strategy.Task{ID: 1, Type: strategy.TaskCharge, WhereID: 1})

	out := sim.FastForward(w, s, 50)

	if out.Selves[0].Charge <= 100 {
		t.Fatalf("expected charge task to recharge the agent, got %d", out.Selves[0].Charge)
	}
	if out.Strategy.Tasks[0].Slots[0].Result.Err != strategy.Success {
		t.Fatalf("expected charge task success, got %v", out.Strategy.Tasks[0].Slots[0].Result.Err)
	}
}

func TestFastForwardDeliverItemRequiresInventory(t *testing.T) {
	g := twoNodeGraph(t)
	w := testWorld(g)
	sim := New(g)

	s := &situation.Situation{
		Jobs:     []situation.JobBase{{ID: 7, End: 1000}},
		Storages: []situation.Storage{{ID: 5, Pos: g.Node(0).P}},
	}
	s.Selves[0].Pos = g.Node(0).P
	s.Selves[0].FacilityIn = 5
	s.Strategy.Tasks[0].PushBack(strategy.Task{ID: 1, Type: strategy.TaskDeliverItem, WhereID: 5, JobID: 7, Item: strategy.ItemStack{Item: 1, Amount: 1}})

	out := sim.FastForward(w, s, 10)

	if out.Strategy.Tasks[0].Slots[0].Result.Err != strategy.NotInInventory {
		t.Fatalf("expected NotInInventory without the item, got %v", out.Strategy.Tasks[0].Slots[0].Result.Err)
	}
}

func TestFastForwardBuyItemWaitsOutRestockInsteadOfFailing(t *testing.T) {
	g := twoNodeGraph(t)
	w := testWorld(g)
	sim := New(g)

	s := &situation.Situation{
		Shops: []situation.Shop{{
			ID: 4, Pos: g.Node(0).P, RestockTimer: 3,
			Items: []situation.ShopItem{{Item: 1, Amount: 1, Cost: 10}},
		}},
	}
	s.Selves[0].Pos = g.Node(0).P
	s.Selves[0].FacilityIn = 4
	s.Strategy.Tasks[0].PushBack(strategy.Task{ID: 1, Type: strategy.TaskBuyItem, WhereID: 4, Item: strategy.ItemStack{Item: 1, Amount: 2}})

	out := sim.FastForward(w, s, 50)

	if out.Strategy.Tasks[0].Slots[0].Result.Err != strategy.Success {
		t.Fatalf("expected the purchase to settle after waiting out the restock timer, got %v", out.Strategy.Tasks[0].Slots[0].Result.Err)
	}
	if amountOf(out.Selves[0].Items, 1) != 2 {
		t.Fatalf("expected 2 of item 1 in inventory after the delayed purchase, got %d", amountOf(out.Selves[0].Items, 1))
	}
}

func TestFastForwardDeliverItemClosesJobAndCreditsReward(t *testing.T) {
	g := twoNodeGraph(t)
	w := testWorld(g)
	sim := New(g)

	s := &situation.Situation{
		Jobs:      []situation.JobBase{{ID: 7, End: 1000, Reward: 30, Required: []strategy.ItemStack{{Item: 1, Amount: 1}}}},
		Storages:  []situation.Storage{{ID: 5, Pos: g.Node(0).P}},
		TeamMoney: 100,
	}
	s.Selves[0].Pos = g.Node(0).P
	s.Selves[0].FacilityIn = 5
	s.Selves[0].Items = []strategy.ItemStack{{Item: 1, Amount: 1}}
	s.Strategy.Tasks[0].PushBack(strategy.Task{ID: 1, Type: strategy.TaskDeliverItem, WhereID: 5, JobID: 7, Item: strategy.ItemStack{Item: 1, Amount: 1}})

	out := sim.FastForward(w, s, 10)

	if out.Strategy.Tasks[0].Slots[0].Result.Err != strategy.Success {
		t.Fatalf("expected delivery success, got %v", out.Strategy.Tasks[0].Slots[0].Result.Err)
	}
	if out.TeamMoney != 130 {
		t.Fatalf("expected reward credited to team money, got %d", out.TeamMoney)
	}
	if len(out.Jobs) != 0 {
		t.Fatalf("expected the satisfied job removed from the live job list, got %+v", out.Jobs)
	}
}

func TestFastForwardJobExpiryPurgesBook(t *testing.T) {
	g := twoNodeGraph(t)
	w := testWorld(g)
	sim := New(g)

	s := &situation.Situation{
		SimulationStep: 0,
		Jobs:           []situation.JobBase{{ID: 3, End: -1}},
		Book:           situation.DeliveryBook{Delivered: []situation.DeliveredEntry{{JobID: 3, Item: strategy.ItemStack{Item: 1, Amount: 1}}}},
	}

	out := sim.FastForward(w, s, 1)

	if len(out.Jobs) != 0 {
		t.Fatalf("expected expired job removed, got %+v", out.Jobs)
	}
	if out.Book.DeliveredAmount(3, 1) != 0 {
		t.Fatalf("expected book purged for expired job")
	}
}
