// Package repair implements strategy repair (spec.md §4.J): forward-simulate
// a candidate Strategy, find its first failing task, and apply a bounded,
// error-code-driven edit until the plan simulates clean or the iteration
// budget is spent.
package repair

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/facilitycache"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/simulate"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/situation"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/world"
)

// RepairMaxIter bounds the fix-point loop; a plan that still fails after this
// many edits is reported back to the caller rather than looped forever.
const RepairMaxIter = 16

// Repairer forward-simulates candidate strategies and patches the first
// failure it finds each pass.
type Repairer struct {
	sim           *simulate.Simulator
	graph         *roadgraph.Graph
	facilityCache *facilitycache.FacilityCache
}

// New binds a Repairer to the match's road graph and its warmed facility
// distance cache (spec.md §4.E); fc's facility block must already be
// registered and CalcFacilities run before any agent position is looked up
// against it.
func New(g *roadgraph.Graph, fc *facilitycache.FacilityCache) *Repairer {
	return &Repairer{sim: simulate.New(g), graph: g, facilityCache: fc}
}

// failure locates one queue slot's bad outcome.
type failure struct {
	agent int
	index int
	code  strategy.ErrCode
	arg   strategy.ItemStack
	where uint8
}

// Repair returns a Strategy that forward-simulates without error over
// horizon steps, or the best strategy reached plus an error describing why it
// still fails after RepairMaxIter edits. rng breaks ties when more than one
// peer agent is equally capable of resolving a failure (e.g. several agents
// carry the tool a craft needs); pass nil to always take the first capable
// candidate deterministically.
func (r *Repairer) Repair(ctx context.Context, w *world.World, s *situation.Situation, horizon int32, rng *rand.Rand) (strategy.Strategy, error) {
	current := s.Strategy.Clone()

	for iter := 0; iter < RepairMaxIter; iter++ {
		select {
		case <-ctx.Done():
			return current, ctx.Err()
		default:
		}

		trial := s.Clone()
		trial.Strategy = current
		result := r.sim.FastForward(w, trial, horizon)

		f, ok := firstFailure(result)
		if !ok {
			return current, nil
		}

		if !r.edit(w, s, &current, f, rng) {
			return current, fmt.Errorf("repair: agent %d task %d: unresolved %s", f.agent, f.index, f.code)
		}
	}

	return current, fmt.Errorf("repair: exceeded %d iterations without converging", RepairMaxIter)
}

// firstFailure scans every agent's queue in slot order and returns the
// earliest non-success result, agent index ascending.
func firstFailure(s *situation.Situation) (failure, bool) {
	for agent := 0; agent < strategy.NumAgents; agent++ {
		q := &s.Strategy.Tasks[agent]
		idx := q.FirstFailure()
		if idx < 0 {
			continue
		}
		slot := q.Slots[idx]
		return failure{
			agent: agent,
			index: idx,
			code:  slot.Result.Err,
			arg:   slot.Result.ErrArg,
			where: slot.Task.WhereID,
		}, true
	}
	return failure{}, false
}

// edit applies one error-code-driven fix to the failing slot and reports
// whether a fix was found at all.
func (r *Repairer) edit(w *world.World, s *situation.Situation, strat *strategy.Strategy, f failure, rng *rand.Rand) bool {
	switch f.code {
	case strategy.OutOfBattery:
		return r.insertCharge(w, s, strat, f)
	case strategy.NotInInventory:
		return r.insertAcquireSelf(w, s, strat, f)
	case strategy.CraftNoItem:
		if r.insertAcquireViaPeer(w, s, strat, f, rng) {
			return true
		}
		return r.insertAcquireSelf(w, s, strat, f)
	case strategy.CraftNoTool:
		if r.insertAssist(w, s, strat, f, rng) {
			return true
		}
		// No peer's role carries the tool at all (tools aren't purchasable
		// in this model); drop the task rather than stall the plan.
		strat.Tasks[f.agent].RemoveAt(f.index)
		return true
	case strategy.NotValidForJob, strategy.NoSuchJob, strategy.NoCrafterFound:
		strat.Tasks[f.agent].RemoveAt(f.index)
		return true
	default:
		return false
	}
}

// insertCharge queues a CHARGE stop at the nearest charging station ahead of
// the failing task.
func (r *Repairer) insertCharge(w *world.World, s *situation.Situation, strat *strategy.Strategy, f failure) bool {
	if len(s.ChargingStations) == 0 {
		return false
	}
	station := r.nearestChargingStation(f.agent, s.ChargingStations)

	task := strategy.Task{ID: strat.NewTaskID(), Type: strategy.TaskCharge, WhereID: station.ID}
	return strat.Tasks[f.agent].InsertAt(f.index, task)
}

// insertAcquireSelf queues a task for the failing agent itself to obtain the
// missing item: BUY_ITEM from the nearest shop stocking it, falling back to
// RETRIEVE if the item is a raw resource with no shop listing. This is the
// NOT_IN_INVENTORY edit (spec.md §4.J), and CRAFT_NO_ITEM's own fallback when
// no peer can be recruited to buy it instead.
func (r *Repairer) insertAcquireSelf(w *world.World, s *situation.Situation, strat *strategy.Strategy, f failure) bool {
	if shop := r.nearestShopStocking(f.agent, s.Shops, f.arg.Item, int32(f.arg.Amount)); shop != nil {
		task := strategy.Task{ID: strat.NewTaskID(), Type: strategy.TaskBuyItem, WhereID: shop.ID, Item: f.arg}
		return strat.Tasks[f.agent].InsertAt(f.index, task)
	}

	for _, node := range s.ResourceNodes {
		task := strategy.Task{ID: strat.NewTaskID(), Type: strategy.TaskRetrieve, WhereID: node.ID, Item: f.arg}
		return strat.Tasks[f.agent].InsertAt(f.index, task)
	}

	return false
}

// insertAcquireViaPeer is the CRAFT_NO_ITEM edit: pick a peer (via rng if
// more than one qualifies, mirroring insertAssist), send it to buy the item
// at the nearest shop stocking it, then have it CRAFT_ASSIST the failing
// agent at the workshop the failing task names, rather than have the failing
// agent detour to buy the item itself.
func (r *Repairer) insertAcquireViaPeer(w *world.World, s *situation.Situation, strat *strategy.Strategy, f failure, rng *rand.Rand) bool {
	var candidates []int
	for agent := 0; agent < strategy.NumAgents; agent++ {
		if agent != f.agent {
			candidates = append(candidates, agent)
		}
	}
	if len(candidates) == 0 {
		return false
	}

	pick := 0
	if rng != nil && len(candidates) > 1 {
		pick = rng.Intn(len(candidates))
	}
	peer := candidates[pick]

	shop := r.nearestShopStocking(peer, s.Shops, f.arg.Item, int32(f.arg.Amount))
	if shop == nil {
		return false
	}

	assist := strategy.Task{ID: strat.NewTaskID(), Type: strategy.TaskCraftAssist, WhereID: f.where, CrafterID: uint8(f.agent)}
	if !strat.Tasks[peer].InsertAt(0, assist) {
		return false
	}
	buy := strategy.Task{ID: strat.NewTaskID(), Type: strategy.TaskBuyItem, WhereID: shop.ID, Item: f.arg}
	return strat.Tasks[peer].InsertAt(0, buy)
}

// insertAssist finds every agent whose role carries the missing tool, picks
// one (via rng if more than one qualifies) and inserts a CRAFT_ASSIST task
// at the front of its queue, staging its inventory for the crafter at the
// same workshop.
func (r *Repairer) insertAssist(w *world.World, s *situation.Situation, strat *strategy.Strategy, f failure, rng *rand.Rand) bool {
	var candidates []int
	for agent := 0; agent < strategy.NumAgents; agent++ {
		if agent == f.agent {
			continue
		}
		role, ok := w.RoleOf(agent)
		if ok && role.HasTool(f.arg.Item) {
			candidates = append(candidates, agent)
		}
	}
	if len(candidates) == 0 {
		return false
	}

	pick := 0
	if rng != nil && len(candidates) > 1 {
		pick = rng.Intn(len(candidates))
	}
	agent := candidates[pick]

	task := strategy.Task{ID: strat.NewTaskID(), Type: strategy.TaskCraftAssist, WhereID: f.where, CrafterID: uint8(f.agent)}
	return strat.Tasks[agent].InsertAt(0, task)
}

// nearestChargingStation picks the closest station to agent's current
// position, consulting the match's warmed facility distance cache
// (spec.md §4.E) rather than running a fresh bidirectional A* per candidate.
func (r *Repairer) nearestChargingStation(agent int, stations []situation.ChargingStation) situation.ChargingStation {
	aid := facilitycache.AgentSlotID(agent)
	best := stations[0]
	bestDist := uint32(math.MaxUint32)
	for _, st := range stations {
		d, ok := r.facilityCache.DistanceByID(aid, st.ID)
		if !ok {
			continue
		}
		if d < bestDist {
			bestDist = d
			best = st
		}
	}
	return best
}

// nearestShopStocking picks the closest shop to agent carrying at least
// minAmount of item, falling back to any shop listing the item at all if
// none currently holds enough — buyItem (simulate.go) waits out a shop's
// restock timer rather than failing on a shortfall, so an under-stocked shop
// is still a valid (if slower) pick.
func (r *Repairer) nearestShopStocking(agent int, shops []situation.Shop, item uint8, minAmount int32) *situation.Shop {
	if best := r.nearestShopWithStock(agent, shops, item, minAmount); best != nil {
		return best
	}
	return r.nearestShopWithStock(agent, shops, item, 1)
}

func (r *Repairer) nearestShopWithStock(agent int, shops []situation.Shop, item uint8, minAmount int32) *situation.Shop {
	aid := facilitycache.AgentSlotID(agent)
	var best *situation.Shop
	bestDist := uint32(math.MaxUint32)
	for i := range shops {
		stocked := false
		for _, line := range shops[i].Items {
			if line.Item == item && line.Amount >= minAmount {
				stocked = true
				break
			}
		}
		if !stocked {
			continue
		}
		d, ok := r.facilityCache.DistanceByID(aid, shops[i].ID)
		if !ok {
			continue
		}
		if d < bestDist {
			bestDist = d
			best = &shops[i]
		}
	}
	return best
}
