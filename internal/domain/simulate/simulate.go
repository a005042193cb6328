// Package simulate implements the forward simulator (spec.md §4.I): a pure
// function that fast-forwards a cloned Situation under a candidate Strategy
// by a bounded horizon, so strategy repair can evaluate a plan's consequences
// without touching the live match state. Dispatch is event-driven: rather
// than stepping one tick at a time, it jumps straight to the next agent whose
// TaskSleep reaches zero.
package simulate

import (
	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/situation"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/world"
)

// craftMaxWait bounds how long a staged CRAFT_ASSIST helper waits, between
// re-checks, for its crafter to resolve (spec.md §4.I).
const craftMaxWait = int32(5)

// Simulator advances a Situation against a World's static rules.
type Simulator struct {
	graph *roadgraph.Graph
}

// New binds a Simulator to the match's road graph.
func New(g *roadgraph.Graph) *Simulator {
	return &Simulator{graph: g}
}

// FastForward clones s, advances its embedded Strategy's tasks for up to
// horizon simulated steps, and returns the resulting Situation. The input
// Situation is never mutated.
func (sim *Simulator) FastForward(w *world.World, s *situation.Situation, horizon int32) *situation.Situation {
	out := s.Clone()
	sim.expireJobs(out)

	start := out.SimulationStep
	for {
		advance := sim.minSleep(out)
		if advance < 0 {
			break // no agent has a pending task
		}
		if out.SimulationStep-start+advance > horizon {
			break // the next wake-up lies past the horizon
		}
		out.SimulationStep += advance
		sim.expireJobs(out) // purge before this tick's tasks see a vanished job
		sim.tickBy(w, out, advance)
	}

	return out
}

// minSleep returns the smallest non-negative TaskSleep across agents with an
// active task (zero when some task is due now), or -1 if no agent has one.
func (sim *Simulator) minSleep(s *situation.Situation) int32 {
	min := int32(-1)
	for i := range s.Selves {
		self := &s.Selves[i]
		if self.TaskIndex < 0 || self.TaskIndex >= s.Strategy.Tasks[i].Len {
			continue
		}
		if self.TaskSleep < 0 {
			continue
		}
		if min < 0 || self.TaskSleep < min {
			min = self.TaskSleep
		}
	}
	return min
}

// tickBy decrements every active agent's sleep counter by delta and executes
// any task whose counter reaches zero.
func (sim *Simulator) tickBy(w *world.World, s *situation.Situation, delta int32) {
	for agent := 0; agent < strategy.NumAgents; agent++ {
		self := &s.Selves[agent]
		if self.TaskIndex < 0 || self.TaskIndex >= s.Strategy.Tasks[agent].Len {
			continue
		}
		if self.TaskSleep > 0 {
			self.TaskSleep -= delta
			if self.TaskSleep > 0 {
				continue
			}
			self.TaskSleep = 0
		}
		sim.execute(w, s, agent)
	}
}

// execute runs the active task for agent once its sleep counter has reached
// zero, possibly advancing TaskIndex to the next queued task.
func (sim *Simulator) execute(w *world.World, s *situation.Situation, agent int) {
	self := &s.Selves[agent]
	queue := &s.Strategy.Tasks[agent]
	slot := &queue.Slots[self.TaskIndex]
	task := slot.Task

	role, _ := w.RoleOf(agent)

	switch self.TaskState {
	case strategy.StateNotArrived:
		if self.FacilityIn == task.WhereID && sim.facilityPos(s, task.WhereID) != nil {
			self.TaskState = strategy.StateExecuting
			sim.runTask(w, s, agent, role, task, slot)
			return
		}
		target := sim.facilityPos(s, task.WhereID)
		if target == nil {
			sim.fail(slot, s.SimulationStep, strategy.NotValidForJob, strategy.ItemStack{})
			sim.advance(s, agent)
			return
		}
		sim.travelTo(w, s, agent, role, *target, task.WhereID)
	case strategy.StateExecuting, strategy.StateAssistStaged, strategy.StateAwaitingRestock:
		sim.runTask(w, s, agent, role, task, slot)
	}
}

// travelTo moves agent toward dest, consuming battery proportional to
// distance and scheduling a sleep proportional to the role's speed.
func (sim *Simulator) travelTo(w *world.World, s *situation.Situation, agent int, role world.Role, dest roadgraph.Pos, facilityID uint8) {
	self := &s.Selves[agent]

	from := sim.graph.Snap(self.Pos)
	to := sim.graph.Snap(dest)
	distance, _, err := sim.graph.DistRoad(from, to, false)
	if err != nil {
		sim.fail(&s.Strategy.Tasks[agent].Slots[self.TaskIndex], s.SimulationStep, strategy.NotValidForJob, strategy.ItemStack{})
		sim.advance(s, agent)
		return
	}

	speed := role.Speed
	if speed < 1 {
		speed = 1
	}
	ticks := int32(distance) / speed
	if int32(distance)%speed != 0 {
		ticks++
	}
	if ticks < 1 {
		ticks = 1
	}

	cost := ticks
	if self.Charge < cost {
		sim.fail(&s.Strategy.Tasks[agent].Slots[self.TaskIndex], s.SimulationStep, strategy.OutOfBattery, strategy.ItemStack{})
		sim.advance(s, agent)
		return
	}

	self.Charge -= cost
	self.Pos = dest
	self.FacilityIn = facilityID
	self.TaskSleep = ticks
	self.TaskState = strategy.StateNotArrived
}

// runTask performs the domain effect of one task once the agent is
// co-located with its target facility, recording success or a planner error
// code on the slot's TaskResult.
func (sim *Simulator) runTask(w *world.World, s *situation.Situation, agent int, role world.Role, task strategy.Task, slot *strategy.TaskSlot) {
	self := &s.Selves[agent]

	switch task.Type {
	case strategy.TaskBuyItem:
		if parked := sim.buyItem(w, s, self, task, slot); parked {
			return // waiting out the purchase tick or the shop's restock timer
		}
	case strategy.TaskRetrieve:
		sim.retrieve(s, self, task, slot)
	case strategy.TaskCraftItem:
		sim.craftItem(w, s, agent, role, task, slot)
	case strategy.TaskCraftAssist:
		if parked := sim.craftAssist(s, agent, task, slot); parked {
			return // stays in state 2 until the crafter wakes it
		}
	case strategy.TaskDeliverItem:
		sim.deliverItem(s, self, task, slot)
	case strategy.TaskCharge:
		sim.charge(s, self, task, slot)
	case strategy.TaskVisit:
		sim.succeed(slot, s.SimulationStep)
	default:
		sim.succeed(slot, s.SimulationStep)
	}

	sim.advance(s, agent)
}

// buyItem models the server's restock cadence coarsely (spec.md §4.I): on
// arrival, a shop holding enough stock settles after a single tick; short of
// enough, it waits out restock_period*amount_requested ticks and then
// settles anyway, rather than failing. Returns true while parked waiting for
// that timer.
func (sim *Simulator) buyItem(w *world.World, s *situation.Situation, self *situation.Self, task strategy.Task, slot *strategy.TaskSlot) bool {
	shop := findShop(s, task.WhereID)
	if shop == nil {
		sim.fail(slot, s.SimulationStep, strategy.NotValidForJob, task.Item)
		return false
	}
	for i := range shop.Items {
		if shop.Items[i].Item != task.Item.Item {
			continue
		}
		if self.TaskState != strategy.StateAwaitingRestock {
			self.TaskState = strategy.StateAwaitingRestock
			self.TaskSleep = 1
			if shop.Items[i].Amount < int32(task.Item.Amount) {
				self.TaskSleep = shop.RestockTimer * int32(task.Item.Amount)
				if self.TaskSleep < 1 {
					self.TaskSleep = 1
				}
			}
			return true
		}
		if shop.Items[i].Amount > 0 {
			shop.Items[i].Amount -= int32(task.Item.Amount)
		}
		addItem(self, task.Item)
		s.TeamMoney -= shop.Items[i].Cost * int32(task.Item.Amount)
		sim.succeed(slot, s.SimulationStep)
		return false
	}
	sim.fail(slot, s.SimulationStep, strategy.CraftNoItem, task.Item)
	return false
}

func (sim *Simulator) retrieve(s *situation.Situation, self *situation.Self, task strategy.Task, slot *strategy.TaskSlot) {
	addItem(self, task.Item)
	sim.succeed(slot, s.SimulationStep)
}

// craftItem assembles one item, pooling required components from every agent
// currently staged as a CRAFT_ASSIST helper at the same workshop.
func (sim *Simulator) craftItem(w *world.World, s *situation.Situation, agent int, role world.Role, task strategy.Task, slot *strategy.TaskSlot) {
	self := &s.Selves[agent]

	item, ok := w.ItemByID(task.Item.Item)
	if !ok {
		sim.fail(slot, s.SimulationStep, strategy.CraftNoItem, task.Item)
		sim.releaseAssistants(s, agent, strategy.Success)
		return
	}
	for _, tool := range item.Tools {
		if !role.HasTool(tool) && !helperHasTool(w, s, agent, tool) {
			sim.fail(slot, s.SimulationStep, strategy.CraftNoTool, strategy.ItemStack{Item: tool, Amount: 1})
			sim.releaseAssistants(s, agent, strategy.Success)
			return
		}
	}

	pool := pooledInventory(s, agent)
	for _, need := range item.Consumed {
		if amountOf(pool, need.Item) < need.Amount {
			sim.fail(slot, s.SimulationStep, strategy.CraftNoItem, need)
			sim.releaseAssistants(s, agent, strategy.Success)
			return
		}
	}
	for _, need := range item.Consumed {
		consumeFromPool(s, agent, need)
	}
	addItem(self, strategy.ItemStack{Item: task.Item.Item, Amount: task.Item.Amount})
	sim.succeed(slot, s.SimulationStep)
	sim.releaseAssistants(s, agent, strategy.Success)
}

// craftAssist stages a helper agent's inventory and tools for the crafter to
// draw on. It parks in state 2 (StateAssistStaged) without advancing the
// helper's queue: the crafter's own CRAFT_ITEM task releases it (see
// releaseAssistants) once the craft resolves, matching the "wake all
// participating assistants simultaneously" rule. Returns true while parked.
func (sim *Simulator) craftAssist(s *situation.Situation, agent int, task strategy.Task, slot *strategy.TaskSlot) bool {
	self := &s.Selves[agent]
	if !findCraftItemTask(s, task.CrafterID) {
		self.TaskState = strategy.StateNotArrived
		sim.fail(slot, s.SimulationStep, strategy.NoCrafterFound, strategy.ItemStack{})
		return false
	}
	self.TaskState = strategy.StateAssistStaged
	self.TaskSleep = craftMaxWait
	return true
}

// releaseAssistants wakes every helper parked via CRAFT_ASSIST on crafter,
// advancing each past its assist task with the given result.
func (sim *Simulator) releaseAssistants(s *situation.Situation, crafter int, result strategy.ErrCode) {
	for agent := 0; agent < strategy.NumAgents; agent++ {
		if agent == crafter {
			continue
		}
		helper := &s.Selves[agent]
		if helper.TaskState != strategy.StateAssistStaged {
			continue
		}
		queue := &s.Strategy.Tasks[agent]
		if helper.TaskIndex < 0 || helper.TaskIndex >= queue.Len {
			continue
		}
		if queue.Slots[helper.TaskIndex].Task.CrafterID != uint8(crafter) {
			continue
		}
		if result == strategy.Success {
			sim.succeed(&queue.Slots[helper.TaskIndex], s.SimulationStep)
		} else {
			sim.fail(&queue.Slots[helper.TaskIndex], s.SimulationStep, result, strategy.ItemStack{})
		}
		sim.advance(s, agent)
	}
}

func findCraftItemTask(s *situation.Situation, crafter uint8) bool {
	queue := &s.Strategy.Tasks[crafter]
	for i := 0; i < queue.Len; i++ {
		if queue.Slots[i].Task.Type == strategy.TaskCraftItem {
			return true
		}
	}
	return false
}

func (sim *Simulator) deliverItem(s *situation.Situation, self *situation.Self, task strategy.Task, slot *strategy.TaskSlot) {
	if amountOf(self.Items, task.Item.Item) < task.Item.Amount {
		sim.fail(slot, s.SimulationStep, strategy.NotInInventory, task.Item)
		return
	}
	job, ok := findJob(s, task.JobID)
	if !ok {
		if !jobExists(s, task.JobID) {
			sim.fail(slot, s.SimulationStep, strategy.NoSuchJob, task.Item)
			return
		}
		// Auction/mission target: bidding and fine semantics aren't modeled,
		// so the delivery is booked but never triggers a reward/closure.
		removeItem(self, task.Item)
		s.Book.Add(task.JobID, task.Item)
		sim.succeed(slot, s.SimulationStep)
		return
	}
	removeItem(self, task.Item)
	s.Book.Add(task.JobID, task.Item)
	sim.succeed(slot, s.SimulationStep)
	sim.closeJobIfSatisfied(s, job)
}

// closeJobIfSatisfied credits the job's reward and drops it from s.Jobs once
// every required line has been fully delivered against the book.
func (sim *Simulator) closeJobIfSatisfied(s *situation.Situation, job situation.JobBase) {
	for _, need := range job.Required {
		if s.Book.DeliveredAmount(job.ID, need.Item) < int32(need.Amount) {
			return
		}
	}
	s.TeamMoney += job.Reward
	s.Book.PurgeJob(job.ID)
	kept := s.Jobs[:0]
	for _, j := range s.Jobs {
		if j.ID != job.ID {
			kept = append(kept, j)
		}
	}
	s.Jobs = kept
}

func (sim *Simulator) charge(s *situation.Situation, self *situation.Self, task strategy.Task, slot *strategy.TaskSlot) {
	station := findChargingStation(s, task.WhereID)
	if station == nil {
		sim.fail(slot, s.SimulationStep, strategy.NotValidForJob, strategy.ItemStack{})
		return
	}
	self.Charge += station.Rate
	s.TeamMoney -= station.Price
	sim.succeed(slot, s.SimulationStep)
}

func (sim *Simulator) succeed(slot *strategy.TaskSlot, step int32) {
	slot.Result = strategy.TaskResult{Time: step, Err: strategy.Success}
}

func (sim *Simulator) fail(slot *strategy.TaskSlot, step int32, code strategy.ErrCode, arg strategy.ItemStack) {
	slot.Result = strategy.TaskResult{Time: step, Err: code, ErrArg: arg}
}

// advance moves agent to its next queued task, resetting per-task state.
func (sim *Simulator) advance(s *situation.Situation, agent int) {
	self := &s.Selves[agent]
	self.TaskIndex++
	self.TaskState = strategy.StateNotArrived
	self.TaskSleep = 0
}

// expireJobs drops delivery-book rows and the job entries themselves once
// their End step has passed; the caller's next FromPercept
// will purge any job the server itself no longer reports, this additionally
// catches jobs the simulator fast-forwarded past their own deadline.
func (sim *Simulator) expireJobs(s *situation.Situation) {
	keep := s.Jobs[:0]
	for _, j := range s.Jobs {
		if s.SimulationStep > j.End {
			s.Book.PurgeJob(j.ID)
			continue
		}
		keep = append(keep, j)
	}
	s.Jobs = keep
}

func (sim *Simulator) facilityPos(s *situation.Situation, id uint8) *roadgraph.Pos {
	if cs := findChargingStation(s, id); cs != nil {
		return &cs.Pos
	}
	if sh := findShop(s, id); sh != nil {
		return &sh.Pos
	}
	for i := range s.Storages {
		if s.Storages[i].ID == id {
			return &s.Storages[i].Pos
		}
	}
	for i := range s.Workshops {
		if s.Workshops[i].ID == id {
			return &s.Workshops[i].Pos
		}
	}
	for i := range s.Dumps {
		if s.Dumps[i].ID == id {
			return &s.Dumps[i].Pos
		}
	}
	for i := range s.ResourceNodes {
		if s.ResourceNodes[i].ID == id {
			return &s.ResourceNodes[i].Pos
		}
	}
	return nil
}

func findShop(s *situation.Situation, id uint8) *situation.Shop {
	for i := range s.Shops {
		if s.Shops[i].ID == id {
			return &s.Shops[i]
		}
	}
	return nil
}

func findChargingStation(s *situation.Situation, id uint8) *situation.ChargingStation {
	for i := range s.ChargingStations {
		if s.ChargingStations[i].ID == id {
			return &s.ChargingStations[i]
		}
	}
	return nil
}

// findJob returns the plain job (as opposed to auction/mission) matching id.
func findJob(s *situation.Situation, id uint16) (situation.JobBase, bool) {
	for _, j := range s.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return situation.JobBase{}, false
}

func jobExists(s *situation.Situation, id uint16) bool {
	for _, j := range s.Jobs {
		if j.ID == id {
			return true
		}
	}
	for _, a := range s.Auctions {
		if a.ID == id {
			return true
		}
	}
	for _, m := range s.Missions {
		if m.ID == id {
			return true
		}
	}
	return false
}

func addItem(self *situation.Self, stack strategy.ItemStack) {
	for i := range self.Items {
		if self.Items[i].Item == stack.Item {
			self.Items[i].Amount += stack.Amount
			return
		}
	}
	self.Items = append(self.Items, stack)
}

func removeItem(self *situation.Self, stack strategy.ItemStack) {
	for i := range self.Items {
		if self.Items[i].Item == stack.Item {
			self.Items[i].Amount -= stack.Amount
			if self.Items[i].Amount == 0 {
				self.Items = append(self.Items[:i], self.Items[i+1:]...)
			}
			return
		}
	}
}

func amountOf(items []strategy.ItemStack, id uint8) uint8 {
	for _, it := range items {
		if it.Item == id {
			return it.Amount
		}
	}
	return 0
}

// pooledInventory sums the crafter's own inventory with every helper staged
// via CRAFT_ASSIST in the same task's CrafterID slot.
func pooledInventory(s *situation.Situation, crafter int) []strategy.ItemStack {
	pool := append([]strategy.ItemStack(nil), s.Selves[crafter].Items...)
	for agent := 0; agent < strategy.NumAgents; agent++ {
		if agent == crafter {
			continue
		}
		helper := &s.Selves[agent]
		if helper.TaskState != strategy.StateAssistStaged {
			continue
		}
		queue := &s.Strategy.Tasks[agent]
		if helper.TaskIndex < 0 || helper.TaskIndex >= queue.Len {
			continue
		}
		if queue.Slots[helper.TaskIndex].Task.CrafterID != uint8(crafter) {
			continue
		}
		for _, it := range helper.Items {
			pool = append(pool, it)
		}
	}
	return mergeStacks(pool)
}

func mergeStacks(in []strategy.ItemStack) []strategy.ItemStack {
	out := make([]strategy.ItemStack, 0, len(in))
	for _, it := range in {
		found := false
		for i := range out {
			if out[i].Item == it.Item {
				out[i].Amount += it.Amount
				found = true
				break
			}
		}
		if !found {
			out = append(out, it)
		}
	}
	return out
}

// consumeFromPool removes need from the crafter's own inventory first, then
// from staged helpers, in agent-slot order.
func consumeFromPool(s *situation.Situation, crafter int, need strategy.ItemStack) {
	remaining := need.Amount
	self := &s.Selves[crafter]
	take := minU8(remaining, amountOf(self.Items, need.Item))
	if take > 0 {
		removeItem(self, strategy.ItemStack{Item: need.Item, Amount: take})
		remaining -= take
	}
	if remaining == 0 {
		return
	}
	for agent := 0; agent < strategy.NumAgents && remaining > 0; agent++ {
		if agent == crafter {
			continue
		}
		helper := &s.Selves[agent]
		if helper.TaskState != strategy.StateAssistStaged {
			continue
		}
		take := minU8(remaining, amountOf(helper.Items, need.Item))
		if take == 0 {
			continue
		}
		removeItem(helper, strategy.ItemStack{Item: need.Item, Amount: take})
		remaining -= take
	}
}

func helperHasTool(w *world.World, s *situation.Situation, crafter int, tool uint8) bool {
	for agent := 0; agent < strategy.NumAgents; agent++ {
		if agent == crafter {
			continue
		}
		helper := &s.Selves[agent]
		if helper.TaskState != strategy.StateAssistStaged {
			continue
		}
		role, ok := w.RoleOf(agent)
		if ok && role.HasTool(tool) {
			return true
		}
	}
	return false
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}
