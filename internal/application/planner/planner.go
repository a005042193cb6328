// Package planner implements the Mothership controller (spec.md §4.K): the
// single decision point that owns the shared Strategy across all 16 agents,
// drives it through repair every step, and turns the result into one
// wire-ready action per agent.
package planner

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/andrescamacho/massim-fleetctl/internal/application/repair"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/action"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/facilitycache"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/situation"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/world"
)

// Recorder is the subset of metrics the planner emits; satisfied implicitly
// by adapters/metrics.PlannerCollector so this package never imports an
// adapter.
type Recorder interface {
	RecordStepDuration(seconds float64)
	RecordRepairOutcome(converged bool)
}

// Planner holds the per-match state that survives across steps: the static
// World, the warmed FacilityCache and the previous step's Situation (for
// Book/Strategy carry-forward).
type Planner struct {
	world         *world.World
	facilityCache *facilitycache.FacilityCache
	repairer      *repair.Repairer

	horizon      int32
	stepDeadline time.Duration

	recorder Recorder
	rng      *rand.Rand

	prev    *situation.Situation
	journal *situation.Journal
}

// New constructs a Planner bound to w. horizon bounds how far the repair
// loop's forward simulator looks ahead each pass; stepDeadline, if positive,
// caps how long a single Step call may run before returning the best
// strategy reached so far. seed makes the repair loop's tie-breaking
// reproducible across runs with the same match data.
func New(w *world.World, fc *facilitycache.FacilityCache, horizon int32, stepDeadline time.Duration, recorder Recorder, seed int64) *Planner {
	return &Planner{
		world:         w,
		facilityCache: fc,
		repairer:      repair.New(w.Graph, fc),
		horizon:       horizon,
		stepDeadline:  stepDeadline,
		recorder:      recorder,
		rng:           rand.New(rand.NewSource(seed)),
		journal:       situation.NewJournal(256),
	}
}

// Step consumes one step's 16 per-agent Percepts (one request-action message
// each), repairs the carried-forward Strategy against the folded state, and
// returns one Action per agent slot. A non-nil error means repair did not
// fully converge within the iteration budget or the step deadline; the
// returned actions are still the best strategy reached.
func (pl *Planner) Step(ctx context.Context, perceptions [strategy.NumAgents]situation.Percept) ([strategy.NumAgents]action.Action, error) {
	start := time.Now()

	sit := situation.FromPercept(situation.Merge(perceptions), pl.prev)

	if pl.prev == nil {
		pl.warmFacilityCache(sit)
	} else {
		pl.facilityCache.Reset()
	}
	for agent := range sit.Selves {
		pl.facilityCache.RegisterPos(facilitycache.AgentSlotID(agent), sit.Selves[agent].Pos, false)
	}

	stepCtx := ctx
	if pl.stepDeadline > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, pl.stepDeadline)
		defer cancel()
	}

	fixed, repairErr := pl.repairer.Repair(stepCtx, pl.world, sit, pl.horizon, pl.rng)
	sit.Strategy = fixed
	pl.recordTransitions(sit)
	pl.prev = sit

	if pl.recorder != nil {
		pl.recorder.RecordStepDuration(time.Since(start).Seconds())
		pl.recorder.RecordRepairOutcome(repairErr == nil)
	}

	return pl.deriveActions(sit), repairErr
}

// warmFacilityCache registers every facility's graph position once, on the
// match's first step, then runs the dense facility×facility Dijkstra pass
// (spec.md §4.E) that repair's nearest-station/nearest-shop lookups consult
// for every later step instead of re-routing per candidate. Facility
// positions never move within a match, so this runs exactly once.
func (pl *Planner) warmFacilityCache(sit *situation.Situation) {
	for _, f := range sit.ChargingStations {
		pl.facilityCache.RegisterPos(f.ID, f.Pos, true)
	}
	for _, f := range sit.Shops {
		pl.facilityCache.RegisterPos(f.ID, f.Pos, true)
	}
	for _, f := range sit.Storages {
		pl.facilityCache.RegisterPos(f.ID, f.Pos, true)
	}
	for _, f := range sit.Workshops {
		pl.facilityCache.RegisterPos(f.ID, f.Pos, true)
	}
	for _, f := range sit.Dumps {
		pl.facilityCache.RegisterPos(f.ID, f.Pos, true)
	}
	for _, f := range sit.ResourceNodes {
		pl.facilityCache.RegisterPos(f.ID, f.Pos, true)
	}
	pl.facilityCache.CalcFacilities()
}

// deriveActions reads, for every agent slot, the task the repaired strategy
// has it executing this step and turns it into one wire-ready Action.
func (pl *Planner) deriveActions(sit *situation.Situation) [strategy.NumAgents]action.Action {
	var out [strategy.NumAgents]action.Action
	for agent := 0; agent < strategy.NumAgents; agent++ {
		out[agent] = pl.actionFor(sit, agent)
	}
	return out
}

func (pl *Planner) actionFor(sit *situation.Situation, agent int) action.Action {
	self := &sit.Selves[agent]
	q := &sit.Strategy.Tasks[agent]

	if self.TaskIndex < 0 || self.TaskIndex >= q.Len {
		return action.AbortAction()
	}

	task := q.Slots[self.TaskIndex].Task
	if task.Type == strategy.TaskNone {
		return action.AbortAction()
	}

	if self.FacilityIn != task.WhereID {
		name, _ := pl.world.FacilityNames.StringOf(task.WhereID)
		if self.TaskSleep > 0 {
			return action.Action{Type: action.Continue, Facility: name}
		}
		return action.Action{Type: action.Goto, Facility: name}
	}

	switch task.Type {
	case strategy.TaskBuyItem:
		name, _ := pl.world.ItemNames.StringOf(task.Item.Item)
		return action.Action{Type: action.Buy, Item: name, Amount: int(task.Item.Amount)}
	case strategy.TaskRetrieve:
		name, _ := pl.world.ItemNames.StringOf(task.Item.Item)
		return action.Action{Type: action.Retrieve, Item: name, Amount: int(task.Item.Amount)}
	case strategy.TaskCraftItem:
		name, _ := pl.world.ItemNames.StringOf(task.Item.Item)
		return action.Action{Type: action.Assemble, Item: name}
	case strategy.TaskCraftAssist:
		crafter, _ := pl.world.AgentNames.StringOf(task.CrafterID)
		return action.Action{Type: action.AssistAssemble, Agent: crafter}
	case strategy.TaskDeliverItem:
		name, _ := pl.world.ItemNames.StringOf(task.Item.Item)
		return action.Action{Type: action.DeliverJob, Item: name, Amount: int(task.Item.Amount), JobID: fmt.Sprint(task.JobID)}
	case strategy.TaskCharge:
		return action.Action{Type: action.Charge}
	default:
		return action.AbortAction()
	}
}

// recordTransitions appends one journal entry per agent whose repaired task
// state differs from the previous step, and one per job the repaired
// Situation no longer carries in its Book. This is the diff-journal over
// the arena that lets a replay tool reconstruct what repair actually
// changed each step without keeping a full Situation clone per step.
func (pl *Planner) recordTransitions(sit *situation.Situation) {
	for agent := range sit.Selves {
		var prevState strategy.TaskState
		if pl.prev != nil {
			prevState = pl.prev.Selves[agent].TaskState
		}
		if sit.Selves[agent].TaskState != prevState {
			pl.journal.RecordTaskState(sit.SimulationStep, agent, sit.Selves[agent].TaskState)
		}
	}
	if pl.prev == nil {
		return
	}
	live := make(map[uint16]bool, len(sit.Book.Delivered))
	for _, e := range sit.Book.Delivered {
		live[e.JobID] = true
	}
	for _, e := range pl.prev.Book.Delivered {
		if !live[e.JobID] {
			pl.journal.RecordJobPurged(sit.SimulationStep, e.JobID)
		}
	}
}

// Journal exposes the planner's running diff-journal, e.g. for a CLI --stats
// mode or a replay tool.
func (pl *Planner) Journal() *situation.Journal { return pl.journal }

// World exposes the bound World for callers that need it (e.g. a CLI --stats
// mode rendering item/role definitions).
func (pl *Planner) World() *world.World { return pl.world }
