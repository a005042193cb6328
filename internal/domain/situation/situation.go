// Package situation holds the dynamic per-step snapshot (spec.md §4.G):
// every observable facility, job/auction/mission, the 16 agent selves and
// the strategy under repair. situation.FromPercept rebuilds the snapshot
// every step, carrying forward partial-delivery bookkeeping for jobs still
// live and purging it for vanished ones.
package situation

import (
	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
)

// ChargingStation is a facility agents can recharge their battery at.
type ChargingStation struct {
	ID     uint8
	Pos    roadgraph.Pos
	Rate   int32
	Price  int32
	QSize  int32
}

// ShopItem is one line of a shop's current offer.
type ShopItem struct {
	Item   uint8
	Amount int32
	Cost   int32
}

// Shop sells items; RestockTimer is the countdown (in steps) to the next
// restock, named per the original_source/ field this spec.md leaves
// unspecified (see SPEC_FULL.md §3).
type Shop struct {
	ID           uint8
	Pos          roadgraph.Pos
	RestockTimer int32
	Items        []ShopItem
}

// StorageItem is one line of a storage facility's current contents.
type StorageItem struct {
	Item      uint8
	Amount    int32
	Delivered int32
}

// Storage is a delivery destination; UsedCapacity is named per
// original_source/ (see SPEC_FULL.md §3).
type Storage struct {
	ID           uint8
	Pos          roadgraph.Pos
	TotalCapacity int32
	UsedCapacity  int32
	Items         []StorageItem
}

// Workshop is where CRAFT_ITEM/CRAFT_ASSIST tasks execute.
type Workshop struct {
	ID  uint8
	Pos roadgraph.Pos
}

// Dump is a facility agents can discard unwanted inventory at.
type Dump struct {
	ID  uint8
	Pos roadgraph.Pos
}

// ResourceNode is a gatherable raw-material source.
type ResourceNode struct {
	ID  uint8
	Pos roadgraph.Pos
}

// Entity is an observed opponent unit; the planner never controls these.
type Entity struct {
	ID  uint8
	Pos roadgraph.Pos
	Team uint8
}

// JobBase is the field set shared by Jobs, Auctions and Missions.
type JobBase struct {
	ID        uint16
	StorageID uint8
	Start     int32
	End       int32
	Reward    int32
	Required  []strategy.ItemStack
}

// Auction adds bidding fields to JobBase.
type Auction struct {
	JobBase
	Fine       int32
	MaxBid     int32
	AuctionTime int32
}

// Mission adds fine semantics to JobBase.
type Mission struct {
	JobBase
	Fine int32
}

// DeliveredEntry is one accumulated partial delivery.
type DeliveredEntry struct {
	JobID uint16
	Item  strategy.ItemStack
}

// DeliveryBook accumulates partial deliveries against jobs/auctions/missions
// until every required line is met.
type DeliveryBook struct {
	Delivered []DeliveredEntry
}

// Add records a partial delivery.
func (b *DeliveryBook) Add(jobID uint16, item strategy.ItemStack) {
	for i := range b.Delivered {
		if b.Delivered[i].JobID == jobID && b.Delivered[i].Item.Item == item.Item {
			b.Delivered[i].Item.Amount += item.Amount
			return
		}
	}
	b.Delivered = append(b.Delivered, DeliveredEntry{JobID: jobID, Item: item})
}

// DeliveredAmount returns how much of item has been delivered against job.
func (b *DeliveryBook) DeliveredAmount(jobID uint16, item uint8) int32 {
	for _, e := range b.Delivered {
		if e.JobID == jobID && e.Item.Item == item {
			return int32(e.Item.Amount)
		}
	}
	return 0
}

// PurgeJob removes every bookkeeping row for a closed or expired job.
func (b *DeliveryBook) PurgeJob(jobID uint16) {
	out := b.Delivered[:0]
	for _, e := range b.Delivered {
		if e.JobID != jobID {
			out = append(out, e)
		}
	}
	b.Delivered = out
}

// Self is one agent's full observable state.
type Self struct {
	Pos         roadgraph.Pos
	Charge      int32
	Load        int32
	FacilityIn  uint8 // 0 if not co-located with any facility
	ActionType  string
	ActionResult string
	Items       []strategy.ItemStack
	TaskIndex   int
	TaskState   strategy.TaskState
	TaskSleep   int32
}

// Situation is the full dynamic per-step snapshot.
type Situation struct {
	SimulationStep int32
	TeamMoney      int32

	ChargingStations []ChargingStation
	Dumps            []Dump
	Shops            []Shop
	Storages         []Storage
	Workshops        []Workshop
	ResourceNodes    []ResourceNode
	Entities         []Entity

	Auctions []Auction
	Jobs     []JobBase
	Missions []Mission
	Posteds  []JobBase

	Selves [strategy.NumAgents]Self

	Strategy strategy.Strategy
	Book     DeliveryBook
}

// Percept is the decoded, protocol-agnostic form of ONE agent's
// request-action message (spec.md §6), assembled by internal/adapters/wire
// from the raw XML. The server sends one of these per agent per step; the
// facility/job lists are the shared team view and are expected to agree
// across all 16, Self is that one agent's own observable state.
type Percept struct {
	SimulationStep int32
	TeamMoney      int32
	Deadline       int64 // unix millis

	ChargingStations []ChargingStation
	Dumps            []Dump
	Shops            []Shop
	Storages         []Storage
	Workshops        []Workshop
	ResourceNodes    []ResourceNode
	Entities         []Entity

	Auctions []Auction
	Jobs     []JobBase
	Missions []Mission
	Posteds  []JobBase

	AgentIndex int
	Self       Self
}

// StepData is the per-step state folded from all 16 agents' Percepts: the
// shared team view plus every agent's Self in its own slot.
type StepData struct {
	SimulationStep int32
	TeamMoney      int32

	ChargingStations []ChargingStation
	Dumps            []Dump
	Shops            []Shop
	Storages         []Storage
	Workshops        []Workshop
	ResourceNodes    []ResourceNode
	Entities         []Entity

	Auctions []Auction
	Jobs     []JobBase
	Missions []Mission
	Posteds  []JobBase

	Selves [strategy.NumAgents]Self
}

// Merge folds one step's 16 per-agent Percepts into a single StepData: the
// shared team view is taken from percepts[0] (every agent sees the same
// facility/job lists by protocol contract), each agent's Self is placed in
// its own AgentIndex slot. A percept whose AgentIndex differs from its
// position in the array (such as an unfilled zero-value entry) is skipped.
func Merge(percepts [strategy.NumAgents]Percept) StepData {
	shared := percepts[0]
	sd := StepData{
		SimulationStep:   shared.SimulationStep,
		TeamMoney:        shared.TeamMoney,
		ChargingStations: shared.ChargingStations,
		Dumps:            shared.Dumps,
		Shops:            shared.Shops,
		Storages:         shared.Storages,
		Workshops:        shared.Workshops,
		ResourceNodes:    shared.ResourceNodes,
		Entities:         shared.Entities,
		Auctions:         shared.Auctions,
		Jobs:             shared.Jobs,
		Missions:         shared.Missions,
		Posteds:          shared.Posteds,
	}
	for i, p := range percepts {
		if p.AgentIndex != i {
			continue
		}
		sd.Selves[i] = p.Self
	}
	return sd
}

// FromPercept rebuilds a Situation from one step's folded StepData. When
// prev is non-nil, its Strategy and Book are carried forward: Book rows for
// jobs that are still present survive, rows for vanished jobs are purged.
func FromPercept(p StepData, prev *Situation) *Situation {
	s := &Situation{
		SimulationStep:   p.SimulationStep,
		TeamMoney:        p.TeamMoney,
		ChargingStations: p.ChargingStations,
		Dumps:            p.Dumps,
		Shops:            p.Shops,
		Storages:         p.Storages,
		Workshops:        p.Workshops,
		ResourceNodes:    p.ResourceNodes,
		Entities:         p.Entities,
		Auctions:         p.Auctions,
		Jobs:             p.Jobs,
		Missions:         p.Missions,
		Posteds:          p.Posteds,
		Selves:           p.Selves,
	}

	if prev == nil {
		return s
	}

	s.Strategy = prev.Strategy

	live := make(map[uint16]bool)
	for _, j := range s.Jobs {
		live[j.ID] = true
	}
	for _, a := range s.Auctions {
		live[a.ID] = true
	}
	for _, m := range s.Missions {
		live[m.ID] = true
	}

	s.Book = prev.Book
	out := s.Book.Delivered[:0]
	for _, e := range prev.Book.Delivered {
		if live[e.JobID] {
			out = append(out, e)
		}
	}
	s.Book.Delivered = out

	return s
}

// Clone returns a deep copy suitable for the simulator's planning-pass
// scratch buffer; slice fields are copied so mutation during fast-forward
// never reaches the live situation.
func (s *Situation) Clone() *Situation {
	clone := *s
	clone.ChargingStations = append([]ChargingStation(nil), s.ChargingStations...)
	clone.Dumps = append([]Dump(nil), s.Dumps...)
	clone.Shops = cloneShops(s.Shops)
	clone.Storages = cloneStorages(s.Storages)
	clone.Workshops = append([]Workshop(nil), s.Workshops...)
	clone.ResourceNodes = append([]ResourceNode(nil), s.ResourceNodes...)
	clone.Entities = append([]Entity(nil), s.Entities...)
	clone.Auctions = append([]Auction(nil), s.Auctions...)
	clone.Jobs = append([]JobBase(nil), s.Jobs...)
	clone.Missions = append([]Mission(nil), s.Missions...)
	clone.Posteds = append([]JobBase(nil), s.Posteds...)
	clone.Book.Delivered = append([]DeliveredEntry(nil), s.Book.Delivered...)
	for i := range clone.Selves {
		clone.Selves[i].Items = append([]strategy.ItemStack(nil), s.Selves[i].Items...)
	}
	return &clone
}

func cloneShops(in []Shop) []Shop {
	out := make([]Shop, len(in))
	for i, sh := range in {
		out[i] = sh
		out[i].Items = append([]ShopItem(nil), sh.Items...)
	}
	return out
}

func cloneStorages(in []Storage) []Storage {
	out := make([]Storage, len(in))
	for i, st := range in {
		out[i] = st
		out[i].Items = append([]StorageItem(nil), st.Items...)
	}
	return out
}
