package wire

import (
	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/situation"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/world"
	"github.com/andrescamacho/massim-fleetctl/pkg/intern"
)

// NewWorldFromSimStart builds the match's static World from the
// once-per-match sim-start message (spec.md §4.F), interning every item,
// tool and role name into fresh tables, then assigns the 16 agent slots to
// roles round-robin over sim.Roles in declaration order — the wire protocol
// lists role names per agent team roster, not a fixed slot order, so
// round-robin is the simplest deterministic assignment absent a join
// ordering guarantee (see DESIGN.md Open Questions).
func NewWorldFromSimStart(sim SimStart, graph *roadgraph.Graph) *world.World {
	itemNames := intern.NewTable8()
	roleIDs := make(map[string]uint8, len(sim.Sim.Roles))

	items := make([]world.Item, len(sim.Sim.Items))
	for i, it := range sim.Sim.Items {
		id, _ := itemNames.Register(it.Name)
		tools := make([]uint8, len(it.Tools))
		for j, t := range it.Tools {
			tid, _ := itemNames.Register(t)
			tools[j] = tid
		}
		consumed := make([]strategy.ItemStack, len(it.Consumed))
		for j, c := range it.Consumed {
			cid, _ := itemNames.Register(c.Name)
			consumed[j] = strategy.ItemStack{Item: cid, Amount: c.Amount}
		}
		items[i] = world.Item{ID: id, Volume: it.Volume, Assembled: it.Assembled, Consumed: consumed, Tools: tools}
	}

	roles := make([]world.Role, len(sim.Sim.Roles))
	for i, r := range sim.Sim.Roles {
		id := uint8(i)
		roleIDs[r.Name] = id
		tools := make(map[uint8]bool, len(r.Tools))
		for _, t := range r.Tools {
			tid, _ := itemNames.Register(t)
			tools[tid] = true
		}
		roles[i] = world.Role{ID: id, Speed: r.Speed, BatteryMax: r.BatteryMax, LoadMax: r.LoadMax, Tools: tools}
	}

	var agentRole [strategy.NumAgents]uint8
	for i := range agentRole {
		if len(roles) > 0 {
			agentRole[i] = roles[i%len(roles)].ID
		}
	}

	teamID, _ := itemNames.Register(sim.Sim.Team)

	w := world.Build(items, roles, agentRole, graph, teamID, sim.Sim.SeedCapital, sim.Sim.SteamCount)
	w.ItemNames = itemNames
	return w
}

// Decoder turns wire XML payloads into domain values, interning every
// facility/item/agent name it meets into w's tables (spec.md §6: the wire
// protocol names everything by string, the planner's hot paths index by
// uint8/uint16 id).
type Decoder struct {
	world *world.World
}

// NewDecoder binds a Decoder to w. w's intern tables are mutated as new
// names are seen across the match.
func NewDecoder(w *world.World) *Decoder {
	return &Decoder{world: w}
}

func (d *Decoder) pos(lat, lon float64) roadgraph.Pos {
	return d.world.Graph.Bounds.ToPos(lat, lon)
}

func (d *Decoder) facility(name string) uint8 {
	id, _ := d.world.FacilityNames.Register(name)
	return id
}

func (d *Decoder) item(name string) uint8 {
	id, _ := d.world.ItemNames.Register(name)
	return id
}

func (d *Decoder) agent(name string) uint8 {
	id, _ := d.world.AgentNames.Register(name)
	return id
}

func (d *Decoder) amounts(in []AmountXML) []strategy.ItemStack {
	out := make([]strategy.ItemStack, len(in))
	for i, a := range in {
		out[i] = strategy.ItemStack{Item: d.item(a.Name), Amount: a.Amount}
	}
	return out
}

func (d *Decoder) jobBase(j JobXML) situation.JobBase {
	id := idOf(j.ID)
	return situation.JobBase{
		ID:        id,
		StorageID: d.facility(j.Storage),
		Start:     j.Begin,
		End:       j.End,
		Reward:    j.Reward,
		Required:  d.amounts(j.Required),
	}
}

// idOf hashes a job's wire-protocol string id down into a uint16; job ids
// are never used for arithmetic, only equality, so a deterministic fold is
// sufficient and keeps DeliveryBook/Auction/Mission keyed on a fixed-size
// field instead of a string.
func idOf(s string) uint16 {
	var h uint16 = 2166
	for i := 0; i < len(s); i++ {
		h = h*31 + uint16(s[i])
	}
	return h
}

// Percept decodes one agent's request-action message into the
// protocol-agnostic situation.Percept the planner consumes.
func (d *Decoder) Percept(agentIndex int, ra RequestAction) situation.Percept {
	p := ra.Percept

	charging := make([]situation.ChargingStation, len(p.Charging))
	for i, c := range p.Charging {
		charging[i] = situation.ChargingStation{ID: d.facility(c.Name), Pos: d.pos(c.Lat, c.Lon)}
	}
	dumps := make([]situation.Dump, len(p.Dumps))
	for i, f := range p.Dumps {
		dumps[i] = situation.Dump{ID: d.facility(f.Name), Pos: d.pos(f.Lat, f.Lon)}
	}
	shops := make([]situation.Shop, len(p.Shops))
	for i, sh := range p.Shops {
		items := make([]situation.ShopItem, len(sh.Items))
		for j, it := range sh.Items {
			items[j] = situation.ShopItem{Item: d.item(it.Name), Amount: it.Amount, Cost: it.Cost}
		}
		shops[i] = situation.Shop{ID: d.facility(sh.Name), Pos: d.pos(sh.Lat, sh.Lon), RestockTimer: sh.Restock, Items: items}
	}
	storages := make([]situation.Storage, len(p.Storages))
	for i, st := range p.Storages {
		items := make([]situation.StorageItem, len(st.Items))
		for j, it := range st.Items {
			items[j] = situation.StorageItem{Item: d.item(it.Name), Amount: it.Amount, Delivered: it.Delivered}
		}
		storages[i] = situation.Storage{
			ID: d.facility(st.Name), Pos: d.pos(st.Lat, st.Lon),
			TotalCapacity: st.TotalCapacity, UsedCapacity: st.UsedCapacity, Items: items,
		}
	}
	workshops := make([]situation.Workshop, len(p.Workshops))
	for i, f := range p.Workshops {
		workshops[i] = situation.Workshop{ID: d.facility(f.Name), Pos: d.pos(f.Lat, f.Lon)}
	}
	resources := make([]situation.ResourceNode, len(p.Resources))
	for i, f := range p.Resources {
		resources[i] = situation.ResourceNode{ID: d.facility(f.Name), Pos: d.pos(f.Lat, f.Lon)}
	}
	entities := make([]situation.Entity, len(p.Entities))
	for i, e := range p.Entities {
		entities[i] = situation.Entity{ID: d.agent(e.Name), Pos: d.pos(e.Lat, e.Lon), Team: d.facility(e.Team)}
	}
	jobs := make([]situation.JobBase, len(p.Jobs))
	for i, j := range p.Jobs {
		jobs[i] = d.jobBase(j)
	}
	posteds := make([]situation.JobBase, len(p.Posteds))
	for i, j := range p.Posteds {
		posteds[i] = d.jobBase(j)
	}
	auctions := make([]situation.Auction, len(p.Auctions))
	for i, a := range p.Auctions {
		auctions[i] = situation.Auction{JobBase: d.jobBase(a.JobXML), Fine: a.Fine, MaxBid: a.MaxBid, AuctionTime: a.AuctionTime}
	}
	missions := make([]situation.Mission, len(p.Missions))
	for i, m := range p.Missions {
		missions[i] = situation.Mission{JobBase: d.jobBase(m.JobXML), Fine: m.Fine}
	}

	self := situation.Self{
		Pos:          d.pos(p.Self.Lat, p.Self.Lon),
		Charge:       p.Self.Charge,
		Load:         p.Self.Load,
		FacilityIn:   d.facility(p.Self.FacilityIn),
		ActionType:   p.Self.LastAction,
		ActionResult: p.Self.LastResult,
		Items:        d.amounts(p.Self.Items),
	}

	return situation.Percept{
		SimulationStep:   p.SimulationStep,
		TeamMoney:        p.TeamMoney,
		Deadline:         ra.Deadline,
		ChargingStations: charging,
		Dumps:            dumps,
		Shops:            shops,
		Storages:         storages,
		Workshops:        workshops,
		ResourceNodes:    resources,
		Entities:         entities,
		Auctions:         auctions,
		Jobs:             jobs,
		Missions:         missions,
		Posteds:          posteds,
		AgentIndex:       agentIndex,
		Self:             self,
	}
}
