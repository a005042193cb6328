// Package world holds the static, per-simulation invariants (spec.md §4.F):
// item recipes, role capabilities and the road graph handle. It is built
// once from the first perception and never reshaped again except for
// per-agent role-slot bookkeeping refreshed on the same step.
package world

import (
	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
	"github.com/andrescamacho/massim-fleetctl/pkg/intern"
)

// Item describes one craftable or raw good: its cargo volume, whether it is
// assembled (vs. raw/purchasable), its recipe inputs and any tools its
// assembly requires.
type Item struct {
	ID        uint8
	Volume    int32
	Assembled bool
	Consumed  []strategy.ItemStack
	Tools     []uint8
}

// Role describes one agent archetype's capabilities.
type Role struct {
	ID         uint8
	Speed      int32
	BatteryMax int32
	LoadMax    int32
	Tools      map[uint8]bool
}

// HasTool reports whether this role can ever carry tool id t.
func (r Role) HasTool(t uint8) bool {
	return r.Tools[t]
}

// World is the immutable-after-load static state for one match.
type World struct {
	Items []Item
	Roles []Role

	// AgentRole maps each of the 16 agent slots to its Role id.
	AgentRole [strategy.NumAgents]uint8

	Graph *roadgraph.Graph

	Team        uint8
	SeedCapital int32
	Steps       int32

	// ItemNames, FacilityNames and AgentNames intern the wire-protocol string
	// identifiers the server uses, so adapters/wire can translate a planner
	// decision's uint8 ids back into the names the match actually speaks.
	ItemNames     *intern.Table8
	FacilityNames *intern.Table8
	AgentNames    *intern.Table8
}

// ItemByID returns the Item definition for id, or false if unknown.
func (w *World) ItemByID(id uint8) (Item, bool) {
	for _, it := range w.Items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// RoleByID returns the Role definition for id, or false if unknown.
func (w *World) RoleByID(id uint8) (Role, bool) {
	for _, r := range w.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// RoleOf returns the Role capabilities of agent slot a.
func (w *World) RoleOf(agent int) (Role, bool) {
	return w.RoleByID(w.AgentRole[agent])
}

// Build constructs a World from the first sim-start perception. Subsequent
// steps only refresh AgentRole (team composition can rotate within a match
// in some rule sets; everything else is fixed for the match's lifetime).
func Build(items []Item, roles []Role, agentRole [strategy.NumAgents]uint8, graph *roadgraph.Graph, team uint8, seedCapital, steps int32) *World {
	return &World{
		Items:         items,
		Roles:         roles,
		AgentRole:     agentRole,
		Graph:         graph,
		Team:          team,
		SeedCapital:   seedCapital,
		Steps:         steps,
		ItemNames:     intern.NewTable8(),
		FacilityNames: intern.NewTable8(),
		AgentNames:    intern.NewTable8(),
	}
}

// RefreshAgentRoles updates the per-slot role assignment without touching
// items, roles or the graph handle.
func (w *World) RefreshAgentRoles(agentRole [strategy.NumAgents]uint8) {
	w.AgentRole = agentRole
}
