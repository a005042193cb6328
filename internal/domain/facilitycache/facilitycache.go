// Package facilitycache memoises the facility×facility (and agent×facility)
// distance matrix that strategy repair leans on heavily (spec.md §4.E): one
// dense table, warmed once per match via the road graph's per-position
// single-source Dijkstra cache, instead of tens of thousands of cold A*
// calls.
package facilitycache

import (
	"github.com/andrescamacho/massim-fleetctl/internal/domain/roadgraph"
	"github.com/andrescamacho/massim-fleetctl/internal/domain/strategy"
)

// sizeMax bounds the compact index space: facility/role/item ids are
// interned 8-bit (pkg/intern.Table8), so at most 256 distinct entities can
// ever need a slot, plus the 16 live agents appended after the facility
// block.
const sizeMax = 256 + 16

// unassigned marks an id with no compact index yet.
const unassigned int16 = -1

// FacilityCache holds the dense facility×facility (and agent×facility)
// distance matrix plus the two generations of id→index maps needed across a
// single-step move (pre-move idToIndex1, post-move idToIndex2).
type FacilityCache struct {
	graph *roadgraph.Graph

	idToIndex1 [256]int16
	idToIndex2 [256]int16

	positions [sizeMax]roadgraph.GraphPosition
	count     int
	facilityCount int

	distances [sizeMax][sizeMax]uint32

	distCache *roadgraph.DistCache
}

// New creates an empty cache bound to g.
func New(g *roadgraph.Graph) *FacilityCache {
	fc := &FacilityCache{graph: g, distCache: roadgraph.NewDistCache(g)}
	for i := range fc.idToIndex1 {
		fc.idToIndex1[i] = unassigned
		fc.idToIndex2[i] = unassigned
	}
	return fc
}

// RegisterPos snaps pos to the road graph and assigns it the next compact
// index, recording whether the registration belongs to the facility block
// (isFacility) so agent positions always sort after every facility.
func (fc *FacilityCache) RegisterPos(id uint8, pos roadgraph.Pos, isFacility bool) int16 {
	gp := fc.graph.Snap(pos)

	var idx int16
	if isFacility {
		idx = int16(fc.facilityCount)
		fc.facilityCount++
		if fc.facilityCount > fc.count {
			fc.count = fc.facilityCount
		}
	} else {
		idx = int16(fc.count)
		fc.count++
	}

	fc.positions[idx] = gp
	fc.idToIndex1[id] = idx
	fc.idToIndex2[id] = idx
	return idx
}

// IndexOf returns the compact index assigned to id in the current
// (post-move) generation.
func (fc *FacilityCache) IndexOf(id uint8) (int16, bool) {
	idx := fc.idToIndex2[id]
	if idx == unassigned {
		return 0, false
	}
	return idx, true
}

// PreMoveIndexOf returns the compact index assigned to id before the most
// recent remap, used to translate stale references during a planning pass
// that moved facilities around.
func (fc *FacilityCache) PreMoveIndexOf(id uint8) (int16, bool) {
	idx := fc.idToIndex1[id]
	if idx == unassigned {
		return 0, false
	}
	return idx, true
}

// CalcFacilities warms the distance matrix for every pair within the
// facility block (agents are looked up lazily against warmed facility
// anchors, never against each other).
func (fc *FacilityCache) CalcFacilities() {
	for i := 0; i < fc.facilityCount; i++ {
		fc.distCache.AddLookup(fc.positions[i])
	}

	for i := 0; i < fc.facilityCount; i++ {
		for j := 0; j < fc.facilityCount; j++ {
			if i == j {
				fc.distances[i][j] = 0
				continue
			}
			d, err := fc.distCache.Lookup(fc.positions[i], fc.positions[j])
			if err != nil {
				continue // unreachable should not occur post-SCC-pruning; leave zeroed, caller will re-derive via DistRoad if needed
			}
			fc.distances[i][j] = d
		}
	}
}

// Distance returns the memoised distance between two compact indices,
// falling back to a fresh DistCache lookup for any pair involving an agent
// index (outside the warmed facility block).
func (fc *FacilityCache) Distance(i, j int16) uint32 {
	if int(i) < fc.facilityCount && int(j) < fc.facilityCount {
		return fc.distances[i][j]
	}
	d, err := fc.distCache.Lookup(fc.positions[i], fc.positions[j])
	if err != nil {
		return 0
	}
	return d
}

// DistanceByID is a convenience wrapper resolving two interned ids to
// compact indices before looking up the memoised distance.
func (fc *FacilityCache) DistanceByID(a, b uint8) (uint32, bool) {
	ia, ok := fc.IndexOf(a)
	if !ok {
		return 0, false
	}
	ib, ok := fc.IndexOf(b)
	if !ok {
		return 0, false
	}
	return fc.Distance(ia, ib), true
}

// AgentSlotID returns the reserved compact-cache id for agent slot a. Agent
// positions are registered in the top of the 8-bit id space (256-NumAgents
// upward), clear of any facility id the match's intern.Table8 hands out in
// practice, so RegisterPos never confuses an agent slot for a facility.
func AgentSlotID(agent int) uint8 {
	return uint8(256 - strategy.NumAgents + agent)
}

// Reset evicts every non-facility entry (agent positions from the previous
// step) while keeping the warmed facility block intact for the next
// planning pass.
func (fc *FacilityCache) Reset() {
	fc.count = fc.facilityCount
	for id, idx := range fc.idToIndex1 {
		if idx != unassigned && int(idx) >= fc.facilityCount {
			fc.idToIndex1[id] = unassigned
			fc.idToIndex2[id] = unassigned
		}
	}
}
