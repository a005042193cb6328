package roadgraph

import (
	"container/heap"
	"sort"
)

// lookupEntry holds the forward and backward single-source Dijkstra arrays
// anchored at one GraphPosition.
type lookupEntry struct {
	pos     GraphPosition
	distFwd []float64 // metres, indexed by node id; +Inf if unreached
	distBwd []float64
}

// DistCache memoises per-position single-source Dijkstra results so repeat
// distance queries from the same anchor (typically a facility) skip full
// bidirectional A*.
type DistCache struct {
	graph   *Graph
	entries []lookupEntry // kept sorted by (pos.ID, pos.EdgePos) for binary search
}

// NewDistCache creates an empty cache bound to g.
func NewDistCache(g *Graph) *DistCache {
	return &DistCache{graph: g}
}

func comparePos(a, b GraphPosition) int {
	if a.ID != b.ID {
		if a.ID < b.ID {
			return -1
		}
		return 1
	}
	if a.EdgePos != b.EdgePos {
		if a.EdgePos < b.EdgePos {
			return -1
		}
		return 1
	}
	return 0
}

// AddLookup computes and stores the forward/backward single-source Dijkstra
// arrays anchored at p, if not already cached.
func (c *DistCache) AddLookup(p GraphPosition) {
	idx := sort.Search(len(c.entries), func(i int) bool {
		return comparePos(c.entries[i].pos, p) >= 0
	})
	if idx < len(c.entries) && comparePos(c.entries[idx].pos, p) == 0 {
		return
	}

	anchor, _ := c.graph.anchorNode(p, true)
	entry := lookupEntry{
		pos:     p,
		distFwd: c.graph.singleSourceDijkstra(anchor, true),
		distBwd: c.graph.singleSourceDijkstra(anchor, false),
	}

	c.entries = append(c.entries, lookupEntry{})
	copy(c.entries[idx+1:], c.entries[idx:])
	c.entries[idx] = entry
}

func (c *DistCache) find(p GraphPosition) (lookupEntry, bool) {
	idx := sort.Search(len(c.entries), func(i int) bool {
		return comparePos(c.entries[i].pos, p) >= 0
	})
	if idx < len(c.entries) && comparePos(c.entries[idx].pos, p) == 0 {
		return c.entries[idx], true
	}
	return lookupEntry{}, false
}

// Lookup returns the distance in metres·10³ between s and t, preferring a
// warm single-source array over s (refined onto t's edge), then one over t
// (refined onto s's edge), and falling back to a fresh bidirectional A* call
// (also warming neither cache, since s/t are typically one-off agent
// positions rather than facility anchors).
func (c *DistCache) Lookup(s, t GraphPosition) (uint32, error) {
	if entry, ok := c.find(s); ok {
		if d, ok := c.refine(entry.distFwd, t, false); ok {
			return uint32(d), nil
		}
	}
	if entry, ok := c.find(t); ok {
		if d, ok := c.refine(entry.distBwd, s, true); ok {
			return uint32(d), nil
		}
	}

	d, _, err := c.graph.DistRoad(s, t, false)
	return d, err
}

// refine adjusts a node-indexed single-source distance array onto a
// possibly-edge-valued GraphPosition by adding the remaining arc offset.
// forward must match the anchoring DistRoad itself would use for p in this
// role: false when p is the path's target (anchored toward NodeA, as
// DistRoad anchors t), true when p is the start (anchored toward NodeB, as
// DistRoad anchors s). Getting this backwards only matters for a mid-edge p,
// where forward/backward offsets differ.
func (c *DistCache) refine(distFromAnchor []float64, p GraphPosition, forward bool) (float64, bool) {
	node, offset := c.graph.anchorNode(p, forward)
	if int(node) >= len(distFromAnchor) {
		return 0, false
	}
	d := distFromAnchor[node]
	if d == posInf {
		return 0, false
	}
	return d + offset, true
}

const posInf = 1e18

// singleSourceDijkstra runs plain Dijkstra from anchor across every tower
// node, in the forward direction (respecting AllowsAtoB/AllowsBtoA as
// outbound) or backward (as if all edges were reversed).
func (g *Graph) singleSourceDijkstra(anchor uint32, forward bool) []float64 {
	n := g.NodeCount()
	dist := make([]float64, n)
	for i := range dist {
		dist[i] = posInf
	}
	dist[anchor] = 0

	done := make([]bool, n)
	open := &ring{{node: anchor, priority: 0, g: 0}}
	heap.Init(open)

	for open.Len() > 0 {
		item := heap.Pop(open).(ringItem)
		if done[item.node] {
			continue
		}
		done[item.node] = true

		g.ForEachIncident(item.node, func(edgeIdx uint32, atA bool) {
			e := g.Edge(edgeIdx)
			var allowed bool
			var neighbour uint32
			if forward {
				if atA {
					allowed, neighbour = e.AllowsAtoB(), e.NodeB
				} else {
					allowed, neighbour = e.AllowsBtoA(), e.NodeA
				}
			} else {
				if atA {
					allowed, neighbour = e.AllowsBtoA(), e.NodeB
				} else {
					allowed, neighbour = e.AllowsAtoB(), e.NodeA
				}
			}
			if !allowed || done[neighbour] {
				return
			}
			cand := item.g + float64(e.Dist)
			if cand < dist[neighbour] {
				dist[neighbour] = cand
				heap.Push(open, ringItem{node: neighbour, priority: cand, g: cand})
			}
		})
	}

	return dist
}
