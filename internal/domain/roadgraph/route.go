package roadgraph

import (
	"container/heap"
	"math"

	"github.com/andrescamacho/massim-fleetctl/internal/domain/shared"
)

// ringItem is one entry of a Dijkstra/A* priority ring.
type ringItem struct {
	node     uint32
	priority float64 // g + h
	g        float64
}

type ring []ringItem

func (r ring) Len() int            { return len(r) }
func (r ring) Less(i, j int) bool  { return r[i].priority < r[j].priority }
func (r ring) Swap(i, j int)       { r[i], r[j] = r[j], r[i] }
func (r *ring) Push(x interface{}) { *r = append(*r, x.(ringItem)) }
func (r *ring) Pop() interface{} {
	old := *r
	n := len(old)
	item := old[n-1]
	*r = old[:n-1]
	return item
}

// heuristicMetres is an admissible straight-line-distance estimate in
// metres between two tower nodes, used to bias both A* rings toward the
// target without ever overestimating true road distance.
func (g *Graph) heuristicMetres(from, to uint32) float64 {
	a := g.Node(from).P
	b := g.Node(to).P
	alat, alon := g.Bounds.FromPos(a)
	blat, blon := g.Bounds.FromPos(b)
	lonScale := MetresPerDegreeLon((alat + blat) / 2)
	dy := (blat - alat) * metresPerDegreeLat
	dx := (blon - alon) * lonScale
	return math.Sqrt(dx*dx + dy*dy)
}

// DistRoad computes the shortest road distance in metres·10³ between two
// graph positions using bidirectional A* with admissible heuristics on both
// rings, terminating as soon as neither ring can possibly improve the best
// meeting-node incumbent. When wantRoute is true the path is reconstructed
// by walking predecessor links from the meeting node.
func (g *Graph) DistRoad(s, t GraphPosition, wantRoute bool) (uint32, []GraphPosition, error) {
	if s.ID == t.ID && s.EdgePos == t.EdgePos {
		return 0, []GraphPosition{s}, nil
	}

	if !s.IsNode() && !t.IsNode() && s.ID == t.ID {
		// Same edge: direct arc-fraction distance.
		e := g.Edge(s.ID)
		delta := math.Abs(s.ArcFraction() - t.ArcFraction())
		dist := uint32(delta * float64(e.Dist))
		return dist, nil, nil
	}

	startNode, startOffset := g.anchorNode(s, true)
	targetNode, targetOffset := g.anchorNode(t, false)

	dist, prev, next, meeting, err := g.biDijkstra(startNode, targetNode)
	if err != nil {
		return 0, nil, err
	}

	total := uint32(float64(dist) + startOffset + targetOffset)

	if !wantRoute {
		return total, nil, nil
	}

	route := reconstructRoute(s, t, startNode, targetNode, meeting, prev, next)
	return total, route, nil
}

// anchorNode reduces a GraphPosition to its nearer tower node plus the
// remaining metres offset to/from that node along the edge, so routing can
// operate purely over the node graph.
func (g *Graph) anchorNode(p GraphPosition, forward bool) (node uint32, offsetMetres float64) {
	if p.IsNode() {
		return p.ID, 0
	}
	e := g.Edge(p.ID)
	frac := p.ArcFraction()
	if forward {
		return e.NodeB, (1 - frac) * float64(e.Dist)
	}
	return e.NodeA, frac * float64(e.Dist)
}

// biDijkstra runs bidirectional A* (degenerating to plain Dijkstra when the
// caller passes a zero heuristic through heuristicMetres against the same
// target) between two tower nodes, returning the incumbent distance and the
// predecessor maps needed to reconstruct a route.
func (g *Graph) biDijkstra(start, target uint32) (uint32, map[uint32]uint32, map[uint32]uint32, uint32, error) {
	if start == target {
		return 0, nil, nil, start, nil
	}

	gF := map[uint32]float64{start: 0}
	gB := map[uint32]float64{target: 0}
	prev := map[uint32]uint32{}
	next := map[uint32]uint32{}
	doneF := map[uint32]bool{}
	doneB := map[uint32]bool{}

	openF := &ring{{node: start, priority: g.heuristicMetres(start, target), g: 0}}
	openB := &ring{{node: target, priority: g.heuristicMetres(target, start), g: 0}}
	heap.Init(openF)
	heap.Init(openB)

	incumbent := math.MaxFloat64
	var meeting uint32
	found := false

	for openF.Len() > 0 || openB.Len() > 0 {
		if openF.Len() > 0 {
			top := (*openF)[0]
			if top.priority >= incumbent && (openB.Len() == 0 || (*openB)[0].priority >= incumbent) {
				break
			}
		}

		if openF.Len() > 0 {
			item := heap.Pop(openF).(ringItem)
			if !doneF[item.node] {
				doneF[item.node] = true
				g.relax(item.node, item.g, gF, prev, doneF, openF, target, true)
				if gB2, ok := gB[item.node]; ok {
					if item.g+gB2 < incumbent {
						incumbent = item.g + gB2
						meeting = item.node
						found = true
					}
				}
			}
		}

		if openB.Len() > 0 {
			item := heap.Pop(openB).(ringItem)
			if !doneB[item.node] {
				doneB[item.node] = true
				g.relax(item.node, item.g, gB, next, doneB, openB, start, false)
				if gF2, ok := gF[item.node]; ok {
					if item.g+gF2 < incumbent {
						incumbent = item.g + gF2
						meeting = item.node
						found = true
					}
				}
			}
		}

		if openF.Len() == 0 && openB.Len() == 0 {
			break
		}
	}

	if !found {
		return 0, nil, nil, 0, shared.NewUnreachableError(start, target)
	}

	return uint32(incumbent), prev, next, meeting, nil
}

// relax expands node's neighbours respecting one-way flags; forward expands
// along AllowsAtoB/AllowsBtoA from node as NodeA/NodeB respectively, backward
// expands the mirrored direction.
func (g *Graph) relax(node uint32, gNode float64, gScore map[uint32]float64, pred map[uint32]uint32, done map[uint32]bool, open *ring, target uint32, forward bool) {
	g.ForEachIncident(node, func(edgeIdx uint32, atA bool) {
		e := g.Edge(edgeIdx)

		var allowed bool
		var neighbour uint32
		if forward {
			if atA {
				allowed = e.AllowsAtoB()
				neighbour = e.NodeB
			} else {
				allowed = e.AllowsBtoA()
				neighbour = e.NodeA
			}
		} else {
			// Backward search walks edges in reverse: it may step from
			// NodeB to NodeA along an A->B edge, and vice versa.
			if atA {
				allowed = e.AllowsBtoA()
				neighbour = e.NodeB
			} else {
				allowed = e.AllowsAtoB()
				neighbour = e.NodeA
			}
		}

		if !allowed || done[neighbour] {
			return
		}

		cand := gNode + float64(e.Dist)
		if existing, ok := gScore[neighbour]; !ok || cand < existing {
			gScore[neighbour] = cand
			pred[neighbour] = node
			h := g.heuristicMetres(neighbour, target)
			heap.Push(open, ringItem{node: neighbour, priority: cand + h, g: cand})
		}
	})
}

// reconstructRoute walks prev[] from the meeting node back to the anchor
// node of s (reversed), then next[] from the meeting node forward to the
// anchor node of t, producing a node-level route with s and t as the first
// and last GraphPosition.
func reconstructRoute(s, t GraphPosition, startNode, targetNode, meeting uint32, prev, next map[uint32]uint32) []GraphPosition {
	var forwardHalf []uint32
	for n := meeting; ; {
		forwardHalf = append([]uint32{n}, forwardHalf...)
		p, ok := prev[n]
		if !ok || n == startNode {
			break
		}
		n = p
	}

	var backwardHalf []uint32
	for n := meeting; ; {
		p, ok := next[n]
		if !ok || n == targetNode {
			break
		}
		backwardHalf = append(backwardHalf, p)
		n = p
	}

	nodes := append(forwardHalf, backwardHalf...)
	route := make([]GraphPosition, 0, len(nodes)+2)
	if !s.IsNode() {
		route = append(route, s) // a node s is already nodes[0]
	}
	for _, n := range nodes {
		route = append(route, GraphPosition{ID: n, EdgePos: 0})
	}
	if !t.IsNode() {
		route = append(route, t) // a node t is already the last of nodes
	}
	return route
}
