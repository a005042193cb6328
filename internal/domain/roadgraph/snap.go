package roadgraph

import "math"

// SnapCandidates is K in the nearest-tower-node search.
const SnapCandidates = 8

// EdgePenalty is the tie-break metres added to tower-node candidates during
// snapping, pushing exact ties toward a pillar point on an edge instead of
// the node itself (spec.md scenario 6).
const EdgePenalty = 0.5

// Snap finds the GraphPosition nearest to p: the K nearest tower nodes by
// scaled lat/lon Euclidean distance, then the nearest point (node or pillar
// projection) among edges incident on that candidate set.
func (g *Graph) Snap(p Pos) GraphPosition {
	return g.snapK(p, SnapCandidates, EdgePenalty)
}

func (g *Graph) snapK(p Pos, k int, edgePenalty float64) GraphPosition {
	lat, lon := g.Bounds.FromPos(p)
	lonScale := MetresPerDegreeLon(lat)

	type candidate struct {
		node uint32
		dist float64
	}

	n := g.NodeCount()
	var best []candidate
	for i := 0; i < n; i++ {
		node := g.Node(uint32(i))
		if node.EdgeHead == InvalidIndex {
			continue // pruned
		}
		nlat, nlon := g.Bounds.FromPos(node.P)
		dy := (nlat - lat) * metresPerDegreeLat
		dx := (nlon - lon) * lonScale
		d := math.Sqrt(dx*dx + dy*dy)
		best = append(best, candidate{node: uint32(i), dist: d})
	}

	// Partial selection of the K nearest; n is small enough per planning
	// pass (warmed once per map, then cached) that a full sort is fine.
	for i := 0; i < len(best); i++ {
		for j := i + 1; j < len(best); j++ {
			if best[j].dist < best[i].dist {
				best[i], best[j] = best[j], best[i]
			}
		}
	}
	if len(best) > k {
		best = best[:k]
	}

	bestPos := GraphPosition{ID: InvalidIndex}
	bestDist := math.MaxFloat64
	seen := make(map[uint32]bool)

	for _, c := range best {
		// Tower node itself is a candidate, penalised so an exact tie with a
		// pillar point on an incident edge resolves to the edge.
		penalised := c.dist + edgePenalty
		if penalised < bestDist {
			bestDist = penalised
			bestPos = GraphPosition{ID: c.node, EdgePos: 0}
		}

		g.ForEachIncident(c.node, func(edgeIdx uint32, _ bool) {
			if seen[edgeIdx] {
				return
			}
			seen[edgeIdx] = true

			fraction, dist := g.projectOntoEdge(edgeIdx, lat, lon, lonScale)
			if fraction > 0 && fraction < 1 && dist < bestDist {
				bestDist = dist
				bestPos = NewEdgeGraphPosition(edgeIdx, fraction)
			}
		})
	}

	return bestPos
}

// projectOntoEdge finds the closest point to (lat, lon) along edge e's
// pillar polyline, returning the arc fraction along node_a -> node_b and the
// distance in metres to that closest point.
func (g *Graph) projectOntoEdge(edgeIdx uint32, lat, lon, lonScale float64) (fraction float64, distMetres float64) {
	e := g.Edge(edgeIdx)
	nodeA := g.Node(e.NodeA)
	nodeB := g.Node(e.NodeB)

	pillars := g.Geometry(edgeIdx)
	polyline := make([]Pos, 0, len(pillars)+2)
	polyline = append(polyline, nodeA.P)
	polyline = append(polyline, pillars...)
	polyline = append(polyline, nodeB.P)

	type xy struct{ x, y float64 }
	pts := make([]xy, len(polyline))
	for i, p := range polyline {
		plat, plon := g.Bounds.FromPos(p)
		pts[i] = xy{x: (plon - lon) * lonScale, y: (plat - lat) * metresPerDegreeLat}
	}

	totalLen := 0.0
	segLens := make([]float64, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		dx := pts[i+1].x - pts[i].x
		dy := pts[i+1].y - pts[i].y
		segLens[i] = math.Sqrt(dx*dx + dy*dy)
		totalLen += segLens[i]
	}
	if totalLen == 0 {
		return 0, 0
	}

	bestDist := math.MaxFloat64
	bestArc := 0.0
	cumulative := 0.0

	for i := 0; i < len(pts)-1; i++ {
		ax, ay := pts[i].x, pts[i].y
		bx, by := pts[i+1].x, pts[i+1].y
		dx, dy := bx-ax, by-ay
		segLen2 := dx*dx + dy*dy

		var t float64
		if segLen2 > 0 {
			t = -(ax*dx + ay*dy) / segLen2
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
		}

		footX := ax + t*dx
		footY := ay + t*dy
		d := math.Sqrt(footX*footX + footY*footY)

		if d < bestDist {
			bestDist = d
			bestArc = (cumulative + t*segLens[i]) / totalLen
		}
		cumulative += segLens[i]
	}

	return bestArc, bestDist
}
