package roadgraph

// pruneToLargestSCC runs Tarjan's strongly-connected-components algorithm,
// iteratively (explicit stack, no recursion, as required for the tens of
// thousands of nodes a city-sized map can hold), then discards every node
// outside the single largest component by invalidating its incident edges
// and splicing them out of its neighbours' adjacency lists.
func (g *Graph) pruneToLargestSCC() {
	n := g.NodeCount()
	if n == 0 {
		return
	}

	components := tarjanSCC(g)

	// Find the largest component.
	sizes := make(map[int]int)
	for _, c := range components {
		sizes[c]++
	}
	largest, largestSize := -1, 0
	for c, size := range sizes {
		if size > largestSize {
			largest, largestSize = c, size
		}
	}

	for i := 0; i < n; i++ {
		if components[i] != largest {
			g.pruneNode(uint32(i))
		}
	}
}

// pruneNode invalidates every edge incident on n and splices it out of the
// other endpoint's adjacency list, then marks n itself unreachable.
func (g *Graph) pruneNode(n uint32) {
	node := g.Node(n)
	edgeIdx := node.EdgeHead
	for edgeIdx != InvalidIndex {
		e := g.Edge(edgeIdx)
		atA := e.NodeA == n
		next := e.LinkA
		if !atA {
			next = e.LinkB
		}

		other := e.NodeB
		if !atA {
			other = e.NodeA
		}
		g.spliceOut(other, edgeIdx)

		e.Flags = 0
		g.setEdge(edgeIdx, e)

		edgeIdx = next
	}

	node.EdgeHead = InvalidIndex
	g.nodes.Set(g.arena, int(n), node)
}

// spliceOut removes edgeIdx from node other's adjacency list.
func (g *Graph) spliceOut(other uint32, edgeIdx uint32) {
	node := g.Node(other)
	if node.EdgeHead == edgeIdx {
		e := g.Edge(edgeIdx)
		if e.NodeA == other {
			node.EdgeHead = e.LinkA
		} else {
			node.EdgeHead = e.LinkB
		}
		g.nodes.Set(g.arena, int(other), node)
		return
	}

	cur := node.EdgeHead
	for cur != InvalidIndex {
		e := g.Edge(cur)
		atA := e.NodeA == other
		next := e.LinkA
		if !atA {
			next = e.LinkB
		}
		if next == edgeIdx {
			target := g.Edge(edgeIdx)
			afterNext := target.LinkA
			if target.NodeB == other {
				afterNext = target.LinkB
			}
			if atA {
				e.LinkA = afterNext
			} else {
				e.LinkB = afterNext
			}
			g.setEdge(cur, e)
			return
		}
		cur = next
	}
}

// tarjanFrame is one explicit-stack activation record standing in for the
// recursive call in textbook Tarjan.
type tarjanFrame struct {
	node    uint32
	edgeIdx uint32
}

// tarjanSCC computes strongly connected components treating each Edge's
// AllowsAtoB/AllowsBtoA flags as directed arcs. Returns a component id per
// node index.
func tarjanSCC(g *Graph) []int {
	n := g.NodeCount()
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	comp := make([]int, n)
	for i := range index {
		index[i] = -1
		comp[i] = -1
	}

	var nextIndex int
	var nodeStack []uint32
	var nextComp int

	for start := 0; start < n; start++ {
		if index[start] != -1 {
			continue
		}

		var work []tarjanFrame
		work = append(work, tarjanFrame{node: uint32(start), edgeIdx: InvalidIndex})

		for len(work) > 0 {
			top := &work[len(work)-1]
			v := top.node

			if top.edgeIdx == InvalidIndex && index[v] == -1 {
				index[v] = nextIndex
				low[v] = nextIndex
				nextIndex++
				nodeStack = append(nodeStack, v)
				onStack[v] = true
				top.edgeIdx = g.Node(v).EdgeHead
			}

			advanced := false
			for top.edgeIdx != InvalidIndex {
				e := g.Edge(top.edgeIdx)
				atA := e.NodeA == v
				var w uint32
				var directed bool
				if atA {
					w = e.NodeB
					directed = e.AllowsAtoB()
				} else {
					w = e.NodeA
					directed = e.AllowsBtoA()
				}

				curEdge := top.edgeIdx
				if atA {
					top.edgeIdx = e.LinkA
				} else {
					top.edgeIdx = e.LinkB
				}
				_ = curEdge

				if !directed {
					continue
				}

				if index[w] == -1 {
					work = append(work, tarjanFrame{node: w, edgeIdx: InvalidIndex})
					advanced = true
					break
				} else if onStack[w] {
					if index[w] < low[v] {
						low[v] = index[w]
					}
				}
			}

			if advanced {
				continue
			}

			if top.edgeIdx == InvalidIndex {
				if low[v] == index[v] {
					for {
						w := nodeStack[len(nodeStack)-1]
						nodeStack = nodeStack[:len(nodeStack)-1]
						onStack[w] = false
						comp[w] = nextComp
						if w == v {
							break
						}
					}
					nextComp++
				}

				work = work[:len(work)-1]
				if len(work) > 0 {
					parent := &work[len(work)-1]
					pv := parent.node
					if low[v] < low[pv] {
						low[pv] = low[v]
					}
				}
			}
		}
	}

	return comp
}
