package inspect

// Dominator computation over the captured graph, using the iterative
// fixpoint of Cooper, Harvey, and Kennedy ("A Simple, Fast Dominance
// Algorithm"). A virtual root with ID 0 owns an edge to every
// registered root, so objects reachable from several roots are
// dominated by the virtual root rather than by any one of them.

// Dominators returns the immediate dominator of every node, indexed by
// node ID (index 0 is unused). A node whose only dominator is the
// virtual root maps to 0, as does a node not reachable from any root.
func (g *Graph) Dominators() []ObjID {
	n := len(g.Nodes)
	succs := func(id int) []ObjID {
		if id == 0 {
			return g.Roots
		}
		return g.Nodes[id-1].Refs
	}

	rpo, rpoNum := g.reversePostorder(succs)

	preds := make([][]int, n+1)
	for _, id := range rpo {
		for _, s := range succs(id) {
			preds[s] = append(preds[s], id)
		}
	}

	const unset = -1
	idom := make([]int, n+1)
	for i := range idom {
		idom[i] = unset
	}
	idom[0] = 0

	intersect := func(a, b int) int {
		for a != b {
			for rpoNum[a] > rpoNum[b] {
				a = idom[a]
			}
			for rpoNum[b] > rpoNum[a] {
				b = idom[b]
			}
		}
		return a
	}

	changed := true
	for changed {
		changed = false
		for _, id := range rpo {
			if id == 0 {
				continue
			}
			next := unset
			for _, p := range preds[id] {
				if idom[p] == unset {
					continue
				}
				if next == unset {
					next = p
				} else {
					next = intersect(next, p)
				}
			}
			if next == unset || idom[id] == next {
				continue
			}
			idom[id] = next
			changed = true
		}
	}

	out := make([]ObjID, n+1)
	for id := 1; id <= n; id++ {
		if idom[id] > 0 {
			out[id] = ObjID(idom[id])
		}
	}
	return out
}

// DominatorTree returns the children lists of the dominator tree,
// indexed by node ID. Index 0 holds the virtual root's children: the
// nodes retained by no single object.
func (g *Graph) DominatorTree() [][]ObjID {
	idom := g.Dominators()
	children := make([][]ObjID, len(g.Nodes)+1)
	for id := 1; id <= len(g.Nodes); id++ {
		children[idom[id]] = append(children[idom[id]], ObjID(id))
	}
	return children
}

// reversePostorder runs an iterative depth-first walk from the virtual
// root and returns node IDs in reverse postorder along with each
// node's position in that order. Unreachable nodes are absent.
func (g *Graph) reversePostorder(succs func(int) []ObjID) (rpo []int, rpoNum []int) {
	n := len(g.Nodes)
	state := make([]uint8, n+1) // 0 new, 1 discovered, 2 finished
	post := make([]int, 0, n+1)

	type frame struct {
		id   int
		next int
	}
	stack := []frame{{id: 0}}
	state[0] = 1
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		edges := succs(f.id)
		if f.next < len(edges) {
			child := int(edges[f.next])
			f.next++
			if state[child] == 0 {
				state[child] = 1
				stack = append(stack, frame{id: child})
			}
			continue
		}
		state[f.id] = 2
		post = append(post, f.id)
		stack = stack[:len(stack)-1]
	}

	rpo = make([]int, len(post))
	rpoNum = make([]int, n+1)
	for i := range post {
		id := post[len(post)-1-i]
		rpo[i] = id
		rpoNum[id] = i
	}
	return rpo, rpoNum
}
