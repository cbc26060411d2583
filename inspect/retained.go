package inspect

import "sort"

// RetainedSize returns, indexed by node ID, the bytes that would become
// unreachable if that node were cut loose: its own size plus the size
// of everything it exclusively dominates. Index 0 carries the virtual
// root's total, which sums every node in the graph.
func (g *Graph) RetainedSize() []int {
	children := g.DominatorTree()
	retained := make([]int, len(g.Nodes)+1)
	for i := range g.Nodes {
		retained[i+1] = g.Nodes[i].Size
	}

	// Bottom-up over the dominator tree: pop a finished node and fold
	// its total into the parent frame below it.
	type frame struct {
		id   int
		next int
	}
	stack := []frame{{id: 0}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.next < len(children[f.id]) {
			child := int(children[f.id][f.next])
			f.next++
			stack = append(stack, frame{id: child})
			continue
		}
		id := f.id
		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			retained[stack[len(stack)-1].id] += retained[id]
		}
	}
	return retained
}

// Retainer pairs a node with its retained size for reporting.
type Retainer struct {
	ID       ObjID
	Kind     string
	Label    string
	Retained int
}

// TopRetainers returns the max heaviest retainers, largest first. Ties
// break toward the lower ID so output is stable across runs.
func (g *Graph) TopRetainers(max int) []Retainer {
	if max <= 0 || len(g.Nodes) == 0 {
		return nil
	}
	retained := g.RetainedSize()
	out := make([]Retainer, 0, len(g.Nodes))
	for i := range g.Nodes {
		out = append(out, Retainer{
			ID:       g.Nodes[i].ID,
			Kind:     g.Nodes[i].Kind,
			Label:    g.Nodes[i].Label,
			Retained: retained[i+1],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Retained != out[j].Retained {
			return out[i].Retained > out[j].Retained
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > max {
		out = out[:max]
	}
	return out
}
