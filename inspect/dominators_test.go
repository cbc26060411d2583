package inspect

import "testing"

// buildGraph assembles a graph literal: node i+1 gets sizes[i] and
// edges[i]. Keeping construction in one place keeps the cases legible.
func buildGraph(roots []ObjID, sizes []int, edges [][]ObjID) *Graph {
	g := &Graph{Roots: roots}
	for i := range sizes {
		var refs []ObjID
		if i < len(edges) {
			refs = edges[i]
		}
		g.Nodes = append(g.Nodes, Node{ID: ObjID(i + 1), Size: sizes[i], Refs: refs})
	}
	return g
}

func TestDominators_Chain(t *testing.T) {
	g := buildGraph([]ObjID{1},
		[]int{10, 20, 30},
		[][]ObjID{{2}, {3}, nil})

	idom := g.Dominators()
	if idom[1] != 0 {
		t.Errorf("idom[1]: got %d, want 0", idom[1])
	}
	if idom[2] != 1 {
		t.Errorf("idom[2]: got %d, want 1", idom[2])
	}
	if idom[3] != 2 {
		t.Errorf("idom[3]: got %d, want 2", idom[3])
	}
}

func TestDominators_DiamondJoinDominatedByFork(t *testing.T) {
	g := buildGraph([]ObjID{1},
		[]int{10, 20, 30, 40},
		[][]ObjID{{2, 3}, {4}, {4}, nil})

	idom := g.Dominators()
	if idom[2] != 1 || idom[3] != 1 {
		t.Errorf("branch idoms: got %d and %d, want 1 and 1", idom[2], idom[3])
	}
	if idom[4] != 1 {
		t.Errorf("join idom: got %d, want 1", idom[4])
	}
}

func TestDominators_SharedBetweenRootsBelongsToVirtualRoot(t *testing.T) {
	g := buildGraph([]ObjID{1, 2},
		[]int{10, 20, 30},
		[][]ObjID{{3}, {3}, nil})

	idom := g.Dominators()
	if idom[3] != 0 {
		t.Errorf("idom[3]: got %d, want the virtual root", idom[3])
	}
}

func TestDominators_CycleConverges(t *testing.T) {
	g := buildGraph([]ObjID{1},
		[]int{10, 20, 30},
		[][]ObjID{{2}, {3}, {2}})

	idom := g.Dominators()
	if idom[2] != 1 {
		t.Errorf("idom[2]: got %d, want 1", idom[2])
	}
	if idom[3] != 2 {
		t.Errorf("idom[3]: got %d, want 2", idom[3])
	}
}

func TestDominators_UnreachableNodeMapsToVirtualRoot(t *testing.T) {
	g := buildGraph([]ObjID{1},
		[]int{10, 20},
		[][]ObjID{nil, {1}})

	idom := g.Dominators()
	if idom[2] != 0 {
		t.Errorf("idom of unreachable node: got %d, want 0", idom[2])
	}
}

func TestDominators_EmptyGraph(t *testing.T) {
	g := &Graph{}
	if got := g.Dominators(); len(got) != 1 {
		t.Errorf("Dominators length: got %d, want 1", len(got))
	}
	if got := g.RetainedSize(); len(got) != 1 || got[0] != 0 {
		t.Errorf("RetainedSize: got %v, want [0]", got)
	}
}

func TestDominatorTree_ChildrenLists(t *testing.T) {
	g := buildGraph([]ObjID{1},
		[]int{10, 20, 30, 40},
		[][]ObjID{{2, 3}, {4}, {4}, nil})

	tree := g.DominatorTree()
	if len(tree[0]) != 1 || tree[0][0] != 1 {
		t.Errorf("virtual root children: got %v, want [1]", tree[0])
	}
	if len(tree[1]) != 3 || tree[1][0] != 2 || tree[1][1] != 3 || tree[1][2] != 4 {
		t.Errorf("node 1 children: got %v, want [2 3 4]", tree[1])
	}
}

func TestRetainedSize_Chain(t *testing.T) {
	g := buildGraph([]ObjID{1},
		[]int{10, 20, 30},
		[][]ObjID{{2}, {3}, nil})

	retained := g.RetainedSize()
	if retained[1] != 60 {
		t.Errorf("retained[1]: got %d, want 60", retained[1])
	}
	if retained[2] != 50 {
		t.Errorf("retained[2]: got %d, want 50", retained[2])
	}
	if retained[3] != 30 {
		t.Errorf("retained[3]: got %d, want 30", retained[3])
	}
	if retained[0] != 60 {
		t.Errorf("retained[0]: got %d, want 60", retained[0])
	}
}

func TestRetainedSize_DiamondJoinChargedToFork(t *testing.T) {
	g := buildGraph([]ObjID{1},
		[]int{10, 20, 30, 40},
		[][]ObjID{{2, 3}, {4}, {4}, nil})

	retained := g.RetainedSize()
	if retained[2] != 20 || retained[3] != 30 {
		t.Errorf("branches: got %d and %d, want 20 and 30", retained[2], retained[3])
	}
	if retained[1] != 100 {
		t.Errorf("fork: got %d, want 100", retained[1])
	}
}

func TestRetainedSize_SharedBetweenRootsChargedToNeither(t *testing.T) {
	g := buildGraph([]ObjID{1, 2},
		[]int{10, 20, 30},
		[][]ObjID{{3}, {3}, nil})

	retained := g.RetainedSize()
	if retained[1] != 10 || retained[2] != 20 {
		t.Errorf("roots: got %d and %d, want 10 and 20", retained[1], retained[2])
	}
	if retained[3] != 30 {
		t.Errorf("shared: got %d, want 30", retained[3])
	}
	if retained[0] != 60 {
		t.Errorf("total: got %d, want 60", retained[0])
	}
}

func TestTopRetainers_OrderedWithStableTies(t *testing.T) {
	g := buildGraph([]ObjID{1, 2, 3},
		[]int{50, 50, 30},
		nil)

	top := g.TopRetainers(2)
	if len(top) != 2 {
		t.Fatalf("TopRetainers: got %d entries, want 2", len(top))
	}
	if top[0].ID != 1 || top[0].Retained != 50 {
		t.Errorf("first: got id %d retained %d, want id 1 retained 50", top[0].ID, top[0].Retained)
	}
	if top[1].ID != 2 || top[1].Retained != 50 {
		t.Errorf("second: got id %d retained %d, want id 2 retained 50", top[1].ID, top[1].Retained)
	}

	if got := g.TopRetainers(10); len(got) != 3 {
		t.Errorf("oversized max: got %d entries, want 3", len(got))
	}
	if got := g.TopRetainers(0); got != nil {
		t.Errorf("zero max: got %v, want nil", got)
	}
}
