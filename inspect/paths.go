package inspect

// PathsToRoots returns up to max shortest reference paths that keep the
// object alive, one per reachable root, each ordered root-first and
// ending at the object. A root object yields the single-element path of
// itself. The search is a breadth-first walk of the reversed edges, so
// every returned path is minimal for its root.
func (g *Graph) PathsToRoots(id ObjID, max int) [][]ObjID {
	if max <= 0 || id < 1 || int(id) > len(g.Nodes) {
		return nil
	}
	rev := g.reverseEdges()
	rootSet := make(map[ObjID]bool, len(g.Roots))
	for _, r := range g.Roots {
		rootSet[r] = true
	}

	visited := make([]bool, len(g.Nodes)+1)
	parent := make([]ObjID, len(g.Nodes)+1) // BFS predecessor, pointing back toward id
	queue := []ObjID{id}
	visited[id] = true

	var paths [][]ObjID
	for len(queue) > 0 && len(paths) < max {
		cur := queue[0]
		queue = queue[1:]
		if rootSet[cur] {
			path := []ObjID{cur}
			for n := cur; n != id; {
				n = parent[n]
				path = append(path, n)
			}
			paths = append(paths, path)
		}
		for _, p := range rev[cur] {
			if !visited[p] {
				visited[p] = true
				parent[p] = cur
				queue = append(queue, p)
			}
		}
	}
	return paths
}
