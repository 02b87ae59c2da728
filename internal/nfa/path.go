package nfa

// Path is one accepting walk through the NFA: the sequence of edges taken
// and the states visited, including the initial state.
type Path struct {
	States []int
	Edges  []*Edge
}

func newPath(initial int) Path {
	return Path{States: []int{initial}}
}

// appended returns a copy of p with (edge, state) appended. It never shares
// backing arrays with p, so sibling branches explored by FindBasisPaths's
// backtracking traversal can't corrupt each other's slices.
func (p Path) appended(e *Edge, state int) Path {
	states := make([]int, len(p.States)+1)
	copy(states, p.States)
	states[len(p.States)] = state

	edges := make([]*Edge, len(p.Edges)+1)
	copy(edges, p.Edges)
	edges[len(p.Edges)] = e

	return Path{States: states, Edges: edges}
}

// FindBasisPaths enumerates a basis set of paths through the NFA via a
// depth-first traversal that, the first time it visits a state, explores
// every outgoing edge from it; every subsequent visit to an already-seen
// state explores only the first outgoing edge found. This guarantees every
// edge is covered by some path while keeping the total path count linear in
// the graph size rather than exponential.
func (n *NFA) FindBasisPaths() []Path {
	visited := make([]bool, n.size)
	var paths []Path
	n.traverse(n.initial, newPath(n.initial), &paths, visited)
	return paths
}

func (n *NFA) traverse(curr int, path Path, paths *[]Path, visited []bool) {
	beenHere := visited[curr]

	if curr == n.final {
		for _, s := range path.States {
			visited[s] = true
		}
		*paths = append(*paths, path)
		return
	}

	for next := 0; next < n.size; next++ {
		edge := n.edges[curr][next]
		if edge == nil {
			continue
		}
		n.traverse(next, path.appended(edge, next), paths, visited)
		if beenHere {
			break
		}
	}
}
