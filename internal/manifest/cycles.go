package manifest

// Edge is a directed edge in the depends_on graph.
type Edge struct {
	From string
	To   string
}

// Node colors for the depth-first walk.
const (
	unvisited = iota
	onPath
	finished
)

// DetectCycles walks the depends_on graph and returns every cycle-closing
// edge: an edge whose target is already on the current traversal path. A unit
// that depends on itself yields the one-node cycle (id, id). Dangling
// depends_on entries are excluded from the graph up front; they are the
// unknown-target warning's concern, not a cycle. Removing the returned edges
// from the graph leaves it acyclic, so a topological walk over the remainder
// always terminates. Runs in O(V+E).
func DetectCycles(units []KnowledgeUnit) []Edge {
	known := make(map[string]bool, len(units))
	for _, u := range units {
		if u.ID != "" {
			known[u.ID] = true
		}
	}

	// Adjacency restricted to known targets. First occurrence wins for
	// duplicate unit ids, consistent with UnitIndex.
	adj := make(map[string][]string, len(units))
	order := make([]string, 0, len(units))
	for _, u := range units {
		if u.ID == "" {
			continue
		}
		if _, dup := adj[u.ID]; dup {
			continue
		}
		order = append(order, u.ID)
		var deps []string
		for _, dep := range u.DependsOn {
			if known[dep] {
				deps = append(deps, dep)
			}
		}
		adj[u.ID] = deps
	}

	var cycles []Edge
	state := make(map[string]int, len(order))
	for _, id := range order {
		if state[id] == unvisited {
			cycleDFS(id, adj, state, &cycles)
		}
	}
	return cycles
}

func cycleDFS(node string, adj map[string][]string, state map[string]int, cycles *[]Edge) {
	state[node] = onPath
	for _, dep := range adj[node] {
		switch state[dep] {
		case onPath:
			*cycles = append(*cycles, Edge{From: node, To: dep})
		case unvisited:
			cycleDFS(dep, adj, state, cycles)
		}
		// Finished nodes are already resolved; an edge into one cannot
		// close a cycle.
	}
	state[node] = finished
}
