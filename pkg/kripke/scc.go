package kripke

// SCCs partitions the structure's states into strongly connected components
// using Kosaraju's two-pass algorithm. The returned sets are disjoint and
// their union is exactly the state set; singleton components are included.
//
// The first pass records states in DFS post-order over the forward edges.
// The second pass runs DFS over the transpose graph (obtained by reversing a
// snapshot in place, an O(1) swap) in decreasing finish order; each tree of
// that forest is one component.
//
// Both passes use explicit work stacks rather than native recursion, so the
// call depth stays constant regardless of state count. The receiver's
// structure is never mutated: the transpose traversal runs on a snapshot.
func SCCs(g *Struct) []StateSet {
	order := finishOrder(g)

	rev := g.Clone()
	rev.ReverseAllTransitions()

	assigned := make(map[string]bool, len(order))
	var components []StateSet

	// Pop states in decreasing finish order; every unassigned state roots a
	// new component in the transpose graph.
	for i := len(order) - 1; i >= 0; i-- {
		root := order[i]
		if assigned[root] {
			continue
		}
		component := make(StateSet)
		stack := []string{root}
		assigned[root] = true
		for len(stack) > 0 {
			state := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component.Add(state)
			for _, next := range rev.Successors(state) {
				if !assigned[next] {
					assigned[next] = true
					stack = append(stack, next)
				}
			}
		}
		components = append(components, component)
	}
	return components
}

// dfsFrame tracks one state on the explicit DFS stack together with the index
// of the next successor to visit.
type dfsFrame struct {
	state string
	next  int
}

// finishOrder returns all states in DFS post-order over the forward edges.
// Roots are taken in sorted name order so the traversal is deterministic.
func finishOrder(g *Struct) []string {
	order := make([]string, 0, len(g.states))
	visited := make(map[string]bool, len(g.states))

	for _, root := range g.StateNames() {
		if visited[root] {
			continue
		}
		visited[root] = true
		stack := []dfsFrame{{state: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			succs := g.trans[top.state]
			if top.next < len(succs) {
				next := succs[top.next]
				top.next++
				if !visited[next] {
					visited[next] = true
					stack = append(stack, dfsFrame{state: next})
				}
				continue
			}
			// All successors finished: record post-order and pop.
			order = append(order, top.state)
			stack = stack[:len(stack)-1]
		}
	}
	return order
}
