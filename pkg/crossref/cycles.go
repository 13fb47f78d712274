package crossref

import "sort"

type sccFrame struct {
	node  string
	edgeI int
}

// stronglyConnectedComponents returns every strongly connected component of
// the graph, singletons included. Members within a component and the
// component list itself are ordered by node insertion.
func (g *relationshipGraph) stronglyConnectedComponents() [][]string {
	return g.componentsOf(g.nodes, nil)
}

// componentsOf runs an iterative Tarjan over the given nodes, optionally
// restricted to the allowed set (nil means no restriction). An explicit
// frame stack avoids recursion on deep graphs.
func (g *relationshipGraph) componentsOf(nodes []string, allowed map[string]struct{}) [][]string {
	insertion := make(map[string]int, len(g.nodes))
	for i, node := range g.nodes {
		insertion[node] = i
	}

	inScope := func(node string) bool {
		if allowed == nil {
			return true
		}
		_, ok := allowed[node]
		return ok
	}

	index := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var components [][]string
	counter := 0

	for _, root := range nodes {
		if !inScope(root) {
			continue
		}
		if _, seen := index[root]; seen {
			continue
		}

		frames := []sccFrame{{node: root}}
		index[root], lowlink[root] = counter, counter
		counter++
		stack = append(stack, root)
		onStack[root] = true

		for len(frames) > 0 {
			top := len(frames) - 1
			node := frames[top].node
			neighbors := g.forward[node]

			descended := false
			for frames[top].edgeI < len(neighbors) {
				next := neighbors[frames[top].edgeI]
				frames[top].edgeI++
				if !inScope(next) {
					continue
				}
				if _, seen := index[next]; !seen {
					index[next], lowlink[next] = counter, counter
					counter++
					stack = append(stack, next)
					onStack[next] = true
					frames = append(frames, sccFrame{node: next})
					descended = true
					break
				}
				if onStack[next] && index[next] < lowlink[node] {
					lowlink[node] = index[next]
				}
			}
			if descended {
				continue
			}

			frames = frames[:top]
			if len(frames) > 0 {
				parent := frames[len(frames)-1].node
				if lowlink[node] < lowlink[parent] {
					lowlink[parent] = lowlink[node]
				}
			}
			if lowlink[node] == index[node] {
				var component []string
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onStack[w] = false
					component = append(component, w)
					if w == node {
						break
					}
				}
				sort.Slice(component, func(i, j int) bool {
					return insertion[component[i]] < insertion[component[j]]
				})
				components = append(components, component)
			}
		}
	}

	sort.Slice(components, func(i, j int) bool {
		return insertion[components[i][0]] < insertion[components[j][0]]
	})
	return components
}

// simpleCycles enumerates every elementary cycle with Johnson's blocked-set
// search, one strongly connected subgraph at a time. Each cycle is reported
// exactly once, rooted at its earliest-inserted member, so no two results
// are rotations of each other. Self-loops cannot occur because
// self-references are rejected at insertion.
func (g *relationshipGraph) simpleCycles() [][]string {
	cycles := [][]string{}

	pending := g.cyclicComponents(g.nodes, nil)
	for len(pending) > 0 {
		members := pending[0]
		pending = pending[1:]

		start := members[0]
		scope := make(map[string]struct{}, len(members))
		for _, member := range members {
			scope[member] = struct{}{}
		}

		cycles = append(cycles, g.circuitsThrough(start, scope)...)

		// Every cycle through start is found; re-split the remainder.
		delete(scope, start)
		pending = append(pending, g.cyclicComponents(members[1:], scope)...)
	}
	return cycles
}

// cyclicComponents returns the strongly connected components with at least
// two members, restricted to the allowed set.
func (g *relationshipGraph) cyclicComponents(nodes []string, allowed map[string]struct{}) [][]string {
	var result [][]string
	for _, component := range g.componentsOf(nodes, allowed) {
		if len(component) > 1 {
			result = append(result, component)
		}
	}
	return result
}

// circuitsThrough collects the elementary cycles beginning and ending at
// start within the given scope. Blocked nodes are released transitively as
// soon as a cycle closes through them.
func (g *relationshipGraph) circuitsThrough(start string, scope map[string]struct{}) [][]string {
	var found [][]string
	blocked := make(map[string]bool)
	blockedBy := make(map[string]map[string]struct{})
	var stack []string

	var unblock func(node string)
	unblock = func(node string) {
		blocked[node] = false
		for other := range blockedBy[node] {
			delete(blockedBy[node], other)
			if blocked[other] {
				unblock(other)
			}
		}
	}

	var circuit func(node string) bool
	circuit = func(node string) bool {
		closed := false
		stack = append(stack, node)
		blocked[node] = true

		for _, next := range g.forward[node] {
			if _, ok := scope[next]; !ok {
				continue
			}
			if next == start {
				cycle := make([]string, len(stack))
				copy(cycle, stack)
				found = append(found, cycle)
				closed = true
				continue
			}
			if !blocked[next] && circuit(next) {
				closed = true
			}
		}

		if closed {
			unblock(node)
		} else {
			for _, next := range g.forward[node] {
				if _, ok := scope[next]; !ok {
					continue
				}
				if blockedBy[next] == nil {
					blockedBy[next] = make(map[string]struct{})
				}
				blockedBy[next][node] = struct{}{}
			}
		}

		stack = stack[:len(stack)-1]
		return closed
	}

	circuit(start)
	return found
}

// longestPathLength returns the longest path in the graph counted in edges.
// Only meaningful on an acyclic graph; callers check for cycles first.
func (g *relationshipGraph) longestPathLength() int {
	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = len(g.reverse[node])
	}

	var queue []string
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	depth := make(map[string]int, len(g.nodes))
	longest := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]

		for _, next := range g.forward[node] {
			if d := depth[node] + 1; d > depth[next] {
				depth[next] = d
				if d > longest {
					longest = d
				}
			}
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return longest
}
