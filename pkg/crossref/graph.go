package crossref

import (
	"github.com/chadrwalters/nova-sub004/pkg/common"
)

type edgeKey struct {
	source string
	target string
}

// edgeInfo carries the metadata of the most recent reference backing an
// edge. Re-adding a reference for an existing pair refreshes the metadata
// without changing edge order.
type edgeInfo struct {
	kind    common.ReferenceKind
	line    uint32
	section string
	context string
}

// relationshipGraph owns the directed adjacency over document identifiers.
// Node and neighbor slices keep first-insertion order so every traversal is
// deterministic across runs. All other components hold document identifiers
// only, never pointers into this structure.
type relationshipGraph struct {
	nodes    []string
	nodeSet  map[string]struct{}
	forward  map[string][]string
	reverse  map[string][]string
	edges    map[edgeKey]edgeInfo
	edgeList []edgeKey
}

func newRelationshipGraph() *relationshipGraph {
	return &relationshipGraph{
		nodeSet: make(map[string]struct{}),
		forward: make(map[string][]string),
		reverse: make(map[string][]string),
		edges:   make(map[edgeKey]edgeInfo),
	}
}

func (g *relationshipGraph) ensureNode(id string) {
	if _, ok := g.nodeSet[id]; ok {
		return
	}
	g.nodeSet[id] = struct{}{}
	g.nodes = append(g.nodes, id)
}

func (g *relationshipGraph) hasNode(id string) bool {
	_, ok := g.nodeSet[id]
	return ok
}

func (g *relationshipGraph) nodeCount() int {
	return len(g.nodes)
}

func (g *relationshipGraph) edgeCount() int {
	return len(g.edgeList)
}

// upsertEdge inserts the directed edge source -> target, registering both
// nodes. An existing edge only has its metadata refreshed.
func (g *relationshipGraph) upsertEdge(source, target string, info edgeInfo) {
	g.ensureNode(source)
	g.ensureNode(target)

	key := edgeKey{source: source, target: target}
	if _, ok := g.edges[key]; !ok {
		g.forward[source] = append(g.forward[source], target)
		g.reverse[target] = append(g.reverse[target], source)
		g.edgeList = append(g.edgeList, key)
	}
	g.edges[key] = info
}

// removeEdge deletes the edge source -> target. Endpoint nodes remain so
// isolated documents stay observable in statistics.
func (g *relationshipGraph) removeEdge(source, target string) bool {
	key := edgeKey{source: source, target: target}
	if _, ok := g.edges[key]; !ok {
		return false
	}
	delete(g.edges, key)
	g.forward[source] = removeElement(g.forward[source], target)
	g.reverse[target] = removeElement(g.reverse[target], source)
	for i, k := range g.edgeList {
		if k == key {
			g.edgeList = append(g.edgeList[:i], g.edgeList[i+1:]...)
			break
		}
	}
	return true
}

func (g *relationshipGraph) hasEdge(source, target string) bool {
	_, ok := g.edges[edgeKey{source: source, target: target}]
	return ok
}

func (g *relationshipGraph) edgeMeta(source, target string) (edgeInfo, bool) {
	info, ok := g.edges[edgeKey{source: source, target: target}]
	return info, ok
}

// outEdges returns the direct targets of node in insertion order. Unknown
// nodes yield an empty slice, never an error.
func (g *relationshipGraph) outEdges(node string) []string {
	return copyStrings(g.forward[node])
}

// inEdges returns the direct sources pointing at node in insertion order.
func (g *relationshipGraph) inEdges(node string) []string {
	return copyStrings(g.reverse[node])
}

// descendants returns every node reachable from node via outgoing edges,
// excluding node itself, in BFS discovery order.
func (g *relationshipGraph) descendants(node string) []string {
	return g.reachable(node, g.forward, 0)
}

// descendantsWithin bounds the descendant search to maxDepth hops.
func (g *relationshipGraph) descendantsWithin(node string, maxDepth int) []string {
	return g.reachable(node, g.forward, maxDepth)
}

// ancestors returns every node that can reach node via outgoing edges,
// excluding node itself, in BFS discovery order.
func (g *relationshipGraph) ancestors(node string) []string {
	return g.reachable(node, g.reverse, 0)
}

type queueItem struct {
	node  string
	depth int
}

// reachable runs a BFS over the given adjacency. maxDepth <= 0 means
// unbounded.
func (g *relationshipGraph) reachable(start string, adjacency map[string][]string, maxDepth int) []string {
	if !g.hasNode(start) {
		return []string{}
	}

	visited := map[string]struct{}{start: {}}
	queue := []queueItem{{node: start}}
	result := []string{}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if maxDepth > 0 && item.depth >= maxDepth {
			continue
		}
		for _, next := range adjacency[item.node] {
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			result = append(result, next)
			queue = append(queue, queueItem{node: next, depth: item.depth + 1})
		}
	}
	return result
}

// shortestPath returns the unweighted shortest path from from to to. Ties
// resolve toward the earliest-inserted edge because neighbors are expanded
// in insertion order. A known node paired with itself yields the
// single-node path; unknown endpoints or unreachable pairs yield an empty
// slice.
func (g *relationshipGraph) shortestPath(from, to string) []string {
	return g.shortestPathExcluding(from, to, edgeKey{}, 0)
}

// shortestPathExcluding is shortestPath with one edge masked out and an
// optional hop bound (maxHops <= 0 means unbounded). The masked edge is
// how indirect navigation paths avoid collapsing onto the direct link.
func (g *relationshipGraph) shortestPathExcluding(from, to string, skip edgeKey, maxHops int) []string {
	if !g.hasNode(from) || !g.hasNode(to) {
		return []string{}
	}
	if from == to {
		return []string{from}
	}

	visited := map[string]struct{}{from: {}}
	parent := make(map[string]string)
	queue := []queueItem{{node: from}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if maxHops > 0 && item.depth >= maxHops {
			continue
		}
		for _, next := range g.forward[item.node] {
			if item.node == skip.source && next == skip.target {
				continue
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			parent[next] = item.node

			if next == to {
				return assemblePath(parent, from, to)
			}
			queue = append(queue, queueItem{node: next, depth: item.depth + 1})
		}
	}
	return []string{}
}

func assemblePath(parent map[string]string, from, to string) []string {
	path := []string{to}
	for current := to; current != from; {
		current = parent[current]
		path = append(path, current)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func copyStrings(values []string) []string {
	result := make([]string, len(values))
	copy(result, values)
	return result
}

func removeElement(values []string, value string) []string {
	for i, v := range values {
		if v == value {
			return append(values[:i], values[i+1:]...)
		}
	}
	return values
}
