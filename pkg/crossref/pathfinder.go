package crossref

import (
	"time"

	"github.com/chadrwalters/nova-sub004/internal/util"
	"github.com/chadrwalters/nova-sub004/pkg/common"
)

// FindPaths enumerates the navigation paths from one document to another:
// the direct link when it exists, the shortest indirect route that avoids
// the direct link, and a bidirectional entry when the pair links both ways.
// Among equal-length routes the one whose first hop was inserted earliest
// wins, so results are reproducible.
func (t *Tracker) FindPaths(from, to string) []common.NavigationPath {
	t.mu.RLock()
	defer t.mu.RUnlock()

	a, _ := util.NormalizeDocPath(t.baseDir, from)
	b, _ := util.NormalizeDocPath(t.baseDir, to)
	return t.findPathsLocked(a, b)
}

// GetPaths is FindPaths behind the navigation-path cache. The cache entry
// for a pair is dropped by every mutation touching either endpoint, so a
// cached value always reflects the current graph.
func (t *Tracker) GetPaths(from, to string) []common.NavigationPath {
	a, _ := util.NormalizeDocPath(t.baseDir, from)
	b, _ := util.NormalizeDocPath(t.baseDir, to)
	key := pathKey{from: a, to: b}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if cached, ok := t.cache.get(key); ok {
		return cached
	}
	paths := t.findPathsLocked(a, b)
	t.cache.add(key, paths)
	return paths
}

// GetLinkSuggestions recommends documents reachable within two hops that
// doc does not already link to directly. This is a recommendation list,
// not a guarantee of relevance.
func (t *Tracker) GetLinkSuggestions(doc string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	normalized, _ := util.NormalizeDocPath(t.baseDir, doc)

	direct := make(map[string]struct{})
	for _, target := range t.graph.forward[normalized] {
		direct[target] = struct{}{}
	}

	suggestions := []string{}
	for _, candidate := range t.graph.descendantsWithin(normalized, 2) {
		if candidate == normalized {
			continue
		}
		if _, linked := direct[candidate]; linked {
			continue
		}
		suggestions = append(suggestions, candidate)
	}
	return suggestions
}

func (t *Tracker) findPathsLocked(a, b string) []common.NavigationPath {
	paths := []common.NavigationPath{}
	now := time.Now()

	hasDirect := t.graph.hasEdge(a, b)
	hasReturn := t.graph.hasEdge(b, a)

	if hasDirect {
		paths = append(paths, t.buildPath(common.PathDirect, []string{a, b}, now))
	}

	indirect := t.graph.shortestPathExcluding(a, b, edgeKey{source: a, target: b}, t.maxIndirectDepth)
	if len(indirect) >= 3 {
		paths = append(paths, t.buildPath(common.PathIndirect, indirect, now))
	}

	if hasDirect && hasReturn {
		paths = append(paths, t.buildPath(common.PathBidirectional, []string{a, b}, now))
	}
	return paths
}

// buildPath assembles a NavigationPath over a node sequence. Each hop's
// section and context come from the most recent reference backing that
// edge; titles derive from the file basename.
func (t *Tracker) buildPath(kind common.PathKind, route []string, computedAt time.Time) common.NavigationPath {
	nodes := make([]common.NavigationNode, 0, len(route))
	bidirectional := true

	for i, file := range route {
		node := common.NavigationNode{
			File:  file,
			Title: util.StripExtension(util.Basename(file)),
		}
		if i > 0 {
			if info, ok := t.graph.edgeMeta(route[i-1], file); ok {
				node.Section = info.section
				node.Context = info.context
			}
			if !t.graph.hasEdge(file, route[i-1]) {
				bidirectional = false
			}
		}
		nodes = append(nodes, node)
	}

	return common.NavigationPath{
		Kind:          kind,
		Nodes:         nodes,
		TotalLinks:    len(route) - 1,
		Bidirectional: bidirectional,
		ComputedAt:    computedAt,
	}
}
