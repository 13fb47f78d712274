package crossref

import (
	"fmt"

	"github.com/chadrwalters/nova-sub004/internal/util"
	"github.com/chadrwalters/nova-sub004/pkg/common"
	"github.com/chadrwalters/nova-sub004/pkg/logger"
)

// Analyze computes the full dependency picture of the current graph: one
// Dependency per edge, the elementary cycles, and any warnings raised along
// the way. A failed sub-computation downgrades to an empty field plus a
// warning; the run itself never aborts.
func (t *Tracker) Analyze() common.AnalysisResult {
	t.mu.RLock()
	defer t.mu.RUnlock()

	runID := t.newID()
	logger.Debug("[Crossref] Analysis started",
		"run_id", runID,
		"documents", t.graph.nodeCount(),
		"references", t.graph.edgeCount(),
	)

	result := common.AnalysisResult{
		Dependencies: []common.Dependency{},
		Cycles:       [][]string{},
		Warnings:     []string{},
	}

	cycles, err := t.collectCycles()
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
	} else {
		result.Cycles = cycles
	}

	membership := make([]map[string]struct{}, len(result.Cycles))
	for i, cycle := range result.Cycles {
		set := make(map[string]struct{}, len(cycle))
		for _, node := range cycle {
			set[node] = struct{}{}
		}
		membership[i] = set
	}

	for _, key := range t.graph.edgeList {
		dep := common.Dependency{
			Source: key.source,
			Target: key.target,
			Kind:   t.graph.edges[key].kind,
		}
		for _, members := range membership {
			_, hasSource := members[key.source]
			_, hasTarget := members[key.target]
			if hasSource && hasTarget {
				dep.IsCircular = true
				// The path from target back to source completes the loop.
				dep.CyclePath = t.graph.shortestPath(key.target, key.source)
				break
			}
		}
		result.Dependencies = append(result.Dependencies, dep)
	}

	logger.Info("[Crossref] Analysis complete",
		"run_id", runID,
		"dependencies", len(result.Dependencies),
		"cycles", len(result.Cycles),
		"warnings", len(result.Warnings),
	)
	return result
}

// GetDocumentDependencies returns every document reachable from doc through
// outgoing references, direct and transitive. Unknown documents yield an
// empty slice, not an error.
func (t *Tracker) GetDocumentDependencies(doc string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	normalized, _ := util.NormalizeDocPath(t.baseDir, doc)
	return t.graph.descendants(normalized)
}

// GetDependentDocuments returns every document that reaches doc through
// outgoing references, the inverse of GetDocumentDependencies.
func (t *Tracker) GetDependentDocuments(doc string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	normalized, _ := util.NormalizeDocPath(t.baseDir, doc)
	return t.graph.ancestors(normalized)
}

// CheckCircularDependencies returns the elementary cycles containing doc.
func (t *Tracker) CheckCircularDependencies(doc string) [][]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	normalized, _ := util.NormalizeDocPath(t.baseDir, doc)

	cycles, err := t.collectCycles()
	if err != nil {
		t.appendWarning("%s", err)
		return [][]string{}
	}

	result := [][]string{}
	for _, cycle := range cycles {
		for _, node := range cycle {
			if node == normalized {
				result = append(result, cycle)
				break
			}
		}
	}
	return result
}

// GetReferenceChain returns the shortest reference path from one document
// to another, empty when either is unknown or no path exists.
func (t *Tracker) GetReferenceChain(from, to string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	a, _ := util.NormalizeDocPath(t.baseDir, from)
	b, _ := util.NormalizeDocPath(t.baseDir, to)
	return t.graph.shortestPath(a, b)
}

// GetStatistics computes a corpus-wide snapshot fresh from the current
// graph and store state. Nothing is cached or carried between calls, so
// counters cannot drift.
func (t *Tracker) GetStatistics() common.Statistics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	stats, err := t.collectStatistics()
	if err != nil {
		t.appendWarning("statistics computation failed: %v", err)
		return common.Statistics{
			MaxDepth:       -1,
			ReferenceKinds: map[common.ReferenceKind]int{},
		}
	}
	return stats
}

func (t *Tracker) collectStatistics() (stats common.Statistics, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	cycles := t.graph.simpleCycles()
	maxDepth := -1
	if len(cycles) == 0 {
		maxDepth = t.graph.longestPathLength()
	}

	isolated := 0
	for _, node := range t.graph.nodes {
		if len(t.graph.forward[node]) == 0 && len(t.graph.reverse[node]) == 0 {
			isolated++
		}
	}

	return common.Statistics{
		TotalDocuments:              t.graph.nodeCount(),
		TotalReferences:             t.graph.edgeCount(),
		InvalidReferences:           t.store.invalidCount(),
		CircularDependencies:        len(cycles),
		IsolatedDocuments:           isolated,
		MaxDepth:                    maxDepth,
		StronglyConnectedComponents: len(t.graph.stronglyConnectedComponents()),
		ReferenceKinds:              t.store.kindCounts(),
	}, nil
}

// collectCycles guards the cycle search so an unexpected fault degrades to
// a warning instead of aborting an analysis run.
func (t *Tracker) collectCycles() (cycles [][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			cycles = nil
			err = fmt.Errorf("cycle enumeration failed: %v", r)
		}
	}()
	return t.graph.simpleCycles(), nil
}
