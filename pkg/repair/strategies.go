package repair

import (
	"fmt"

	"github.com/chadrwalters/nova-sub004/internal/util"
	"github.com/chadrwalters/nova-sub004/pkg/common"
)

// nearestPathMinConfidence is the shared-prefix ratio a NearestPath
// candidate must reach to count as a successful repair.
const nearestPathMinConfidence = 0.5

// strategyOutcome is what a single strategy proposes before the engine
// turns it into a RepairResult. A successful outcome with an empty
// candidate means the broken link should be removed.
type strategyOutcome struct {
	candidate  string
	confidence float64
	success    bool
	notes      string
}

// fuzzyMatch compares the broken target's filename against every available
// filename by Jaro-Winkler score and proposes the best candidate. Succeeds
// only at or above the engine's threshold.
func (e *Engine) fuzzyMatch(ref common.Reference, available []string) strategyOutcome {
	targetName := util.Basename(ref.Target)

	best := ""
	bestScore := -1.0
	for _, candidate := range available {
		if candidate == ref.Source || candidate == ref.Target {
			continue
		}
		score := JaroWinkler(targetName, util.Basename(candidate))
		switch {
		case score > bestScore:
			best, bestScore = candidate, score
		case score == bestScore && candidate < best:
			best = candidate
		}
	}
	if best == "" {
		return strategyOutcome{notes: "no candidates available"}
	}
	return strategyOutcome{
		candidate:  best,
		confidence: bestScore,
		success:    bestScore >= e.fuzzyThreshold,
		notes:      fmt.Sprintf("filename %s scored %.2f against %s", targetName, bestScore, best),
	}
}

// nearestPath proposes the candidate sharing the longest leading path
// prefix with the broken target, preferring shorter paths on ties.
// Confidence is the shared-prefix ratio over the target's segments.
func (e *Engine) nearestPath(ref common.Reference, available []string) strategyOutcome {
	targetSegments := util.PathSegments(ref.Target)
	if len(targetSegments) == 0 {
		return strategyOutcome{notes: "broken target has no path segments"}
	}

	best := ""
	bestPrefix := 0
	for _, candidate := range available {
		if candidate == ref.Source || candidate == ref.Target {
			continue
		}
		prefix := util.CommonPrefixLen(targetSegments, util.PathSegments(candidate))
		if prefix == 0 {
			continue
		}
		switch {
		case prefix > bestPrefix:
			best, bestPrefix = candidate, prefix
		case prefix == bestPrefix:
			if len(candidate) < len(best) || (len(candidate) == len(best) && candidate < best) {
				best = candidate
			}
		}
	}
	if best == "" {
		return strategyOutcome{notes: "no candidate shares a leading path segment with the broken target"}
	}

	confidence := float64(bestPrefix) / float64(len(targetSegments))
	return strategyOutcome{
		candidate:  best,
		confidence: confidence,
		success:    confidence >= nearestPathMinConfidence,
		notes:      fmt.Sprintf("%s shares %d leading segments with the broken target", best, bestPrefix),
	}
}

// alternativePath searches subtrees other than the broken target's own for
// a candidate with overlapping path segments. Any overlap succeeds, so
// this is the last resort before removal.
func (e *Engine) alternativePath(ref common.Reference, available []string) strategyOutcome {
	targetSegments := util.PathSegments(ref.Target)
	if len(targetSegments) == 0 {
		return strategyOutcome{notes: "broken target has no path segments"}
	}

	best := ""
	bestOverlap := 0.0
	for _, candidate := range available {
		if candidate == ref.Source || candidate == ref.Target {
			continue
		}
		candidateSegments := util.PathSegments(candidate)
		if len(candidateSegments) > 0 && candidateSegments[0] == targetSegments[0] {
			continue
		}
		overlap := SegmentOverlap(targetSegments, candidateSegments)
		switch {
		case overlap > bestOverlap:
			best, bestOverlap = candidate, overlap
		case overlap == bestOverlap && bestOverlap > 0 && candidate < best:
			best = candidate
		}
	}
	if best == "" {
		return strategyOutcome{notes: "no candidate outside the broken subtree overlaps the target"}
	}
	return strategyOutcome{
		candidate:  best,
		confidence: bestOverlap,
		success:    true,
		notes:      fmt.Sprintf("%s overlaps the broken target from another subtree", best),
	}
}

// removeLink is the terminal strategy: give up safely by dropping the
// broken reference. It cannot fail.
func (e *Engine) removeLink(ref common.Reference) strategyOutcome {
	return strategyOutcome{
		confidence: 1.0,
		success:    true,
		notes:      fmt.Sprintf("no replacement found, removing link to %s", ref.Target),
	}
}
