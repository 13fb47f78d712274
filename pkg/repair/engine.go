package repair

import (
	"context"
	"fmt"
	"sort"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/chadrwalters/nova-sub004/internal/util"
	"github.com/chadrwalters/nova-sub004/pkg/common"
	"github.com/chadrwalters/nova-sub004/pkg/logger"
)

// Engine applies confidence-scored repair strategies to broken references
// and keeps an append-only repair history per source document.
//
// An Engine should be created using the NewEngine function. Repairing with
// the default chain is total: RemoveLink terminates every chain, so "no
// good repair found" surfaces as low confidence, never as an error.
type Engine struct {
	fuzzyThreshold float64
	maxParallel    int

	mu      sync.Mutex
	history map[string][]common.RepairResult
}

// NewEngineParams defines the parameters for creating a repair Engine.
//
// FuzzyThreshold is the minimum filename similarity for FuzzyMatch to
// succeed and defaults to 0.8. MaxParallel bounds batch repair concurrency
// and defaults to 4.
type NewEngineParams struct {
	FuzzyThreshold float64
	MaxParallel    int
}

// NewEngine creates a new repair Engine based on the given parameters.
func NewEngine(params NewEngineParams) *Engine {
	fuzzyThreshold := params.FuzzyThreshold
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = 0.8
	}
	maxParallel := params.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 4
	}

	return &Engine{
		fuzzyThreshold: fuzzyThreshold,
		maxParallel:    maxParallel,
		history:        make(map[string][]common.RepairResult),
	}
}

// DefaultStrategies returns the standard repair chain in execution order.
func DefaultStrategies() []common.RepairStrategy {
	return []common.RepairStrategy{
		common.StrategyFuzzyMatch,
		common.StrategyNearestPath,
		common.StrategyAlternativePath,
		common.StrategyRemoveLink,
	}
}

// RepairLink runs the given strategies in order against one broken
// reference. The first success wins; when every strategy fails the last
// attempt is returned unrepaired. Exactly one result is recorded in the
// source document's history per call. An empty strategy list falls back to
// DefaultStrategies.
func (e *Engine) RepairLink(ref common.Reference, available []string, strategies []common.RepairStrategy) common.RepairResult {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}

	var result common.RepairResult
	ran := false
	for _, strategy := range strategies {
		outcome, known := e.runStrategy(strategy, ref, available)
		if !known {
			logger.Warn("[Repair] Skipping unknown strategy", "strategy", strategy)
			continue
		}
		ran = true
		result = e.buildResult(ref, strategy, outcome)
		if result.Success {
			break
		}
	}
	if !ran {
		result = common.RepairResult{
			ID:       e.newID(),
			Original: ref,
			State:    common.StateUnrepaired,
			Notes:    "no known repair strategies supplied",
		}
	}

	e.record(result)
	logger.Debug("[Repair] Link repair finished",
		"source", ref.Source,
		"target", ref.Target,
		"state", result.State,
		"strategy", result.Strategy,
		"confidence", result.Confidence,
	)
	return result
}

// RepairAll repairs a batch of broken references with bounded parallelism
// using the default strategy chain. Individual outcomes never abort the
// batch; the returned error is only ever the context's.
func (e *Engine) RepairAll(ctx context.Context, refs []common.Reference, available []string) ([]common.RepairResult, error) {
	results := make([]common.RepairResult, len(refs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(e.maxParallel)
	for i, ref := range refs {
		i, ref := i, ref
		eg.Go(func() error {
			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
				results[i] = e.RepairLink(ref, available, nil)
				return nil
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to repair references: %w", err)
	}

	logger.Info("[Repair] Batch repair complete", "references", len(refs))
	return results, nil
}

// GetRepairSuggestions scores candidate replacement targets across the
// searching strategies without committing a repair or touching history.
// Each candidate keeps its best score; results are ranked by confidence,
// ties broken by path.
func (e *Engine) GetRepairSuggestions(ref common.Reference, available []string) []common.RepairSuggestion {
	targetName := util.Basename(ref.Target)
	targetSegments := util.PathSegments(ref.Target)

	scores := make(map[string]float64)
	record := func(candidate string, confidence float64) {
		if confidence > scores[candidate] {
			scores[candidate] = confidence
		}
	}

	for _, candidate := range available {
		if candidate == ref.Source || candidate == ref.Target {
			continue
		}
		if score := JaroWinkler(targetName, util.Basename(candidate)); score > 0 {
			record(candidate, score)
		}
		candidateSegments := util.PathSegments(candidate)
		if prefix := util.CommonPrefixLen(targetSegments, candidateSegments); prefix > 0 {
			record(candidate, float64(prefix)/float64(len(targetSegments)))
		}
		if overlap := SegmentOverlap(targetSegments, candidateSegments); overlap > 0 {
			record(candidate, overlap)
		}
	}

	suggestions := make([]common.RepairSuggestion, 0, len(scores))
	for candidate, confidence := range scores {
		suggestions = append(suggestions, common.RepairSuggestion{
			Candidate:  candidate,
			Confidence: confidence,
		})
	}
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Confidence != suggestions[j].Confidence {
			return suggestions[i].Confidence > suggestions[j].Confidence
		}
		return suggestions[i].Candidate < suggestions[j].Candidate
	})
	return suggestions
}

// History returns a copy of the append-only repair history for one source
// document, oldest first.
func (e *Engine) History(source string) []common.RepairResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries := e.history[source]
	result := make([]common.RepairResult, len(entries))
	copy(result, entries)
	return result
}

// HistoryCounts reports how many repairs were attempted for one source
// document and how many of them rewrote the link.
func (e *Engine) HistoryCounts(source string) (attempts, repaired int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, entry := range e.history[source] {
		attempts++
		if entry.State == common.StateRepaired {
			repaired++
		}
	}
	return attempts, repaired
}

func (e *Engine) runStrategy(strategy common.RepairStrategy, ref common.Reference, available []string) (strategyOutcome, bool) {
	switch strategy {
	case common.StrategyFuzzyMatch:
		return e.fuzzyMatch(ref, available), true
	case common.StrategyNearestPath:
		return e.nearestPath(ref, available), true
	case common.StrategyAlternativePath:
		return e.alternativePath(ref, available), true
	case common.StrategyRemoveLink:
		return e.removeLink(ref), true
	default:
		return strategyOutcome{}, false
	}
}

// buildResult turns a strategy outcome into a RepairResult with a terminal
// state. A successful outcome without a candidate means removal.
func (e *Engine) buildResult(ref common.Reference, strategy common.RepairStrategy, outcome strategyOutcome) common.RepairResult {
	result := common.RepairResult{
		ID:         e.newID(),
		Original:   ref,
		Strategy:   strategy,
		State:      common.StateUnrepaired,
		Success:    outcome.success,
		Confidence: outcome.confidence,
		Notes:      outcome.notes,
	}
	if !outcome.success {
		return result
	}
	if outcome.candidate == "" {
		result.State = common.StateRemoved
		return result
	}

	repaired := ref
	repaired.ID = e.newID()
	repaired.Target = outcome.candidate
	repaired.Valid = true
	repaired.Error = ""
	result.Repaired = &repaired
	result.State = common.StateRepaired
	return result
}

func (e *Engine) record(result common.RepairResult) {
	e.mu.Lock()
	e.history[result.Original.Source] = append(e.history[result.Original.Source], result)
	e.mu.Unlock()
}

func (e *Engine) newID() string {
	id, err := gonanoid.New()
	if err != nil {
		logger.Error("[Repair] Failed to generate id", "error", err)
		return ""
	}
	return id
}
