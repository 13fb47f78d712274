package crossref

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/chadrwalters/nova-sub004/internal/util"
	"github.com/chadrwalters/nova-sub004/pkg/common"
	"github.com/chadrwalters/nova-sub004/pkg/logger"
	"github.com/chadrwalters/nova-sub004/pkg/logger/console"
	"github.com/chadrwalters/nova-sub004/pkg/repair"
)

var validate = validator.New()

// Tracker is the entry point for cross-document reference tracking. It owns
// the reference store, the relationship graph, the navigation-path cache,
// and a link repair engine, and exposes analysis, navigation, health, and
// export operations on top of them.
//
// A Tracker should be created using NewTracker. All mutation goes through
// AddReference, RemoveReference, SetAvailablePaths, or ApplyRepair; a single
// writer lock makes each mutation atomic with respect to concurrent readers
// when the tracker is embedded in a multi-threaded host.
type Tracker struct {
	baseDir          string
	supportedExts    map[string]struct{}
	maxIndirectDepth int

	mu            sync.RWMutex
	store         *referenceStore
	graph         *relationshipGraph
	cache         *pathCache
	available     map[string]struct{}
	availableDirs map[string]struct{}
	availableList []string

	repairs *repair.Engine

	warnMu   sync.Mutex
	warnings []string
}

// NewTrackerParams defines the configuration for creating a Tracker.
//
// BaseDir is the corpus root all document paths are normalized against.
// AvailablePaths seeds the set of files known to exist; SupportedExtensions,
// FuzzyThreshold, MaxIndirectDepth, and PathCacheSize fall back to defaults
// when zero. Debug wires a console logging backend if none is configured.
type NewTrackerParams struct {
	BaseDir             string `validate:"required"`
	AvailablePaths      []string
	SupportedExtensions []string
	FuzzyThreshold      float64 `validate:"gte=0,lte=1"`
	MaxIndirectDepth    int     `validate:"gte=0"`
	PathCacheSize       int     `validate:"gte=0"`
	Debug               bool
}

// AddReferenceParams describes one discovered reference. Section and
// Context are optional extras produced by the document parser.
type AddReferenceParams struct {
	Source  string
	Target  string
	Kind    common.ReferenceKind
	Line    uint32
	Section string
	Context string
}

// NewTracker creates a Tracker from the given parameters. Configuration
// problems are the only fatal errors in this package; everything after
// construction degrades to invalid records or warnings instead of failing.
func NewTracker(params NewTrackerParams) (*Tracker, error) {
	if err := validate.Struct(params); err != nil {
		return nil, fmt.Errorf("invalid tracker configuration: %w", err)
	}

	extensions := params.SupportedExtensions
	if len(extensions) == 0 {
		extensions = []string{".md", ".markdown", ".txt"}
	}
	supported := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		supported[ext] = struct{}{}
	}

	fuzzyThreshold := params.FuzzyThreshold
	if fuzzyThreshold == 0 {
		fuzzyThreshold = 0.8
	}
	maxIndirectDepth := params.MaxIndirectDepth
	if maxIndirectDepth == 0 {
		maxIndirectDepth = 4
	}
	cacheSize := params.PathCacheSize
	if cacheSize == 0 {
		cacheSize = 512
	}

	cache, err := newPathCache(cacheSize)
	if err != nil {
		return nil, err
	}

	if params.Debug && !logger.Initialized() {
		logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
			Debug:  true,
			Prefix: "crossref",
		}))
	}

	t := &Tracker{
		baseDir:          params.BaseDir,
		supportedExts:    supported,
		maxIndirectDepth: maxIndirectDepth,
		store:            newReferenceStore(),
		graph:            newRelationshipGraph(),
		cache:            cache,
		repairs: repair.NewEngine(repair.NewEngineParams{
			FuzzyThreshold: fuzzyThreshold,
		}),
	}
	t.setAvailableLocked(params.AvailablePaths)

	logger.Info("[Crossref] Tracker initialized",
		"base_dir", params.BaseDir,
		"available_paths", len(t.availableList),
		"max_indirect_depth", maxIndirectDepth,
	)
	return t, nil
}

// ParamsFromEnv builds tracker parameters from NOVA_* environment
// variables, loading a .env file first when one is present.
func ParamsFromEnv() NewTrackerParams {
	util.LoadEnv()

	params := NewTrackerParams{
		BaseDir:          util.GetEnvString("NOVA_BASE_DIR", "."),
		FuzzyThreshold:   util.GetEnvNumeric("NOVA_FUZZY_THRESHOLD", 0),
		MaxIndirectDepth: int(util.GetEnvNumeric("NOVA_MAX_INDIRECT_DEPTH", 0)),
		PathCacheSize:    int(util.GetEnvNumeric("NOVA_PATH_CACHE_SIZE", 0)),
		Debug:            util.GetEnvBool("NOVA_DEBUG", false),
	}
	if raw := util.GetEnv("NOVA_SUPPORTED_EXTENSIONS"); raw != "" {
		for _, ext := range strings.Split(raw, ",") {
			ext = strings.TrimSpace(ext)
			if ext != "" {
				params.SupportedExtensions = append(params.SupportedExtensions, ext)
			}
		}
	}
	return params
}

// AddReference normalizes, validates, and stores one discovered reference.
// Valid references contribute an edge to the relationship graph; invalid
// ones are recorded with an explanation and produce a warning instead. The
// call never fails on a bad reference.
func (t *Tracker) AddReference(params AddReferenceParams) common.Reference {
	t.mu.Lock()
	defer t.mu.Unlock()

	source, sourceOK := util.NormalizeDocPath(t.baseDir, params.Source)
	target, targetOK := util.NormalizeDocPath(t.baseDir, params.Target)

	ref := common.Reference{
		ID:      t.newID(),
		Source:  source,
		Target:  target,
		Kind:    params.Kind,
		Line:    params.Line,
		Section: params.Section,
		Context: util.SanitizeContextText(params.Context),
		Valid:   true,
	}

	if reason := t.validateReference(source, sourceOK, target, targetOK); reason != "" {
		ref.Valid = false
		ref.Error = reason
		t.store.upsert(ref)
		if sourceOK {
			// The source document was scanned even though its reference is
			// broken, so it still counts as part of the corpus.
			t.graph.ensureNode(source)
		}
		t.cache.invalidateNode(source)
		t.cache.invalidateNode(target)
		t.appendWarning("invalid reference from %s to %s: %s", source, target, reason)
		return ref
	}

	t.store.upsert(ref)
	t.graph.upsertEdge(source, target, edgeInfo{
		kind:    ref.Kind,
		line:    ref.Line,
		section: ref.Section,
		context: ref.Context,
	})
	t.cache.invalidateNode(source)
	t.cache.invalidateNode(target)

	logger.Debug("[Crossref] Reference added",
		"source", source,
		"target", target,
		"kind", ref.Kind,
		"line", ref.Line,
	)
	return ref
}

// RemoveReference deletes every reference between source and target along
// with the graph edge. Endpoint nodes stay in the graph so orphaned
// documents remain visible to statistics. The whole navigation cache is
// dropped because downstream paths may route through the removed edge.
func (t *Tracker) RemoveReference(source, target string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	src, _ := util.NormalizeDocPath(t.baseDir, source)
	tgt, _ := util.NormalizeDocPath(t.baseDir, target)

	removedRecords := t.store.removePair(src, tgt)
	removedEdge := t.graph.removeEdge(src, tgt)
	if removedRecords == 0 && !removedEdge {
		return false
	}

	t.cache.purge()
	logger.Debug("[Crossref] Reference removed",
		"source", src,
		"target", tgt,
		"records", removedRecords,
	)
	return true
}

// SetAvailablePaths replaces the set of files known to exist. Subsequent
// AddReference calls validate against the new set.
func (t *Tracker) SetAvailablePaths(paths []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setAvailableLocked(paths)
}

// ApplyRepair commits an engine result: a removal deletes the broken pair,
// a rewrite deletes the broken pair and re-adds the repaired reference
// through the usual validation. Unrepaired results change nothing.
func (t *Tracker) ApplyRepair(result common.RepairResult) bool {
	switch result.State {
	case common.StateRemoved:
		return t.RemoveReference(result.Original.Source, result.Original.Target)
	case common.StateRepaired:
		if result.Repaired == nil {
			return false
		}
		t.RemoveReference(result.Original.Source, result.Original.Target)
		ref := t.AddReference(AddReferenceParams{
			Source:  result.Repaired.Source,
			Target:  result.Repaired.Target,
			Kind:    result.Repaired.Kind,
			Line:    result.Repaired.Line,
			Section: result.Repaired.Section,
			Context: result.Repaired.Context,
		})
		return ref.Valid
	default:
		return false
	}
}

// RepairLink runs the repair strategy chain for one broken reference. A nil
// available set falls back to the tracker's configured paths.
func (t *Tracker) RepairLink(ref common.Reference, available []string, strategies []common.RepairStrategy) common.RepairResult {
	return t.repairs.RepairLink(ref, t.availableOrDefault(available), strategies)
}

// GetRepairSuggestions ranks candidate replacement targets for a broken
// reference without committing anything.
func (t *Tracker) GetRepairSuggestions(ref common.Reference, available []string) []common.RepairSuggestion {
	return t.repairs.GetRepairSuggestions(ref, t.availableOrDefault(available))
}

// RepairAll repairs a batch of broken references with bounded parallelism.
func (t *Tracker) RepairAll(ctx context.Context, refs []common.Reference, available []string) ([]common.RepairResult, error) {
	return t.repairs.RepairAll(ctx, refs, t.availableOrDefault(available))
}

// RepairHistory returns the append-only repair history of one document.
func (t *Tracker) RepairHistory(source string) []common.RepairResult {
	normalized, _ := util.NormalizeDocPath(t.baseDir, source)
	return t.repairs.History(normalized)
}

// References returns every stored reference record in insertion order.
func (t *Tracker) References() []common.Reference {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.all()
}

// InvalidReferences returns the records that failed validation.
func (t *Tracker) InvalidReferences() []common.Reference {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.invalid()
}

// Documents returns every known document identifier in insertion order.
func (t *Tracker) Documents() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyStrings(t.graph.nodes)
}

// Warnings returns the accumulated non-fatal warnings.
func (t *Tracker) Warnings() []string {
	t.warnMu.Lock()
	defer t.warnMu.Unlock()
	return copyStrings(t.warnings)
}

func (t *Tracker) validateReference(source string, sourceOK bool, target string, targetOK bool) string {
	if !sourceOK {
		return "Source is outside the base directory"
	}
	if !targetOK {
		return "Target is outside the base directory"
	}
	if _, ok := t.available[target]; !ok {
		if _, isDir := t.availableDirs[target]; isDir {
			return "Target is not a regular file"
		}
		return "Target document does not exist"
	}
	if _, ok := t.supportedExts[util.Extension(target)]; !ok {
		return fmt.Sprintf("Unsupported document type: %s", util.Extension(target))
	}
	if target == source {
		return "Self-reference is not allowed"
	}
	return ""
}

func (t *Tracker) setAvailableLocked(paths []string) {
	t.available = make(map[string]struct{}, len(paths))
	t.availableDirs = make(map[string]struct{})
	t.availableList = make([]string, 0, len(paths))

	for _, p := range paths {
		normalized, ok := util.NormalizeDocPath(t.baseDir, p)
		if !ok {
			continue
		}
		if _, dup := t.available[normalized]; dup {
			continue
		}
		t.available[normalized] = struct{}{}
		t.availableList = append(t.availableList, normalized)

		segments := util.PathSegments(normalized)
		for i := 1; i < len(segments); i++ {
			t.availableDirs[strings.Join(segments[:i], "/")] = struct{}{}
		}
	}
}

func (t *Tracker) availableOrDefault(available []string) []string {
	if available != nil {
		return available
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyStrings(t.availableList)
}

func (t *Tracker) appendWarning(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	t.warnMu.Lock()
	t.warnings = append(t.warnings, message)
	t.warnMu.Unlock()
	logger.Warn("[Crossref] " + message)
}

// newID generates a record identifier. ID generation failing is no reason
// to reject a reference, so the record goes in without one.
func (t *Tracker) newID() string {
	id, err := gonanoid.New()
	if err != nil {
		logger.Error("[Crossref] Failed to generate reference id", "error", err)
		return ""
	}
	return id
}
