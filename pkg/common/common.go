package common

import "time"

// ReferenceKind classifies how one document points at another.
type ReferenceKind string

const (
	KindLink       ReferenceKind = "link"
	KindEmbed      ReferenceKind = "embed"
	KindAttachment ReferenceKind = "attachment"
)

// PathKind classifies a navigation path between two documents.
type PathKind string

const (
	PathDirect        PathKind = "direct"
	PathIndirect      PathKind = "indirect"
	PathBidirectional PathKind = "bidirectional"
)

// RepairStrategy names a heuristic for proposing a replacement target
// for a broken reference.
type RepairStrategy string

const (
	StrategyFuzzyMatch      RepairStrategy = "fuzzy_match"
	StrategyNearestPath     RepairStrategy = "nearest_path"
	StrategyAlternativePath RepairStrategy = "alternative_path"
	StrategyRemoveLink      RepairStrategy = "remove_link"
)

// RepairState is the terminal state of a repair attempt. A broken reference
// starts pending and ends repaired, removed, or unrepaired.
type RepairState string

const (
	StatePending    RepairState = "pending"
	StateRepaired   RepairState = "repaired"
	StateRemoved    RepairState = "removed"
	StateUnrepaired RepairState = "unrepaired"
)

// Reference represents a single discovered link, embed, or attachment from
// one document to another at a specific line. References are immutable once
// stored; re-adding the same (source, target, line) key supersedes the
// previous record.
//
// Source and Target are normalized relative paths acting as document
// identifiers. Invalid references carry a human-readable Error and never
// contribute an edge to the relationship graph.
type Reference struct {
	ID      string        `json:"id"`
	Source  string        `json:"source"`
	Target  string        `json:"target"`
	Kind    ReferenceKind `json:"kind"`
	Line    uint32        `json:"line"`
	Section string        `json:"section,omitempty"`
	Context string        `json:"context,omitempty"`
	Valid   bool          `json:"valid"`
	Error   string        `json:"error,omitempty"`
}

// Dependency describes one edge of the reference graph together with its
// circularity status. Dependencies are derived on demand and never stored.
type Dependency struct {
	Source     string        `json:"source"`
	Target     string        `json:"target"`
	Kind       ReferenceKind `json:"kind"`
	IsCircular bool          `json:"is_circular"`
	CyclePath  []string      `json:"cycle_path,omitempty"`
}

// AnalysisResult carries the full output of a relationship analysis run.
// Warnings collect non-fatal faults; a failed sub-computation downgrades to
// an empty field plus a warning instead of aborting the run.
type AnalysisResult struct {
	Dependencies []Dependency `json:"dependencies"`
	Cycles       [][]string   `json:"cycles"`
	Warnings     []string     `json:"warnings"`
}

// NavigationNode is one stop on a navigation path.
type NavigationNode struct {
	File    string `json:"file"`
	Section string `json:"section,omitempty"`
	Title   string `json:"title,omitempty"`
	Context string `json:"context,omitempty"`
}

// NavigationPath describes how to get from one document to another via
// references. Direct paths have exactly two nodes and one link; indirect
// paths have at least three nodes; bidirectional paths are direct paths
// whose edge exists in both directions.
type NavigationPath struct {
	Kind          PathKind         `json:"kind"`
	Nodes         []NavigationNode `json:"nodes"`
	TotalLinks    int              `json:"total_links"`
	Bidirectional bool             `json:"bidirectional"`
	ComputedAt    time.Time        `json:"computed_at"`
}

// RepairResult records one attempt to fix a broken reference. Repaired is
// nil when the chosen strategy removed the link instead of rewriting it.
// Confidence is always within [0, 1].
type RepairResult struct {
	ID         string         `json:"id"`
	Original   Reference      `json:"original"`
	Repaired   *Reference     `json:"repaired,omitempty"`
	Strategy   RepairStrategy `json:"strategy,omitempty"`
	State      RepairState    `json:"state"`
	Success    bool           `json:"success"`
	Confidence float64        `json:"confidence"`
	Notes      string         `json:"notes,omitempty"`
}

// RepairSuggestion is a candidate replacement target with its confidence
// score, produced for human review without committing a repair.
type RepairSuggestion struct {
	Candidate  string  `json:"candidate"`
	Confidence float64 `json:"confidence"`
}

// HealthReport summarizes the link health of a single document.
type HealthReport struct {
	TotalLinks         int `json:"total_links"`
	OutgoingLinks      int `json:"outgoing_links"`
	IncomingLinks      int `json:"incoming_links"`
	BidirectionalLinks int `json:"bidirectional_links"`
	RepairAttempts     int `json:"repair_attempts"`
	RepairedLinks      int `json:"repaired_links"`
}

// RelatedFiles groups the documents directly connected to one document.
type RelatedFiles struct {
	Outgoing      []string `json:"outgoing"`
	Incoming      []string `json:"incoming"`
	Bidirectional []string `json:"bidirectional"`
}

// Statistics is a corpus-wide snapshot computed fresh from the current
// graph state. MaxDepth is the longest reference chain in edges and is -1
// when the graph contains a cycle.
type Statistics struct {
	TotalDocuments              int                   `json:"total_documents"`
	TotalReferences             int                   `json:"total_references"`
	InvalidReferences           int                   `json:"invalid_references"`
	CircularDependencies        int                   `json:"circular_dependencies"`
	IsolatedDocuments           int                   `json:"isolated_documents"`
	MaxDepth                    int                   `json:"max_depth"`
	StronglyConnectedComponents int                   `json:"strongly_connected_components"`
	ReferenceKinds              map[ReferenceKind]int `json:"reference_kinds"`
}
