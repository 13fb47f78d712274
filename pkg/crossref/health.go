package crossref

import (
	"github.com/chadrwalters/nova-sub004/internal/util"
	"github.com/chadrwalters/nova-sub004/pkg/common"
)

// GetHealthReport summarizes the link health of one document from the
// current graph plus its repair history. Reports are recomputed per call
// and never cached across mutations.
func (t *Tracker) GetHealthReport(doc string) common.HealthReport {
	t.mu.RLock()
	defer t.mu.RUnlock()

	normalized, _ := util.NormalizeDocPath(t.baseDir, doc)
	outgoing := t.graph.forward[normalized]
	incoming := t.graph.reverse[normalized]

	bidirectional := 0
	for _, target := range outgoing {
		if t.graph.hasEdge(target, normalized) {
			bidirectional++
		}
	}

	attempts, repaired := t.repairs.HistoryCounts(normalized)
	return common.HealthReport{
		TotalLinks:         len(outgoing) + len(incoming),
		OutgoingLinks:      len(outgoing),
		IncomingLinks:      len(incoming),
		BidirectionalLinks: bidirectional,
		RepairAttempts:     attempts,
		RepairedLinks:      repaired,
	}
}

// GetRelatedFiles groups the documents directly connected to doc by link
// direction, each set in edge insertion order.
func (t *Tracker) GetRelatedFiles(doc string) common.RelatedFiles {
	t.mu.RLock()
	defer t.mu.RUnlock()

	normalized, _ := util.NormalizeDocPath(t.baseDir, doc)
	outgoing := t.graph.outEdges(normalized)
	incoming := t.graph.inEdges(normalized)

	bidirectional := []string{}
	for _, target := range outgoing {
		if t.graph.hasEdge(target, normalized) {
			bidirectional = append(bidirectional, target)
		}
	}

	return common.RelatedFiles{
		Outgoing:      outgoing,
		Incoming:      incoming,
		Bidirectional: bidirectional,
	}
}
