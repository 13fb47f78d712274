package crossref

import (
	"github.com/chadrwalters/nova-sub004/pkg/common"
)

type refKey struct {
	source string
	target string
	line   uint32
}

// referenceStore holds every reference record, valid and invalid, keyed by
// (source, target, line). Re-adding a key overwrites the record in place;
// insertion order is preserved for deterministic listings.
type referenceStore struct {
	records map[refKey]common.Reference
	order   []refKey
}

func newReferenceStore() *referenceStore {
	return &referenceStore{
		records: make(map[refKey]common.Reference),
	}
}

func (s *referenceStore) upsert(ref common.Reference) {
	key := refKey{source: ref.Source, target: ref.Target, line: ref.Line}
	if _, ok := s.records[key]; !ok {
		s.order = append(s.order, key)
	}
	s.records[key] = ref
}

// removePair deletes every record between source and target regardless of
// line and reports how many were removed.
func (s *referenceStore) removePair(source, target string) int {
	removed := 0
	kept := s.order[:0]
	for _, key := range s.order {
		if key.source == source && key.target == target {
			delete(s.records, key)
			removed++
			continue
		}
		kept = append(kept, key)
	}
	s.order = kept
	return removed
}

func (s *referenceStore) count() int {
	return len(s.order)
}

func (s *referenceStore) all() []common.Reference {
	result := make([]common.Reference, 0, len(s.order))
	for _, key := range s.order {
		result = append(result, s.records[key])
	}
	return result
}

func (s *referenceStore) invalid() []common.Reference {
	result := []common.Reference{}
	for _, key := range s.order {
		if ref := s.records[key]; !ref.Valid {
			result = append(result, ref)
		}
	}
	return result
}

func (s *referenceStore) invalidCount() int {
	count := 0
	for _, key := range s.order {
		if !s.records[key].Valid {
			count++
		}
	}
	return count
}

// kindCounts tallies reference kinds over all stored records, invalid ones
// included since their kind is known even when the target is broken.
func (s *referenceStore) kindCounts() map[common.ReferenceKind]int {
	counts := make(map[common.ReferenceKind]int)
	for _, key := range s.order {
		counts[s.records[key].Kind]++
	}
	return counts
}
