package crossref

import (
	"reflect"
	"testing"

	"github.com/chadrwalters/nova-sub004/pkg/common"
)

func TestFindPaths_AllKinds(t *testing.T) {
	tracker := newTestTracker(t, "a.md", "b.md", "c.md")
	addValidRef(t, tracker, "a.md", "b.md")
	addValidRef(t, tracker, "b.md", "a.md")
	addValidRef(t, tracker, "a.md", "c.md")
	addValidRef(t, tracker, "c.md", "b.md")

	paths := tracker.FindPaths("a.md", "b.md")
	if len(paths) != 3 {
		t.Fatalf("expected 3 paths, got %d", len(paths))
	}

	direct := paths[0]
	if direct.Kind != common.PathDirect {
		t.Errorf("paths[0].Kind = %s, want direct", direct.Kind)
	}
	if len(direct.Nodes) != 2 || direct.TotalLinks != 1 {
		t.Errorf("direct path has %d nodes and %d links, want 2 and 1", len(direct.Nodes), direct.TotalLinks)
	}
	if direct.Nodes[0].File != "a.md" || direct.Nodes[1].File != "b.md" {
		t.Errorf("direct path nodes = %v", direct.Nodes)
	}
	if direct.Nodes[0].Title != "a" || direct.Nodes[1].Title != "b" {
		t.Errorf("titles should derive from basenames, got %q and %q", direct.Nodes[0].Title, direct.Nodes[1].Title)
	}
	if !direct.Bidirectional {
		t.Error("direct path should be marked bidirectional, the pair links both ways")
	}

	indirect := paths[1]
	if indirect.Kind != common.PathIndirect {
		t.Errorf("paths[1].Kind = %s, want indirect", indirect.Kind)
	}
	files := make([]string, 0, len(indirect.Nodes))
	for _, node := range indirect.Nodes {
		files = append(files, node.File)
	}
	if !reflect.DeepEqual(files, []string{"a.md", "c.md", "b.md"}) {
		t.Errorf("indirect route = %v, want [a.md c.md b.md]", files)
	}
	if indirect.TotalLinks != 2 {
		t.Errorf("indirect TotalLinks = %d, want 2", indirect.TotalLinks)
	}
	if indirect.Bidirectional {
		t.Error("indirect route is one-way, should not be marked bidirectional")
	}

	bidi := paths[2]
	if bidi.Kind != common.PathBidirectional {
		t.Errorf("paths[2].Kind = %s, want bidirectional", bidi.Kind)
	}
	if !bidi.Bidirectional || bidi.TotalLinks != 1 {
		t.Errorf("bidirectional path = %+v", bidi)
	}
}

func TestFindPaths_IndirectOnly(t *testing.T) {
	tracker := newTestTracker(t, "a.md", "b.md", "c.md")
	addValidRef(t, tracker, "a.md", "c.md")
	addValidRef(t, tracker, "c.md", "b.md")

	paths := tracker.FindPaths("a.md", "b.md")
	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	if paths[0].Kind != common.PathIndirect {
		t.Errorf("Kind = %s, want indirect", paths[0].Kind)
	}
}

func TestFindPaths_NoRoute(t *testing.T) {
	tracker := newTestTracker(t, "a.md", "b.md")
	addValidRef(t, tracker, "a.md", "b.md")

	if paths := tracker.FindPaths("b.md", "a.md"); len(paths) != 0 {
		t.Errorf("expected no paths against the link direction, got %v", paths)
	}
	if paths := tracker.FindPaths("nope.md", "b.md"); len(paths) != 0 {
		t.Errorf("expected no paths for unknown documents, got %v", paths)
	}
}

func TestFindPaths_HopMetadata(t *testing.T) {
	tracker := newTestTracker(t, "a.md", "b.md")
	tracker.AddReference(AddReferenceParams{
		Source:  "a.md",
		Target:  "b.md",
		Kind:    common.KindLink,
		Line:    7,
		Section: "Overview",
		Context: "see the API notes",
	})

	paths := tracker.FindPaths("a.md", "b.md")
	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	hop := paths[0].Nodes[1]
	if hop.Section != "Overview" || hop.Context != "see the API notes" {
		t.Errorf("hop metadata = %+v, want the reference's section and context", hop)
	}
	if start := paths[0].Nodes[0]; start.Section != "" || start.Context != "" {
		t.Errorf("starting node should carry no hop metadata, got %+v", start)
	}
}

func TestGetPaths_CachesUntilMutation(t *testing.T) {
	tracker := newTestTracker(t, "a.md", "b.md", "c.md")
	addValidRef(t, tracker, "a.md", "c.md")
	addValidRef(t, tracker, "c.md", "b.md")

	first := tracker.GetPaths("a.md", "b.md")
	if len(first) != 1 {
		t.Fatalf("expected 1 path before the direct link exists, got %d", len(first))
	}
	if tracker.cache.len() != 1 {
		t.Errorf("cache holds %d entries, want 1", tracker.cache.len())
	}

	second := tracker.GetPaths("a.md", "b.md")
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated lookup should serve the cached value, got %v then %v", first, second)
	}
	if !second[0].ComputedAt.Equal(first[0].ComputedAt) {
		t.Error("cached path should keep its original computation time")
	}

	addValidRef(t, tracker, "a.md", "b.md")
	if tracker.cache.len() != 0 {
		t.Errorf("mutation should drop entries touching the pair, cache still holds %d", tracker.cache.len())
	}

	third := tracker.GetPaths("a.md", "b.md")
	if len(third) != 2 {
		t.Fatalf("expected 2 paths after adding the direct link, got %d", len(third))
	}
	if third[0].Kind != common.PathDirect {
		t.Errorf("third[0].Kind = %s, want direct", third[0].Kind)
	}
}

func TestGetLinkSuggestions(t *testing.T) {
	tracker := newTestTracker(t, "a.md", "b.md", "c.md", "d.md", "e.md")
	addValidRef(t, tracker, "a.md", "b.md")
	addValidRef(t, tracker, "b.md", "c.md")
	addValidRef(t, tracker, "b.md", "d.md")
	addValidRef(t, tracker, "c.md", "e.md")

	got := tracker.GetLinkSuggestions("./a.md")
	if !reflect.DeepEqual(got, []string{"c.md", "d.md"}) {
		t.Errorf("GetLinkSuggestions(a.md) = %v, want [c.md d.md]", got)
	}

	if got := tracker.GetLinkSuggestions("d.md"); len(got) != 0 {
		t.Errorf("GetLinkSuggestions(d.md) = %v, want empty", got)
	}
	if got := tracker.GetLinkSuggestions("unknown.md"); len(got) != 0 {
		t.Errorf("GetLinkSuggestions(unknown.md) = %v, want empty", got)
	}
}
