package store

import (
	"sort"
	"testing"
)

// chain builds A -> B -> C via references edges.
func chainStore(t *testing.T) *Store {
	t.Helper()
	st := newTestStore(t)
	for _, id := range []string{"A", "B", "C"} {
		mustUpsertNode(t, st, Node{ID: id, Type: NodeDocument, Label: id, Attributes: map[string]any{"path": id}})
	}
	mustUpsertEdge(t, st, Edge{SourceID: "A", TargetID: "B", Type: EdgeReferences})
	mustUpsertEdge(t, st, Edge{SourceID: "B", TargetID: "C", Type: EdgeReferences})
	return st
}

func TestRelatedNodeIDs_HopBounds(t *testing.T) {
	st := chainStore(t)

	oneHop, err := st.RelatedNodeIDs("A", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(oneHop) != 1 || oneHop[0] != "B" {
		t.Errorf("1 hop from A = %v, want [B]", oneHop)
	}

	twoHops, err := st.RelatedNodeIDs("A", 2)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(twoHops)
	if len(twoHops) != 2 || twoHops[0] != "B" || twoHops[1] != "C" {
		t.Errorf("2 hops from A = %v, want [B C]", twoHops)
	}
}

func TestRelatedNodeIDs_ExcludesStart(t *testing.T) {
	st := chainStore(t)
	// Cycle back to A; the start node must still not appear.
	mustUpsertEdge(t, st, Edge{SourceID: "C", TargetID: "A", Type: EdgeReferences})

	related, err := st.RelatedNodeIDs("A", 5)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range related {
		if id == "A" {
			t.Error("start node appeared in its own related set")
		}
	}
}

func TestRelatedNodeIDs_StopsEarly(t *testing.T) {
	st := chainStore(t)
	// maxHops far beyond the chain length terminates without error.
	related, err := st.RelatedNodeIDs("A", 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(related) != 2 {
		t.Errorf("expected 2 reachable nodes, got %v", related)
	}
}

func TestRelatedFilePaths_FiltersToDocuments(t *testing.T) {
	st := chainStore(t)
	mustUpsertNode(t, st, Node{ID: "tag:todo", Type: NodeTag, Label: "todo"})
	mustUpsertEdge(t, st, Edge{SourceID: "A", TargetID: "tag:todo", Type: EdgeTagged})

	paths, err := st.RelatedFilePaths("A", 2)
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(paths)
	if len(paths) != 2 || paths[0] != "B" || paths[1] != "C" {
		t.Errorf("related file paths = %v, want documents only [B C]", paths)
	}
}

func TestBuildPreview_BoundsAndTagLabels(t *testing.T) {
	st := chainStore(t)
	mustUpsertNode(t, st, Node{ID: "tag:todo", Type: NodeTag, Label: "todo"})
	mustUpsertEdge(t, st, Edge{SourceID: "A", TargetID: "tag:todo", Type: EdgeTagged})

	preview, err := st.BuildPreview(PreviewParams{StartNodeID: "A", MaxNodes: 10, MaxHops: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(preview.Nodes) != 4 {
		t.Fatalf("expected 4 preview nodes, got %d", len(preview.Nodes))
	}
	if preview.Nodes[0].ID != "A" {
		t.Errorf("start node must come first, got %s", preview.Nodes[0].ID)
	}

	var tagLabel string
	for _, n := range preview.Nodes {
		if n.Type == NodeTag {
			tagLabel = n.Label
		}
	}
	if tagLabel != "#todo" {
		t.Errorf("tag label = %q, want #todo", tagLabel)
	}

	// Every emitted edge has both endpoints in the node set.
	emitted := make(map[string]bool)
	for _, n := range preview.Nodes {
		emitted[n.ID] = true
	}
	for _, e := range preview.Edges {
		if !emitted[e.SourceID] || !emitted[e.TargetID] {
			t.Errorf("edge %s -> %s escapes the emitted node set", e.SourceID, e.TargetID)
		}
	}
}

func TestBuildPreview_MaxNodesCap(t *testing.T) {
	st := newTestStore(t)
	mustUpsertNode(t, st, Node{ID: "hub", Type: NodeDocument, Label: "hub"})
	for _, id := range []string{"n1", "n2", "n3", "n4", "n5"} {
		mustUpsertNode(t, st, Node{ID: id, Type: NodeDocument, Label: id})
		mustUpsertEdge(t, st, Edge{SourceID: "hub", TargetID: id, Type: EdgeReferences})
	}

	preview, err := st.BuildPreview(PreviewParams{StartNodeID: "hub", MaxNodes: 3, MaxHops: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(preview.Nodes) != 3 {
		t.Errorf("expected the cap of 3 nodes, got %d", len(preview.Nodes))
	}
}
