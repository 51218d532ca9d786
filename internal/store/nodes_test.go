package store

import (
	"testing"
	"time"
)

func TestUpsertNode_Idempotent(t *testing.T) {
	st := newTestStore(t)

	n := Node{ID: "notes/a.md", Type: NodeDocument, Label: "A", Attributes: map[string]any{"path": "notes/a.md"}}
	mustUpsertNode(t, st, n)

	first, err := st.GetNode("notes/a.md")
	if err != nil {
		t.Fatal(err)
	}
	if first == nil {
		t.Fatal("node not found after upsert")
	}

	time.Sleep(5 * time.Millisecond)
	n.Label = "A renamed"
	mustUpsertNode(t, st, n)

	second, err := st.GetNode("notes/a.md")
	if err != nil {
		t.Fatal(err)
	}
	if second.Label != "A renamed" {
		t.Errorf("label not updated: got %q", second.Label)
	}
	if second.CreatedAt != first.CreatedAt {
		t.Errorf("created_at changed on repeat upsert: %d -> %d", first.CreatedAt, second.CreatedAt)
	}
	if second.UpdatedAt < first.UpdatedAt {
		t.Errorf("updated_at went backwards: %d -> %d", first.UpdatedAt, second.UpdatedAt)
	}

	all, err := st.AllNodes()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("expected exactly one row, got %d", len(all))
	}
}

func TestGetNode_Missing(t *testing.T) {
	st := newTestStore(t)
	n, err := st.GetNode("nope")
	if err != nil {
		t.Fatal(err)
	}
	if n != nil {
		t.Errorf("expected nil for missing node, got %+v", n)
	}
}

func TestNodeAttributes_Roundtrip(t *testing.T) {
	st := newTestStore(t)
	mustUpsertNode(t, st, Node{
		ID:    "notes/a.md",
		Type:  NodeDocument,
		Label: "A",
		Attributes: map[string]any{
			"path":     "notes/a.md",
			"doc_type": "note",
		},
	})

	n, err := st.GetNode("notes/a.md")
	if err != nil {
		t.Fatal(err)
	}
	if n.Attributes["path"] != "notes/a.md" {
		t.Errorf("path attribute lost: %v", n.Attributes)
	}
	if n.Attributes["doc_type"] != "note" {
		t.Errorf("doc_type attribute lost: %v", n.Attributes)
	}
}

func TestDeleteNode_CascadesEdges(t *testing.T) {
	st := newTestStore(t)
	mustUpsertNode(t, st, Node{ID: "a", Type: NodeDocument, Label: "A"})
	mustUpsertNode(t, st, Node{ID: "b", Type: NodeDocument, Label: "B"})
	mustUpsertNode(t, st, Node{ID: "c", Type: NodeDocument, Label: "C"})
	mustUpsertEdge(t, st, Edge{SourceID: "a", TargetID: "b", Type: EdgeReferences})
	mustUpsertEdge(t, st, Edge{SourceID: "c", TargetID: "a", Type: EdgeReferences})
	mustUpsertEdge(t, st, Edge{SourceID: "a", TargetID: "b", Type: EdgeTagged})

	if err := st.DeleteNode("a"); err != nil {
		t.Fatal(err)
	}

	out, err := st.OutgoingEdges("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("outgoing edges survived delete: %v", out)
	}
	in, err := st.IncomingEdges("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(in) != 0 {
		t.Errorf("incoming edges survived delete: %v", in)
	}
	if n, _ := st.GetNode("a"); n != nil {
		t.Error("node row survived delete")
	}

	// Untouched nodes stay, even if now orphaned.
	if n, _ := st.GetNode("b"); n == nil {
		t.Error("unrelated node b was deleted")
	}
}

func TestNodesByType(t *testing.T) {
	st := newTestStore(t)
	mustUpsertNode(t, st, Node{ID: "a", Type: NodeDocument, Label: "A"})
	mustUpsertNode(t, st, Node{ID: "tag:x", Type: NodeTag, Label: "x"})

	tags, err := st.NodesByType(NodeTag)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[0].ID != "tag:x" {
		t.Errorf("unexpected tag nodes: %v", tags)
	}
}
