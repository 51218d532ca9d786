package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"rhizome/indexer/internal/extract"
)

// MarkdownDocument is the ingestion payload for one note file.
type MarkdownDocument struct {
	ID         string // defaults to Path
	Path       string
	Title      string // defaults to the file name without extension
	Content    string
	DocType    string
	Categories []string
}

// UpsertMarkdownDocument ingests one markdown document: the document node
// itself, a link node plus references edge per extracted wiki-link, a tag
// node plus tagged edge per extracted hashtag, a category node plus
// categorized edge per provided category, and the document's row in the
// full-text index. Wiki-link targets become generic link nodes; they are
// deliberately not resolved against existing document nodes, since resolution
// rules (case sensitivity, aliasing) are undefined upstream.
func (s *Store) UpsertMarkdownDocument(doc MarkdownDocument) error {
	if doc.ID == "" {
		doc.ID = doc.Path
	}
	if doc.Title == "" {
		base := filepath.Base(doc.Path)
		doc.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	attrs := map[string]any{"path": doc.Path}
	if doc.DocType != "" {
		attrs["doc_type"] = doc.DocType
	}
	err := s.UpsertNode(Node{
		ID:         doc.ID,
		Type:       NodeDocument,
		Label:      doc.Title,
		Attributes: attrs,
	})
	if err != nil {
		return err
	}

	for _, target := range extract.WikiLinks(doc.Content) {
		linkID := LinkNodeID(target)
		if err := s.UpsertNode(Node{ID: linkID, Type: NodeLink, Label: target}); err != nil {
			return err
		}
		if err := s.UpsertEdge(Edge{SourceID: doc.ID, TargetID: linkID, Type: EdgeReferences}); err != nil {
			return err
		}
	}

	for _, tag := range extract.Tags(doc.Content) {
		tagID := TagNodeID(tag)
		if err := s.UpsertNode(Node{ID: tagID, Type: NodeTag, Label: tag}); err != nil {
			return err
		}
		if err := s.UpsertEdge(Edge{SourceID: doc.ID, TargetID: tagID, Type: EdgeTagged}); err != nil {
			return err
		}
	}

	for _, category := range doc.Categories {
		catID := CategoryNodeID(category)
		if err := s.UpsertNode(Node{ID: catID, Type: NodeCategory, Label: category}); err != nil {
			return err
		}
		if err := s.UpsertEdge(Edge{SourceID: doc.ID, TargetID: catID, Type: EdgeCategorized}); err != nil {
			return err
		}
	}

	if err := s.indexDocument(doc.ID, doc.Path, doc.Title, doc.Content); err != nil {
		return fmt.Errorf("indexing document %s: %w", doc.ID, err)
	}
	return nil
}
