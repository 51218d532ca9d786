package store

import (
	"strings"
	"unicode"
)

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "of": true, "is": true,
	"it": true, "and": true, "or": true, "with": true, "from": true,
	"by": true, "this": true, "that": true, "as": true, "be": true,
}

// BuildMatchQuery preprocesses a natural language query for FTS5.
// Splits on whitespace, removes stopwords and words < 3 chars, trims
// punctuation, joins with " OR ".
func BuildMatchQuery(query string) string {
	words := strings.Fields(query)
	var filtered []string
	for _, w := range words {
		trimmed := strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
		})
		if len(trimmed) < 3 {
			continue
		}
		if stopwords[strings.ToLower(trimmed)] {
			continue
		}
		filtered = append(filtered, trimmed)
	}
	return strings.Join(filtered, " OR ")
}

// DocHit is one retrieval-primitive result row.
type DocHit struct {
	NodeID     string
	Path       string
	Title      string
	Content    string
	ModifiedAt int64 // Unix millis
	Score      float64
}

// indexDocument replaces the document's row in the FTS index.
func (s *Store) indexDocument(nodeID, path, title, body string) error {
	if _, err := s.conn.Exec("DELETE FROM docs_fts WHERE node_id = ?", nodeID); err != nil {
		return err
	}
	_, err := s.conn.Exec(
		"INSERT INTO docs_fts (node_id, path, title, body) VALUES (?, ?, ?, ?)",
		nodeID, path, title, body,
	)
	return err
}

// SearchDocuments runs a lexical FTS5 query with the title field boosted
// above the body, returning hits best-first. Returns an empty result when the
// preprocessed query is empty.
func (s *Store) SearchDocuments(query string, limit int) ([]DocHit, error) {
	matchQuery := BuildMatchQuery(query)
	if matchQuery == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	// bm25 weights per fts column: node_id, path, title, body.
	rows, err := s.conn.Query(`
		SELECT f.node_id, f.path, f.title, f.body, n.updated_at,
		       bm25(docs_fts, 0.0, 0.0, 2.0, 1.0) AS rank
		FROM docs_fts f
		JOIN nodes n ON n.id = f.node_id
		WHERE docs_fts MATCH ?1
		ORDER BY rank
		LIMIT ?2
	`, matchQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []DocHit
	for rows.Next() {
		var h DocHit
		var rank float64
		if err := rows.Scan(&h.NodeID, &h.Path, &h.Title, &h.Content, &h.ModifiedAt, &rank); err != nil {
			return nil, err
		}
		// bm25() is smaller-is-better; flip so callers sort descending.
		h.Score = -rank
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
