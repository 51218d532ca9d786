package store

import (
	"database/sql"
	"fmt"
	"strings"
)

const nodeColumns = "id, type, label, attributes, created_at, updated_at"

// UpsertNode inserts or updates a node by id. Repeat calls with the same id
// refresh type, label, attributes and updated_at; created_at is preserved
// from the first insert.
func (s *Store) UpsertNode(n Node) error {
	attrs, err := marshalAttrs(n.Attributes)
	if err != nil {
		return err
	}
	now := nowMillis()
	_, err = s.conn.Exec(`
		INSERT INTO nodes (id, type, label, attributes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			label = excluded.label,
			attributes = excluded.attributes,
			updated_at = excluded.updated_at
	`, n.ID, n.Type, n.Label, attrs, now, now)
	if err != nil {
		return fmt.Errorf("upserting node %s: %w", n.ID, err)
	}
	return nil
}

// GetNode returns a single node by id, or nil if not found.
func (s *Store) GetNode(id string) (*Node, error) {
	row := s.conn.QueryRow("SELECT "+nodeColumns+" FROM nodes WHERE id = ?", id)
	n, err := scanNode(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// NodesByIDs returns the nodes for the given ids in a single query. Missing
// ids are silently absent from the result.
func (s *Store) NodesByIDs(ids []string) ([]Node, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT " + nodeColumns + " FROM nodes WHERE id IN (" + placeholders(len(ids)) + ")"
	rows, err := s.conn.Query(query, toAnySlice(ids)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNodes(rows)
}

// NodesByType returns all nodes of the given type.
func (s *Store) NodesByType(typ NodeType) ([]Node, error) {
	rows, err := s.conn.Query("SELECT "+nodeColumns+" FROM nodes WHERE type = ? ORDER BY created_at DESC", typ)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNodes(rows)
}

// AllNodes returns every node ordered by created_at descending.
func (s *Store) AllNodes() ([]Node, error) {
	rows, err := s.conn.Query("SELECT " + nodeColumns + " FROM nodes ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectNodes(rows)
}

// DeleteNode removes a node and cascades: every edge where the node appears
// as source or target goes first, then the document-index row, then the node
// itself. Non-document nodes orphaned by the delete are intentionally left in
// place; reachability sweeps are not worth their cost here.
func (s *Store) DeleteNode(id string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("deleting node %s: %w", id, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM edges WHERE source_id = ? OR target_id = ?", id, id); err != nil {
		return fmt.Errorf("deleting edges for node %s: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM docs_fts WHERE node_id = ?", id); err != nil {
		return fmt.Errorf("deleting index row for node %s: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM nodes WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting node %s: %w", id, err)
	}
	return tx.Commit()
}

func collectNodes(rows *sql.Rows) ([]Node, error) {
	var nodes []Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// placeholders builds a "?, ?, ?" list for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toAnySlice(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
