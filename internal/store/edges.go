package store

import (
	"database/sql"
	"fmt"
)

const edgeColumns = "id, source_id, target_id, type, weight, attributes, created_at, updated_at"

// UpsertEdge inserts or reinforces an edge. The row id is the deterministic
// composite of (source, target, type); when the row already exists the
// incoming weight is added to the stored weight instead of replacing it, so
// re-indexing the same relationship strengthens it rather than duplicating
// it. A zero incoming weight counts as 1.0. created_at is preserved from the
// first insert.
func (s *Store) UpsertEdge(e Edge) error {
	if e.Weight == 0 {
		e.Weight = 1.0
	}
	attrs, err := marshalAttrs(e.Attributes)
	if err != nil {
		return err
	}
	id := EdgeID(e.SourceID, e.TargetID, e.Type)
	now := nowMillis()
	_, err = s.conn.Exec(`
		INSERT INTO edges (id, source_id, target_id, type, weight, attributes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			weight = edges.weight + excluded.weight,
			attributes = excluded.attributes,
			updated_at = excluded.updated_at
	`, id, e.SourceID, e.TargetID, e.Type, e.Weight, attrs, now, now)
	if err != nil {
		return fmt.Errorf("upserting edge %s: %w", id, err)
	}
	return nil
}

// GetEdge returns the edge for (source, target, type), or nil if not found.
func (s *Store) GetEdge(sourceID, targetID string, typ EdgeType) (*Edge, error) {
	row := s.conn.QueryRow("SELECT "+edgeColumns+" FROM edges WHERE id = ?", EdgeID(sourceID, targetID, typ))
	e, err := scanEdge(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// OutgoingEdges returns all edges with the given node as source.
func (s *Store) OutgoingEdges(nodeID string) ([]Edge, error) {
	rows, err := s.conn.Query("SELECT "+edgeColumns+" FROM edges WHERE source_id = ?", nodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEdges(rows)
}

// IncomingEdges returns all edges with the given node as target.
func (s *Store) IncomingEdges(nodeID string) ([]Edge, error) {
	rows, err := s.conn.Query("SELECT "+edgeColumns+" FROM edges WHERE target_id = ?", nodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEdges(rows)
}

// NeighborIDs projects a node's outgoing edges to their target ids.
func (s *Store) NeighborIDs(nodeID string) ([]string, error) {
	edges, err := s.OutgoingEdges(nodeID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.TargetID)
	}
	return ids, nil
}

// OutgoingEdgesForAll fetches the outgoing edges for an entire id set in one
// query. Frontier traversal depends on this to stay O(hops) in query count.
func (s *Store) OutgoingEdgesForAll(nodeIDs []string) ([]Edge, error) {
	if len(nodeIDs) == 0 {
		return nil, nil
	}
	query := "SELECT " + edgeColumns + " FROM edges WHERE source_id IN (" + placeholders(len(nodeIDs)) + ")"
	rows, err := s.conn.Query(query, toAnySlice(nodeIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEdges(rows)
}

// EdgesAmong returns every edge whose source and target both lie in the given
// id set, in a single query.
func (s *Store) EdgesAmong(nodeIDs []string) ([]Edge, error) {
	if len(nodeIDs) == 0 {
		return nil, nil
	}
	ph := placeholders(len(nodeIDs))
	query := "SELECT " + edgeColumns + " FROM edges WHERE source_id IN (" + ph + ") AND target_id IN (" + ph + ")"
	args := append(toAnySlice(nodeIDs), toAnySlice(nodeIDs)...)
	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEdges(rows)
}

// AllEdges returns all edges.
func (s *Store) AllEdges() ([]Edge, error) {
	rows, err := s.conn.Query("SELECT " + edgeColumns + " FROM edges")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEdges(rows)
}

func collectEdges(rows *sql.Rows) ([]Edge, error) {
	var edges []Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
