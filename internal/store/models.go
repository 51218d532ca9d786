package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// NodeType enumerates the node variants stored in the graph.
type NodeType string

const (
	NodeDocument NodeType = "document"
	NodeTag      NodeType = "tag"
	NodeCategory NodeType = "category"
	NodeLink     NodeType = "link"
	NodeResource NodeType = "resource"
	NodeConcept  NodeType = "concept"
	NodePerson   NodeType = "person"
	NodeProject  NodeType = "project"
)

// EdgeType enumerates the edge variants stored in the graph.
type EdgeType string

const (
	EdgeReferences  EdgeType = "references"
	EdgeTagged      EdgeType = "tagged"
	EdgeCategorized EdgeType = "categorized"
)

// Node is a row in the nodes table. Attributes is a variant-specific payload
// serialized as JSON at the storage boundary.
type Node struct {
	ID         string         `json:"id"`
	Type       NodeType       `json:"type"`
	Label      string         `json:"label"`
	Attributes map[string]any `json:"attributes,omitempty"`
	CreatedAt  int64          `json:"created_at"` // Unix millis
	UpdatedAt  int64          `json:"updated_at"` // Unix millis
}

// Edge is a row in the edges table. Its ID is a deterministic function of
// (source, target, type), so re-extracting the same relationship resolves to
// the same row.
type Edge struct {
	ID         string         `json:"id"`
	SourceID   string         `json:"source_id"`
	TargetID   string         `json:"target_id"`
	Type       EdgeType       `json:"type"`
	Weight     float64        `json:"weight"`
	Attributes map[string]any `json:"attributes,omitempty"`
	CreatedAt  int64          `json:"created_at"` // Unix millis
	UpdatedAt  int64          `json:"updated_at"` // Unix millis
}

// EdgeID computes the stable composite key for an edge. The unit separator
// keeps ids unambiguous even when node ids contain path characters.
func EdgeID(sourceID, targetID string, typ EdgeType) string {
	return sourceID + "\x1f" + targetID + "\x1f" + string(typ)
}

// TagNodeID returns the canonical node id for a tag name.
func TagNodeID(name string) string { return "tag:" + name }

// LinkNodeID returns the canonical node id for an unresolved wiki-link target.
func LinkNodeID(target string) string { return "link:" + target }

// CategoryNodeID returns the canonical node id for a category name.
func CategoryNodeID(name string) string { return "category:" + name }

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// marshalAttrs serializes an attributes map for storage. Nil or empty maps
// store as NULL.
func marshalAttrs(attrs map[string]any) (sql.NullString, error) {
	if len(attrs) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshaling attributes: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalAttrs(raw sql.NullString) (map[string]any, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var attrs map[string]any
	if err := json.Unmarshal([]byte(raw.String), &attrs); err != nil {
		return nil, fmt.Errorf("unmarshaling attributes: %w", err)
	}
	return attrs, nil
}

// scanNode scans a row into a Node. The row must have the 6 node columns in
// standard order (embedding excluded).
func scanNode(scanner interface{ Scan(dest ...any) error }) (Node, error) {
	var n Node
	var attrs sql.NullString
	err := scanner.Scan(&n.ID, &n.Type, &n.Label, &attrs, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return n, err
	}
	n.Attributes, err = unmarshalAttrs(attrs)
	return n, err
}

// scanEdge scans a row into an Edge. The row must have the 8 edge columns in
// standard order.
func scanEdge(scanner interface{ Scan(dest ...any) error }) (Edge, error) {
	var e Edge
	var attrs sql.NullString
	err := scanner.Scan(&e.ID, &e.SourceID, &e.TargetID, &e.Type, &e.Weight, &attrs, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}
	e.Attributes, err = unmarshalAttrs(attrs)
	return e, err
}
