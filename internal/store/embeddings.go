package store

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
)

// embeddingToBytes serializes a vector as little-endian float32s.
func embeddingToBytes(vec []float32) []byte {
	data := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return data
}

// bytesToEmbedding converts a little-endian byte slice to []float32.
func bytesToEmbedding(data []byte) []float32 {
	n := len(data) / 4
	result := make([]float32, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(data[i*4 : i*4+4])
		result[i] = math.Float32frombits(bits)
	}
	return result
}

// SetNodeEmbedding stores an embedding vector on an existing node.
func (s *Store) SetNodeEmbedding(id string, vec []float32) error {
	res, err := s.conn.Exec("UPDATE nodes SET embedding = ? WHERE id = ?", embeddingToBytes(vec), id)
	if err != nil {
		return fmt.Errorf("storing embedding for %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("storing embedding for %s: node not found", id)
	}
	return nil
}

// GetNodeEmbedding returns the embedding for a node, or nil if not set.
func (s *Store) GetNodeEmbedding(id string) ([]float32, error) {
	var data []byte
	err := s.conn.QueryRow("SELECT embedding FROM nodes WHERE id = ?", id).Scan(&data)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return bytesToEmbedding(data), nil
}

// CosineSimilarity computes cosine similarity between two vectors.
// Returns 0.0 for zero-norm vectors or mismatched lengths.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	na := math.Sqrt(normA)
	nb := math.Sqrt(normB)
	if na == 0 || nb == 0 {
		return 0.0
	}
	return dot / (na * nb)
}

// SearchByEmbedding brute-force scans every embedded document node, scores it
// by cosine similarity against the query vector, and returns the top hits in
// descending order. Ties break on node id to keep output deterministic.
func (s *Store) SearchByEmbedding(query []float32, limit int) ([]DocHit, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.conn.Query(`
		SELECT n.id, n.embedding, n.updated_at, f.path, f.title, f.body
		FROM nodes n
		JOIN docs_fts f ON f.node_id = n.id
		WHERE n.type = ? AND n.embedding IS NOT NULL
	`, NodeDocument)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []DocHit
	for rows.Next() {
		var h DocHit
		var data []byte
		if err := rows.Scan(&h.NodeID, &data, &h.ModifiedAt, &h.Path, &h.Title, &h.Content); err != nil {
			return nil, err
		}
		h.Score = CosineSimilarity(query, bytesToEmbedding(data))
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].NodeID < hits[j].NodeID
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}
