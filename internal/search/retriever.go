package search

import (
	"rhizome/indexer/internal/store"
)

// Mode selects how a query hits the underlying index.
type Mode string

const (
	ModeFulltext Mode = "fulltext"
	ModeVector   Mode = "vector"
	ModeHybrid   Mode = "hybrid"
)

// Hit is one candidate result from the retrieval primitive.
type Hit struct {
	DocumentID string
	Path       string
	Title      string
	Content    string
	ModifiedAt int64 // Unix millis
	Score      float64
}

// IndexQuery is a single request against the retrieval primitive. The engine
// issues one text query, one vector query, or both, depending on mode.
type IndexQuery struct {
	Mode       Mode
	Term       string
	Embedding  []float32
	Limit      int
	TitleBoost float64
	BodyBoost  float64
}

// Retriever is the black-box retrieval primitive the engine queries. Hits
// come back best-first in the retriever's own score order.
type Retriever interface {
	Search(q IndexQuery) ([]Hit, error)
}

// StoreRetriever adapts the relationship store's FTS5 index and embedding
// scan to the Retriever contract.
type StoreRetriever struct {
	Store *store.Store
}

// Search dispatches to the lexical or vector half of the store index.
func (r *StoreRetriever) Search(q IndexQuery) ([]Hit, error) {
	var docHits []store.DocHit
	var err error
	switch q.Mode {
	case ModeVector:
		docHits, err = r.Store.SearchByEmbedding(q.Embedding, q.Limit)
	default:
		docHits, err = r.Store.SearchDocuments(q.Term, q.Limit)
	}
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, len(docHits))
	for i, h := range docHits {
		hits[i] = Hit{
			DocumentID: h.NodeID,
			Path:       h.Path,
			Title:      h.Title,
			Content:    h.Content,
			ModifiedAt: h.ModifiedAt,
			Score:      h.Score,
		}
	}
	return hits, nil
}
