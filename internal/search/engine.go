// Package search ranks vault documents: it queries the retrieval primitive,
// fuses lexical and vector hit lists with Reciprocal Rank Fusion, applies
// scope filters, and reranks with usage and graph-proximity signals.
package search

import (
	"errors"
	"fmt"
	"time"

	"rhizome/indexer/internal/metrics"
	"rhizome/indexer/internal/store"
)

// Validation errors, rejected synchronously before any index query runs.
var (
	ErrMissingEmbedding  = errors.New("search: vector mode requested without an embedding")
	ErrDimensionMismatch = errors.New("search: embedding dimension mismatch")
)

// Field boosts for lexical queries: titles count double.
const (
	titleBoost = 2.0
	bodyBoost  = 1.0
)

// Query is one search request.
type Query struct {
	Term      string
	Mode      Mode // empty selects fulltext, or hybrid when an embedding is present
	Embedding []float32
	Scope     Scope
	Limit     int
}

// Result is one ranked search result. Score is the fused base score;
// FinalScore includes the rerank boosts.
type Result struct {
	Hit
	Score      float64
	FinalScore float64
	Snippet    string
}

// Engine executes queries against a retriever, consulting the relationship
// store for graph-proximity boosts.
type Engine struct {
	retriever Retriever
	graph     *store.Store // optional; nil disables the graph boost
	signals   SignalSource // optional
	dim       int
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithGraph enables graph-proximity reranking against the given store.
func WithGraph(st *store.Store) Option {
	return func(e *Engine) { e.graph = st }
}

// WithSignals supplies per-path usage signals for reranking.
func WithSignals(src SignalSource) Option {
	return func(e *Engine) { e.signals = src }
}

// withClock overrides the rerank clock, for tests.
func withClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a search engine. dim is the expected embedding dimension
// used to validate vector queries.
func NewEngine(r Retriever, dim int, opts ...Option) *Engine {
	e := &Engine{retriever: r, dim: dim, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// effectiveMode resolves the query mode: vector/hybrid only with an
// embedding, fulltext otherwise. Explicitly requesting vector or hybrid
// without an embedding is an error rather than a silent downgrade.
func (e *Engine) effectiveMode(q Query) (Mode, error) {
	switch q.Mode {
	case ModeVector, ModeHybrid:
		if q.Embedding == nil {
			return "", ErrMissingEmbedding
		}
	case ModeFulltext:
		return ModeFulltext, nil
	case "":
		if q.Embedding == nil {
			return ModeFulltext, nil
		}
		q.Mode = ModeHybrid
	default:
		return "", fmt.Errorf("search: unknown mode %q", q.Mode)
	}

	if len(q.Embedding) != e.dim {
		return "", fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(q.Embedding), e.dim)
	}
	return q.Mode, nil
}

// Search runs one query end to end: validate, retrieve, scope-filter, fuse,
// rerank, snippet. Retriever errors propagate unmodified.
func (e *Engine) Search(q Query) ([]Result, error) {
	mode, err := e.effectiveMode(q)
	if err != nil {
		return nil, err
	}
	metrics.SearchesTotal.WithLabelValues(string(mode)).Inc()

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	var textHits, vectorHits []Hit
	if mode == ModeFulltext || mode == ModeHybrid {
		textHits, err = e.retriever.Search(IndexQuery{
			Mode:       ModeFulltext,
			Term:       q.Term,
			Limit:      limit,
			TitleBoost: titleBoost,
			BodyBoost:  bodyBoost,
		})
		if err != nil {
			return nil, err
		}
	}
	if mode == ModeVector || mode == ModeHybrid {
		vectorHits, err = e.retriever.Search(IndexQuery{
			Mode:      ModeVector,
			Embedding: q.Embedding,
			Limit:     limit,
		})
		if err != nil {
			return nil, err
		}
	}

	textHits = filterScope(textHits, q.Scope)
	vectorHits = filterScope(vectorHits, q.Scope)

	results := fuse(textHits, vectorHits)

	neighborhood, err := e.scopeNeighborhood(q.Scope)
	if err != nil {
		return nil, err
	}
	rerank(results, e.signals, neighborhood, e.now())

	if len(results) > limit {
		results = results[:limit]
	}
	for i := range results {
		results[i].Snippet = makeSnippet(results[i].Content, q.Term)
	}
	return results, nil
}

// scopeNeighborhood resolves the current scope file's 2-hop graph
// neighborhood for the flat proximity boost.
func (e *Engine) scopeNeighborhood(scope Scope) (map[string]bool, error) {
	if e.graph == nil || scope.CurrentFilePath == "" {
		return nil, nil
	}
	paths, err := e.graph.RelatedFilePaths(scope.CurrentFilePath, store.DefaultMaxHops)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set, nil
}
