package search

import "sort"

// Reciprocal Rank Fusion constants. Each appearance of a document contributes
// listWeight / (rrfK + rank) with rank 1-based; contributions accumulate
// across lists. Rank-based fusion is scale-invariant, so it survives changes
// to the underlying text and vector scoring functions without re-tuning.
const (
	rrfK         = 60.0
	textWeight   = 0.6
	vectorWeight = 0.4
)

// fuse merges a text-ordered and a vector-ordered hit list into one list
// ranked by accumulated RRF score. Either list may be empty; a single list
// still yields a deterministic w/(k+rank) ranking.
func fuse(textHits, vectorHits []Hit) []Result {
	fused := make(map[string]*Result)
	order := make([]string, 0, len(textHits)+len(vectorHits))

	accumulate := func(hits []Hit, listWeight float64) {
		for i, h := range hits {
			contribution := listWeight / (rrfK + float64(i+1))
			if r, ok := fused[h.DocumentID]; ok {
				r.Score += contribution
				continue
			}
			fused[h.DocumentID] = &Result{Hit: h, Score: contribution}
			order = append(order, h.DocumentID)
		}
	}
	accumulate(textHits, textWeight)
	accumulate(vectorHits, vectorWeight)

	results := make([]Result, 0, len(order))
	for _, id := range order {
		results = append(results, *fused[id])
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
