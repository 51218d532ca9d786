package search

import (
	"math"
	"sort"
	"time"
)

// Signal is the externally supplied, read-only usage record for one path.
type Signal struct {
	LastOpen  time.Time
	OpenCount int
}

// SignalSource resolves per-path usage signals during reranking.
type SignalSource interface {
	Signal(path string) (Signal, bool)
}

// MapSignals is a SignalSource backed by a plain map.
type MapSignals map[string]Signal

// Signal returns the record for path if one exists.
func (m MapSignals) Signal(path string) (Signal, bool) {
	s, ok := m[path]
	return s, ok
}

// Reranking coefficients. The recency boost decays linearly and hits zero at
// the 30-day horizon; the graph boost is flat for candidates inside the scope
// file's 2-hop neighborhood.
const (
	frequencyFactor = 0.15
	recencyCeiling  = 0.3
	recencyDecay    = 0.01
	graphBoost      = 0.2
)

// rerank folds usage and graph-proximity signals into each candidate's base
// score and re-sorts descending. neighborhood holds the paths within the
// current scope file's 2-hop neighborhood; nil means no graph signal.
func rerank(results []Result, signals SignalSource, neighborhood map[string]bool, now time.Time) {
	for i := range results {
		r := &results[i]
		r.FinalScore = r.Score

		if signals != nil {
			if sig, ok := signals.Signal(r.Path); ok {
				r.FinalScore += math.Log(1+float64(sig.OpenCount)) * frequencyFactor
				if !sig.LastOpen.IsZero() {
					days := now.Sub(sig.LastOpen).Hours() / 24
					if boost := recencyCeiling - days*recencyDecay; boost > 0 {
						r.FinalScore += boost
					}
				}
			}
		}

		if neighborhood[r.Path] {
			r.FinalScore += graphBoost
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
}
