package analyzer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Communities partitions the topology with Louvain modularity maximization
// and returns the member ids of each community, members sorted within each
// community and communities ordered largest-first. Edge direction is ignored;
// weights of opposing edges sum.
func (t *Topology) Communities(resolution float64) [][]string {
	if len(t.gids) == 0 {
		return nil
	}
	if resolution <= 0 {
		resolution = 1.0
	}

	u := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for gid := range t.ids {
		u.AddNode(simple.Node(gid))
	}
	edges := t.g.WeightedEdges()
	for edges.Next() {
		e := edges.WeightedEdge()
		w := e.Weight()
		if existing := u.WeightedEdge(e.From().ID(), e.To().ID()); existing != nil {
			w += existing.Weight()
		}
		u.SetWeightedEdge(simple.WeightedEdge{F: e.From(), T: e.To(), W: w})
	}

	reduced := community.Modularize(u, resolution, nil)

	var result [][]string
	for _, comm := range reduced.Communities() {
		ids := t.idsOf(comm)
		sort.Strings(ids)
		result = append(result, ids)
	}
	sort.Slice(result, func(i, j int) bool {
		if len(result[i]) != len(result[j]) {
			return len(result[i]) > len(result[j])
		}
		return result[i][0] < result[j][0]
	})
	return result
}

// PageRank scores every node by weighted PageRank. Damping defaults to 0.85
// and tolerance to 1e-6 when zero values are passed.
func (t *Topology) PageRank(damp, tol float64) map[string]float64 {
	if len(t.gids) == 0 {
		return nil
	}
	if damp <= 0 {
		damp = 0.85
	}
	if tol <= 0 {
		tol = 1e-6
	}

	ranks := network.PageRank(t.g, damp, tol)
	result := make(map[string]float64, len(ranks))
	for gid, rank := range ranks {
		result[t.ids[gid]] = rank
	}
	return result
}

// costGraph exposes the strength-weighted topology to Dijkstra as a cost
// graph: heavier edges are cheaper to cross.
type costGraph struct {
	*simple.WeightedDirectedGraph
}

func (c costGraph) Weight(xid, yid int64) (float64, bool) {
	if xid == yid {
		return 0, true
	}
	w, ok := c.WeightedDirectedGraph.Weight(xid, yid)
	if !ok || w <= 0 {
		return 0, false
	}
	return 1 / w, true
}

// ShortestPath returns the cheapest path between two nodes plus its total
// traversal cost, where each edge costs the inverse of its weight. The bool
// result is false when either endpoint is unknown or no path exists.
func (t *Topology) ShortestPath(from, to string) ([]string, float64, bool) {
	fid, okF := t.gids[from]
	tid, okT := t.gids[to]
	if !okF || !okT {
		return nil, 0, false
	}

	shortest := path.DijkstraFrom(simple.Node(fid), costGraph{t.g})
	nodes, cost := shortest.To(tid)
	if math.IsInf(cost, 1) || len(nodes) == 0 {
		return nil, 0, false
	}
	return t.idsOf(nodes), cost, true
}
