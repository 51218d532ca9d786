package analyzer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Topology is a disposable, metadata-free view of the graph: node ids and
// weighted (from, to) pairs, nothing else. Labels, attributes and edge types
// stay in the store and are fetched on demand, so a topology never grows with
// document content and never goes stale on metadata.
type Topology struct {
	g       *simple.WeightedDirectedGraph
	gids    map[string]int64
	ids     map[int64]string
	nextGID int64
}

func newTopology() *Topology {
	return &Topology{
		g:    simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		gids: make(map[string]int64),
		ids:  make(map[int64]string),
	}
}

func (t *Topology) addNode(id string) int64 {
	if gid, ok := t.gids[id]; ok {
		return gid
	}
	gid := t.nextGID
	t.nextGID++
	t.gids[id] = gid
	t.ids[gid] = id
	t.g.AddNode(simple.Node(gid))
	return gid
}

// addEdge records a weighted directed edge. Parallel edges between the same
// ordered pair (distinct types in the store) collapse into one edge with
// summed weight; self-loops are dropped.
func (t *Topology) addEdge(from, to string, weight float64) {
	if from == to {
		return
	}
	fid := t.addNode(from)
	tid := t.addNode(to)
	if existing := t.g.WeightedEdge(fid, tid); existing != nil {
		weight += existing.Weight()
	}
	t.g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(fid), T: simple.Node(tid), W: weight})
}

// NodeCount returns the number of nodes in the topology.
func (t *Topology) NodeCount() int {
	return t.g.Nodes().Len()
}

// EdgeCount returns the number of (collapsed) directed edges.
func (t *Topology) EdgeCount() int {
	return t.g.Edges().Len()
}

// Contains reports whether the topology holds the given node id.
func (t *Topology) Contains(id string) bool {
	_, ok := t.gids[id]
	return ok
}

// NodeIDs returns all node ids in sorted order, for deterministic output.
func (t *Topology) NodeIDs() []string {
	ids := make([]string, 0, len(t.gids))
	for id := range t.gids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EdgeWeight returns the collapsed weight of the directed edge from → to, or
// 0 when no such edge exists.
func (t *Topology) EdgeWeight(from, to string) float64 {
	fid, okF := t.gids[from]
	tid, okT := t.gids[to]
	if !okF || !okT {
		return 0
	}
	if e := t.g.WeightedEdge(fid, tid); e != nil {
		return e.Weight()
	}
	return 0
}

func (t *Topology) idsOf(nodes []graph.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = t.ids[n.ID()]
	}
	return out
}
