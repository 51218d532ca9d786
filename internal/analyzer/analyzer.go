// Package analyzer builds disposable topology views of the relationship
// graph for algorithms that a graph library runs well but repeated store
// queries express badly: community detection, PageRank, shortest paths.
//
// Lifecycle is strictly build → use → release. A topology is owned by one
// operation; it is never cached across operations, because the store may be
// mutated in between and a stale topology silently desynchronizes from truth.
package analyzer

import (
	"errors"

	"rhizome/indexer/internal/store"
)

// ErrNotBuilt is returned by Graph when Build has not run yet (or the
// topology has been released).
var ErrNotBuilt = errors.New("analyzer: graph not built")

// Analyzer builds and owns one transient topology over a relationship store.
type Analyzer struct {
	store *store.Store
	topo  *Topology
}

// New creates an analyzer bound to the given store.
func New(st *store.Store) *Analyzer {
	return &Analyzer{store: st}
}

// Build loads a topology from the store. With center ids, only the nodes
// within the centers' 2-hop neighborhood are loaded (computed with the same
// batched-frontier traversal the store uses); without centers, every node and
// edge is loaded. Either way only ids and (from, to, weight) populate the
// topology.
func (a *Analyzer) Build(centerIDs ...string) error {
	topo := newTopology()

	if len(centerIDs) == 0 {
		nodes, err := a.store.AllNodes()
		if err != nil {
			return err
		}
		edges, err := a.store.AllEdges()
		if err != nil {
			return err
		}
		for _, n := range nodes {
			topo.addNode(n.ID)
		}
		for _, e := range edges {
			topo.addEdge(e.SourceID, e.TargetID, e.Weight)
		}
		a.topo = topo
		return nil
	}

	seen := make(map[string]bool)
	var ids []string
	for _, center := range centerIDs {
		if !seen[center] {
			seen[center] = true
			ids = append(ids, center)
		}
		related, err := a.store.RelatedNodeIDs(center, store.DefaultMaxHops)
		if err != nil {
			return err
		}
		for _, id := range related {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	for _, id := range ids {
		topo.addNode(id)
	}
	edges, err := a.store.EdgesAmong(ids)
	if err != nil {
		return err
	}
	for _, e := range edges {
		topo.addEdge(e.SourceID, e.TargetID, e.Weight)
	}
	a.topo = topo
	return nil
}

// Graph returns the built topology, or ErrNotBuilt.
func (a *Analyzer) Graph() (*Topology, error) {
	if a.topo == nil {
		return nil, ErrNotBuilt
	}
	return a.topo, nil
}

// NodeMetadata fetches a node's full row from the store. Metadata is never
// cached in the analyzer; the extra lookup buys guaranteed freshness.
func (a *Analyzer) NodeMetadata(id string) (*store.Node, error) {
	return a.store.GetNode(id)
}

// EdgeMetadata fetches an edge's full row from the store, uncached.
func (a *Analyzer) EdgeMetadata(sourceID, targetID string, typ store.EdgeType) (*store.Edge, error) {
	return a.store.GetEdge(sourceID, targetID, typ)
}

// BuildPreview delegates to the store's bounded preview query. It does not
// build a topology; Build is reserved for genuinely graph-algorithmic work.
func (a *Analyzer) BuildPreview(p store.PreviewParams) (*store.Preview, error) {
	return a.store.BuildPreview(p)
}

// RelatedDocumentIDs delegates to the store's bounded traversal, likewise
// without constructing a topology.
func (a *Analyzer) RelatedDocumentIDs(currentPath string, maxHops int) ([]string, error) {
	return a.store.RelatedFilePaths(currentPath, maxHops)
}

// Release discards the transient topology. Safe to call repeatedly.
func (a *Analyzer) Release() {
	a.topo = nil
}
