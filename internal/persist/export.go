package persist

import (
	"encoding/json"
	"fmt"

	"rhizome/indexer/internal/store"
)

// Well-known storage domain names.
const (
	DomainGraph    = "graph"
	DomainMetadata = "relational-metadata"
)

// DomainExporter produces the current payload for one domain.
type DomainExporter func() ([]byte, error)

// NewExporter combines per-domain exporters into the Exporter the scheduler
// invokes once per flush cycle.
func NewExporter(domains map[string]DomainExporter) Exporter {
	return func(requested []string) (map[string][]byte, error) {
		payloads := make(map[string][]byte, len(requested))
		for _, domain := range requested {
			export, ok := domains[domain]
			if !ok {
				return nil, fmt.Errorf("no exporter for domain %q", domain)
			}
			payload, err := export()
			if err != nil {
				return nil, fmt.Errorf("exporting domain %q: %w", domain, err)
			}
			payloads[domain] = payload
		}
		return payloads, nil
	}
}

// graphSnapshot is the serialized form of the graph domain.
type graphSnapshot struct {
	Nodes []store.Node `json:"nodes"`
	Edges []store.Edge `json:"edges"`
}

// GraphSnapshotJSON exports the full relationship graph as JSON.
func GraphSnapshotJSON(st *store.Store) DomainExporter {
	return func() ([]byte, error) {
		nodes, err := st.AllNodes()
		if err != nil {
			return nil, err
		}
		edges, err := st.AllEdges()
		if err != nil {
			return nil, err
		}
		return json.Marshal(graphSnapshot{Nodes: nodes, Edges: edges})
	}
}
