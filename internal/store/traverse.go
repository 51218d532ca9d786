package store

// DefaultMaxHops bounds traversal queries when the caller passes no limit.
const DefaultMaxHops = 2

// RelatedNodeIDs walks the graph breadth-first from startID and returns every
// node reachable within maxHops, excluding the start node itself. Each hop
// fetches outgoing neighbors for the whole frontier in one batched query, so
// query count is bounded by the hop limit rather than the number of nodes
// visited. Traversal stops early once a hop yields nothing new.
func (s *Store) RelatedNodeIDs(startID string, maxHops int) ([]string, error) {
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}

	visited := map[string]bool{startID: true}
	frontier := []string{startID}
	var related []string

	for hop := 0; hop < maxHops && len(frontier) > 0; hop++ {
		edges, err := s.OutgoingEdgesForAll(frontier)
		if err != nil {
			return nil, err
		}

		var next []string
		for _, e := range edges {
			if visited[e.TargetID] {
				continue
			}
			visited[e.TargetID] = true
			related = append(related, e.TargetID)
			next = append(next, e.TargetID)
		}
		frontier = next
	}
	return related, nil
}

// RelatedFilePaths returns the paths of document nodes within maxHops of the
// document at currentPath. Non-document neighbors (tags, links, categories)
// participate in the traversal but are filtered from the result.
func (s *Store) RelatedFilePaths(currentPath string, maxHops int) ([]string, error) {
	ids, err := s.RelatedNodeIDs(currentPath, maxHops)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	nodes, err := s.NodesByIDs(ids)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, n := range nodes {
		if n.Type != NodeDocument {
			continue
		}
		if p, ok := n.Attributes["path"].(string); ok && p != "" {
			paths = append(paths, p)
		} else {
			paths = append(paths, n.ID)
		}
	}
	return paths, nil
}

// PreviewNode is one display node in a bounded subgraph.
type PreviewNode struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Type  NodeType `json:"type"`
}

// PreviewEdge is one display edge in a bounded subgraph.
type PreviewEdge struct {
	SourceID string   `json:"source_id"`
	TargetID string   `json:"target_id"`
	Type     EdgeType `json:"type"`
	Weight   float64  `json:"weight"`
}

// Preview is a display-bounded subgraph around a start node.
type Preview struct {
	Nodes []PreviewNode `json:"nodes"`
	Edges []PreviewEdge `json:"edges"`
}

// PreviewParams bounds a preview subgraph build.
type PreviewParams struct {
	StartNodeID string
	MaxNodes    int
	MaxHops     int
}

// BuildPreview collects the start node plus its batched-frontier BFS
// neighborhood, caps the node set at MaxNodes (start node first, then
// discovery order), and emits every edge with both endpoints in the emitted
// set. Tag labels get a "#" prefix for display.
func (s *Store) BuildPreview(p PreviewParams) (*Preview, error) {
	if p.MaxHops <= 0 {
		p.MaxHops = DefaultMaxHops
	}

	related, err := s.RelatedNodeIDs(p.StartNodeID, p.MaxHops)
	if err != nil {
		return nil, err
	}

	ids := append([]string{p.StartNodeID}, related...)
	if p.MaxNodes > 0 && len(ids) > p.MaxNodes {
		ids = ids[:p.MaxNodes]
	}

	nodes, err := s.NodesByIDs(ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	preview := &Preview{}
	emitted := make(map[string]bool, len(ids))
	for _, id := range ids {
		n, ok := byID[id]
		if !ok {
			continue
		}
		label := n.Label
		if n.Type == NodeTag {
			label = "#" + label
		}
		preview.Nodes = append(preview.Nodes, PreviewNode{ID: n.ID, Label: label, Type: n.Type})
		emitted[n.ID] = true
	}

	edges, err := s.EdgesAmong(ids)
	if err != nil {
		return nil, err
	}
	for _, e := range edges {
		if !emitted[e.SourceID] || !emitted[e.TargetID] {
			continue
		}
		preview.Edges = append(preview.Edges, PreviewEdge{
			SourceID: e.SourceID,
			TargetID: e.TargetID,
			Type:     e.Type,
			Weight:   e.Weight,
		})
	}
	return preview, nil
}
