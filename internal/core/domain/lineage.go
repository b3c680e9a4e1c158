package domain

// Artifact type tags.
const (
	ArtifactTypeDataset        = "dataset"
	ArtifactTypeDatasetVersion = "dataset_version"
)

// RelationshipDerivedFrom is the default edge relationship: the target was
// derived from the source.
const RelationshipDerivedFrom = "derived_from"

// ArtifactRef is the external identity of a dataset or one of its versions.
type ArtifactRef struct {
	ArtifactID string         `json:"artifact_id"`
	Type       string         `json:"type"`
	URI        string         `json:"uri"`
	Checksum   string         `json:"checksum"`
	Metadata   map[string]any `json:"metadata"`
}

// ProvenanceEdge is a directed relationship from source to target.
// Each edge is a distinct historical event with its own ID.
type ProvenanceEdge struct {
	ID           string         `json:"id"`
	TraceID      string         `json:"trace_id,omitempty"`
	SourceType   string         `json:"source_type"`
	SourceID     string         `json:"source_id"`
	TargetType   string         `json:"target_type"`
	TargetID     string         `json:"target_id"`
	Relationship string         `json:"relationship"`
	Metadata     map[string]any `json:"metadata"`
}

// LineageGraph is an in-memory view over a set of provenance edges.
// Acyclicity is not enforced on insert; CheckAcyclic verifies it.
type LineageGraph struct {
	edges    []ProvenanceEdge
	outgoing map[string][]string
}

// NewLineageGraph builds a graph from edges.
func NewLineageGraph(edges ...ProvenanceEdge) *LineageGraph {
	g := &LineageGraph{outgoing: make(map[string][]string)}
	for _, e := range edges {
		g.Add(e)
	}
	return g
}

// Add inserts an edge.
func (g *LineageGraph) Add(e ProvenanceEdge) {
	g.edges = append(g.edges, e)
	g.outgoing[e.SourceID] = append(g.outgoing[e.SourceID], e.TargetID)
	if _, ok := g.outgoing[e.TargetID]; !ok {
		g.outgoing[e.TargetID] = nil
	}
}

// Edges returns the inserted edges in order.
func (g *LineageGraph) Edges() []ProvenanceEdge {
	return append([]ProvenanceEdge(nil), g.edges...)
}

// CheckAcyclic returns ErrCycle naming one node on a cycle, or nil.
func (g *LineageGraph) CheckAcyclic() error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(g.outgoing))

	var visit func(node string) string
	visit = func(node string) string {
		state[node] = visiting
		for _, next := range g.outgoing[node] {
			switch state[next] {
			case visiting:
				return next
			case unvisited:
				if found := visit(next); found != "" {
					return found
				}
			}
		}
		state[node] = done
		return ""
	}

	// Visit in edge insertion order so the reported node is stable.
	for _, e := range g.edges {
		if state[e.SourceID] != unvisited {
			continue
		}
		if node := visit(e.SourceID); node != "" {
			return &CycleError{Node: node}
		}
	}
	return nil
}

// CycleError reports a node found on a provenance cycle.
type CycleError struct {
	Node string
}

func (e *CycleError) Error() string {
	return "provenance cycle through " + e.Node
}

// Is lets errors.Is match ErrCycle.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycle
}
