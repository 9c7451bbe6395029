package flowchart

import "fmt"

// Validate checks the structural invariants of f: unique node and edge ids,
// registered node types, and no dangling edge endpoints.
func Validate(f *Flowchart) error {
	nodes := make(map[string]struct{}, len(f.Nodes))
	for _, n := range f.Nodes {
		if n.ID == "" {
			return fmt.Errorf("flowchart: node with empty id")
		}
		if _, dup := nodes[n.ID]; dup {
			return fmt.Errorf("%w: node %q", ErrDuplicateID, n.ID)
		}
		if !n.Type.Valid() {
			return fmt.Errorf("%w: node %q has type %q", ErrUnknownNodeType, n.ID, string(n.Type))
		}
		nodes[n.ID] = struct{}{}
	}

	edges := make(map[string]struct{}, len(f.Edges))
	for _, e := range f.Edges {
		if e.ID == "" {
			return fmt.Errorf("flowchart: edge with empty id")
		}
		if _, dup := edges[e.ID]; dup {
			return fmt.Errorf("%w: edge %q", ErrDuplicateID, e.ID)
		}
		if _, ok := nodes[e.Source]; !ok {
			return fmt.Errorf("%w: edge %q source %q", ErrDanglingEdge, e.ID, e.Source)
		}
		if _, ok := nodes[e.Target]; !ok {
			return fmt.Errorf("%w: edge %q target %q", ErrDanglingEdge, e.ID, e.Target)
		}
		edges[e.ID] = struct{}{}
	}
	return nil
}
