// Package canvas holds the live editing state of a flowchart: the graph
// store with its selection cursor, the interaction controller that turns
// gestures into store mutations, and the property editor bound to the
// selected node.
package canvas

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meikuraledutech/flowchart"
)

// IDFunc mints a fresh identifier with the given prefix.
type IDFunc func(prefix string) string

// RandomID is the default IDFunc: prefix, underscore, nine random
// characters taken from a v4 UUID.
func RandomID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + raw[:9]
}

// Option configures a Canvas.
type Option func(*Canvas)

// WithLogger sets the logger. Nil keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(c *Canvas) {
		if l != nil {
			c.log = l.Named("canvas")
		}
	}
}

// WithIDFunc overrides id generation; used by tests to force collisions.
func WithIDFunc(fn IDFunc) Option {
	return func(c *Canvas) { c.newID = fn }
}

// Canvas is the owned graph store. Every edge endpoint is a present node,
// ids are unique, and the selection is empty or names a present node.
type Canvas struct {
	mu       sync.RWMutex
	id       string
	name     string
	nodes    []flowchart.Node
	edges    []flowchart.Edge
	selected string
	newID    IDFunc
	log      *zap.Logger
}

// New returns an empty canvas with the given flowchart id.
func New(id string, opts ...Option) *Canvas {
	c := &Canvas{
		id:    id,
		newID: RandomID,
		log:   zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// NewDemo returns a canvas seeded with the bootstrap graph.
func NewDemo(id string, opts ...Option) *Canvas {
	c := New(id, opts...)
	demo := Bootstrap()
	c.name = demo.Name
	c.nodes = demo.Nodes
	c.edges = demo.Edges
	return c
}

// ID returns the flowchart id this canvas edits.
func (c *Canvas) ID() string { return c.id }

// AddNode creates a node of type t at pos with the type's default data and
// returns its id. t must be a registered type.
func (c *Canvas) AddNode(t flowchart.NodeType, pos flowchart.Position) string {
	data := flowchart.DefaultData(t)

	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.uniqueID("node", c.nodeIndex)
	c.nodes = append(c.nodes, flowchart.Node{
		ID:       id,
		Type:     t,
		Position: pos,
		Data:     data,
	})
	c.log.Debug("Node added", zap.String("id", id), zap.String("type", string(t)))
	return id
}

// UpdateNodeData shallow-merges patch into the node's data.
// Returns false if the node does not exist.
func (c *Canvas) UpdateNodeData(id string, patch flowchart.DataPatch) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.nodeIndex(id)
	if i < 0 {
		c.log.Debug("Update on missing node ignored", zap.String("id", id))
		return false
	}
	c.nodes[i].Data = patch.Apply(c.nodes[i].Data)
	return true
}

// MoveNode writes a dragged node's new canvas position back into the store.
func (c *Canvas) MoveNode(id string, pos flowchart.Position) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.nodeIndex(id)
	if i < 0 {
		return false
	}
	c.nodes[i].Position = pos
	return true
}

// DeleteNode removes the node, every edge touching it, and the selection if
// it pointed at the node. Returns false if the node does not exist.
func (c *Canvas) DeleteNode(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.nodeIndex(id)
	if i < 0 {
		return false
	}
	c.nodes = append(c.nodes[:i:i], c.nodes[i+1:]...)

	snapshot := c.edges
	kept := make([]flowchart.Edge, 0, len(snapshot))
	removed := 0
	for _, e := range snapshot {
		if e.Source == id || e.Target == id {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	c.edges = kept

	if c.selected == id {
		c.selected = ""
	}
	c.log.Debug("Node deleted", zap.String("id", id), zap.Int("edges_removed", removed))
	return true
}

// AddEdge links two existing nodes and returns the new edge id. Duplicate
// edges and self-loops are allowed. If either endpoint is missing nothing
// happens and ok is false.
func (c *Canvas) AddEdge(source, target string) (id string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.nodeIndex(source) < 0 || c.nodeIndex(target) < 0 {
		c.log.Debug("Edge with missing endpoint ignored",
			zap.String("source", source), zap.String("target", target))
		return "", false
	}
	id = c.uniqueID("edge", c.edgeIndex)
	c.edges = append(c.edges, flowchart.Edge{
		ID:       id,
		Source:   source,
		Target:   target,
		Animated: true,
	})
	return id, true
}

// DeleteEdge removes a single edge.
func (c *Canvas) DeleteEdge(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.edgeIndex(id)
	if i < 0 {
		return false
	}
	c.edges = append(c.edges[:i:i], c.edges[i+1:]...)
	return true
}

// SetSelection selects the node with the given id, replacing any previous
// selection. An empty or unknown id clears the selection.
func (c *Canvas) SetSelection(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id != "" && c.nodeIndex(id) < 0 {
		id = ""
	}
	c.selected = id
}

// ClearSelection empties the selection.
func (c *Canvas) ClearSelection() { c.SetSelection("") }

// Selection returns the selected node id, if any.
func (c *Canvas) Selection() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected, c.selected != ""
}

// Node returns a copy of the node with the given id.
func (c *Canvas) Node(id string) (flowchart.Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.nodeIndex(id)
	if i < 0 {
		return flowchart.Node{}, false
	}
	return c.nodes[i], true
}

// Nodes returns a copy of the node collection in insertion order.
func (c *Canvas) Nodes() []flowchart.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]flowchart.Node{}, c.nodes...)
}

// Edges returns a copy of the edge collection in insertion order.
func (c *Canvas) Edges() []flowchart.Edge {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]flowchart.Edge{}, c.edges...)
}

// Len returns the node and edge counts.
func (c *Canvas) Len() (nodes, edges int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes), len(c.edges)
}

// Flowchart returns a snapshot of the canvas contents.
func (c *Canvas) Flowchart() *flowchart.Flowchart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return &flowchart.Flowchart{
		ID:    c.id,
		Name:  c.name,
		Nodes: append([]flowchart.Node{}, c.nodes...),
		Edges: append([]flowchart.Edge{}, c.edges...),
	}
}

// Load replaces the canvas contents with f after validating it. The
// selection is cleared.
func (c *Canvas) Load(f *flowchart.Flowchart) error {
	if err := flowchart.Validate(f); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.name = f.Name
	c.nodes = append([]flowchart.Node{}, f.Nodes...)
	c.edges = append([]flowchart.Edge{}, f.Edges...)
	c.selected = ""
	c.log.Info("Flowchart loaded", zap.String("id", c.id),
		zap.Int("nodes", len(c.nodes)), zap.Int("edges", len(c.edges)))
	return nil
}

// uniqueID draws ids until one is not taken. Caller holds the lock.
func (c *Canvas) uniqueID(prefix string, taken func(string) int) string {
	for {
		id := c.newID(prefix)
		if taken(id) < 0 {
			return id
		}
		c.log.Warn("Generated id collided, drawing again", zap.String("id", id))
	}
}

func (c *Canvas) nodeIndex(id string) int {
	for i := range c.nodes {
		if c.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Canvas) edgeIndex(id string) int {
	for i := range c.edges {
		if c.edges[i].ID == id {
			return i
		}
	}
	return -1
}
