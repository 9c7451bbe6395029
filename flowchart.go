package flowchart

// Flowchart is a named diagram: typed nodes joined by directed edges.
type Flowchart struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Position is a point in canvas (world) space, independent of pan and zoom.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node is a positioned, typed entity in the diagram.
// Type is fixed at creation; Position and Data are mutable.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Type     NodeType `json:"type" yaml:"type"`
	Position Position `json:"position" yaml:"position"`
	Data     NodeData `json:"data" yaml:"data"`
}

// NodeData is the user-editable payload of a node.
type NodeData struct {
	Label         string        `json:"label" yaml:"label"`
	Description   string        `json:"description" yaml:"description"`
	Status        Status        `json:"status" yaml:"status"`
	StatusColor   SemanticColor `json:"statusColor" yaml:"status_color"`
	StatusBgColor SemanticColor `json:"statusBgColor" yaml:"status_bg_color"`
}

// DataPatch is a shallow partial update of NodeData. Nil fields are left
// untouched. When Status is set and neither colour is, the colours are
// derived from the status table.
type DataPatch struct {
	Label         *string        `json:"label,omitempty"`
	Description   *string        `json:"description,omitempty"`
	Status        *Status        `json:"status,omitempty"`
	StatusColor   *SemanticColor `json:"statusColor,omitempty"`
	StatusBgColor *SemanticColor `json:"statusBgColor,omitempty"`
}

// Apply merges the patch into d and returns the result.
func (p DataPatch) Apply(d NodeData) NodeData {
	if p.Label != nil {
		d.Label = *p.Label
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Status != nil {
		d.Status = *p.Status
		if p.StatusColor == nil && p.StatusBgColor == nil {
			d.StatusColor, d.StatusBgColor = StatusColors(d.Status)
		}
	}
	if p.StatusColor != nil {
		d.StatusColor = *p.StatusColor
	}
	if p.StatusBgColor != nil {
		d.StatusBgColor = *p.StatusBgColor
	}
	return d
}

// IsEmpty reports whether the patch changes nothing.
func (p DataPatch) IsEmpty() bool {
	return p.Label == nil && p.Description == nil && p.Status == nil &&
		p.StatusColor == nil && p.StatusBgColor == nil
}

// Edge is a directed link between two node ids.
// Animated and Style are presentation hints only.
type Edge struct {
	ID       string `json:"id" yaml:"id"`
	Source   string `json:"source" yaml:"source"`
	Target   string `json:"target" yaml:"target"`
	Animated bool   `json:"animated,omitempty" yaml:"animated,omitempty"`
	Style    string `json:"style,omitempty" yaml:"style,omitempty"`
}

// Clone returns a deep copy of f.
func (f *Flowchart) Clone() *Flowchart {
	if f == nil {
		return nil
	}
	out := &Flowchart{ID: f.ID, Name: f.Name}
	out.Nodes = append([]Node{}, f.Nodes...)
	out.Edges = append([]Edge{}, f.Edges...)
	return out
}
