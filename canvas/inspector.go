package canvas

import (
	"fmt"

	"github.com/meikuraledutech/flowchart"
)

// Inspector is the property editor for the selected node. Every setter
// writes straight through to the canvas; there is no draft to discard.
type Inspector struct {
	canvas *Canvas
}

// NewInspector binds a property editor to c.
func NewInspector(c *Canvas) *Inspector {
	return &Inspector{canvas: c}
}

// Current returns the selected node. ok is false when nothing is selected,
// in which case the render layer shows the palette instead.
func (in *Inspector) Current() (flowchart.Node, bool) {
	id, ok := in.canvas.Selection()
	if !ok {
		return flowchart.Node{}, false
	}
	return in.canvas.Node(id)
}

// SetLabel updates the selected node's label.
func (in *Inspector) SetLabel(label string) bool {
	return in.apply(flowchart.DataPatch{Label: &label})
}

// SetDescription updates the selected node's description.
func (in *Inspector) SetDescription(desc string) bool {
	return in.apply(flowchart.DataPatch{Description: &desc})
}

// SetStatus updates the selected node's status and its colour pair.
// Only values from the enumeration are accepted here.
func (in *Inspector) SetStatus(s flowchart.Status) (bool, error) {
	if !s.Known() {
		return false, fmt.Errorf("%w: %q", flowchart.ErrUnknownStatus, string(s))
	}
	return in.apply(flowchart.DataPatch{Status: &s}), nil
}

// Apply writes a patch through to the selected node, validating the status
// field the same way SetStatus does.
func (in *Inspector) Apply(p flowchart.DataPatch) (bool, error) {
	if p.Status != nil && !p.Status.Known() {
		return false, fmt.Errorf("%w: %q", flowchart.ErrUnknownStatus, string(*p.Status))
	}
	return in.apply(p), nil
}

// Delete removes the selected node; the editor is empty afterwards.
func (in *Inspector) Delete() bool {
	id, ok := in.canvas.Selection()
	if !ok {
		return false
	}
	return in.canvas.DeleteNode(id)
}

func (in *Inspector) apply(p flowchart.DataPatch) bool {
	id, ok := in.canvas.Selection()
	if !ok {
		return false
	}
	return in.canvas.UpdateNodeData(id, p)
}
