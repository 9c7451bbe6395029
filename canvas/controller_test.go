package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/flowchart"
)

func paletteItem(t flowchart.NodeType) flowchart.PaletteItem {
	return flowchart.PaletteItem{Type: t, NodeDescriptor: flowchart.Descriptor(t)}
}

func TestDragAndDrop(t *testing.T) {
	c := NewDemo("f")
	ctl := NewController(c, nil, nil)

	dt := MapTransfer{}
	ctl.DragStart(paletteItem(flowchart.TypeProcess), dt)
	assert.Equal(t, "processNode", dt.GetData(TransferKey))

	id, ok := ctl.Drop(dt, Point{X: 100, Y: 100})
	require.True(t, ok)

	nodes, _ := c.Len()
	assert.Equal(t, 6, nodes)
	n, _ := c.Node(id)
	assert.Equal(t, flowchart.TypeProcess, n.Type)
	assert.Equal(t, "New process", n.Data.Label)
	assert.Equal(t, flowchart.StatusDraft, n.Data.Status)
	assert.Equal(t, flowchart.Position{X: 100, Y: 100}, n.Position)
}

func TestDropIgnoresMissingOrUnknownTag(t *testing.T) {
	c := NewDemo("f")
	ctl := NewController(c, nil, nil)

	_, ok := ctl.Drop(MapTransfer{}, Point{})
	assert.False(t, ok)

	_, ok = ctl.Drop(MapTransfer{TransferKey: "rocketNode"}, Point{})
	assert.False(t, ok)

	nodes, _ := c.Len()
	assert.Equal(t, 5, nodes)
}

func TestDropUsesViewport(t *testing.T) {
	c := New("f")
	vp := NewViewport()
	vp.Set(50, -20, 0.5)
	ctl := NewController(c, vp, nil)

	id, ok := ctl.Drop(MapTransfer{TransferKey: "endNode"}, Point{X: 150, Y: 80})
	require.True(t, ok)
	n, _ := c.Node(id)
	assert.InDelta(t, 200, n.Position.X, 1e-9)
	assert.InDelta(t, 200, n.Position.Y, 1e-9)
}

func TestViewport(t *testing.T) {
	vp := NewViewport()
	vp.SetZoom(10)
	_, _, z := vp.State()
	assert.Equal(t, MaxZoom, z)
	vp.SetZoom(0.01)
	_, _, z = vp.State()
	assert.Equal(t, MinZoom, z)

	vp.Set(12, 34, 1.25)
	vp.Pan(8, 6)
	p := Point{X: 321, Y: 654}
	back := vp.FlowToScreen(vp.ScreenToFlow(p))
	assert.InDelta(t, p.X, back.X, 1e-9)
	assert.InDelta(t, p.Y, back.Y, 1e-9)
}

func TestConnectAndClicks(t *testing.T) {
	c := NewDemo("f")
	ctl := NewController(c, nil, nil)

	id, ok := ctl.Connect(Connection{Source: "end-1", Target: "start"})
	require.True(t, ok)
	assert.Contains(t, edgeIDs(c), id)

	ctl.ClickNode("decision-1")
	sel, ok := c.Selection()
	require.True(t, ok)
	assert.Equal(t, "decision-1", sel)

	ctl.ClickPane()
	_, ok = c.Selection()
	assert.False(t, ok)
}

func TestNodeDragStop(t *testing.T) {
	c := NewDemo("f")
	vp := NewViewport()
	vp.Set(100, 0, 1)
	ctl := NewController(c, vp, nil)

	require.True(t, ctl.NodeDragStop("end-1", Point{X: 400, Y: 300}))
	n, _ := c.Node("end-1")
	assert.Equal(t, flowchart.Position{X: 300, Y: 300}, n.Position)
}

func TestInspector(t *testing.T) {
	c := NewDemo("f")
	in := NewInspector(c)

	_, ok := in.Current()
	assert.False(t, ok, "nothing selected")
	assert.False(t, in.SetLabel("nope"))

	c.SetSelection("start")
	require.True(t, in.SetLabel("Kickoff"))
	require.True(t, in.SetDescription("Day one"))

	changed, err := in.SetStatus(flowchart.StatusInProgress)
	require.NoError(t, err)
	require.True(t, changed)

	n, ok := in.Current()
	require.True(t, ok)
	assert.Equal(t, "Kickoff", n.Data.Label)
	assert.Equal(t, "Day one", n.Data.Description)
	assert.Equal(t, flowchart.ColorBlueText, n.Data.StatusColor)

	_, err = in.SetStatus("Blocked")
	assert.ErrorIs(t, err, flowchart.ErrUnknownStatus)

	bad := flowchart.Status("Someday")
	_, err = in.Apply(flowchart.DataPatch{Status: &bad})
	assert.ErrorIs(t, err, flowchart.ErrUnknownStatus)

	require.True(t, in.Delete())
	_, ok = in.Current()
	assert.False(t, ok)
	_, edges := c.Len()
	assert.Equal(t, 4, edges)
	assert.False(t, in.Delete())

	changed, err = in.SetStatus(flowchart.StatusDraft)
	assert.NoError(t, err)
	assert.False(t, changed, "a valid status with nothing selected changes nothing")
}
