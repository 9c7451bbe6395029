package canvas

import (
	"sync"

	"go.uber.org/zap"

	"github.com/meikuraledutech/flowchart"
)

// TransferKey is the drag-transfer entry that carries a palette type tag.
const TransferKey = "application/reactflow"

// Zoom bounds of the editor viewport.
const (
	MinZoom = 0.2
	MaxZoom = 1.5
)

// DataTransfer is the string-keyed channel a drag carries from the palette
// to the canvas.
type DataTransfer interface {
	GetData(key string) string
	SetData(key, value string)
}

// MapTransfer is an in-process DataTransfer.
type MapTransfer map[string]string

func (m MapTransfer) GetData(key string) string { return m[key] }
func (m MapTransfer) SetData(key, value string) { m[key] = value }

// Point is a raw screen coordinate in pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Projector converts screen coordinates into canvas coordinates.
type Projector interface {
	ScreenToFlow(p Point) flowchart.Position
}

// Viewport is the pan/zoom transform of the canvas:
// screen = flow*Zoom + (X, Y).
type Viewport struct {
	mu   sync.RWMutex
	x, y float64
	zoom float64
}

// NewViewport returns an identity viewport.
func NewViewport() *Viewport {
	return &Viewport{zoom: 1}
}

// State returns the pan offset and zoom.
func (v *Viewport) State() (x, y, zoom float64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.x, v.y, v.zoom
}

// Set replaces pan and zoom; zoom is clamped to [MinZoom, MaxZoom].
func (v *Viewport) Set(x, y, zoom float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.x, v.y, v.zoom = x, y, clampZoom(zoom)
}

// Pan shifts the viewport by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.x += dx
	v.y += dy
}

// SetZoom changes the zoom, clamped to [MinZoom, MaxZoom].
func (v *Viewport) SetZoom(zoom float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.zoom = clampZoom(zoom)
}

func (v *Viewport) ScreenToFlow(p Point) flowchart.Position {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return flowchart.Position{
		X: (p.X - v.x) / v.zoom,
		Y: (p.Y - v.y) / v.zoom,
	}
}

func (v *Viewport) FlowToScreen(pos flowchart.Position) Point {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Point{
		X: pos.X*v.zoom + v.x,
		Y: pos.Y*v.zoom + v.y,
	}
}

func clampZoom(z float64) float64 {
	switch {
	case z < MinZoom:
		return MinZoom
	case z > MaxZoom:
		return MaxZoom
	}
	return z
}

// Connection is a completed handle-to-handle gesture.
type Connection struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Controller bridges pointer and drag gestures to Canvas mutations. All
// gestures resolve synchronously.
type Controller struct {
	canvas *Canvas
	proj   Projector
	log    *zap.Logger
}

// NewController binds a controller to c. A nil projector uses an identity
// viewport.
func NewController(c *Canvas, proj Projector, logger *zap.Logger) *Controller {
	if proj == nil {
		proj = NewViewport()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{canvas: c, proj: proj, log: logger.Named("controller")}
}

// DragStart puts the palette item's type tag on the transfer.
func (ctl *Controller) DragStart(item flowchart.PaletteItem, dt DataTransfer) {
	dt.SetData(TransferKey, string(item.Type))
}

// Drop reads the type tag from the transfer and, if present, creates a node
// at the drop point converted to canvas space. Missing or unknown tags are
// ignored.
func (ctl *Controller) Drop(dt DataTransfer, screen Point) (string, bool) {
	raw := dt.GetData(TransferKey)
	if raw == "" {
		return "", false
	}
	t, err := flowchart.ParseNodeType(raw)
	if err != nil {
		ctl.log.Warn("Drop with unknown node type ignored", zap.String("type", raw))
		return "", false
	}
	pos := ctl.proj.ScreenToFlow(screen)
	id := ctl.canvas.AddNode(t, pos)
	ctl.log.Debug("Node dropped", zap.String("id", id),
		zap.Float64("x", pos.X), zap.Float64("y", pos.Y))
	return id, true
}

// Connect adds an edge for a completed connection gesture.
func (ctl *Controller) Connect(conn Connection) (string, bool) {
	return ctl.canvas.AddEdge(conn.Source, conn.Target)
}

// ClickNode selects the clicked node.
func (ctl *Controller) ClickNode(id string) {
	ctl.canvas.SetSelection(id)
}

// ClickPane clears the selection.
func (ctl *Controller) ClickPane() {
	ctl.canvas.ClearSelection()
}

// NodeDragStop writes the final position of a dragged node back.
func (ctl *Controller) NodeDragStop(id string, screen Point) bool {
	return ctl.canvas.MoveNode(id, ctl.proj.ScreenToFlow(screen))
}
