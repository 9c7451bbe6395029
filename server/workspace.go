// Package server exposes live flowchart canvases over a fiber HTTP API. Each
// flowchart id maps to one Session holding the canvas, its viewport, the
// gesture controller, the property editor and the capture workflow.
package server

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/canvas"
	"github.com/meikuraledutech/flowchart/capture"
)

// Session is one live editor.
type Session struct {
	Canvas     *canvas.Canvas
	Viewport   *canvas.Viewport
	Controller *canvas.Controller
	Inspector  *canvas.Inspector
	Capture    *capture.Workflow
}

// Workspace holds the live sessions.
type Workspace struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	raster  capture.Rasterizer
	dist    capture.Distributor
	capture capture.Config
	log     *zap.Logger
}

// NewWorkspace returns an empty workspace whose sessions capture with r and
// deliver through d.
func NewWorkspace(r capture.Rasterizer, d capture.Distributor, cfg capture.Config, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workspace{
		sessions: make(map[string]*Session),
		raster:   r,
		dist:     d,
		capture:  cfg,
		log:      logger,
	}
}

// Create opens a session. An empty id gets a generated one; demo seeds the
// bootstrap graph.
func (w *Workspace) Create(id string, demo bool) (*Session, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if id == "" {
		for id == "" || w.sessions[id] != nil {
			id = canvas.RandomID("flowchart")
		}
	}
	if _, ok := w.sessions[id]; ok {
		return nil, fmt.Errorf("%w: flowchart %q is already open", flowchart.ErrDuplicateID, id)
	}

	log := w.log.With(zap.String("flowchart", id))
	var c *canvas.Canvas
	if demo {
		c = canvas.NewDemo(id, canvas.WithLogger(log))
	} else {
		c = canvas.New(id, canvas.WithLogger(log))
	}

	vp := canvas.NewViewport()
	s := &Session{
		Canvas:     c,
		Viewport:   vp,
		Controller: canvas.NewController(c, vp, log),
		Inspector:  canvas.NewInspector(c),
		Capture:    capture.NewWorkflow(c, w.raster, w.dist, w.capture, log),
	}
	w.sessions[id] = s
	return s, nil
}

// Get returns the session for id.
func (w *Workspace) Get(id string) (*Session, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s, ok := w.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", flowchart.ErrFlowchartNotFound, id)
	}
	return s, nil
}

// Close drops the session for id. Reports whether it existed.
func (w *Workspace) Close(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.sessions[id]; !ok {
		return false
	}
	delete(w.sessions, id)
	return true
}

// IDs lists the open sessions in order.
func (w *Workspace) IDs() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	ids := make([]string, 0, len(w.sessions))
	for id := range w.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
