package server

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/canvas"
)

type viewportView struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// flowchartView is the full state a browser canvas needs to render.
type flowchartView struct {
	*flowchart.Flowchart
	Selected string       `json:"selected,omitempty"`
	Viewport viewportView `json:"viewport"`
}

func viewOf(s *Session) flowchartView {
	sel, _ := s.Canvas.Selection()
	x, y, zoom := s.Viewport.State()
	return flowchartView{
		Flowchart: s.Canvas.Flowchart(),
		Selected:  sel,
		Viewport:  viewportView{X: x, Y: y, Zoom: zoom},
	}
}

func (s *Server) listFlowcharts(c fiber.Ctx) error {
	resp := fiber.Map{"open": s.ws.IDs()}
	if s.store != nil {
		stored, err := s.store.ListFlowcharts(c.Context())
		if err != nil {
			return s.fail(c, err)
		}
		resp["stored"] = stored
	}
	return c.JSON(resp)
}

func (s *Server) createFlowchart(c fiber.Ctx) error {
	var req struct {
		ID   string `json:"id"`
		Demo bool   `json:"demo"`
	}
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c)
		}
	}
	sess, err := s.ws.Create(req.ID, req.Demo)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(viewOf(sess))
}

func (s *Server) getFlowchart(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(viewOf(sess))
}

// deleteFlowchart closes the live session. With ?purge=true the stored copy
// is removed as well.
func (s *Server) deleteFlowchart(c fiber.Ctx) error {
	id := c.Params("id")
	closed := s.ws.Close(id)
	if c.Query("purge") == "true" {
		if s.store == nil {
			return s.fail(c, errNoStore)
		}
		if err := s.store.DeleteFlowchart(c.Context(), id); err != nil {
			return s.fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
	if !closed {
		return s.fail(c, fmt.Errorf("%w: %q", flowchart.ErrFlowchartNotFound, id))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) saveFlowchart(c fiber.Ctx) error {
	if s.store == nil {
		return s.fail(c, errNoStore)
	}
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	saved, err := s.store.SaveFlowchart(c.Context(), sess.Canvas.Flowchart())
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(saved)
}

// loadFlowchart replaces the live graph with the stored one, opening a
// session first if none is open.
func (s *Server) loadFlowchart(c fiber.Ctx) error {
	if s.store == nil {
		return s.fail(c, errNoStore)
	}
	id := c.Params("id")
	f, err := s.store.GetFlowchart(c.Context(), id)
	if err != nil {
		return s.fail(c, err)
	}
	if f == nil {
		return s.fail(c, fmt.Errorf("%w: %q is not stored", flowchart.ErrFlowchartNotFound, id))
	}

	sess, err := s.ws.Get(id)
	if err != nil {
		if sess, err = s.ws.Create(id, false); err != nil {
			return s.fail(c, err)
		}
	}
	if err := sess.Canvas.Load(f); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(viewOf(sess))
}

func (s *Server) setViewport(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req viewportView
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c)
	}
	sess.Viewport.Set(req.X, req.Y, req.Zoom)
	x, y, zoom := sess.Viewport.State()
	return c.JSON(viewportView{X: x, Y: y, Zoom: zoom})
}

// drop is the palette drag-and-drop gesture; x and y are screen coordinates.
func (s *Server) drop(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req struct {
		Type string  `json:"type"`
		X    float64 `json:"x"`
		Y    float64 `json:"y"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c)
	}
	if _, err := flowchart.ParseNodeType(req.Type); err != nil {
		return s.fail(c, err)
	}

	dt := canvas.MapTransfer{}
	dt.SetData(canvas.TransferKey, req.Type)
	id, ok := sess.Controller.Drop(dt, canvas.Point{X: req.X, Y: req.Y})
	if !ok {
		return s.fail(c, fmt.Errorf("%w: %q", flowchart.ErrUnknownNodeType, req.Type))
	}
	n, _ := sess.Canvas.Node(id)
	return c.Status(fiber.StatusCreated).JSON(n)
}

func (s *Server) addNode(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req struct {
		Type     string              `json:"type"`
		Position flowchart.Position  `json:"position"`
		Data     flowchart.DataPatch `json:"data"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c)
	}
	t, err := flowchart.ParseNodeType(req.Type)
	if err != nil {
		return s.fail(c, err)
	}
	if err := checkStatus(req.Data); err != nil {
		return s.fail(c, err)
	}

	id := sess.Canvas.AddNode(t, req.Position)
	if !req.Data.IsEmpty() {
		sess.Canvas.UpdateNodeData(id, req.Data)
	}
	n, _ := sess.Canvas.Node(id)
	return c.Status(fiber.StatusCreated).JSON(n)
}

func (s *Server) updateNode(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	var patch flowchart.DataPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return badRequest(c)
	}
	if err := checkStatus(patch); err != nil {
		return s.fail(c, err)
	}
	id := c.Params("node")
	if !sess.Canvas.UpdateNodeData(id, patch) {
		return s.fail(c, fmt.Errorf("%w: %q", flowchart.ErrNodeNotFound, id))
	}
	n, _ := sess.Canvas.Node(id)
	return c.JSON(n)
}

func (s *Server) deleteNode(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	id := c.Params("node")
	if !sess.Canvas.DeleteNode(id) {
		return s.fail(c, fmt.Errorf("%w: %q", flowchart.ErrNodeNotFound, id))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// moveNode writes a node's final drag position back. Coordinates are in
// canvas space unless "screen" is set.
func (s *Server) moveNode(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Screen bool    `json:"screen"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c)
	}

	id := c.Params("node")
	var moved bool
	if req.Screen {
		moved = sess.Controller.NodeDragStop(id, canvas.Point{X: req.X, Y: req.Y})
	} else {
		moved = sess.Canvas.MoveNode(id, flowchart.Position{X: req.X, Y: req.Y})
	}
	if !moved {
		return s.fail(c, fmt.Errorf("%w: %q", flowchart.ErrNodeNotFound, id))
	}
	n, _ := sess.Canvas.Node(id)
	return c.JSON(n)
}

func (s *Server) connect(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	var conn canvas.Connection
	if err := c.Bind().JSON(&conn); err != nil {
		return badRequest(c)
	}
	id, ok := sess.Controller.Connect(conn)
	if !ok {
		return s.fail(c, fmt.Errorf("%w: %s -> %s", flowchart.ErrDanglingEdge, conn.Source, conn.Target))
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (s *Server) deleteEdge(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	id := c.Params("edge")
	if !sess.Canvas.DeleteEdge(id) {
		return s.fail(c, fmt.Errorf("%w: %q", flowchart.ErrEdgeNotFound, id))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func checkStatus(p flowchart.DataPatch) error {
	if p.Status != nil && !p.Status.Known() {
		return fmt.Errorf("%w: %q", flowchart.ErrUnknownStatus, string(*p.Status))
	}
	return nil
}
