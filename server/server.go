package server

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/capture"
)

var errNoStore = errors.New("flowchart: persistence is not configured")

// Server is the HTTP render layer over a Workspace.
type Server struct {
	ws    *Workspace
	store flowchart.Store
	log   *zap.Logger
}

// New builds the fiber app. store may be nil, in which case the persistence
// routes answer 503.
func New(ws *Workspace, store flowchart.Store, logger *zap.Logger) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{ws: ws, store: store, log: logger.Named("http")}

	app := fiber.New(fiber.Config{AppName: "flowchart"})
	app.Use(s.logRequests)

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", s.createSchema)
	app.Delete("/schema", s.dropSchema)

	// ── Palette ───────────────────────────────────────────────────────
	app.Get("/palette", func(c fiber.Ctx) error {
		return c.JSON(flowchart.Palette())
	})

	// ── Flowcharts ────────────────────────────────────────────────────
	app.Get("/flowcharts", s.listFlowcharts)
	app.Post("/flowcharts", s.createFlowchart)
	app.Get("/flowcharts/:id", s.getFlowchart)
	app.Delete("/flowcharts/:id", s.deleteFlowchart)
	app.Post("/flowcharts/:id/save", s.saveFlowchart)
	app.Post("/flowcharts/:id/load", s.loadFlowchart)
	app.Put("/flowcharts/:id/viewport", s.setViewport)

	// ── Gestures ──────────────────────────────────────────────────────
	app.Post("/flowcharts/:id/drop", s.drop)
	app.Post("/flowcharts/:id/nodes", s.addNode)
	app.Patch("/flowcharts/:id/nodes/:node", s.updateNode)
	app.Delete("/flowcharts/:id/nodes/:node", s.deleteNode)
	app.Put("/flowcharts/:id/nodes/:node/position", s.moveNode)
	app.Post("/flowcharts/:id/edges", s.connect)
	app.Delete("/flowcharts/:id/edges/:edge", s.deleteEdge)

	// ── Selection / property editor ───────────────────────────────────
	app.Get("/flowcharts/:id/selection", s.getSelection)
	app.Put("/flowcharts/:id/selection", s.selectNode)
	app.Delete("/flowcharts/:id/selection", s.clearSelection)
	app.Patch("/flowcharts/:id/selection", s.editSelection)
	app.Delete("/flowcharts/:id/selection/node", s.deleteSelection)

	// ── Capture ───────────────────────────────────────────────────────
	app.Post("/flowcharts/:id/capture", s.startCapture)
	app.Get("/flowcharts/:id/capture", s.captureStatus)
	app.Patch("/flowcharts/:id/capture", s.updateDraft)
	app.Delete("/flowcharts/:id/capture", s.cancelCapture)
	app.Post("/flowcharts/:id/capture/send", s.sendCapture)
	app.Get("/flowcharts/:id/capture/image", s.captureImage)

	return app
}

func (s *Server) logRequests(c fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.log.Debug("Request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()),
		zap.Duration("took", time.Since(start)),
	)
	return err
}

// fail maps domain errors onto status codes.
func (s *Server) fail(c fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, flowchart.ErrFlowchartNotFound),
		errors.Is(err, flowchart.ErrNodeNotFound),
		errors.Is(err, flowchart.ErrEdgeNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, flowchart.ErrDuplicateID),
		errors.Is(err, capture.ErrBusy),
		errors.Is(err, capture.ErrNotPreviewing):
		status = fiber.StatusConflict
	case errors.Is(err, flowchart.ErrUnknownNodeType),
		errors.Is(err, flowchart.ErrUnknownStatus),
		errors.Is(err, flowchart.ErrDanglingEdge),
		errors.Is(err, capture.ErrInvalidDestination),
		errors.Is(err, capture.ErrNoRoute):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, errNoStore):
		status = fiber.StatusServiceUnavailable
	}
	if status == fiber.StatusInternalServerError {
		s.log.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
}

func (s *Server) session(c fiber.Ctx) (*Session, error) {
	return s.ws.Get(c.Params("id"))
}

func (s *Server) createSchema(c fiber.Ctx) error {
	if s.store == nil {
		return s.fail(c, errNoStore)
	}
	if err := s.store.CreateSchema(c.Context()); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "schema created"})
}

func (s *Server) dropSchema(c fiber.Ctx) error {
	if s.store == nil {
		return s.fail(c, errNoStore)
	}
	if err := s.store.DropSchema(c.Context()); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "schema dropped"})
}
