package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/flowchart"
)

var errNoSelection = errors.New("flowchart: no node selected")

func selectionView(c fiber.Ctx, sess *Session) error {
	n, ok := sess.Inspector.Current()
	if !ok {
		return c.JSON(fiber.Map{"node": nil})
	}
	return c.JSON(fiber.Map{"node": n})
}

func (s *Server) getSelection(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	return selectionView(c, sess)
}

// selectNode is a node click. Unknown ids clear the selection.
func (s *Server) selectNode(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req struct {
		ID string `json:"id"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c)
	}
	sess.Controller.ClickNode(req.ID)
	return selectionView(c, sess)
}

// clearSelection is a pane click.
func (s *Server) clearSelection(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	sess.Controller.ClickPane()
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) editSelection(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	var patch flowchart.DataPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return badRequest(c)
	}
	ok, err := sess.Inspector.Apply(patch)
	if err != nil {
		return s.fail(c, err)
	}
	if !ok {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": errNoSelection.Error()})
	}
	return selectionView(c, sess)
}

func (s *Server) deleteSelection(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	if !sess.Inspector.Delete() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": errNoSelection.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
