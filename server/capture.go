package server

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/flowchart/capture"
)

func (s *Server) startCapture(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	if err := sess.Capture.Capture(c.Context()); err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sess.Capture.Status())
}

func (s *Server) captureStatus(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(sess.Capture.Status())
}

func (s *Server) updateDraft(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	var patch capture.DraftPatch
	if err := c.Bind().JSON(&patch); err != nil {
		return badRequest(c)
	}
	if err := sess.Capture.UpdateDraft(patch); err != nil {
		return s.fail(c, err)
	}
	return c.JSON(sess.Capture.Status())
}

// sendCapture confirms the preview. A failed delivery leaves the workflow
// previewing; the response carries the status so the client can retry.
func (s *Server) sendCapture(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	if err := sess.Capture.Send(c.Context()); err != nil {
		if errors.Is(err, capture.ErrBusy) || errors.Is(err, capture.ErrNotPreviewing) {
			return s.fail(c, err)
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":  err.Error(),
			"status": sess.Capture.Status(),
		})
	}
	return c.JSON(sess.Capture.Status())
}

func (s *Server) cancelCapture(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	sess.Capture.Cancel()
	return c.JSON(sess.Capture.Status())
}

func (s *Server) captureImage(c fiber.Ctx) error {
	sess, err := s.session(c)
	if err != nil {
		return s.fail(c, err)
	}
	img, ok := sess.Capture.Image()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no capture to preview"})
	}
	c.Set(fiber.HeaderContentType, img.MIME)
	return c.Send(img.Data)
}
