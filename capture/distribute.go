package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3/client"
	"go.uber.org/zap"

	"github.com/meikuraledutech/flowchart"
)

// Delivery is one confirmed capture on its way to a destination.
// IdempotencyKey is stable across retries of the same capture.
type Delivery struct {
	IdempotencyKey string
	FlowchartID    string
	Title          string
	Category       string
	Destination    Destination
	Image          Image
}

// Distributor delivers a capture. Implementations must honour ctx.
type Distributor interface {
	Deliver(ctx context.Context, d Delivery) error
}

// DistributorFunc adapts a function to Distributor.
type DistributorFunc func(ctx context.Context, d Delivery) error

func (fn DistributorFunc) Deliver(ctx context.Context, d Delivery) error { return fn(ctx, d) }

// Router sends each delivery to the distributor registered for its
// destination.
type Router map[Destination]Distributor

func (r Router) Deliver(ctx context.Context, d Delivery) error {
	dist, ok := r[d.Destination]
	if !ok || dist == nil {
		return fmt.Errorf("%w: %q", ErrNoRoute, string(d.Destination))
	}
	return dist.Deliver(ctx, d)
}

// Simulated waits a fixed delay and succeeds, the behaviour of the demo
// share dialog. It stops early with the context's error.
type Simulated struct {
	Delay time.Duration
}

func (s Simulated) Deliver(ctx context.Context, _ Delivery) error {
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Webhook posts the capture to a team channel's incoming webhook as JSON.
type Webhook struct {
	URL    string
	client *client.Client
	log    *zap.Logger
}

// NewWebhook returns a channel distributor posting to url.
func NewWebhook(url string, logger *zap.Logger) *Webhook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Webhook{URL: url, client: client.New(), log: logger.Named("webhook")}
}

type webhookPayload struct {
	IdempotencyKey string `json:"idempotency_key"`
	FlowchartID    string `json:"flowchart_id"`
	Title          string `json:"title"`
	Category       string `json:"category"`
	Image          string `json:"image"`
}

func (w *Webhook) Deliver(ctx context.Context, d Delivery) error {
	resp, err := w.client.Post(w.URL, client.Config{
		Ctx: ctx,
		Header: map[string]string{
			"Content-Type":    "application/json",
			"Idempotency-Key": d.IdempotencyKey,
		},
		Body: webhookPayload{
			IdempotencyKey: d.IdempotencyKey,
			FlowchartID:    d.FlowchartID,
			Title:          d.Title,
			Category:       d.Category,
			Image:          d.Image.DataURI(),
		},
	})
	if err != nil {
		return fmt.Errorf("capture: post webhook: %w", err)
	}
	defer resp.Close()

	if code := resp.StatusCode(); code < 200 || code > 299 {
		return fmt.Errorf("capture: webhook returned %d: %s", code, resp.String())
	}
	w.log.Debug("Webhook accepted capture", zap.String("idempotency_key", d.IdempotencyKey))
	return nil
}

// ExportSink persists exports; flowchart.Store implementations satisfy it.
type ExportSink interface {
	SaveExport(ctx context.Context, e *flowchart.Export) (string, error)
}

// Storage files the capture into private storage.
type Storage struct {
	Sink ExportSink
}

func (s Storage) Deliver(ctx context.Context, d Delivery) error {
	_, err := s.Sink.SaveExport(ctx, &flowchart.Export{
		FlowchartID:    d.FlowchartID,
		Title:          d.Title,
		Category:       d.Category,
		IdempotencyKey: d.IdempotencyKey,
		MIME:           d.Image.MIME,
		Image:          d.Image.Data,
	})
	if err != nil {
		return fmt.Errorf("capture: save export: %w", err)
	}
	return nil
}
