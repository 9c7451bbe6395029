// Package capture rasterises a flowchart and walks it through a preview
// form to one of two destinations: the team channel or private storage.
package capture

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meikuraledutech/flowchart"
)

var (
	ErrBusy               = errors.New("capture: workflow busy")
	ErrNotPreviewing      = errors.New("capture: no capture to preview")
	ErrInvalidDestination = errors.New("capture: invalid destination")
	ErrNoRoute            = errors.New("capture: no distributor for destination")
)

// State is a step of the capture workflow.
type State string

const (
	StateIdle       State = "idle"
	StateCapturing  State = "capturing"
	StatePreviewing State = "previewing"
	StateSending    State = "sending"
)

// Destination is where a confirmed capture is delivered. Exactly one is
// chosen per send.
type Destination string

const (
	DestinationChannel Destination = "channel"
	DestinationPrivate Destination = "private"
)

// Valid reports whether d is one of the two destinations.
func (d Destination) Valid() bool {
	return d == DestinationChannel || d == DestinationPrivate
}

// Image is a rasterised canvas.
type Image struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// DataURI encodes the image as a data: URI.
func (img Image) DataURI() string {
	return "data:" + img.MIME + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// Draft is the metadata form shown while previewing.
type Draft struct {
	Title       string      `json:"title"`
	Category    string      `json:"category"`
	Destination Destination `json:"destination"`
}

// DraftPatch edits the form; nil fields are left as they are.
type DraftPatch struct {
	Title       *string      `json:"title,omitempty"`
	Category    *string      `json:"category,omitempty"`
	Destination *Destination `json:"destination,omitempty"`
}

// Status is a point-in-time view of the workflow.
type Status struct {
	State          State  `json:"state"`
	Busy           bool   `json:"busy"`
	Draft          *Draft `json:"draft,omitempty"`
	HasImage       bool   `json:"has_image"`
	ImageMIME      string `json:"image_mime,omitempty"`
	ImageBytes     int    `json:"image_bytes,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
	LastError      string `json:"last_error,omitempty"`
}

// Source yields the flowchart to capture.
type Source interface {
	Flowchart() *flowchart.Flowchart
}

// Rasterizer turns a flowchart into an image.
type Rasterizer interface {
	Rasterize(ctx context.Context, f *flowchart.Flowchart) (Image, error)
}

// RasterizerFunc adapts a function to Rasterizer.
type RasterizerFunc func(ctx context.Context, f *flowchart.Flowchart) (Image, error)

func (fn RasterizerFunc) Rasterize(ctx context.Context, f *flowchart.Flowchart) (Image, error) {
	return fn(ctx, f)
}

// Config holds the form defaults and the send bound.
type Config struct {
	DefaultTitle       string
	DefaultCategory    string
	DefaultDestination Destination
	SendTimeout        time.Duration
}

func (c Config) withDefaults() Config {
	if c.DefaultCategory == "" {
		c.DefaultCategory = "Architecture"
	}
	if !c.DefaultDestination.Valid() {
		c.DefaultDestination = DestinationChannel
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 30 * time.Second
	}
	return c
}

// Workflow is the Idle → Capturing → Previewing → Sending → Idle state
// machine. Only one capture is in flight at a time; the image and draft are
// dropped whenever the workflow returns to Idle.
type Workflow struct {
	mu      sync.Mutex
	src     Source
	raster  Rasterizer
	dist    Distributor
	cfg     Config
	log     *zap.Logger
	state   State
	image   *Image
	draft   Draft
	key     string
	lastErr error
}

// NewWorkflow wires a workflow for src.
func NewWorkflow(src Source, r Rasterizer, d Distributor, cfg Config, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		src:    src,
		raster: r,
		dist:   d,
		cfg:    cfg.withDefaults(),
		log:    logger.Named("capture"),
		state:  StateIdle,
	}
}

// Capture rasterises the current flowchart and opens the preview form.
// It only starts from Idle. On failure the workflow is back in Idle.
func (w *Workflow) Capture(ctx context.Context) error {
	w.mu.Lock()
	if w.state != StateIdle {
		w.mu.Unlock()
		return ErrBusy
	}
	w.state = StateCapturing
	w.mu.Unlock()

	f := w.src.Flowchart()
	img, err := w.raster.Rasterize(ctx, f)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err == nil && len(img.Data) == 0 {
		err = errors.New("empty image")
	}
	if err != nil {
		w.reset()
		w.log.Error("Capture failed", zap.String("flowchart", f.ID), zap.Error(err))
		return fmt.Errorf("capture: rasterize: %w", err)
	}

	title := w.cfg.DefaultTitle
	if title == "" {
		title = f.Name
	}
	if title == "" {
		title = "Flowchart snapshot"
	}

	w.image = &img
	w.draft = Draft{
		Title:       title,
		Category:    w.cfg.DefaultCategory,
		Destination: w.cfg.DefaultDestination,
	}
	w.key = uuid.NewString()
	w.lastErr = nil
	w.state = StatePreviewing
	w.log.Info("Capture ready for preview",
		zap.String("flowchart", f.ID), zap.Int("bytes", len(img.Data)))
	return nil
}

// UpdateDraft edits the preview form.
func (w *Workflow) UpdateDraft(p DraftPatch) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StatePreviewing {
		return ErrNotPreviewing
	}
	if p.Destination != nil && !p.Destination.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDestination, string(*p.Destination))
	}
	if p.Title != nil {
		w.draft.Title = *p.Title
	}
	if p.Category != nil {
		w.draft.Category = *p.Category
	}
	if p.Destination != nil {
		w.draft.Destination = *p.Destination
	}
	return nil
}

// Send delivers the previewed capture. A second Send while one is in
// flight returns ErrBusy. The delivery is bounded by the configured
// timeout; on failure the workflow goes back to Previewing with the error
// recorded and the same idempotency key kept for the retry.
func (w *Workflow) Send(ctx context.Context) error {
	w.mu.Lock()
	switch w.state {
	case StatePreviewing:
	case StateSending, StateCapturing:
		w.mu.Unlock()
		return ErrBusy
	default:
		w.mu.Unlock()
		return ErrNotPreviewing
	}
	w.state = StateSending
	d := Delivery{
		IdempotencyKey: w.key,
		FlowchartID:    w.src.Flowchart().ID,
		Title:          w.draft.Title,
		Category:       w.draft.Category,
		Destination:    w.draft.Destination,
		Image:          *w.image,
	}
	w.mu.Unlock()

	sendCtx, cancel := context.WithTimeout(ctx, w.cfg.SendTimeout)
	defer cancel()
	err := w.dist.Deliver(sendCtx, d)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.state = StatePreviewing
		w.lastErr = err
		w.log.Warn("Delivery failed",
			zap.String("destination", string(d.Destination)),
			zap.String("idempotency_key", d.IdempotencyKey),
			zap.Error(err))
		return fmt.Errorf("capture: deliver: %w", err)
	}
	w.log.Info("Capture delivered",
		zap.String("destination", string(d.Destination)),
		zap.String("title", d.Title))
	w.reset()
	return nil
}

// Cancel closes the preview without sending. It has no effect outside
// Previewing.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == StatePreviewing {
		w.reset()
	}
}

// Image returns a copy of the captured image while one is held.
func (w *Workflow) Image() (Image, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.image == nil {
		return Image{}, false
	}
	img := *w.image
	img.Data = append([]byte(nil), w.image.Data...)
	return img, true
}

// Status reports the current state.
func (w *Workflow) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Status{
		State: w.state,
		Busy:  w.state == StateCapturing || w.state == StateSending,
	}
	if w.image != nil {
		draft := w.draft
		s.Draft = &draft
		s.HasImage = true
		s.ImageMIME = w.image.MIME
		s.ImageBytes = len(w.image.Data)
		s.IdempotencyKey = w.key
	}
	if w.lastErr != nil {
		s.LastError = w.lastErr.Error()
	}
	return s
}

// reset returns to Idle and drops everything the capture held.
// Caller holds the lock.
func (w *Workflow) reset() {
	w.state = StateIdle
	w.image = nil
	w.draft = Draft{}
	w.key = ""
	w.lastErr = nil
}
