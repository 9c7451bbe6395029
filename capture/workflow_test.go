package capture

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/canvas"
)

var png = Image{Data: []byte{0x89, 'P', 'N', 'G'}, MIME: "image/png", Width: 10, Height: 10}

func okRaster() Rasterizer {
	return RasterizerFunc(func(context.Context, *flowchart.Flowchart) (Image, error) {
		return png, nil
	})
}

// recorder is a Distributor that remembers what it was given.
type recorder struct {
	mu  sync.Mutex
	got []Delivery
	err error
}

func (r *recorder) Deliver(_ context.Context, d Delivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, d)
	return r.err
}

func (r *recorder) deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery{}, r.got...)
}

func TestWorkflowHappyPath(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	c := canvas.NewDemo("demo")
	rec := &recorder{}
	w := NewWorkflow(c, okRaster(), rec, Config{DefaultCategory: "Planning"}, nil)

	assert.Equal(t, StateIdle, w.Status().State)
	require.NoError(t, w.Capture(context.Background()))

	st := w.Status()
	assert.Equal(t, StatePreviewing, st.State)
	require.NotNil(t, st.Draft)
	assert.Equal(t, "Project Lifecycle Draft", st.Draft.Title)
	assert.Equal(t, "Planning", st.Draft.Category)
	assert.Equal(t, DestinationChannel, st.Draft.Destination)
	assert.True(t, st.HasImage)
	assert.NotEmpty(t, st.IdempotencyKey)

	private := DestinationPrivate
	title := "Sprint map"
	require.NoError(t, w.UpdateDraft(DraftPatch{Title: &title, Destination: &private}))

	require.NoError(t, w.Send(context.Background()))

	st = w.Status()
	assert.Equal(t, StateIdle, st.State)
	assert.False(t, st.HasImage)
	assert.Nil(t, st.Draft)
	_, held := w.Image()
	assert.False(t, held, "no stale image after close")

	got := rec.deliveries()
	require.Len(t, got, 1)
	assert.Equal(t, "Sprint map", got[0].Title)
	assert.Equal(t, DestinationPrivate, got[0].Destination)
	assert.Equal(t, "demo", got[0].FlowchartID)
	assert.Equal(t, png.Data, got[0].Image.Data)
}

func TestWorkflowCaptureFailure(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	boom := errors.New("tainted canvas")
	w := NewWorkflow(canvas.NewDemo("demo"),
		RasterizerFunc(func(context.Context, *flowchart.Flowchart) (Image, error) {
			return Image{}, boom
		}),
		&recorder{}, Config{}, zap.New(core))

	err := w.Capture(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateIdle, w.Status().State)
	assert.Equal(t, 1, logs.FilterMessage("Capture failed").Len())

	t.Run("empty image counts as failure", func(t *testing.T) {
		w := NewWorkflow(canvas.NewDemo("demo"),
			RasterizerFunc(func(context.Context, *flowchart.Flowchart) (Image, error) {
				return Image{MIME: "image/png"}, nil
			}),
			&recorder{}, Config{}, nil)
		assert.Error(t, w.Capture(context.Background()))
		assert.Equal(t, StateIdle, w.Status().State)
	})
}

func TestWorkflowCancel(t *testing.T) {
	c := canvas.NewDemo("demo")
	before := c.Flowchart()
	rec := &recorder{}
	w := NewWorkflow(c, okRaster(), rec, Config{}, nil)

	require.NoError(t, w.Capture(context.Background()))
	w.Cancel()

	st := w.Status()
	assert.Equal(t, StateIdle, st.State)
	assert.False(t, st.HasImage)
	assert.Empty(t, st.IdempotencyKey)
	assert.Equal(t, before, c.Flowchart(), "cancel does not touch the graph")
	assert.Empty(t, rec.deliveries())

	assert.ErrorIs(t, w.Send(context.Background()), ErrNotPreviewing)
	assert.ErrorIs(t, w.UpdateDraft(DraftPatch{}), ErrNotPreviewing)

	w.Cancel()
	assert.Equal(t, StateIdle, w.Status().State)
}

func TestWorkflowRejectsDoubleSubmit(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	release := make(chan struct{})
	var calls atomic.Int32
	dist := DistributorFunc(func(ctx context.Context, _ Delivery) error {
		calls.Add(1)
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	w := NewWorkflow(canvas.NewDemo("demo"), okRaster(), dist, Config{}, nil)
	require.NoError(t, w.Capture(context.Background()))

	done := make(chan error, 1)
	go func() { done <- w.Send(context.Background()) }()

	require.Eventually(t, func() bool {
		return w.Status().State == StateSending
	}, time.Second, 5*time.Millisecond)

	assert.True(t, w.Status().Busy)
	assert.ErrorIs(t, w.Send(context.Background()), ErrBusy)
	assert.ErrorIs(t, w.Capture(context.Background()), ErrBusy)
	w.Cancel()
	assert.Equal(t, StateSending, w.Status().State, "cancel does not interrupt a send")

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, StateIdle, w.Status().State)
}

func TestWorkflowSendTimeoutReturnsToPreview(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	var keys []string
	attempt := 0
	dist := DistributorFunc(func(ctx context.Context, d Delivery) error {
		keys = append(keys, d.IdempotencyKey)
		attempt++
		if attempt == 1 {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	})
	w := NewWorkflow(canvas.NewDemo("demo"), okRaster(), dist,
		Config{SendTimeout: 20 * time.Millisecond}, nil)
	require.NoError(t, w.Capture(context.Background()))

	err := w.Send(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	st := w.Status()
	assert.Equal(t, StatePreviewing, st.State)
	assert.NotEmpty(t, st.LastError)
	assert.True(t, st.HasImage, "image kept for retry")

	require.NoError(t, w.Send(context.Background()))
	require.Len(t, keys, 2)
	assert.Equal(t, keys[0], keys[1], "retry reuses the idempotency key")
	assert.Equal(t, StateIdle, w.Status().State)
}

func TestWorkflowDistributorFailure(t *testing.T) {
	rec := &recorder{err: errors.New("channel archived")}
	w := NewWorkflow(canvas.NewDemo("demo"), okRaster(), rec, Config{}, nil)
	require.NoError(t, w.Capture(context.Background()))

	assert.Error(t, w.Send(context.Background()))
	st := w.Status()
	assert.Equal(t, StatePreviewing, st.State)
	assert.Equal(t, "channel archived", st.LastError)
}

func TestUpdateDraftValidatesDestination(t *testing.T) {
	w := NewWorkflow(canvas.NewDemo("demo"), okRaster(), &recorder{}, Config{}, nil)
	require.NoError(t, w.Capture(context.Background()))

	bad := Destination("email")
	assert.ErrorIs(t, w.UpdateDraft(DraftPatch{Destination: &bad}), ErrInvalidDestination)
	assert.Equal(t, DestinationChannel, w.Status().Draft.Destination)
}

func TestImageDataURI(t *testing.T) {
	img := Image{Data: []byte("hi"), MIME: "image/png"}
	assert.Equal(t, "data:image/png;base64,aGk=", img.DataURI())
}
