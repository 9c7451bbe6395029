package capture

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/flowchart"
)

func TestRouter(t *testing.T) {
	var hit Destination
	r := Router{
		DestinationChannel: DistributorFunc(func(_ context.Context, d Delivery) error {
			hit = d.Destination
			return nil
		}),
	}

	require.NoError(t, r.Deliver(context.Background(), Delivery{Destination: DestinationChannel}))
	assert.Equal(t, DestinationChannel, hit)

	err := r.Deliver(context.Background(), Delivery{Destination: DestinationPrivate})
	assert.ErrorIs(t, err, ErrNoRoute)
}

func TestSimulated(t *testing.T) {
	require.NoError(t, Simulated{Delay: time.Millisecond}.Deliver(context.Background(), Delivery{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Simulated{Delay: time.Hour}.Deliver(ctx, Delivery{})
	assert.ErrorIs(t, err, context.Canceled)
}

type memSink struct {
	saved []*flowchart.Export
}

func (m *memSink) SaveExport(_ context.Context, e *flowchart.Export) (string, error) {
	m.saved = append(m.saved, e)
	return "exp-1", nil
}

func TestStorage(t *testing.T) {
	sink := &memSink{}
	err := Storage{Sink: sink}.Deliver(context.Background(), Delivery{
		IdempotencyKey: "k1",
		FlowchartID:    "demo",
		Title:          "Map",
		Category:       "Architecture",
		Destination:    DestinationPrivate,
		Image:          png,
	})
	require.NoError(t, err)
	require.Len(t, sink.saved, 1)
	assert.Equal(t, "k1", sink.saved[0].IdempotencyKey)
	assert.Equal(t, "image/png", sink.saved[0].MIME)
	assert.Equal(t, png.Data, sink.saved[0].Image)
}

func TestWebhook(t *testing.T) {
	var (
		gotKey  string
		payload webhookPayload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, nil)
	err := wh.Deliver(context.Background(), Delivery{
		IdempotencyKey: "key-123",
		FlowchartID:    "demo",
		Title:          "Lifecycle",
		Category:       "Architecture",
		Image:          Image{Data: []byte("hi"), MIME: "image/png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "key-123", gotKey)
	assert.Equal(t, "Lifecycle", payload.Title)
	assert.Equal(t, "data:image/png;base64,aGk=", payload.Image)

	t.Run("non-2xx is a failure", func(t *testing.T) {
		bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "channel not found", http.StatusNotFound)
		}))
		defer bad.Close()

		err := NewWebhook(bad.URL, nil).Deliver(context.Background(), Delivery{})
		assert.ErrorContains(t, err, "404")
	})
}
