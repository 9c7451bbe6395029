package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/capture"
	"github.com/meikuraledutech/flowchart/internal/config"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("FLOWCHART_LOGGER_LEVEL", "error")
	t.Setenv("FLOWCHART_DATABASE_URL", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDumpDemo(t *testing.T) {
	out, err := run(t, "dump", "--demo")
	require.NoError(t, err)

	var f flowchart.Flowchart
	require.NoError(t, yaml.Unmarshal([]byte(out), &f))
	assert.Equal(t, "demo", f.ID)
	assert.Equal(t, "Project Lifecycle Draft", f.Name)
	assert.Len(t, f.Nodes, 5)
	assert.Len(t, f.Edges, 5)
	assert.Equal(t, flowchart.StatusInProgress, f.Nodes[1].Data.Status)
}

func TestStoreCommandsNeedDatabase(t *testing.T) {
	_, err := run(t, "schema", "create")
	assert.ErrorIs(t, err, errNoDatabase)

	_, err = run(t, "dump", "some-id")
	assert.ErrorIs(t, err, errNoDatabase)
}

type nopSink struct{}

func (nopSink) SaveExport(context.Context, *flowchart.Export) (string, error) { return "", nil }

func TestRouter(t *testing.T) {
	a := &app{cfg: &config.Config{Capture: config.CaptureConfig{SimulateDelay: time.Millisecond}}}

	r := a.router(nil)
	assert.IsType(t, capture.Simulated{}, r[capture.DestinationChannel])
	assert.IsType(t, capture.Simulated{}, r[capture.DestinationPrivate])

	a.cfg.Capture.ChannelWebhookURL = "http://hooks.local/channel"
	r = a.router(nopSink{})
	assert.IsType(t, &capture.Webhook{}, r[capture.DestinationChannel])
	assert.IsType(t, capture.Storage{}, r[capture.DestinationPrivate])
}

func TestCaptureConfig(t *testing.T) {
	a := &app{cfg: &config.Config{Capture: config.CaptureConfig{
		DefaultCategory:    "Planning",
		DefaultDestination: "private",
		SendTimeout:        time.Second,
	}}}
	c := a.captureConfig()
	assert.Equal(t, capture.DestinationPrivate, c.DefaultDestination)
	assert.Equal(t, "Planning", c.DefaultCategory)
	assert.Equal(t, time.Second, c.SendTimeout)
}
