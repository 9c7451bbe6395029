package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/canvas"
)

// newTestStore connects to DATABASE_URL and creates the schema. Tests that
// need a database skip when it is not set.
func newTestStore(t *testing.T) *PGStore {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL is not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	s := New(pool)
	require.NoError(t, s.CreateSchema(context.Background()))
	return s
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, isNoRows(pgx.ErrNoRows))
	assert.True(t, isNoRows(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)))
	assert.False(t, isNoRows(errors.New("no rows in result set, but not really")))
	assert.False(t, isNoRows(nil))
}

func TestSaveAndGetFlowchart(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	f := canvas.Bootstrap()
	f.ID = "test-" + uuid.NewString()
	t.Cleanup(func() { _ = s.DeleteFlowchart(ctx, f.ID) })

	_, err := s.SaveFlowchart(ctx, f)
	require.NoError(t, err)

	got, err := s.GetFlowchart(ctx, f.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, f.Name, got.Name)
	assert.Equal(t, f.Nodes, got.Nodes)
	assert.Equal(t, f.Edges, got.Edges)

	t.Run("save replaces", func(t *testing.T) {
		c := canvas.New(f.ID)
		require.NoError(t, c.Load(got))
		c.DeleteNode("process-1")
		_, err := s.SaveFlowchart(ctx, c.Flowchart())
		require.NoError(t, err)

		again, err := s.GetFlowchart(ctx, f.ID)
		require.NoError(t, err)
		assert.Len(t, again.Nodes, 4)
		assert.Len(t, again.Edges, 2)
	})

	t.Run("listed", func(t *testing.T) {
		list, err := s.ListFlowcharts(ctx)
		require.NoError(t, err)
		var found bool
		for _, sm := range list {
			if sm.ID == f.ID {
				found = true
				assert.Equal(t, 4, sm.Nodes)
			}
		}
		assert.True(t, found)
	})

	t.Run("invalid graph rejected", func(t *testing.T) {
		bad := canvas.Bootstrap()
		bad.ID = f.ID
		bad.Edges[0].Target = "ghost"
		_, err := s.SaveFlowchart(ctx, bad)
		assert.ErrorIs(t, err, flowchart.ErrDanglingEdge)
	})

	require.NoError(t, s.DeleteFlowchart(ctx, f.ID))
	gone, err := s.GetFlowchart(ctx, f.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSaveExportIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	key := uuid.NewString()
	first, err := s.SaveExport(ctx, &flowchart.Export{
		FlowchartID:    "demo",
		Title:          "Map",
		IdempotencyKey: key,
		MIME:           "image/png",
		Image:          []byte{1, 2, 3},
	})
	require.NoError(t, err)

	second, err := s.SaveExport(ctx, &flowchart.Export{
		FlowchartID:    "demo",
		Title:          "Map again",
		IdempotencyKey: key,
		MIME:           "image/png",
		Image:          []byte{4},
	})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	e, err := s.GetExport(ctx, first)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "Map", e.Title)
	assert.Equal(t, []byte{1, 2, 3}, e.Image)

	missing, err := s.GetExport(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, missing)
}
