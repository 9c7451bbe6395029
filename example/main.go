package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/canvas"
	"github.com/meikuraledutech/flowchart/capture"
	"github.com/meikuraledutech/flowchart/postgres"
)

func main() {
	ctx := context.Background()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// ── Open the demo canvas ──────────────────────────────────────────
	c := canvas.NewDemo("walkthrough", canvas.WithLogger(logger))
	vp := canvas.NewViewport()
	ctl := canvas.NewController(c, vp, logger)
	insp := canvas.NewInspector(c)

	nodes, edges := c.Len()
	fmt.Printf("demo canvas: %d nodes, %d edges\n", nodes, edges)

	// ── Drag a palette item onto the canvas ───────────────────────────
	vp.Set(-100, 0, 1.25)
	dt := canvas.MapTransfer{}
	for _, item := range flowchart.Palette() {
		if item.Type == flowchart.TypeAPI {
			ctl.DragStart(item, dt)
		}
	}
	apiID, ok := ctl.Drop(dt, canvas.Point{X: 400, Y: 1000})
	if !ok {
		logger.Fatal("drop ignored")
	}
	n, _ := c.Node(apiID)
	fmt.Printf("\ndropped %s at (%.0f, %.0f)\n", apiID, n.Position.X, n.Position.Y)

	// ── Connect and edit it ───────────────────────────────────────────
	edgeID, _ := ctl.Connect(canvas.Connection{Source: "end-1", Target: apiID})
	fmt.Printf("connected end-1 -> %s with %s\n", apiID, edgeID)

	ctl.ClickNode(apiID)
	insp.SetLabel("Publish build")
	if _, err := insp.SetStatus(flowchart.StatusInProgress); err != nil {
		logger.Fatal("set status", zap.Error(err))
	}
	n, _ = insp.Current()
	printJSON(n)

	// ── Delete a node; its edges go with it ───────────────────────────
	c.DeleteNode("process-2")
	nodes, edges = c.Len()
	fmt.Printf("\nafter deleting process-2: %d nodes, %d edges\n", nodes, edges)

	// ── Capture and distribute ────────────────────────────────────────
	// The rendered HTML document stands in for a screenshot so the
	// walkthrough runs without a browser.
	raster := capture.RasterizerFunc(func(_ context.Context, f *flowchart.Flowchart) (capture.Image, error) {
		doc, err := capture.RenderDocument(f, capture.RenderOptions{})
		if err != nil {
			return capture.Image{}, err
		}
		return capture.Image{Data: []byte(doc), MIME: "text/html"}, nil
	})
	router := capture.Router{
		capture.DestinationChannel: capture.Simulated{Delay: 300 * time.Millisecond},
		capture.DestinationPrivate: capture.Simulated{Delay: 300 * time.Millisecond},
	}
	wf := capture.NewWorkflow(c, raster, router, capture.Config{}, logger)

	if err := wf.Capture(ctx); err != nil {
		logger.Fatal("capture", zap.Error(err))
	}
	title := "Walkthrough snapshot"
	if err := wf.UpdateDraft(capture.DraftPatch{Title: &title}); err != nil {
		logger.Fatal("draft", zap.Error(err))
	}
	fmt.Println("\npreviewing:")
	printJSON(wf.Status())

	if err := wf.Send(ctx); err != nil {
		logger.Fatal("send", zap.Error(err))
	}
	fmt.Printf("sent, workflow is %s\n", wf.Status().State)

	// ── Persist when a database is available ──────────────────────────
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		fmt.Println("\nDATABASE_URL is not set, skipping persistence")
		return
	}
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal("connect", zap.Error(err))
	}
	defer pool.Close()

	var store flowchart.Store = postgres.New(pool)
	if err := store.CreateSchema(ctx); err != nil {
		logger.Fatal("schema", zap.Error(err))
	}
	if _, err := store.SaveFlowchart(ctx, c.Flowchart()); err != nil {
		logger.Fatal("save", zap.Error(err))
	}
	saved, err := store.GetFlowchart(ctx, c.ID())
	if err != nil {
		logger.Fatal("get", zap.Error(err))
	}
	fmt.Printf("\nsaved and reloaded %q: %d nodes, %d edges\n", saved.ID, len(saved.Nodes), len(saved.Edges))

	if err := store.DeleteFlowchart(ctx, c.ID()); err != nil {
		logger.Fatal("delete", zap.Error(err))
	}
	fmt.Println("flowchart deleted")
}

func printJSON(v any) {
	out, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(out))
}
