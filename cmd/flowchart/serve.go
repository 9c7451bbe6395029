package main

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/capture"
	"github.com/meikuraledutech/flowchart/server"
)

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var (
				store flowchart.Store
				sink  capture.ExportSink
			)
			if a.cfg.Database.URL != "" {
				pg, closeStore, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer closeStore()
				store, sink = pg, pg
			} else {
				a.log.Warn("No database configured; save and load are unavailable and private delivery is simulated")
			}

			raster := a.rasterizer(ctx)
			defer raster.Close()

			ws := server.NewWorkspace(raster, a.router(sink), a.captureConfig(), a.log)
			srv := server.New(ws, store, a.log)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				a.log.Info("Listening", zap.String("addr", a.cfg.Server.Addr))
				return srv.Listen(a.cfg.Server.Addr, fiber.ListenConfig{DisableStartupMessage: true})
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
				defer cancel()
				a.log.Info("Shutting down")
				return srv.ShutdownWithContext(shutdownCtx)
			})
			return g.Wait()
		},
	}
}
