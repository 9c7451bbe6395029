package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meikuraledutech/flowchart"
	"github.com/meikuraledutech/flowchart/canvas"
	"github.com/meikuraledutech/flowchart/capture"
	"github.com/meikuraledutech/flowchart/internal/config"
	"github.com/meikuraledutech/flowchart/internal/observability"
	"github.com/meikuraledutech/flowchart/postgres"
)

var (
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed, color.Bold)
	subtle = color.New(color.FgHiBlack)
)

var errNoDatabase = errors.New("database.url is not set (FLOWCHART_DATABASE_URL)")

// app carries what every subcommand needs after the config is loaded.
type app struct {
	cfgFile string
	cfg     *config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "flowchart",
		Short:         "Flowchart editor core: HTTP API, terminal editor and exports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.New(a.cfgFile))
			if err != nil {
				return err
			}
			a.cfg = cfg
			// The terminal editor owns stdout.
			if cmd.Name() == "edit" {
				a.log = observability.NewFileLogger(cfg.Logger)
			} else {
				a.log = observability.NewLogger(cfg.Logger)
			}
			zap.ReplaceGlobals(a.log)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default ./flowchart.yaml)")

	root.AddCommand(
		a.serveCmd(),
		a.schemaCmd(),
		a.exportCmd(),
		a.dumpCmd(),
		a.editCmd(),
	)
	return root
}

// openStore connects to PostgreSQL. The returned func closes the pool.
func (a *app) openStore(ctx context.Context) (*postgres.PGStore, func(), error) {
	if a.cfg.Database.URL == "" {
		return nil, nil, errNoDatabase
	}
	pool, err := pgxpool.New(ctx, a.cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return postgres.New(pool), pool.Close, nil
}

// loadFlowchart returns the demo graph or the stored flowchart id.
func (a *app) loadFlowchart(ctx context.Context, id string, demo bool) (*flowchart.Flowchart, error) {
	if demo || id == "" {
		f := canvas.Bootstrap()
		f.ID = "demo"
		return f, nil
	}
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	f, err := store.GetFlowchart(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("%w: %q", flowchart.ErrFlowchartNotFound, id)
	}
	return f, nil
}

func (a *app) rasterizer(ctx context.Context) *capture.ChromeRasterizer {
	c := a.cfg.Capture
	return capture.NewChromeRasterizer(ctx, capture.ChromeConfig{
		Headless:    c.Headless,
		Width:       c.ViewportWidth,
		Height:      c.ViewportHeight,
		Stylesheets: c.Stylesheets,
		Origin:      c.Origin,
		SkipFonts:   c.SkipFonts,
		Timeout:     c.RenderTimeout,
	}, a.log)
}

// router picks a distributor per destination. Without a webhook or a
// database the destination falls back to the simulated delivery.
func (a *app) router(sink capture.ExportSink) capture.Router {
	c := a.cfg.Capture
	r := capture.Router{
		capture.DestinationChannel: capture.Simulated{Delay: c.SimulateDelay},
		capture.DestinationPrivate: capture.Simulated{Delay: c.SimulateDelay},
	}
	if c.ChannelWebhookURL != "" {
		r[capture.DestinationChannel] = capture.NewWebhook(c.ChannelWebhookURL, a.log)
	}
	if sink != nil {
		r[capture.DestinationPrivate] = capture.Storage{Sink: sink}
	}
	return r
}

func (a *app) captureConfig() capture.Config {
	c := a.cfg.Capture
	return capture.Config{
		DefaultTitle:       c.DefaultTitle,
		DefaultCategory:    c.DefaultCategory,
		DefaultDestination: capture.Destination(c.DefaultDestination),
		SendTimeout:        c.SendTimeout,
	}
}
