package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/meikuraledutech/flowchart/canvas"
	"github.com/meikuraledutech/flowchart/capture"
	"github.com/meikuraledutech/flowchart/tui"
)

func (a *app) editCmd() *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Edit a flowchart in the terminal",
		Long:  "Open a stored flowchart, or the demo graph when no id is given, in the terminal editor.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := firstArg(args)
			f, err := a.loadFlowchart(ctx, id, false)
			if err != nil {
				return err
			}
			c := canvas.New(f.ID, canvas.WithLogger(a.log))
			if err := c.Load(f); err != nil {
				return err
			}

			var sink capture.ExportSink
			if a.cfg.Database.URL != "" {
				store, closeStore, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer closeStore()
				sink = store
				if save && id != "" {
					defer func() {
						if _, err := store.SaveFlowchart(ctx, c.Flowchart()); err != nil {
							bad.Fprintln(cmd.ErrOrStderr(), "save failed:", err)
							return
						}
						good.Fprintln(cmd.OutOrStdout(), "saved", c.ID())
					}()
				}
			}

			raster := a.rasterizer(ctx)
			defer raster.Close()
			wf := capture.NewWorkflow(c, raster, a.router(sink), a.captureConfig(), a.log)

			p := tea.NewProgram(tui.New(ctx, c, wf, a.log), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save the flowchart back when the editor closes")
	return cmd
}
