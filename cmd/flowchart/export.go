package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) exportCmd() *cobra.Command {
	var (
		out  string
		demo bool
	)
	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Render a flowchart to PNG with headless Chrome",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := a.loadFlowchart(ctx, firstArg(args), demo)
			if err != nil {
				return err
			}

			raster := a.rasterizer(ctx)
			defer raster.Close()
			img, err := raster.Rasterize(ctx, f)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, img.Data, 0o644); err != nil {
				return err
			}
			good.Fprintf(cmd.OutOrStdout(), "wrote %s ", out)
			subtle.Fprintf(cmd.OutOrStdout(), "(%d bytes, %dx%d)\n", len(img.Data), img.Width, img.Height)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "flowchart.png", "output file")
	cmd.Flags().BoolVar(&demo, "demo", false, "export the built-in demo graph")
	return cmd
}

func (a *app) dumpCmd() *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "dump [id]",
		Short: "Print a flowchart as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.loadFlowchart(cmd.Context(), firstArg(args), demo)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(f); err != nil {
				return fmt.Errorf("dump: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "dump the built-in demo graph")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
