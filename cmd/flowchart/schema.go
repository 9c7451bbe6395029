package main

import (
	"github.com/spf13/cobra"
)

func (a *app) schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Create or drop the PostgreSQL tables",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create",
			Short: "Create the tables if they do not exist",
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, closeStore, err := a.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer closeStore()
				if err := store.CreateSchema(cmd.Context()); err != nil {
					return err
				}
				good.Fprintln(cmd.OutOrStdout(), "schema created")
				return nil
			},
		},
		&cobra.Command{
			Use:   "drop",
			Short: "Drop the tables and everything in them",
			RunE: func(cmd *cobra.Command, _ []string) error {
				store, closeStore, err := a.openStore(cmd.Context())
				if err != nil {
					return err
				}
				defer closeStore()
				if err := store.DropSchema(cmd.Context()); err != nil {
					return err
				}
				good.Fprintln(cmd.OutOrStdout(), "schema dropped")
				return nil
			},
		},
	)
	return cmd
}
