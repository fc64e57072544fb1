package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newCourtsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courts",
		Short: "Manage the Playtomic court catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Refresh court names and types for every Playtomic club",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close(context.Background())

			report, err := rt.container.CourtCatalog.SyncPlaytomicCourts(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	})
	return cmd
}
