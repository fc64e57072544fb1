package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one availability sync cycle and print its report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			at, err := parseAsOf(asOf)
			if err != nil {
				return err
			}

			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close(context.Background())

			report, err := rt.container.Sync.RunSyncCycle(cmd.Context(), at)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().StringVar(&asOf, "as-of", "", "cycle reference time (RFC3339), defaults to now")
	return cmd
}

func parseAsOf(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --as-of: %w", err)
	}
	return at.UTC(), nil
}
