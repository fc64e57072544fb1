package main

import (
	"context"
	"fmt"

	"github.com/riskibarqy/court-spotter/internal/domain/club"
	"github.com/riskibarqy/court-spotter/internal/infrastructure/repository/memory"
	"github.com/spf13/cobra"
)

type clubView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Provider   string `json:"provider"`
	TimeZone   string `json:"timeZone,omitempty"`
	PagesCount *int   `json:"pagesCount,omitempty"`
}

func toClubView(c club.Club) clubView {
	return clubView{
		ID:         c.ID,
		Name:       c.Name,
		Provider:   string(c.Provider),
		TimeZone:   c.TimeZone,
		PagesCount: c.PagesCount,
	}
}

func newClubsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clubs",
		Short: "Manage the club registry",
	}
	cmd.AddCommand(newClubsImportCmd(), newClubsGetCmd(), newClubsListCmd())
	return cmd
}

func newClubsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <seed.yaml>",
		Short: "Validate a YAML club seed and upsert it into the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clubs, err := memory.LoadClubSeed(args[0])
			if err != nil {
				return err
			}

			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close(context.Background())

			n, err := rt.container.Registry.Import(cmd.Context(), clubs)
			if err != nil {
				return err
			}
			rt.logger.Info("clubs imported", "count", n, "file", args[0])
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d club(s)\n", n)
			return err
		},
	}
}

func newClubsGetCmd() *cobra.Command {
	var byName bool

	cmd := &cobra.Command{
		Use:   "get <id|name>",
		Short: "Look up one club by id, or by name with --name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close(context.Background())

			var c club.Club
			if byName {
				c, err = rt.container.Registry.GetByName(cmd.Context(), args[0])
			} else {
				c, err = rt.container.Registry.GetByID(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), toClubView(c))
		},
	}
	cmd.Flags().BoolVar(&byName, "name", false, "treat the argument as a case-insensitive club name")
	return cmd
}

func newClubsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every registered club",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close(context.Background())

			clubs, err := rt.container.Registry.List(cmd.Context())
			if err != nil {
				return err
			}
			out := make([]clubView, 0, len(clubs))
			for _, c := range clubs {
				out = append(out, toClubView(c))
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}
