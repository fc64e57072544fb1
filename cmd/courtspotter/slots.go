package main

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/spf13/cobra"
)

type slotView struct {
	ID         string    `json:"id"`
	ClubID     string    `json:"clubId"`
	ClubName   string    `json:"clubName"`
	CourtName  string    `json:"courtName"`
	CourtType  string    `json:"courtType"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Price      float64   `json:"price"`
	Currency   string    `json:"currency"`
	BookingURL string    `json:"bookingUrl,omitempty"`
	Provider   string    `json:"provider"`
}

func toSlotView(s availability.Slot) slotView {
	return slotView{
		ID:         s.ID,
		ClubID:     s.ClubID,
		ClubName:   s.ClubName,
		CourtName:  s.CourtName,
		CourtType:  string(s.CourtType),
		StartTime:  s.StartTime.UTC(),
		EndTime:    s.EndTime.UTC(),
		Price:      s.Price,
		Currency:   s.Currency,
		BookingURL: s.BookingURL,
		Provider:   string(s.Provider),
	}
}

type slotsListOptions struct {
	from      string
	to        string
	durations []time.Duration
	clubIDs   []string
	courtType string
}

func (o slotsListOptions) window(now time.Time) (time.Time, time.Time, error) {
	start := now.UTC()
	if o.from != "" {
		parsed, err := time.Parse(time.RFC3339, o.from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse --from: %w", err)
		}
		start = parsed.UTC()
	}
	end := start.Add(24 * time.Hour)
	if o.to != "" {
		parsed, err := time.Parse(time.RFC3339, o.to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse --to: %w", err)
		}
		end = parsed.UTC()
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("--from must be before --to")
	}
	return start, end, nil
}

func (o slotsListOptions) filter() (availability.Filter, error) {
	filter := availability.Filter{
		Durations: o.durations,
		ClubIDs:   o.clubIDs,
	}
	if o.courtType != "" {
		ct, ok := availability.ParseCourtType(o.courtType)
		if !ok {
			return availability.Filter{}, fmt.Errorf("invalid --court-type %q", o.courtType)
		}
		filter.CourtType = &ct
	}
	return filter, nil
}

func newSlotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Query stored availability",
	}
	cmd.AddCommand(newSlotsListCmd())
	return cmd
}

func newSlotsListCmd() *cobra.Command {
	var opts slotsListOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored slots inside a time window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := opts.window(time.Now())
			if err != nil {
				return err
			}
			filter, err := opts.filter()
			if err != nil {
				return err
			}

			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close(context.Background())

			slots, err := rt.container.Availability.Query(cmd.Context(), start, end, filter)
			if err != nil {
				return err
			}
			out := make([]slotView, 0, len(slots))
			for _, s := range slots {
				out = append(out, toSlotView(s))
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&opts.from, "from", "", "window start (RFC3339), defaults to now")
	cmd.Flags().StringVar(&opts.to, "to", "", "window end (RFC3339), defaults to from + 24h")
	cmd.Flags().DurationSliceVar(&opts.durations, "duration", nil, "slot durations to include, e.g. 60m,90m")
	cmd.Flags().StringSliceVar(&opts.clubIDs, "club", nil, "club ids to include")
	cmd.Flags().StringVar(&opts.courtType, "court-type", "", "indoor or outdoor")
	return cmd
}
