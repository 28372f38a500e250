package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/money"
	"github.com/pkordes/trip-planner/internal/service"
)

func (a *app) calendarCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "calendar <token>",
		Short:   "Write a trip's iCalendar file",
		Example: `  tripctl calendar 0123456789abcdef0123456789abcdef -o lisbon.ics`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, trips, err := a.openTrips(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			ics, err := service.NewExportService(trips).Calendar(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, ics)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <token>",
		Short: "Print a trip summary with costs per category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, trips, err := a.openTrips(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			v, err := trips.View(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

// printSummary renders v as plain text.
func printSummary(w io.Writer, v domain.TripView) {
	t := v.Trip
	fmt.Fprintf(w, "%s - %s\n", t.Title, t.Destination)
	fmt.Fprintf(w, "%s to %s (%d days), %s\n", t.StartDate.Format("2006-01-02"), t.EndDate.Format("2006-01-02"), t.Days(), t.Currency)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	for _, c := range v.CategoriesPresent() {
		fmt.Fprintf(w, "\n%s\n", c.Label())
		for _, it := range v.Groups[c] {
			when := "          "
			if it.Date != nil {
				when = it.Date.Format("2006-01-02")
			}
			cost := ""
			if it.Cost != nil {
				cost = money.Format(*it.Cost)
			}
			fmt.Fprintf(w, "  %s  %-36s %14s\n", when, it.Title, cost)
		}
		fmt.Fprintf(w, "  %-48s %14s\n", "Subtotal", money.Format(v.TotalByCategory[c]))
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-50s %14s\n", "Total", money.Format(v.Total))
	fmt.Fprintf(w, "%-50s %14s\n", fmt.Sprintf("Per person (%d)", len(v.Participants)), money.Format(v.PerPerson))
	if len(v.Participants) > 0 {
		names := make([]string, 0, len(v.Participants))
		for _, p := range v.Participants {
			names = append(names, p.Name)
		}
		fmt.Fprintf(w, "Participants: %s\n", strings.Join(names, ", "))
	}
}
