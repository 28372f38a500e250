package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/config"
	"github.com/pkordes/trip-planner/internal/service"
	"github.com/pkordes/trip-planner/internal/store"
)

type app struct {
	verbose bool
	cfg     config.Config
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "tripctl",
		Short: "Operate the trip planner store",
		Long: `tripctl runs database migrations and exports trips without going
through the HTTP API. It reads the same environment (and .env file) as the
server: DATABASE_URL selects Postgres, otherwise SQLITE_PATH is used.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelWarn
			if a.verbose {
				level = slog.LevelDebug
			}
			a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(a.migrateCmd(), a.calendarCmd(), a.showCmd())
	return root
}

// openTrips opens the store, migrating it first, and returns the trip service
// on top of it. The caller closes the store.
func (a *app) openTrips(ctx context.Context) (*store.Store, *service.TripService, error) {
	st, err := store.Open(ctx, a.cfg.StoreConfig(), a.log)
	if err != nil {
		return nil, nil, err
	}
	return st, service.NewTripService(st.Trips, st.Items, st.Participants, a.log), nil
}

// writeOutput writes body to path, or to stdout when path is empty or "-".
func writeOutput(cmd *cobra.Command, path string, body []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", path, len(body))
	return nil
}
