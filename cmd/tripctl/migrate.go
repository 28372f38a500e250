package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/pkordes/trip-planner/internal/store"
)

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withMigrator(cmd.Context(), func(p *goose.Provider) error {
					results, err := p.Up(cmd.Context())
					if err != nil {
						return err
					}
					if len(results) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
					}
					for _, r := range results {
						printResult(cmd.OutOrStdout(), "applied", r)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withMigrator(cmd.Context(), func(p *goose.Provider) error {
					current, err := p.GetDBVersion(cmd.Context())
					if err != nil {
						return err
					}
					if current == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "nothing to roll back")
						return nil
					}
					r, err := p.Down(cmd.Context())
					if err != nil {
						return err
					}
					printResult(cmd.OutOrStdout(), "rolled back", r)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withMigrator(cmd.Context(), func(p *goose.Provider) error {
					statuses, err := p.Status(cmd.Context())
					if err != nil {
						return err
					}
					out := cmd.OutOrStdout()
					for _, s := range statuses {
						applied := "pending"
						if s.State == goose.StateApplied {
							applied = s.AppliedAt.Format("2006-01-02 15:04:05")
						}
						fmt.Fprintf(out, "%-6d %-20s %s\n", s.Source.Version, applied, s.Source.Path)
					}
					return nil
				})
			},
		},
	)
	return cmd
}

func (a *app) withMigrator(ctx context.Context, fn func(*goose.Provider) error) error {
	sc := a.cfg.StoreConfig()
	db, err := store.OpenSQL(ctx, sc)
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := store.NewMigrator(sc.Dialect(), db)
	if err != nil {
		return err
	}
	a.log.Debug("running migrations", "backend", sc.Backend())
	return fn(p)
}

func printResult(w io.Writer, verb string, r *goose.MigrationResult) {
	fmt.Fprintf(w, "%s %d %s (%s)\n", verb, r.Source.Version, r.Source.Path, r.Duration.Round(1e6))
}
