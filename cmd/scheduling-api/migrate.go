package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/course-scheduling-api/pkg/database"
)

func newMigrateCmd(rt *cliContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := database.NewMigrator(rt.cfg.Database, rt.log)
			if err != nil {
				return err
			}
			defer m.Close() //nolint:errcheck
			return m.Up()
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := database.NewMigrator(rt.cfg.Database, rt.log)
			if err != nil {
				return err
			}
			defer m.Close() //nolint:errcheck
			return m.Down(steps)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := database.NewMigrator(rt.cfg.Database, rt.log)
			if err != nil {
				return err
			}
			defer m.Close() //nolint:errcheck
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
			return nil
		},
	})
	return cmd
}
