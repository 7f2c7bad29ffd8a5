package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/course-scheduling-api/pkg/config"
	"github.com/noah-isme/course-scheduling-api/pkg/logger"
)

// cliContext carries what every subcommand needs after bootstrap.
type cliContext struct {
	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	rt := &cliContext{}
	root := &cobra.Command{
		Use:           "scheduling-api",
		Short:         "Course scheduling and teacher availability service",
		Long:          "Serves the scheduling API and runs one-off maintenance tasks such as migrations and holiday seeding.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log, err := logger.New(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			rt.cfg, rt.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt.log != nil {
				_ = rt.log.Sync()
			}
		},
	}

	root.AddCommand(
		newServeCmd(rt),
		newMigrateCmd(rt),
		newHolidaysCmd(rt),
		newProjectCmd(rt),
	)
	return root
}
