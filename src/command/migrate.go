package command

import (
	"context"
	"errors"
	"fmt"

	"memo-api/src/config"
	"memo-api/src/database"
	"memo-api/src/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var errMigrateRequiresPostgres = errors.New("migrations require DB_DRIVER=postgres")

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			return runMigrate(cmd.Context(), config.LoadConfig(), direction)
		},
	}
}

func runMigrate(ctx context.Context, cfg *config.Config, direction string) error {
	if cfg.Database.Driver == "memory" {
		return errMigrateRequiresPostgres
	}

	log := logger.Log
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}

	db, err := database.NewDB(cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	switch direction {
	case "up":
		return db.Migrate(ctx)
	case "down":
		return db.Rollback(ctx)
	case "status":
		return db.MigrationStatus(ctx)
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
}
