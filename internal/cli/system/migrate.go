package system

import (
	"fmt"

	"github.com/julianstephens/studylit/internal/cli"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	local, err := ctx.RequireLocal()
	if err != nil {
		return err
	}

	// Load rejects schemas newer than this binary
	if err := local.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	pending, err := local.PendingMigrations()
	if err != nil {
		return fmt.Errorf("failed to check migrations: %w", err)
	}
	if pending > 0 {
		ctx.PerformAutomaticBackup()
	}

	count, err := local.Migrate(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
