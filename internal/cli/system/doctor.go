package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/keyring"
	"github.com/julianstephens/studylit/internal/storage"
	"github.com/julianstephens/studylit/internal/storage/sqlite"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	fail := func(name string, err error) {
		ctx.Printf("❌ %s: FAIL\n", name)
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	}
	warn := func(name string, err error) {
		ctx.Printf("⚠ %s: WARNING\n", name)
		ctx.Printf("   %v\n", err)
	}
	ok := func(name string) {
		ctx.Printf("✓ %s: OK\n", name)
	}
	skip := func(name, reason string) {
		ctx.Printf("⊘ %s: SKIPPED (%s)\n", name, reason)
	}

	// Check 1: store reachable
	storeReachable := false
	if err := checkStoreReachable(ctx); err != nil {
		fail("Store reachable", err)
	} else {
		ok("Store reachable")
		storeReachable = true
	}

	// Check 2: migrations complete (local databases only)
	switch {
	case ctx.Local == nil:
		skip("Migrations complete", "REST backend")
	case !storeReachable:
		skip("Migrations complete", "store not reachable")
	default:
		if err := checkMigrationsComplete(ctx); err != nil {
			fail("Migrations complete", err)
		} else {
			ok("Migrations complete")
		}
	}

	// Check 3: settings valid
	switch {
	case ctx.Local == nil:
		skip("Settings", "REST backend")
	case !storeReachable:
		skip("Settings", "store not reachable")
	default:
		if err := checkSettings(ctx); err != nil {
			fail("Settings", err)
		} else {
			ok("Settings")
		}
	}

	// Check 4: record integrity (SQLite only)
	if storeReachable {
		if err := checkRecordIntegrity(ctx); err != nil {
			fail("Record integrity", err)
		} else {
			ok("Record integrity")
		}
	} else {
		skip("Record integrity", "store not reachable")
	}

	// Check 5: session user (warning only, the timer refuses to start without one)
	if id, resolved := ctx.Users.Resolve(); resolved {
		ctx.Printf("✓ Session user: OK (id %d)\n", id)
	} else {
		warn("Session user", fmt.Errorf("no user resolves - run '%s session set' or pass --user", constants.AppName))
	}

	// Check 6: keyring (warning only)
	if keyring.IsAvailable() {
		ok("OS keyring")
	} else {
		warn("OS keyring", errors.New("not available - use the "+constants.TokenEnvVar+" environment variable instead"))
	}

	// Check 7: backups present (SQLite only, warning only)
	if mgr, err := ctx.Backups(); err == nil {
		if backups, err := mgr.List(); err != nil {
			warn("Backups present", err)
		} else if len(backups) == 0 {
			warn("Backups present", fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName))
		} else {
			ctx.Printf("✓ Backups present: OK (%d)\n", len(backups))
		}
	}

	// Check 8: clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fail("Clock/timezone", err)
	} else {
		ok("Clock/timezone")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if ctx.Local == nil {
		// A REST backend is reachable when it answers for the current user
		id, resolved := ctx.Users.Resolve()
		if !resolved {
			return fmt.Errorf("cannot query the backend without a session user")
		}
		c, cancel := context.WithTimeout(context.Background(), constants.RemoteRequestTimeout)
		defer cancel()
		if _, err := ctx.Records.ListByUser(c, id); err != nil {
			return fmt.Errorf("failed to query backend: %w", err)
		}
		return nil
	}

	if err := ctx.Local.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if sqliteStore, ok := ctx.Local.(*sqlite.Store); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	pending, err := ctx.Local.PendingMigrations()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if pending > 0 {
		return fmt.Errorf("%d migration(s) pending - run '%s migrate'", pending, constants.AppName)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Local.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return storage.ValidateSettings(settings)
}

func checkRecordIntegrity(ctx *cli.Context) error {
	sqliteStore, ok := ctx.Local.(*sqlite.Store)
	if !ok {
		return nil // Not SQLite, the column types already enforce this
	}

	db := sqliteStore.GetDB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	var invalidCount int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM study_records
		WHERE record_date NOT GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]T*Z'
	`).Scan(&invalidCount)
	if err != nil {
		return fmt.Errorf("failed to check record dates: %w", err)
	}
	if invalidCount > 0 {
		return fmt.Errorf("found %d study records with invalid date format", invalidCount)
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
