package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/cli/backups"
	"github.com/julianstephens/studylit/internal/cli/history"
	"github.com/julianstephens/studylit/internal/cli/sessions"
	"github.com/julianstephens/studylit/internal/cli/settings"
	"github.com/julianstephens/studylit/internal/cli/system"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/errors"
	"github.com/julianstephens/studylit/internal/keyring"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/session"
	"github.com/julianstephens/studylit/internal/storage"
	"github.com/julianstephens/studylit/internal/storage/postgres"
	"github.com/julianstephens/studylit/internal/storage/remote"
	"github.com/julianstephens/studylit/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Store   string `help:"SQLite path, PostgreSQL connection string or REST backend URL. PostgreSQL credentials must NOT be embedded; use the OS keyring or .pgpass instead." env:"STUDYLIT_STORE" default:"${default_store}"`
	Debug   bool   `help:"Enable debug logging."`
	User    int64  `help:"Study as this user id instead of the stored session token." env:"STUDYLIT_USER"`
	Labels  string `help:"History header language (en or tr). Overrides the stored setting."`

	Init     system.InitCmd       `cmd:"" help:"Initialize studylit storage."`
	Migrate  system.MigrateCmd    `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the pomodoro timer." default:"1"`
	History  history.HistoryCmd   `cmd:"" help:"Show study history grouped by day."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage default durations and labels."`
	Session  sessions.SessionCmd  `cmd:"" help:"Manage the session token that identifies the current user."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage SQLite database backups."`
	Keyring  system.KeyringCmd    `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	DebugCmd system.DebugCmd      `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// openStore builds the record store for location. local is nil for REST backends.
func openStore(location string, tokens session.TokenStore) (storage.RecordStore, storage.Provider, error) {
	switch storage.DetectKind(location) {
	case storage.KindPostgres:
		if err := postgres.ValidateConnString(location); err != nil {
			return nil, nil, err
		}
		store := postgres.New(location)
		return store, store, nil
	case storage.KindRemote:
		client, err := remote.NewClient(location, tokens)
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil
	}

	// The default SQLite path gives way to a connection string kept in the keyring.
	if location == expandHome(constants.DefaultConfigPath) {
		if connStr, err := keyring.GetConnectionString(); err == nil && connStr != "" {
			logger.Debug("Using PostgreSQL connection string from keyring")
			store := postgres.New(connStr)
			return store, store, nil
		}
	}
	store := sqlite.NewStore(location)
	return store, store, nil
}

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Pomodoro study timer with per-day study history"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":       constants.Version,
			"default_store": constants.DefaultConfigPath,
		},
	)

	location := expandHome(CLI.Store)
	configDir := filepath.Dir(expandHome(constants.DefaultConfigPath))
	if storage.DetectKind(location) == storage.KindSQLite {
		configDir = filepath.Dir(location)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir,
		Quiet:     ctx.Command() == "tui",
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	labels := constants.LabelSet(CLI.Labels)
	switch labels {
	case "", constants.LabelsEnglish, constants.LabelsTurkish:
	default:
		errors.Fatal(fmt.Errorf("unknown label set %q (want en or tr)", CLI.Labels))
	}

	tokens := session.DefaultTokenStore()
	records, local, err := openStore(location, tokens)
	if err != nil {
		errors.Fatal(err)
	}
	if local != nil {
		defer local.Close()
	}

	var users session.Provider = session.TokenProvider{Tokens: tokens}
	if CLI.User > 0 {
		users = session.Static(CLI.User)
	}

	appCtx := &cli.Context{
		Records:   records,
		Local:     local,
		Users:     users,
		Tokens:    tokens,
		Labels:    labels,
		ConfigDir: configDir,
	}

	if err := ctx.Run(appCtx); err != nil {
		logger.Error("Command execution failed", "command", ctx.Command(), "error", err)
		fmt.Fprintln(os.Stderr, errors.Format(err))
		if local != nil {
			local.Close()
		}
		os.Exit(1)
	}
}
