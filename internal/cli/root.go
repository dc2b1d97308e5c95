package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/studylit/internal/backup"
	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/logger"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/pomodoro"
	"github.com/julianstephens/studylit/internal/session"
	"github.com/julianstephens/studylit/internal/storage"
	"github.com/julianstephens/studylit/internal/storage/sqlite"
)

type Context struct {
	// Records receives and lists study records. For database stores it is Local.
	Records storage.RecordStore
	// Local is nil when the store is a REST backend.
	Local  storage.Provider
	Users  session.Provider
	Tokens session.TokenStore

	// Labels overrides the stored label setting when set.
	Labels    constants.LabelSet
	Location  *time.Location
	ConfigDir string
	Out       io.Writer
}

type remoteStoreError struct{}

func (remoteStoreError) Error() string {
	return "this command needs a local database, but --store points at a REST backend"
}

func (remoteStoreError) Hint() string {
	return "pass --store with a SQLite path or a postgres:// connection string"
}

// ErrRemoteStore is returned by commands that only work against a local database.
var ErrRemoteStore error = remoteStoreError{}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Stdout(), args...)
}

// RequireLocal returns the local database without opening it.
func (c *Context) RequireLocal() (storage.Provider, error) {
	if c.Local == nil {
		return nil, ErrRemoteStore
	}
	return c.Local, nil
}

// LoadLocal opens the local database.
func (c *Context) LoadLocal() (storage.Provider, error) {
	local, err := c.RequireLocal()
	if err != nil {
		return nil, err
	}
	if err := local.Load(); err != nil {
		return nil, err
	}
	return local, nil
}

type sqliteOnlyError struct{}

func (sqliteOnlyError) Error() string {
	return "backups are only supported for SQLite stores"
}

func (sqliteOnlyError) Hint() string {
	return "use pg_dump for PostgreSQL; REST backends keep their own records"
}

// ErrNotSQLite is returned by backup commands run against other stores.
var ErrNotSQLite error = sqliteOnlyError{}

// Backups returns the backup manager of a SQLite store.
func (c *Context) Backups() (*backup.Manager, error) {
	local, err := c.RequireLocal()
	if err != nil {
		return nil, err
	}
	if _, ok := local.(*sqlite.Store); !ok {
		return nil, ErrNotSQLite
	}
	return backup.NewManager(local.GetConfigPath()), nil
}

// PerformAutomaticBackup snapshots a SQLite store and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.Backups()
	if err != nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// LoadStore opens the record store if it is a local database. REST backends
// need no loading.
func (c *Context) LoadStore() error {
	if c.Local == nil {
		return nil
	}
	return c.Local.Load()
}

// Settings returns the persisted defaults, falling back to the built-in ones
// for REST backends or unreadable settings.
func (c *Context) Settings() models.Settings {
	settings := models.DefaultSettings()
	if c.Local != nil {
		stored, err := c.Local.GetSettings()
		if err != nil {
			logger.Warn("Using default settings", "error", err)
		} else {
			settings = stored
		}
	}
	if c.Labels != "" {
		settings.Labels = c.Labels
	}
	return settings
}

func (c *Context) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// NewEngine builds a pomodoro engine over the configured store and user.
func (c *Context) NewEngine(opts ...pomodoro.Option) *pomodoro.Engine {
	settings := c.Settings()
	base := []pomodoro.Option{
		pomodoro.WithConfig(settings.SessionConfig()),
		pomodoro.WithLocation(c.location()),
		pomodoro.WithLabels(pomodoro.LabelsFor(settings.Labels)),
	}
	return pomodoro.New(c.Users, c.Records, append(base, opts...)...)
}

// GroupHistory groups records for display with the configured labels and location.
func (c *Context) GroupHistory(records []models.StudyRecord, now time.Time) []models.HistoryGroup {
	return pomodoro.GroupHistory(records, now, c.location(), pomodoro.LabelsFor(c.Settings().Labels))
}
