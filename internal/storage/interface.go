package storage

import (
	"context"

	"github.com/julianstephens/studylit/internal/models"
)

// RecordStore is the StudyRecord collaborator of the pomodoro engine.
type RecordStore interface {
	// Create persists a completed WORK interval and returns the id the store assigned.
	Create(ctx context.Context, rec models.NewStudyRecord) (string, error)
	// ListByUser returns every record of userID. A user without records gets an
	// empty slice, not an error.
	ListByUser(ctx context.Context, userID int64) ([]models.StudyRecord, error)
}

// Provider is a local database backing a RecordStore.
type Provider interface {
	RecordStore

	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Migrations
	Migrate(logFn func(string)) (int, error)
	PendingMigrations() (int, error)

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Utils
	GetConfigPath() string
}
