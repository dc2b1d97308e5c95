package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/studylit/internal/constants"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/storage"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInitWritesDefaultSettings(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if settings != models.DefaultSettings() {
		t.Errorf("GetSettings() = %+v, want defaults", settings)
	}

	pending, err := store.PendingMigrations()
	if err != nil {
		t.Fatalf("PendingMigrations() failed: %v", err)
	}
	if pending != 0 {
		t.Errorf("PendingMigrations() = %d after Init, want 0", pending)
	}
}

func TestInitKeepsExistingSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	custom := models.Settings{WorkMinutes: 50, BreakMinutes: 10, Labels: constants.LabelsTurkish}
	if err := store.SaveSettings(custom); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}
	store.Close()

	again := NewStore(path)
	if err := again.Init(); err != nil {
		t.Fatalf("second Init() failed: %v", err)
	}
	defer again.Close()

	got, err := again.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings() failed: %v", err)
	}
	if got != custom {
		t.Errorf("GetSettings() = %+v, want %+v", got, custom)
	}
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	if err := store.Load(); err == nil {
		t.Error("Load() on a missing database should fail")
	}
}

func TestLoadAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	store.Close()

	loaded := NewStore(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	defer loaded.Close()

	if _, err := loaded.ListByUser(context.Background(), 1); err != nil {
		t.Errorf("ListByUser() after Load failed: %v", err)
	}
}

func TestCreateAndListByUser(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	inputs := []models.NewStudyRecord{
		{UserID: 1, WorkMinutes: 25, BreakMinutes: 5, RecordDate: base},
		{UserID: 1, WorkMinutes: 50, BreakMinutes: 10, RecordDate: base.Add(2 * time.Hour)},
		{UserID: 2, WorkMinutes: 25, BreakMinutes: 5, RecordDate: base.Add(time.Hour)},
	}
	ids := map[string]bool{}
	for _, in := range inputs {
		id, err := store.Create(ctx, in)
		if err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
		if id == "" || ids[id] {
			t.Fatalf("Create() returned empty or duplicate id %q", id)
		}
		ids[id] = true
	}

	records, err := store.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListByUser() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ListByUser(1) returned %d records, want 2", len(records))
	}
	if records[0].WorkMinutes != 50 || records[1].WorkMinutes != 25 {
		t.Errorf("records not newest first: %+v", records)
	}
	if !records[1].RecordDate.Equal(base) {
		t.Errorf("RecordDate = %v, want %v", records[1].RecordDate, base)
	}
	if records[0].UserID != 1 {
		t.Errorf("UserID = %d, want 1", records[0].UserID)
	}
}

func TestListByUserEmpty(t *testing.T) {
	store := setupTestStore(t)

	records, err := store.ListByUser(context.Background(), 99)
	if err != nil {
		t.Fatalf("ListByUser() failed: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("ListByUser() = %#v, want empty non-nil slice", records)
	}
}

func TestCreateRejectsInvalidRecord(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Create(context.Background(), models.NewStudyRecord{UserID: 1, WorkMinutes: 0, RecordDate: time.Now()})
	if !errors.Is(err, storage.ErrInvalidRecord) {
		t.Errorf("Create() error = %v, want ErrInvalidRecord", err)
	}
}

func TestRecordDatePreservesNanoseconds(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	when := time.Date(2026, 3, 1, 23, 59, 59, 987654321, time.FixedZone("TRT", 3*3600))

	if _, err := store.Create(ctx, models.NewStudyRecord{UserID: 3, WorkMinutes: 25, BreakMinutes: 5, RecordDate: when}); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	records, err := store.ListByUser(ctx, 3)
	if err != nil || len(records) != 1 {
		t.Fatalf("ListByUser() = %v, %v", records, err)
	}
	if !records[0].RecordDate.Equal(when) {
		t.Errorf("RecordDate = %v, want %v", records[0].RecordDate, when)
	}
}

func TestUseBeforeLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))

	if _, err := store.ListByUser(context.Background(), 1); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("ListByUser() error = %v, want ErrNotLoaded", err)
	}
	if _, err := store.GetSettings(); !errors.Is(err, storage.ErrNotLoaded) {
		t.Errorf("GetSettings() error = %v, want ErrNotLoaded", err)
	}
}
