package backups

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/models"
	"github.com/julianstephens/studylit/internal/session"
	"github.com/julianstephens/studylit/internal/storage/remote"
	"github.com/julianstephens/studylit/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "studylit.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Records: store,
		Local:   store,
		Users:   session.Static(1),
		Out:     out,
	}, store, out
}

func recordCount(t *testing.T, store *sqlite.Store) int {
	t.Helper()
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	records, err := store.ListByUser(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	return len(records)
}

func TestCreateAndList(t *testing.T) {
	ctx, _, out := setupTestDB(t)

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.Contains(out.String(), "Backup created: studylit-") {
		t.Errorf("unexpected output: %q", out.String())
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 total") {
		t.Errorf("list output missing backup: %q", out.String())
	}
}

func TestListEmpty(t *testing.T) {
	ctx, _, out := setupTestDB(t)

	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out.String(), "No backups found.") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRestore(t *testing.T) {
	ctx, store, out := setupTestDB(t)

	mgr, err := ctx.Backups()
	if err != nil {
		t.Fatal(err)
	}
	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.Create(context.Background(), models.NewStudyRecord{
		UserID: 1, WorkMinutes: 25, BreakMinutes: 5, RecordDate: time.Now().UTC(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := (&BackupRestoreCmd{BackupFile: filepath.Base(snapshot), Yes: true}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "restored successfully") {
		t.Errorf("unexpected output: %q", out.String())
	}
	if n := recordCount(t, store); n != 0 {
		t.Errorf("records after restore = %d, want 0", n)
	}
}

func TestRestoreCancelled(t *testing.T) {
	ctx, _, out := setupTestDB(t)

	mgr, _ := ctx.Backups()
	snapshot, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}

	orig := confirmRestore
	confirmRestore = func(string) (bool, error) { return false, nil }
	t.Cleanup(func() { confirmRestore = orig })

	if err := (&BackupRestoreCmd{BackupFile: snapshot}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRestoreRejectsInvalidBackup(t *testing.T) {
	ctx, _, _ := setupTestDB(t)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("nope"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := (&BackupRestoreCmd{BackupFile: bogus, Yes: true}).Run(ctx); err == nil {
		t.Fatal("expected error for invalid backup")
	}
}

func TestBackupsRequireSQLite(t *testing.T) {
	client, err := remote.NewClient("https://study.example.com", session.StaticTokenStore("t"))
	if err != nil {
		t.Fatal(err)
	}
	ctx := &cli.Context{Records: client, Out: &bytes.Buffer{}}

	if err := (&BackupCreateCmd{}).Run(ctx); err != cli.ErrRemoteStore {
		t.Errorf("err = %v, want ErrRemoteStore", err)
	}
}
