package system

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/studylit/internal/cli"
	"github.com/julianstephens/studylit/internal/session"
	"github.com/julianstephens/studylit/internal/storage/sqlite"
)

// setupTestDB returns a context over an initialized SQLite store and its output buffer.
func setupTestDB(t *testing.T) (*cli.Context, *sqlite.Store, *bytes.Buffer) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{
		Records:   store,
		Local:     store,
		Users:     session.Static(1),
		Location:  time.UTC,
		ConfigDir: t.TempDir(),
		Out:       out,
	}, store, out
}
