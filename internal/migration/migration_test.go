package migration

import (
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestApply_RunsPendingMigrationsInOrder(t *testing.T) {
	db := newTestDB(t)
	fsys := fstest.MapFS{
		"002_add_column.sql": {Data: []byte(`ALTER TABLE things ADD COLUMN extra TEXT`)},
		"001_init.sql":       {Data: []byte(`CREATE TABLE things (id TEXT PRIMARY KEY)`)},
	}

	runner := NewRunner(db, fsys)
	applied, err := runner.Apply(nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("Expected 2 applied migrations, got %d", applied)
	}

	version, err := runner.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("Expected version 2, got %d", version)
	}

	// Order mattered: the ALTER only works if 001 ran first.
	if _, err := db.Exec(`INSERT INTO things (id, extra) VALUES ('a', 'b')`); err != nil {
		t.Errorf("Schema incomplete after migrations: %v", err)
	}
}

func TestApply_Idempotent(t *testing.T) {
	db := newTestDB(t)
	fsys := fstest.MapFS{
		"001_init.sql": {Data: []byte(`CREATE TABLE things (id TEXT PRIMARY KEY)`)},
	}

	runner := NewRunner(db, fsys)
	if _, err := runner.Apply(nil); err != nil {
		t.Fatalf("First apply failed: %v", err)
	}

	applied, err := runner.Apply(nil)
	if err != nil {
		t.Fatalf("Second apply failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("Expected no migrations on re-apply, got %d", applied)
	}
}

func TestApply_RejectsDuplicateVersions(t *testing.T) {
	db := newTestDB(t)
	fsys := fstest.MapFS{
		"001_first.sql":  {Data: []byte(`CREATE TABLE a (id TEXT)`)},
		"001_second.sql": {Data: []byte(`CREATE TABLE b (id TEXT)`)},
	}

	if _, err := NewRunner(db, fsys).Apply(nil); err == nil {
		t.Fatal("Expected duplicate versions to be rejected")
	}
}

func TestValidate_RejectsNewerSchema(t *testing.T) {
	db := newTestDB(t)
	newer := fstest.MapFS{
		"001_init.sql": {Data: []byte(`CREATE TABLE things (id TEXT PRIMARY KEY)`)},
		"002_more.sql": {Data: []byte(`ALTER TABLE things ADD COLUMN extra TEXT`)},
	}
	if _, err := NewRunner(db, newer).Apply(nil); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	// An older binary that only knows version 1 must refuse this database.
	older := fstest.MapFS{
		"001_init.sql": {Data: []byte(`CREATE TABLE things (id TEXT PRIMARY KEY)`)},
	}
	if err := NewRunner(db, older).Validate(); err == nil {
		t.Error("Expected a newer schema to fail validation")
	}

	if err := NewRunner(db, newer).Validate(); err != nil {
		t.Errorf("Matching schema failed validation: %v", err)
	}
}
