package store

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "loggate.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBootstrap_CompletesAllSteps(t *testing.T) {
	db := newTestDB(t)

	steps, err := Bootstrap(db, "1.0.0")
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	// 2 tables + 4 indexes + 3 config rows.
	if len(steps) != 9 {
		t.Fatalf("steps: got %d (%v), want 9", len(steps), steps)
	}
	if steps[0] != "create table log_entries" {
		t.Errorf("first step: got %q", steps[0])
	}
	if steps[len(steps)-1] != "set service version row" {
		t.Errorf("last step: got %q", steps[len(steps)-1])
	}

	// The schema must accept an insert relying on store defaults.
	if _, err := db.Exec("INSERT INTO log_entries (c1, c2, i1, t1) VALUES ('svc', 'inst', 3, 'hello')"); err != nil {
		t.Fatalf("insert into bootstrapped schema: %v", err)
	}
}

func TestBootstrap_Idempotent(t *testing.T) {
	db := newTestDB(t)

	if _, err := Bootstrap(db, "1.0.0"); err != nil {
		t.Fatalf("first Bootstrap: %v", err)
	}
	if _, err := Bootstrap(db, "1.1.0"); err != nil {
		t.Fatalf("second Bootstrap: %v", err)
	}

	// Schema-version row keeps its original seeded value.
	schemaRow, err := ReadConfigRow(db, ConfigRowSchemaVersion)
	if err != nil {
		t.Fatalf("read schema version row: %v", err)
	}
	if !schemaRow.I1.Valid || schemaRow.I1.Int64 != SchemaVersion {
		t.Errorf("schema version: got %+v, want %d", schemaRow.I1, SchemaVersion)
	}

	// Service-version row reflects the latest invocation.
	svcRow, err := ReadConfigRow(db, ConfigRowServiceVersion)
	if err != nil {
		t.Fatalf("read service version row: %v", err)
	}
	if !svcRow.T1.Valid || svcRow.T1.String != "1.1.0" {
		t.Errorf("service version: got %+v, want %q", svcRow.T1, "1.1.0")
	}
	if svcRow.V1.IsZero() {
		t.Errorf("service version row has no creation time")
	}

	// Exactly one row per fixed id.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM system_config").Scan(&count); err != nil {
		t.Fatalf("count config rows: %v", err)
	}
	if count != 3 {
		t.Errorf("config rows: got %d, want 3", count)
	}
}

func TestReadConfigRow_Missing(t *testing.T) {
	db := newTestDB(t)
	if _, err := Bootstrap(db, "1.0.0"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	_, err := ReadConfigRow(db, 42)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}
