// Package store implements the persistence layer: SQLite open with
// recommended pragmas, the wide-column schema, and the idempotent
// system bootstrap.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// TimeLayout is the storage format for timestamp columns. It matches
// SQLite's CURRENT_TIMESTAMP output, so lexicographic comparison of
// v1 values is chronological.
const TimeLayout = "2006-01-02 15:04:05"

// SchemaVersion is seeded into system_config row id=1 on first bootstrap
// and deliberately never overwritten afterwards.
const SchemaVersion = 1

// Fixed system_config row ids.
const (
	ConfigRowSchemaVersion  = 1
	ConfigRowReserved       = 100
	ConfigRowServiceVersion = 101
)

// Both tables share one generic wide-column layout: 3 short strings,
// 3 integers, 3 floats, 3 texts, 3 timestamps. Only c1/c2/i1/t1/v1 are
// in active use on log_entries; the rest are reserved slots.
const createLogEntriesDDL = `
CREATE TABLE IF NOT EXISTS log_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	c1 TEXT,
	c2 TEXT,
	c3 TEXT,
	i1 INTEGER,
	i2 INTEGER,
	i3 INTEGER,
	f1 REAL,
	f2 REAL,
	f3 REAL,
	t1 TEXT,
	t2 TEXT,
	t3 TEXT,
	v1 TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	v2 TIMESTAMP,
	v3 TIMESTAMP
);
`

const createSystemConfigDDL = `
CREATE TABLE IF NOT EXISTS system_config (
	id INTEGER PRIMARY KEY,
	c1 TEXT,
	c2 TEXT,
	c3 TEXT,
	i1 INTEGER,
	i2 INTEGER,
	i3 INTEGER,
	f1 REAL,
	f2 REAL,
	f3 REAL,
	t1 TEXT,
	t2 TEXT,
	t3 TEXT,
	v1 TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	v2 TIMESTAMP,
	v3 TIMESTAMP
);
`

// Index names match the query handler's filter fields.
var indexDDL = []struct {
	Name string
	DDL  string
}{
	{"idx_log_entries_c1", "CREATE INDEX IF NOT EXISTS idx_log_entries_c1 ON log_entries(c1)"},
	{"idx_log_entries_c2", "CREATE INDEX IF NOT EXISTS idx_log_entries_c2 ON log_entries(c2)"},
	{"idx_log_entries_i1", "CREATE INDEX IF NOT EXISTS idx_log_entries_i1 ON log_entries(i1)"},
	{"idx_log_entries_v1", "CREATE INDEX IF NOT EXISTS idx_log_entries_v1 ON log_entries(v1)"},
}

// OpenDB opens (or creates) a SQLite database at path with recommended
// pragmas: WAL journal mode, synchronous=NORMAL, busy_timeout=5000.
func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", path, err)
	}

	// Single-writer: only one connection needed.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %q on %s: %w", p, path, err)
		}
	}

	return db, nil
}

// Bootstrap creates the log and system-config tables, their indexes, and
// the fixed-id configuration rows. It is idempotent: tables and indexes
// use IF NOT EXISTS, the schema-version and reserved rows are
// insert-if-absent, and the service-version row is insert-or-replace so
// it always reflects the running build.
//
// The returned slice lists the steps completed so far; on error it holds
// every step that finished before the failure. Nothing is rolled back —
// re-running Bootstrap is the recovery path.
func Bootstrap(db *sql.DB, serviceVersion string) ([]string, error) {
	steps := []string{}

	run := func(name, stmt string, args ...any) error {
		if _, err := db.Exec(stmt, args...); err != nil {
			return fmt.Errorf("bootstrap %s: %w", name, err)
		}
		steps = append(steps, name)
		return nil
	}

	if err := run("create table log_entries", createLogEntriesDDL); err != nil {
		return steps, err
	}
	if err := run("create table system_config", createSystemConfigDDL); err != nil {
		return steps, err
	}
	for _, idx := range indexDDL {
		if err := run("create index "+idx.Name, idx.DDL); err != nil {
			return steps, err
		}
	}

	if err := run(
		"seed schema version row",
		"INSERT OR IGNORE INTO system_config (id, i1, t1) VALUES (?, ?, ?)",
		ConfigRowSchemaVersion, SchemaVersion, "schema version",
	); err != nil {
		return steps, err
	}
	if err := run(
		"seed reserved row",
		"INSERT OR IGNORE INTO system_config (id, t1) VALUES (?, ?)",
		ConfigRowReserved, "reserved",
	); err != nil {
		return steps, err
	}
	if err := run(
		"set service version row",
		"INSERT OR REPLACE INTO system_config (id, t1) VALUES (?, ?)",
		ConfigRowServiceVersion, serviceVersion,
	); err != nil {
		return steps, err
	}

	return steps, nil
}

// ConfigRow is one fixed-identity row from system_config. V1 scans as
// time.Time because the driver returns TIMESTAMP columns as time values.
type ConfigRow struct {
	ID int64
	I1 sql.NullInt64
	T1 sql.NullString
	V1 time.Time
}

// ReadConfigRow fetches a system_config row by id. Returns sql.ErrNoRows
// when the row does not exist.
func ReadConfigRow(db *sql.DB, id int64) (ConfigRow, error) {
	var row ConfigRow
	err := db.QueryRow("SELECT id, i1, t1, v1 FROM system_config WHERE id = ?", id).
		Scan(&row.ID, &row.I1, &row.T1, &row.V1)
	if err != nil {
		return ConfigRow{}, fmt.Errorf("read config row %d: %w", id, err)
	}
	return row, nil
}
