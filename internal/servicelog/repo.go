// Package servicelog implements the log-entry repository: single-row
// inserts, filtered queries, and the retention delete.
package servicelog

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/loggate/loggate/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 10000
)

// Repo provides access to the log_entries table.
type Repo struct {
	db *sql.DB
}

// NewRepo creates a Repo over an open database.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Record is a validated log record ready for insertion. The store assigns
// id and creation timestamp; they are never client-supplied.
type Record struct {
	ServiceID  string
	InstanceID string
	Level      int64
	Message    string
}

// Row is one persisted log entry as stored, wide-column shape included.
// Reserved slots surface as JSON null until they are put to use.
type Row struct {
	ID int64    `json:"id"`
	C1 string   `json:"c1"` // service id
	C2 string   `json:"c2"` // instance id
	C3 *string  `json:"c3"`
	I1 int64    `json:"i1"` // level
	I2 *int64   `json:"i2"`
	I3 *int64   `json:"i3"`
	F1 *float64 `json:"f1"`
	F2 *float64 `json:"f2"`
	F3 *float64 `json:"f3"`
	T1 string   `json:"t1"` // message
	T2 *string  `json:"t2"`
	T3 *string  `json:"t3"`
	V1 string   `json:"v1"` // creation time
	V2 *string  `json:"v2"`
	V3 *string  `json:"v3"`
}

// Filter specifies optional query filters, AND-composed.
type Filter struct {
	ServiceID  string
	InstanceID string
	Level      *int64
	From       time.Time // inclusive lower bound on v1 (zero means none)
	To         time.Time // inclusive upper bound on v1 (zero means none)
	Limit      int
}

// Insert writes one row and returns the store-assigned id. The creation
// timestamp is defaulted by the store.
func (r *Repo) Insert(rec Record) (int64, error) {
	res, err := r.db.Exec(
		"INSERT INTO log_entries (c1, c2, i1, t1) VALUES (?, ?, ?, ?)",
		rec.ServiceID, rec.InstanceID, rec.Level, rec.Message,
	)
	if err != nil {
		return 0, fmt.Errorf("servicelog insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("servicelog insert id: %w", err)
	}
	return id, nil
}

// List returns matching rows ordered by descending id (newest first),
// capped at the filter limit (default 50).
func (r *Repo) List(f Filter) ([]Row, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	var where []string
	var args []any

	if f.ServiceID != "" {
		where = append(where, "c1 = ?")
		args = append(args, f.ServiceID)
	}
	if f.InstanceID != "" {
		where = append(where, "c2 = ?")
		args = append(args, f.InstanceID)
	}
	if f.Level != nil {
		where = append(where, "i1 = ?")
		args = append(args, *f.Level)
	}
	if !f.From.IsZero() {
		where = append(where, "v1 >= ?")
		args = append(args, f.From.UTC().Format(store.TimeLayout))
	}
	if !f.To.IsZero() {
		where = append(where, "v1 <= ?")
		args = append(args, f.To.UTC().Format(store.TimeLayout))
	}

	q := "SELECT id, c1, c2, c3, i1, i2, i3, f1, f2, f3, t1, t2, t3, v1, v2, v3 FROM log_entries"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("servicelog list: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// DeleteBefore removes all rows with creation timestamp strictly before
// cutoff in one statement and returns the number deleted.
func (r *Repo) DeleteBefore(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec(
		"DELETE FROM log_entries WHERE v1 < ?",
		cutoff.UTC().Format(store.TimeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("servicelog delete before %s: %w", cutoff.UTC().Format(store.TimeLayout), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("servicelog delete count: %w", err)
	}
	return n, nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	results := []Row{}
	for rows.Next() {
		var row Row
		// The driver hands TIMESTAMP columns back as time.Time; scan
		// them as such and re-render in the store layout, so the API
		// serves the same texture the store writes.
		var v1 time.Time
		var v2, v3 sql.NullTime
		err := rows.Scan(
			&row.ID,
			&row.C1, &row.C2, &row.C3,
			&row.I1, &row.I2, &row.I3,
			&row.F1, &row.F2, &row.F3,
			&row.T1, &row.T2, &row.T3,
			&v1, &v2, &v3,
		)
		if err != nil {
			log.Printf("[servicelog] warning: skip malformed row during scan: %v", err)
			continue
		}
		row.V1 = v1.UTC().Format(store.TimeLayout)
		row.V2 = formatNullTime(v2)
		row.V3 = formatNullTime(v3)
		results = append(results, row)
	}
	return results, rows.Err()
}

func formatNullTime(v sql.NullTime) *string {
	if !v.Valid {
		return nil
	}
	s := v.Time.UTC().Format(store.TimeLayout)
	return &s
}
