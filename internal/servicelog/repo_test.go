package servicelog

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/loggate/loggate/internal/store"
)

func newTestRepo(t *testing.T) (*sql.DB, *Repo) {
	t.Helper()
	db, err := store.OpenDB(filepath.Join(t.TempDir(), "loggate.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := store.Bootstrap(db, "test"); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	return db, NewRepo(db)
}

// insertAt writes a row with an explicit creation timestamp, bypassing
// the store default. Used to exercise time-bound queries and retention.
func insertAt(t *testing.T, db *sql.DB, rec Record, at time.Time) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO log_entries (c1, c2, i1, t1, v1) VALUES (?, ?, ?, ?, ?)",
		rec.ServiceID, rec.InstanceID, rec.Level, rec.Message,
		at.UTC().Format(store.TimeLayout),
	)
	if err != nil {
		t.Fatalf("insertAt: %v", err)
	}
}

func TestInsert_AssignsIDAndTimestamp(t *testing.T) {
	_, repo := newTestRepo(t)

	id, err := repo.Insert(Record{ServiceID: "svc", InstanceID: "inst-1", Level: 3, Message: "hello"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id: got %d, want > 0", id)
	}

	rows, err := repo.List(Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}
	row := rows[0]
	if row.ID != id || row.C1 != "svc" || row.C2 != "inst-1" || row.I1 != 3 || row.T1 != "hello" {
		t.Errorf("row: got %+v", row)
	}
	if _, err := time.Parse(store.TimeLayout, row.V1); err != nil {
		t.Errorf("v1 %q not in store layout: %v", row.V1, err)
	}
	if row.C3 != nil || row.I2 != nil || row.F1 != nil || row.T2 != nil || row.V2 != nil {
		t.Errorf("reserved columns should be null: %+v", row)
	}
}

func TestList_LimitAndDescendingOrder(t *testing.T) {
	_, repo := newTestRepo(t)

	var ids []int64
	for i := 0; i < 5; i++ {
		id, err := repo.Insert(Record{ServiceID: "svc", InstanceID: "inst", Level: int64(i), Message: "m"})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
		ids = append(ids, id)
	}

	rows, err := repo.List(Filter{Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}
	if rows[0].ID != ids[4] || rows[1].ID != ids[3] {
		t.Errorf("order: got ids %d,%d, want %d,%d", rows[0].ID, rows[1].ID, ids[4], ids[3])
	}
}

func TestList_FiltersCompose(t *testing.T) {
	_, repo := newTestRepo(t)

	seed := []Record{
		{ServiceID: "A", InstanceID: "i1", Level: 3, Message: "match"},
		{ServiceID: "A", InstanceID: "i2", Level: 5, Message: "level differs"},
		{ServiceID: "B", InstanceID: "i1", Level: 3, Message: "service differs"},
	}
	for _, rec := range seed {
		if _, err := repo.Insert(rec); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	level := int64(3)
	rows, err := repo.List(Filter{ServiceID: "A", Level: &level})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}
	if rows[0].T1 != "match" {
		t.Errorf("row: got %+v", rows[0])
	}
}

func TestList_TimeBoundsInclusive(t *testing.T) {
	db, repo := newTestRepo(t)

	base := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	for i, msg := range []string{"old", "mid", "new"} {
		insertAt(t, db, Record{ServiceID: "svc", InstanceID: "i", Level: 1, Message: msg}, base.Add(time.Duration(i)*time.Hour))
	}

	rows, err := repo.List(Filter{From: base, To: base.Add(time.Hour)})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2 (inclusive bounds)", len(rows))
	}
	if rows[0].T1 != "mid" || rows[1].T1 != "old" {
		t.Errorf("rows: got %q,%q", rows[0].T1, rows[1].T1)
	}
}

func TestList_EmptyResultIsEmptyArray(t *testing.T) {
	_, repo := newTestRepo(t)

	rows, err := repo.List(Filter{ServiceID: "nothing"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if rows == nil {
		t.Fatal("rows: got nil, want empty slice (serializes to [])")
	}
	if len(rows) != 0 {
		t.Fatalf("rows: got %d, want 0", len(rows))
	}
}

func TestDeleteBefore_RemovesOnlyOldRows(t *testing.T) {
	db, repo := newTestRepo(t)

	now := time.Now().UTC()
	insertAt(t, db, Record{ServiceID: "svc", InstanceID: "i", Level: 1, Message: "eight days old"}, now.Add(-8*24*time.Hour))
	insertAt(t, db, Record{ServiceID: "svc", InstanceID: "i", Level: 1, Message: "one day old"}, now.Add(-24*time.Hour))

	n, err := repo.DeleteBefore(now.Add(-7 * 24 * time.Hour))
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 1 {
		t.Fatalf("deleted: got %d, want 1", n)
	}

	rows, err := repo.List(Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || rows[0].T1 != "one day old" {
		t.Fatalf("remaining rows: got %+v", rows)
	}
}
