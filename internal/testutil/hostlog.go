package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// HostLogEntry is one row of a fake host notification log.
// Delivered is expressed in the time base the source under test expects.
type HostLogEntry struct {
	ID        string
	App       string
	Title     string
	Body      string
	Delivered float64
	// Undated stores the row with a NULL delivery date.
	Undated bool
}

// NewHostLog writes a SQLite file shaped like the host notification
// center database and returns its path.
func NewHostLog(t *testing.T, entries ...HostLogEntry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notifications.db")

	database, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening host log: %v", err)
	}
	defer database.Close()

	if _, err := database.Exec(`CREATE TABLE record (
		rec_id         INTEGER PRIMARY KEY,
		data           TEXT NOT NULL,
		app            TEXT NOT NULL,
		title          TEXT,
		body           TEXT,
		delivered_date REAL
	)`); err != nil {
		t.Fatalf("creating host log schema: %v", err)
	}

	for _, e := range entries {
		var delivered any = e.Delivered
		if e.Undated {
			delivered = nil
		}
		if _, err := database.Exec(`INSERT INTO record (data, app, title, body, delivered_date) VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.App, e.Title, e.Body, delivered); err != nil {
			t.Fatalf("inserting host log row: %v", err)
		}
	}
	return path
}
