package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS focus_sessions (
		id               TEXT PRIMARY KEY,
		start_time       TEXT NOT NULL,
		planned_duration INTEGER NOT NULL CHECK(planned_duration > 0),
		end_time         TEXT,
		status           TEXT NOT NULL DEFAULT 'active'
		                 CHECK(status IN ('active','completed','cancelled')),
		screenshot_ref   TEXT,
		work_context     TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_focus_sessions_status ON focus_sessions(status)`,
	`CREATE INDEX IF NOT EXISTS idx_focus_sessions_start ON focus_sessions(start_time)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_focus_sessions_one_active ON focus_sessions(status) WHERE status = 'active'`,

	`CREATE TABLE IF NOT EXISTS queued_notifications (
		id             TEXT PRIMARY KEY,
		session_id     TEXT REFERENCES focus_sessions(id),
		app_name       TEXT NOT NULL DEFAULT '',
		title          TEXT NOT NULL DEFAULT '',
		body           TEXT NOT NULL DEFAULT '',
		sender         TEXT NOT NULL DEFAULT '',
		timestamp      INTEGER NOT NULL,
		is_read        INTEGER NOT NULL DEFAULT 0,
		is_urgent      INTEGER NOT NULL DEFAULT 0,
		urgency_reason TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_queued_notifications_sender_ts ON queued_notifications(sender, timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_queued_notifications_ts ON queued_notifications(timestamp)`,

	`CREATE TABLE IF NOT EXISTS whitelist (
		id    TEXT PRIMARY KEY,
		type  TEXT NOT NULL CHECK(type IN ('app','contact')),
		value TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_whitelist_type_value ON whitelist(type, value)`,

	`CREATE TABLE IF NOT EXISTS urgent_keywords (
		id      TEXT PRIMARY KEY,
		keyword TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	// Record why a session ended (manual, expired, stale)
	`ALTER TABLE focus_sessions ADD COLUMN end_reason TEXT NOT NULL DEFAULT ''`,
}
