package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/focusguard/internal/db"
	"github.com/alexanderramin/focusguard/internal/domain"
)

const notificationColumns = `id, session_id, app_name, title, body, sender, timestamp, is_read, is_urgent, urgency_reason`

// SQLiteNotificationRepo implements NotificationRepo using a SQLite database.
type SQLiteNotificationRepo struct {
	db db.DBTX
}

// NewSQLiteNotificationRepo creates a new SQLiteNotificationRepo.
func NewSQLiteNotificationRepo(db db.DBTX) *SQLiteNotificationRepo {
	return &SQLiteNotificationRepo{db: db}
}

// Enqueue inserts each item unless its id is already queued.
// Run it inside a UnitOfWork to make a multi-item batch atomic.
func (r *SQLiteNotificationRepo) Enqueue(ctx context.Context, items []domain.QueuedNotification) (int, error) {
	query := `INSERT OR IGNORE INTO queued_notifications
		(id, session_id, app_name, title, body, sender, timestamp, is_read, is_urgent, urgency_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	inserted := 0
	for _, n := range items {
		res, err := r.db.ExecContext(ctx, query,
			n.ID,
			nullableString(n.SessionID),
			n.AppName,
			n.Title,
			n.Body,
			n.Sender,
			unixSeconds(n.Timestamp),
			boolToInt(n.IsRead),
			boolToInt(n.IsUrgent),
			nullableString(n.UrgencyReason),
		)
		if err != nil {
			return inserted, fmt.Errorf("enqueueing notification %s: %w", n.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("reading affected rows: %w", err)
		}
		inserted += int(affected)
	}
	return inserted, nil
}

func (r *SQLiteNotificationRepo) List(ctx context.Context) ([]*domain.QueuedNotification, error) {
	query := `SELECT ` + notificationColumns + ` FROM queued_notifications
		ORDER BY timestamp DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()
	return r.scanNotifications(rows)
}

func (r *SQLiteNotificationRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.QueuedNotification, error) {
	query := `SELECT ` + notificationColumns + ` FROM queued_notifications
		WHERE session_id = ?
		ORDER BY timestamp DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications by session: %w", err)
	}
	defer rows.Close()
	return r.scanNotifications(rows)
}

func (r *SQLiteNotificationRepo) MarkRead(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE queued_notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	return nil
}

func (r *SQLiteNotificationRepo) ClearAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM queued_notifications`)
	if err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}
	return nil
}

// CountBySenderBetween counts queued notifications from sender with a
// timestamp in [from, to], both ends inclusive, ignoring excludeID.
func (r *SQLiteNotificationRepo) CountBySenderBetween(ctx context.Context, sender string, from, to time.Time, excludeID string) (int, error) {
	query := `SELECT COUNT(*) FROM queued_notifications
		WHERE sender = ? AND timestamp BETWEEN ? AND ? AND id != ?`
	var count int
	err := r.db.QueryRowContext(ctx, query, sender, unixSeconds(from), unixSeconds(to), excludeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting notifications by sender: %w", err)
	}
	return count, nil
}

func (r *SQLiteNotificationRepo) scanNotifications(rows *sql.Rows) ([]*domain.QueuedNotification, error) {
	var out []*domain.QueuedNotification
	for rows.Next() {
		var n domain.QueuedNotification
		var sessionID, reason sql.NullString
		var ts int64
		var isRead, isUrgent int

		if err := rows.Scan(&n.ID, &sessionID, &n.AppName, &n.Title, &n.Body, &n.Sender,
			&ts, &isRead, &isUrgent, &reason); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		n.SessionID = stringPtr(sessionID)
		n.Timestamp = fromUnixSeconds(ts)
		n.IsRead = intToBool(isRead)
		n.IsUrgent = intToBool(isUrgent)
		n.UrgencyReason = stringPtr(reason)
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notifications: %w", err)
	}
	return out, nil
}
