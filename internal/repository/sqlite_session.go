package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/focusguard/internal/db"
	"github.com/alexanderramin/focusguard/internal/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const sessionColumns = `id, start_time, planned_duration, end_time, status, screenshot_ref, work_context`

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(db db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: db}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.FocusSession) error {
	query := `INSERT INTO focus_sessions (id, start_time, planned_duration, end_time, status, screenshot_ref, work_context)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		formatTime(s.StartTime),
		s.PlannedDuration,
		nullableTimeToString(s.EndTime),
		string(s.Status),
		nullableString(s.ScreenshotRef),
		nullableString(s.WorkContext),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("inserting focus session: %w", domain.ErrSessionConflict)
		}
		return fmt.Errorf("inserting focus session: %w", err)
	}
	return nil
}

// isUniqueViolation matches a unique index failure. Primary key clashes
// carry a different extended code.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.FocusSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM focus_sessions WHERE id = ?`
	s, err := r.scanSession(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("focus session %s: %w", id, ErrNotFound)
	}
	return s, err
}

func (r *SQLiteSessionRepo) GetActive(ctx context.Context) (*domain.FocusSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM focus_sessions
		WHERE status = 'active'
		ORDER BY start_time DESC, rowid DESC LIMIT 1`
	s, err := r.scanSession(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *SQLiteSessionRepo) GetLast(ctx context.Context) (*domain.FocusSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM focus_sessions
		ORDER BY start_time DESC, rowid DESC LIMIT 1`
	s, err := r.scanSession(r.db.QueryRowContext(ctx, query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return s, err
}

func (r *SQLiteSessionRepo) List(ctx context.Context) ([]*domain.FocusSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM focus_sessions
		ORDER BY start_time DESC, rowid DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing focus sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.FocusSession
	for rows.Next() {
		s, err := r.scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating focus sessions: %w", err)
	}
	return sessions, nil
}

func (r *SQLiteSessionRepo) Complete(ctx context.Context, id string, endTime time.Time, status domain.SessionStatus, reason domain.EndReason) error {
	query := `UPDATE focus_sessions SET end_time = ?, status = ?, end_reason = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, formatTime(endTime), string(status), string(reason), id)
	if err != nil {
		return fmt.Errorf("completing focus session: %w", err)
	}
	return requireAffected(res, "focus session "+id)
}

func (r *SQLiteSessionRepo) AttachContext(ctx context.Context, id string, screenshotRef *string, note string) error {
	query := `UPDATE focus_sessions SET screenshot_ref = ?, work_context = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, nullableString(screenshotRef), note, id)
	if err != nil {
		return fmt.Errorf("attaching work context: %w", err)
	}
	return requireAffected(res, "focus session "+id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession scans one focus session from a *sql.Row or *sql.Rows.
// sql.ErrNoRows is returned unwrapped-compatible so callers can map it.
func (r *SQLiteSessionRepo) scanSession(row rowScanner) (*domain.FocusSession, error) {
	var s domain.FocusSession
	var startStr, status string
	var endStr, screenshot, note sql.NullString

	err := row.Scan(&s.ID, &startStr, &s.PlannedDuration, &endStr, &status, &screenshot, &note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning focus session: %w", err)
	}

	s.StartTime, err = time.Parse(timeLayout, startStr)
	if err != nil {
		return nil, fmt.Errorf("parsing start_time: %w", err)
	}
	s.EndTime = parseNullableTime(endStr)
	s.Status = domain.SessionStatus(status)
	s.ScreenshotRef = stringPtr(screenshot)
	s.WorkContext = stringPtr(note)
	return &s, nil
}

// requireAffected maps a zero-row update to ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
