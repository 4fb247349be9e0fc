// Package notifsource reads the host notification log for a session window.
package notifsource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"time"

	"github.com/alexanderramin/focusguard/internal/config"
	"github.com/alexanderramin/focusguard/internal/db"
	"github.com/alexanderramin/focusguard/internal/domain"
	"github.com/alexanderramin/focusguard/internal/metrics"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MaxWindow caps how many notifications a single fetch returns.
const MaxWindow = 100

// coreDataEpoch is 2001-01-01T00:00:00Z in unix seconds.
const coreDataEpoch = 978307200

// Source yields the notifications delivered within a time window.
type Source interface {
	// FetchWindow returns notifications delivered in [start, end], newest
	// first and at most MaxWindow of them. An unreadable log yields an empty
	// slice.
	FetchWindow(ctx context.Context, start, end time.Time) []domain.RawNotification
}

// SQLiteSource reads the notification center database read-only.
type SQLiteSource struct {
	path     string
	timeBase string
	logger   zerolog.Logger
}

func NewSQLiteSource(path, timeBase string, logger zerolog.Logger) *SQLiteSource {
	if timeBase == "" {
		timeBase = config.TimeBaseUnix
	}
	return &SQLiteSource{
		path:     path,
		timeBase: timeBase,
		logger:   logger.With().Str("component", "notifsource").Logger(),
	}
}

func (s *SQLiteSource) FetchWindow(ctx context.Context, start, end time.Time) []domain.RawNotification {
	items, err := s.Fetch(ctx, start, end)
	if err != nil {
		kind := FailureKind(err)
		metrics.SourceFailures.WithLabelValues(kind).Inc()
		s.logger.Warn().Err(err).Str("kind", kind).Str("path", s.path).Msg("notification log unavailable")
		return []domain.RawNotification{}
	}
	return items
}

// Fetch is FetchWindow with the failure surfaced. Errors wrap
// domain.ErrSourceUnavailable.
func (s *SQLiteSource) Fetch(ctx context.Context, start, end time.Time) ([]domain.RawNotification, error) {
	conn, err := db.OpenReadOnly(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}
	defer conn.Close()

	query := `SELECT data, app, title, body, delivered_date
		FROM record
		WHERE delivered_date BETWEEN ? AND ?
		ORDER BY delivered_date DESC
		LIMIT ?`
	rows, err := conn.QueryContext(ctx, query, s.toBase(start), s.toBase(end), MaxWindow)
	if err != nil {
		return nil, fmt.Errorf("%w: querying record: %w", domain.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	items := []domain.RawNotification{}
	for rows.Next() {
		var id, app, title, body sql.NullString
		var delivered sql.NullFloat64
		if err := rows.Scan(&id, &app, &title, &body, &delivered); err != nil {
			return nil, fmt.Errorf("%w: scanning record: %w", domain.ErrSourceUnavailable, err)
		}
		if !delivered.Valid {
			s.logger.Debug().Str("app", app.String).Msg("skipping record without delivery date")
			continue
		}
		ts := s.fromBase(delivered.Float64)
		n := domain.RawNotification{
			ID:        id.String,
			AppName:   app.String,
			Title:     title.String,
			Body:      body.String,
			Sender:    app.String,
			Timestamp: ts,
		}
		if n.ID == "" {
			n.ID = fallbackID(n)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating record: %w", domain.ErrSourceUnavailable, err)
	}
	return items, nil
}

// fallbackID derives a stable id for a record the host stored without one.
// Records from the same app in the same second differ by their content hash.
func fallbackID(n domain.RawNotification) string {
	content := n.AppName + "\x00" + n.Title + "\x00" + n.Body
	sum := uuid.NewSHA1(uuid.NameSpaceOID, []byte(content))
	return fmt.Sprintf("%s-%d-%s", n.AppName, n.Timestamp.Unix(), sum.String()[:8])
}

func (s *SQLiteSource) toBase(t time.Time) float64 {
	secs := float64(t.UnixNano()) / float64(time.Second)
	if s.timeBase == config.TimeBaseCoreData {
		return secs - coreDataEpoch
	}
	return secs
}

// fromBase converts a stored delivery time to UTC, floored to the second.
func (s *SQLiteSource) fromBase(v float64) time.Time {
	secs := int64(math.Floor(v))
	if s.timeBase == config.TimeBaseCoreData {
		secs += coreDataEpoch
	}
	return time.Unix(secs, 0).UTC()
}

// FailureKind labels a fetch error as missing, busy or query.
func FailureKind(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return "missing"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return "busy"
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT:
			return "missing"
		}
	}
	return "query"
}
