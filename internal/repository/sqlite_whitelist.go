package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/focusguard/internal/db"
	"github.com/alexanderramin/focusguard/internal/domain"
)

// SQLiteWhitelistRepo implements WhitelistRepo using a SQLite database.
type SQLiteWhitelistRepo struct {
	db db.DBTX
}

// NewSQLiteWhitelistRepo creates a new SQLiteWhitelistRepo.
func NewSQLiteWhitelistRepo(db db.DBTX) *SQLiteWhitelistRepo {
	return &SQLiteWhitelistRepo{db: db}
}

func (r *SQLiteWhitelistRepo) Add(ctx context.Context, e *domain.WhitelistEntry) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO whitelist (id, type, value) VALUES (?, ?, ?)`,
		e.ID, string(e.Kind), e.Value)
	if err != nil {
		return fmt.Errorf("inserting whitelist entry: %w", err)
	}
	return nil
}

func (r *SQLiteWhitelistRepo) Remove(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM whitelist WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting whitelist entry: %w", err)
	}
	return nil
}

func (r *SQLiteWhitelistRepo) List(ctx context.Context) ([]*domain.WhitelistEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, type, value FROM whitelist ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing whitelist: %w", err)
	}
	defer rows.Close()

	var entries []*domain.WhitelistEntry
	for rows.Next() {
		var e domain.WhitelistEntry
		var kind string
		if err := rows.Scan(&e.ID, &kind, &e.Value); err != nil {
			return nil, fmt.Errorf("scanning whitelist row: %w", err)
		}
		e.Kind = domain.WhitelistKind(kind)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating whitelist: %w", err)
	}
	return entries, nil
}

func (r *SQLiteWhitelistRepo) Match(ctx context.Context, appName, sender string) (*domain.WhitelistEntry, error) {
	query := `SELECT id, type, value FROM whitelist
		WHERE (type = 'app' AND value = ?) OR (type = 'contact' AND value = ?)
		ORDER BY rowid LIMIT 1`
	var e domain.WhitelistEntry
	var kind string
	err := r.db.QueryRowContext(ctx, query, appName, sender).Scan(&e.ID, &kind, &e.Value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("matching whitelist: %w", err)
	}
	e.Kind = domain.WhitelistKind(kind)
	return &e, nil
}
