package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/focusguard/internal/db"
)

// SQLiteSettingRepo implements SettingRepo using a SQLite database.
type SQLiteSettingRepo struct {
	db db.DBTX
}

// NewSQLiteSettingRepo creates a new SQLiteSettingRepo.
func NewSQLiteSettingRepo(db db.DBTX) *SQLiteSettingRepo {
	return &SQLiteSettingRepo{db: db}
}

func (r *SQLiteSettingRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteSettingRepo) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("writing setting %s: %w", key, err)
	}
	return nil
}
