package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/focusguard/internal/db"
	"github.com/alexanderramin/focusguard/internal/domain"
)

// SQLiteKeywordRepo implements KeywordRepo using a SQLite database.
type SQLiteKeywordRepo struct {
	db db.DBTX
}

// NewSQLiteKeywordRepo creates a new SQLiteKeywordRepo.
func NewSQLiteKeywordRepo(db db.DBTX) *SQLiteKeywordRepo {
	return &SQLiteKeywordRepo{db: db}
}

func (r *SQLiteKeywordRepo) Add(ctx context.Context, k *domain.Keyword) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO urgent_keywords (id, keyword) VALUES (?, ?)`, k.ID, k.Text)
	if err != nil {
		return fmt.Errorf("inserting keyword: %w", err)
	}
	return nil
}

func (r *SQLiteKeywordRepo) Remove(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM urgent_keywords WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting keyword: %w", err)
	}
	return nil
}

func (r *SQLiteKeywordRepo) List(ctx context.Context) ([]*domain.Keyword, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, keyword FROM urgent_keywords ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing keywords: %w", err)
	}
	defer rows.Close()

	var keywords []*domain.Keyword
	for rows.Next() {
		var k domain.Keyword
		if err := rows.Scan(&k.ID, &k.Text); err != nil {
			return nil, fmt.Errorf("scanning keyword row: %w", err)
		}
		keywords = append(keywords, &k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating keywords: %w", err)
	}
	return keywords, nil
}
