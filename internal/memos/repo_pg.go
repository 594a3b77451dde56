package memos

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const memoColumns = `id, user_id, title, content, created_at, updated_at`

// Create inserts a memo.
func (r *PGRepo) Create(ctx context.Context, memo Memo) (Memo, error) {
	const query = `
INSERT INTO memos (id, user_id, title, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
RETURNING ` + memoColumns
	row := r.DB.QueryRowContext(ctx, query, memo.ID, memo.UserID, memo.Title, memo.Content, time.Now().UTC())
	return scanMemo(row)
}

// Get fetches a memo owned by the user.
func (r *PGRepo) Get(ctx context.Context, userID, memoID string) (Memo, error) {
	const query = `SELECT ` + memoColumns + ` FROM memos WHERE id = $1 AND user_id = $2`
	memo, err := scanMemo(r.DB.QueryRowContext(ctx, query, memoID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Memo{}, ErrNotFound
		}
		return Memo{}, err
	}
	return memo, nil
}

// List returns the user's memos, newest first. A keyword matches title or
// content case-insensitively.
func (r *PGRepo) List(ctx context.Context, userID string, filter ListFilter) ([]Memo, error) {
	filter = filter.normalized()

	query := `SELECT ` + memoColumns + ` FROM memos WHERE user_id = $1`
	args := []any{userID}
	if filter.Keyword != "" {
		query += ` AND (title ILIKE $2 OR content ILIKE $2)`
		args = append(args, "%"+filter.Keyword+"%")
	}
	query += ` ORDER BY created_at DESC`
	args = append(args, filter.Limit, filter.Offset)
	if filter.Keyword != "" {
		query += ` LIMIT $3 OFFSET $4`
	} else {
		query += ` LIMIT $2 OFFSET $3`
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	memos := make([]Memo, 0)
	for rows.Next() {
		memo, err := scanMemo(rows)
		if err != nil {
			return nil, err
		}
		memos = append(memos, memo)
	}
	return memos, rows.Err()
}

// Update rewrites the memo's title and content.
func (r *PGRepo) Update(ctx context.Context, memo Memo) (Memo, error) {
	const query = `
UPDATE memos
SET title = $3, content = $4, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + memoColumns
	row := r.DB.QueryRowContext(ctx, query, memo.ID, memo.UserID, memo.Title, memo.Content)
	updated, err := scanMemo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Memo{}, ErrNotFound
		}
		return Memo{}, err
	}
	return updated, nil
}

// Delete removes a memo owned by the user.
func (r *PGRepo) Delete(ctx context.Context, userID, memoID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM memos WHERE id = $1 AND user_id = $2`, memoID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemo(row rowScanner) (Memo, error) {
	var memo Memo
	err := row.Scan(&memo.ID, &memo.UserID, &memo.Title, &memo.Content, &memo.CreatedAt, &memo.UpdatedAt)
	if err != nil {
		return Memo{}, err
	}
	return memo, nil
}

var _ Repo = (*PGRepo)(nil)
