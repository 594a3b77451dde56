package users

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

const userColumns = `id, email, username, kakao_oid, position, profile_image, available_chat_count, reset_chat_date, created_at, updated_at`

// UpsertFromKakao inserts or refreshes a user keyed by kakao oid.
func (r *PGRepo) UpsertFromKakao(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (id, email, username, kakao_oid, position, profile_image, available_chat_count, created_at, updated_at)
VALUES ($1, $2, $3, $4, NULL, $5, $6, $7, $7)
ON CONFLICT (kakao_oid) DO UPDATE
SET username = EXCLUDED.username,
    profile_image = EXCLUDED.profile_image,
    updated_at = EXCLUDED.updated_at
RETURNING ` + userColumns
	row := r.DB.QueryRowContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.Username,
		user.KakaoOID,
		user.ProfileImage,
		DefaultChatCredits,
		time.Now().UTC(),
	)
	return scanUser(row)
}

// GetByID fetches a user by ID.
func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// UpdateProfile applies a partial profile update and returns the result.
func (r *PGRepo) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error) {
	const query = `
UPDATE users
SET username = COALESCE($2, username),
    position = COALESCE($3, position),
    profile_image = COALESCE($4, profile_image),
    updated_at = now()
WHERE id = $1
RETURNING ` + userColumns
	row := r.DB.QueryRowContext(ctx, query, userID, update.Username, update.Position, update.ProfileImage)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// ConsumeChatCredit refreshes stale daily credits and takes one atomically.
func (r *PGRepo) ConsumeChatCredit(ctx context.Context, userID string, today time.Time) (int, error) {
	const query = `
UPDATE users
SET available_chat_count = CASE
        WHEN reset_chat_date IS NULL OR reset_chat_date < $2::date THEN $3 - 1
        ELSE available_chat_count - 1
    END,
    reset_chat_date = CASE
        WHEN reset_chat_date IS NULL OR reset_chat_date < $2::date THEN $2::date
        ELSE reset_chat_date
    END,
    updated_at = now()
WHERE id = $1
  AND (reset_chat_date IS NULL OR reset_chat_date < $2::date OR available_chat_count > 0)
RETURNING available_chat_count`

	var remaining int
	err := r.DB.QueryRowContext(ctx, query, userID, today.UTC(), DefaultChatCredits).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	// No row updated: user absent, or credits already spent today.
	if _, getErr := r.GetByID(ctx, userID); getErr != nil {
		return 0, getErr
	}
	return 0, ErrQuotaExhausted
}

// RefundChatCredit gives back one credit consumed earlier today. The reset
// date guard makes a refund after midnight a no-op instead of a gift to the
// next day's allowance.
func (r *PGRepo) RefundChatCredit(ctx context.Context, userID string, today time.Time) error {
	const query = `
UPDATE users
SET available_chat_count = LEAST(available_chat_count + 1, $3),
    updated_at = now()
WHERE id = $1 AND reset_chat_date = $2::date`
	_, err := r.DB.ExecContext(ctx, query, userID, today.UTC(), DefaultChatCredits)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	var kakaoOID sql.NullInt64
	var position sql.NullString
	var resetDate sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&kakaoOID,
		&position,
		&user.ProfileImage,
		&user.AvailableChatCount,
		&resetDate,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return User{}, err
	}
	if kakaoOID.Valid {
		user.KakaoOID = kakaoOID.Int64
	}
	if position.Valid {
		user.Position = position.String
	}
	if resetDate.Valid {
		user.ResetChatDate = &resetDate.Time
	}
	return user, nil
}

var _ Repo = (*PGRepo)(nil)
