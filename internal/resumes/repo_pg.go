package resumes

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

const resumeColumns = `id, user_id, title, position, company, question, content, due_date, is_finished, is_liked, created_at, updated_at`

const turnColumns = `id, resume_id, query, response, created_at`

// CreateWithFirstTurn inserts the resume and its first turn in one transaction.
func (r *PGRepo) CreateWithFirstTurn(ctx context.Context, resume Resume, turn ConversationTurn) (Resume, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return Resume{}, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	const insertResume = `
INSERT INTO resumes (id, user_id, title, position, company, question, content, due_date, is_finished, is_liked, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, FALSE, $9, $9)
RETURNING ` + resumeColumns
	created, err := scanResume(tx.QueryRowContext(
		ctx, insertResume,
		resume.ID, resume.UserID, resume.Title, resume.Position, resume.Company,
		resume.Question, resume.Content, resume.DueDate, now,
	))
	if err != nil {
		return Resume{}, err
	}

	const insertTurn = `
INSERT INTO conversation_turns (id, resume_id, query, response, created_at)
VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, insertTurn, turn.ID, resume.ID, turn.Query, turn.Response, now); err != nil {
		return Resume{}, err
	}

	if err := tx.Commit(); err != nil {
		return Resume{}, err
	}
	return created, nil
}

// Get fetches a resume owned by the user.
func (r *PGRepo) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	const query = `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1 AND user_id = $2`
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, resumeID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

// List returns the user's resumes, newest first.
func (r *PGRepo) List(ctx context.Context, userID string, filter ListFilter) ([]Resume, error) {
	filter = filter.normalized()
	const query = `SELECT ` + resumeColumns + ` FROM resumes WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resumes := make([]Resume, 0)
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, resume)
	}
	return resumes, rows.Err()
}

// Update applies a partial update and returns the result.
func (r *PGRepo) Update(ctx context.Context, userID, resumeID string, update ResumeUpdate) (Resume, error) {
	const query = `
UPDATE resumes
SET title = COALESCE($3, title),
    position = COALESCE($4, position),
    company = COALESCE($5, company),
    content = COALESCE($6, content),
    due_date = COALESCE($7, due_date),
    is_finished = COALESCE($8, is_finished),
    updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + resumeColumns
	row := r.DB.QueryRowContext(
		ctx, query, resumeID, userID,
		update.Title, update.Position, update.Company, update.Content, update.DueDate, update.IsFinished,
	)
	resume, err := scanResume(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

// ToggleLiked flips the bookmark flag.
func (r *PGRepo) ToggleLiked(ctx context.Context, userID, resumeID string) (Resume, error) {
	const query = `
UPDATE resumes
SET is_liked = NOT is_liked, updated_at = now()
WHERE id = $1 AND user_id = $2
RETURNING ` + resumeColumns
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, resumeID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

// Delete removes a resume; its turns cascade at the database level.
func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1 AND user_id = $2`, resumeID, userID)
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

// ListTurns returns the resume's turns ordered by creation time.
func (r *PGRepo) ListTurns(ctx context.Context, resumeID string) ([]ConversationTurn, error) {
	const query = `SELECT ` + turnColumns + ` FROM conversation_turns WHERE resume_id = $1 ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := make([]ConversationTurn, 0)
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// AppendTurn inserts a refinement turn and rewrites the resume's content in
// one transaction.
func (r *PGRepo) AppendTurn(ctx context.Context, turn ConversationTurn) (ConversationTurn, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return ConversationTurn{}, err
	}
	defer tx.Rollback()

	const insertTurn = `
INSERT INTO conversation_turns (id, resume_id, query, response, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + turnColumns
	created, err := scanTurn(tx.QueryRowContext(ctx, insertTurn, turn.ID, turn.ResumeID, turn.Query, turn.Response, time.Now().UTC()))
	if err != nil {
		return ConversationTurn{}, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE resumes SET content = $2, updated_at = now() WHERE id = $1`, turn.ResumeID, turn.Response); err != nil {
		return ConversationTurn{}, err
	}

	if err := tx.Commit(); err != nil {
		return ConversationTurn{}, err
	}
	return created, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var dueDate sql.NullTime
	err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&resume.Position,
		&resume.Company,
		&resume.Question,
		&resume.Content,
		&dueDate,
		&resume.IsFinished,
		&resume.IsLiked,
		&resume.CreatedAt,
		&resume.UpdatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	if dueDate.Valid {
		resume.DueDate = &dueDate.Time
	}
	return resume, nil
}

func scanTurn(row rowScanner) (ConversationTurn, error) {
	var turn ConversationTurn
	var query sql.NullString
	var response sql.NullString
	err := row.Scan(&turn.ID, &turn.ResumeID, &query, &response, &turn.CreatedAt)
	if err != nil {
		return ConversationTurn{}, err
	}
	turn.Query = query.String
	turn.Response = response.String
	return turn, nil
}

var _ Repo = (*PGRepo)(nil)
