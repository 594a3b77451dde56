package memos

import "context"

// Repo defines persistence operations for memos. All reads and writes are
// scoped to the owning user; a miss on another user's memo is ErrNotFound.
type Repo interface {
	Create(ctx context.Context, memo Memo) (Memo, error)
	Get(ctx context.Context, userID, memoID string) (Memo, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]Memo, error)
	Update(ctx context.Context, memo Memo) (Memo, error)
	Delete(ctx context.Context, userID, memoID string) error
}
