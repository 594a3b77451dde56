package resumes

import "context"

// Repo defines persistence for resumes and their conversation turns. Reads
// and writes are scoped to the owning user; a miss on another user's
// document is ErrNotFound. Turns are an append-only log.
type Repo interface {
	// CreateWithFirstTurn persists a new resume and its first conversation
	// turn atomically. Neither row survives if the other write fails.
	CreateWithFirstTurn(ctx context.Context, resume Resume, turn ConversationTurn) (Resume, error)
	Get(ctx context.Context, userID, resumeID string) (Resume, error)
	List(ctx context.Context, userID string, filter ListFilter) ([]Resume, error)
	Update(ctx context.Context, userID, resumeID string, update ResumeUpdate) (Resume, error)
	ToggleLiked(ctx context.Context, userID, resumeID string) (Resume, error)
	Delete(ctx context.Context, userID, resumeID string) error

	// ListTurns returns the resume's turns ordered by creation time.
	ListTurns(ctx context.Context, resumeID string) ([]ConversationTurn, error)
	// AppendTurn persists a refinement turn and rewrites the resume's
	// content to the turn's response in one transaction.
	AppendTurn(ctx context.Context, turn ConversationTurn) (ConversationTurn, error)
}
