package resumes

import "time"

// Resume is one self-introduction document owned by a user. Content is
// rewritten by edits and refinements; the owner never changes.
type Resume struct {
	ID         string
	UserID     string
	Title      string
	Position   string
	Company    string
	Question   string
	Content    string
	DueDate    *time.Time
	IsFinished bool
	IsLiked    bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ConversationTurn is one entry in a resume's append-only refinement log.
// The first turn holds the full generation prompt and the generated text;
// later turns hold the user's instruction and the refined text.
type ConversationTurn struct {
	ID        string
	ResumeID  string
	Query     string
	Response  string
	CreatedAt time.Time
}

// GenerateRequest is the structured input to the generation workflow.
// Guidelines and Answers are parallel lists; an empty answer drops its
// guideline from the combined text.
type GenerateRequest struct {
	Title      string
	Position   string
	Company    string
	Question   string
	DueDate    *time.Time
	Guidelines []string
	Answers    []string
	FreeAnswer string
	FavorInfo  string
}

// ResumeUpdate carries partial document changes; nil fields are untouched.
type ResumeUpdate struct {
	Title      *string
	Position   *string
	Company    *string
	Content    *string
	DueDate    *time.Time
	IsFinished *bool
}

// ListFilter pages a resume listing.
type ListFilter struct {
	Limit  int
	Offset int
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func (f ListFilter) normalized() ListFilter {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}
