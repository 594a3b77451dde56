package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	resumes map[string]Resume
	turns   map[string][]ConversationTurn

	// FailTurnWrites makes turn inserts fail, for exercising atomicity.
	FailTurnWrites bool

	seq int
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		resumes: make(map[string]Resume),
		turns:   make(map[string][]ConversationTurn),
	}
}

func (r *MemoryRepo) CreateWithFirstTurn(ctx context.Context, resume Resume, turn ConversationTurn) (Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailTurnWrites {
		return Resume{}, context.DeadlineExceeded
	}

	now := r.tick()
	resume.CreatedAt = now
	resume.UpdatedAt = now
	turn.ResumeID = resume.ID
	turn.CreatedAt = now

	r.resumes[resume.ID] = resume
	r.turns[resume.ID] = []ConversationTurn{turn}
	return resume, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resume, ok := r.resumes[resumeID]
	if !ok || resume.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string, filter ListFilter) ([]Resume, error) {
	filter = filter.normalized()

	r.mu.RLock()
	matched := make([]Resume, 0)
	for _, resume := range r.resumes {
		if resume.UserID == userID {
			matched = append(matched, resume)
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return []Resume{}, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *MemoryRepo) Update(ctx context.Context, userID, resumeID string, update ResumeUpdate) (Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	resume, ok := r.resumes[resumeID]
	if !ok || resume.UserID != userID {
		return Resume{}, ErrNotFound
	}
	if update.Title != nil {
		resume.Title = *update.Title
	}
	if update.Position != nil {
		resume.Position = *update.Position
	}
	if update.Company != nil {
		resume.Company = *update.Company
	}
	if update.Content != nil {
		resume.Content = *update.Content
	}
	if update.DueDate != nil {
		due := *update.DueDate
		resume.DueDate = &due
	}
	if update.IsFinished != nil {
		resume.IsFinished = *update.IsFinished
	}
	resume.UpdatedAt = r.tick()
	r.resumes[resumeID] = resume
	return resume, nil
}

func (r *MemoryRepo) ToggleLiked(ctx context.Context, userID, resumeID string) (Resume, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	resume, ok := r.resumes[resumeID]
	if !ok || resume.UserID != userID {
		return Resume{}, ErrNotFound
	}
	resume.IsLiked = !resume.IsLiked
	resume.UpdatedAt = r.tick()
	r.resumes[resumeID] = resume
	return resume, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, resumeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	resume, ok := r.resumes[resumeID]
	if !ok || resume.UserID != userID {
		return ErrNotFound
	}
	delete(r.resumes, resumeID)
	delete(r.turns, resumeID)
	return nil
}

func (r *MemoryRepo) ListTurns(ctx context.Context, resumeID string) ([]ConversationTurn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	turns := r.turns[resumeID]
	out := make([]ConversationTurn, len(turns))
	copy(out, turns)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) AppendTurn(ctx context.Context, turn ConversationTurn) (ConversationTurn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailTurnWrites {
		return ConversationTurn{}, context.DeadlineExceeded
	}

	resume, ok := r.resumes[turn.ResumeID]
	if !ok {
		return ConversationTurn{}, ErrNotFound
	}

	turn.CreatedAt = r.tick()
	r.turns[turn.ResumeID] = append(r.turns[turn.ResumeID], turn)

	resume.Content = turn.Response
	resume.UpdatedAt = turn.CreatedAt
	r.resumes[turn.ResumeID] = resume
	return turn, nil
}

// tick yields strictly increasing timestamps so orderings are stable even
// when calls land within the clock's resolution.
func (r *MemoryRepo) tick() time.Time {
	r.seq++
	return time.Now().UTC().Add(time.Duration(r.seq) * time.Microsecond)
}

var _ Repo = (*MemoryRepo)(nil)
