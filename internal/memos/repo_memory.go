package memos

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Memo
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Memo)}
}

func (r *MemoryRepo) Create(ctx context.Context, memo Memo) (Memo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	memo.CreatedAt = now
	memo.UpdatedAt = now
	r.items[memo.ID] = memo
	return memo, nil
}

func (r *MemoryRepo) Get(ctx context.Context, userID, memoID string) (Memo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	memo, ok := r.items[memoID]
	if !ok || memo.UserID != userID {
		return Memo{}, ErrNotFound
	}
	return memo, nil
}

func (r *MemoryRepo) List(ctx context.Context, userID string, filter ListFilter) ([]Memo, error) {
	filter = filter.normalized()

	r.mu.RLock()
	matched := make([]Memo, 0)
	keyword := strings.ToLower(filter.Keyword)
	for _, memo := range r.items {
		if memo.UserID != userID {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(memo.Title), keyword) &&
			!strings.Contains(strings.ToLower(memo.Content), keyword) {
			continue
		}
		matched = append(matched, memo)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Offset >= len(matched) {
		return []Memo{}, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *MemoryRepo) Update(ctx context.Context, memo Memo) (Memo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[memo.ID]
	if !ok || existing.UserID != memo.UserID {
		return Memo{}, ErrNotFound
	}
	existing.Title = memo.Title
	existing.Content = memo.Content
	existing.UpdatedAt = time.Now().UTC()
	r.items[memo.ID] = existing
	return existing, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, userID, memoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	memo, ok := r.items[memoID]
	if !ok || memo.UserID != userID {
		return ErrNotFound
	}
	delete(r.items, memoID)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
