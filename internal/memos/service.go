package memos

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service implements memo business logic on top of a Repo.
type Service struct {
	repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

// Create validates and stores a new memo for the user.
func (s *Service) Create(ctx context.Context, userID, title, content string) (Memo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Memo{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return s.repo.Create(ctx, Memo{
		ID:      uuid.NewString(),
		UserID:  userID,
		Title:   title,
		Content: content,
	})
}

// Get fetches one of the user's memos.
func (s *Service) Get(ctx context.Context, userID, memoID string) (Memo, error) {
	return s.repo.Get(ctx, userID, memoID)
}

// List returns the user's memos, newest first, optionally keyword-filtered.
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Memo, error) {
	return s.repo.List(ctx, userID, filter)
}

// Update rewrites a memo's title and content.
func (s *Service) Update(ctx context.Context, userID, memoID, title, content string) (Memo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Memo{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	return s.repo.Update(ctx, Memo{
		ID:      memoID,
		UserID:  userID,
		Title:   title,
		Content: content,
	})
}

// Delete removes one of the user's memos.
func (s *Service) Delete(ctx context.Context, userID, memoID string) error {
	return s.repo.Delete(ctx, userID, memoID)
}
