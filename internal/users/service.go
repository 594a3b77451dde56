package users

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Service contains business logic for user accounts.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// UpsertFromKakao persists the identity returned by the Kakao profile call.
func (s *Service) UpsertFromKakao(ctx context.Context, user User) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if user.KakaoOID == 0 || strings.TrimSpace(user.Email) == "" {
		return User{}, ErrInvalidInput
	}
	return s.Repo.UpsertFromKakao(ctx, user)
}

// GetByID returns the user for the given ID.
func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial profile update for the given user.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, ErrInvalidInput
	}
	return s.Repo.UpdateProfile(ctx, userID, update)
}

// ConsumeChatCredit takes one refinement credit for today, refreshing the
// daily allowance first when the stored reset date is stale.
func (s *Service) ConsumeChatCredit(ctx context.Context, userID string) (int, error) {
	if s == nil || s.Repo == nil {
		return 0, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return 0, ErrInvalidInput
	}
	return s.Repo.ConsumeChatCredit(ctx, userID, time.Now().UTC())
}

// RefundChatCredit returns a credit taken earlier today, so a refinement
// that failed after the quota check does not count against the allowance.
func (s *Service) RefundChatCredit(ctx context.Context, userID string) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}
	return s.Repo.RefundChatCredit(ctx, userID, time.Now().UTC())
}
