package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]User // userID -> user
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]User)}
}

// UpsertFromKakao inserts or refreshes a user keyed by kakao oid.
func (r *MemoryRepo) UpsertFromKakao(ctx context.Context, user User) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.data {
		if existing.KakaoOID == user.KakaoOID {
			existing.Username = user.Username
			existing.ProfileImage = user.ProfileImage
			existing.UpdatedAt = time.Now().UTC()
			r.data[id] = existing
			return existing, nil
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.AvailableChatCount = DefaultChatCredits
	user.CreatedAt = now
	user.UpdatedAt = now
	r.data[user.ID] = user
	return user, nil
}

// GetByID fetches a user by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, userID string) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.data[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

// UpdateProfile applies a partial profile update.
func (r *MemoryRepo) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.data[userID]
	if !ok {
		return User{}, ErrNotFound
	}
	if update.Username != nil {
		user.Username = *update.Username
	}
	if update.Position != nil {
		user.Position = *update.Position
	}
	if update.ProfileImage != nil {
		user.ProfileImage = *update.ProfileImage
	}
	user.UpdatedAt = time.Now().UTC()
	r.data[userID] = user
	return user, nil
}

// ConsumeChatCredit refreshes stale daily credits and takes one.
func (r *MemoryRepo) ConsumeChatCredit(ctx context.Context, userID string, today time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.data[userID]
	if !ok {
		return 0, ErrNotFound
	}
	day := today.UTC().Truncate(24 * time.Hour)
	if user.ResetChatDate == nil || user.ResetChatDate.Before(day) {
		user.AvailableChatCount = DefaultChatCredits
		user.ResetChatDate = &day
	}
	if user.AvailableChatCount <= 0 {
		r.data[userID] = user
		return 0, ErrQuotaExhausted
	}
	user.AvailableChatCount--
	user.UpdatedAt = time.Now().UTC()
	r.data[userID] = user
	return user.AvailableChatCount, nil
}

// RefundChatCredit gives back one credit consumed earlier today.
func (r *MemoryRepo) RefundChatCredit(ctx context.Context, userID string, today time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.data[userID]
	if !ok {
		return ErrNotFound
	}
	day := today.UTC().Truncate(24 * time.Hour)
	if user.ResetChatDate == nil || !user.ResetChatDate.Equal(day) {
		return nil
	}
	if user.AvailableChatCount < DefaultChatCredits {
		user.AvailableChatCount++
		user.UpdatedAt = time.Now().UTC()
		r.data[userID] = user
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
