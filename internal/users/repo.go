package users

import (
	"context"
	"time"
)

// ProfileUpdate carries partial profile changes; nil fields are left untouched.
type ProfileUpdate struct {
	Username     *string
	Position     *string
	ProfileImage *string
}

// Repo defines persistence operations for users.
type Repo interface {
	// UpsertFromKakao inserts a user on first login or refreshes the Kakao
	// profile fields on subsequent logins, keyed by kakao oid.
	UpsertFromKakao(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, userID string) (User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (User, error)
	// ConsumeChatCredit atomically refreshes stale daily credits and takes
	// one. Returns the remaining count or ErrQuotaExhausted.
	ConsumeChatCredit(ctx context.Context, userID string, today time.Time) (int, error)
	// RefundChatCredit gives back a credit consumed earlier the same day,
	// capped at the daily allowance. A no-op once the day has rolled over.
	RefundChatCredit(ctx context.Context, userID string, today time.Time) error
}
