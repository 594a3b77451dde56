package users

import "time"

// User is an account provisioned through Kakao social login.
type User struct {
	ID                 string
	Email              string
	Username           string
	KakaoOID           int64
	Position           string
	ProfileImage       string
	AvailableChatCount int
	ResetChatDate      *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DefaultChatCredits is the number of refinement calls granted per day.
const DefaultChatCredits = 5
