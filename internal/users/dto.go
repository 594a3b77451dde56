package users

import "time"

// UserResponse is the outward-facing representation of a user.
type UserResponse struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Username           string     `json:"username"`
	Position           string     `json:"position,omitempty"`
	ProfileImage       string     `json:"profileImage,omitempty"`
	AvailableChatCount int        `json:"availableChatCount"`
	ResetChatDate      *time.Time `json:"resetChatDate,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

func toResponse(user User) UserResponse {
	return UserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Username:           user.Username,
		Position:           user.Position,
		ProfileImage:       user.ProfileImage,
		AvailableChatCount: user.AvailableChatCount,
		ResetChatDate:      user.ResetChatDate,
		CreatedAt:          user.CreatedAt,
	}
}
