package memos

import "time"

// MemoResponse is the outward-facing representation of a memo.
type MemoResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toResponse(memo Memo) MemoResponse {
	return MemoResponse{
		ID:        memo.ID,
		Title:     memo.Title,
		Content:   memo.Content,
		CreatedAt: memo.CreatedAt,
		UpdatedAt: memo.UpdatedAt,
	}
}

func toResponses(memos []Memo) []MemoResponse {
	out := make([]MemoResponse, 0, len(memos))
	for _, memo := range memos {
		out = append(out, toResponse(memo))
	}
	return out
}
