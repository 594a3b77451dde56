package resumes

import "time"

// ResumeResponse is the outward-facing representation of a resume.
type ResumeResponse struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Position   string     `json:"position,omitempty"`
	Company    string     `json:"company,omitempty"`
	Question   string     `json:"question"`
	Content    string     `json:"content"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	IsFinished bool       `json:"isFinished"`
	IsLiked    bool       `json:"isLiked"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// TurnResponse is one conversation turn. The first turn's query is the full
// generation prompt and is omitted from responses.
type TurnResponse struct {
	ID        string    `json:"id"`
	Query     string    `json:"query,omitempty"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"createdAt"`
}

func toResponse(resume Resume) ResumeResponse {
	return ResumeResponse{
		ID:         resume.ID,
		Title:      resume.Title,
		Position:   resume.Position,
		Company:    resume.Company,
		Question:   resume.Question,
		Content:    resume.Content,
		DueDate:    resume.DueDate,
		IsFinished: resume.IsFinished,
		IsLiked:    resume.IsLiked,
		CreatedAt:  resume.CreatedAt,
		UpdatedAt:  resume.UpdatedAt,
	}
}

func toResponses(resumes []Resume) []ResumeResponse {
	out := make([]ResumeResponse, 0, len(resumes))
	for _, resume := range resumes {
		out = append(out, toResponse(resume))
	}
	return out
}

// toTurnResponses renders turns newest-first for display, hiding the
// generation prompt stored in the first turn.
func toTurnResponses(turns []ConversationTurn) []TurnResponse {
	out := make([]TurnResponse, 0, len(turns))
	for i := len(turns) - 1; i >= 0; i-- {
		turn := turns[i]
		query := turn.Query
		if i == 0 {
			query = ""
		}
		out = append(out, TurnResponse{
			ID:        turn.ID,
			Query:     query,
			Response:  turn.Response,
			CreatedAt: turn.CreatedAt,
		})
	}
	return out
}
