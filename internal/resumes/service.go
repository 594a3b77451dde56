package resumes

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumai-backend/internal/llm"
	"resumai-backend/internal/shared/metrics"
	"resumai-backend/internal/shared/telemetry"
	"resumai-backend/internal/users"
)

// Service runs the guideline, generation, and refinement workflows on top
// of a Repo, a completion client, and a Retriever.
type Service struct {
	repo       Repo
	completion llm.CompletionClient
	retriever  *Retriever
	users      *users.Service
}

// NewService constructs a Service.
func NewService(repo Repo, completion llm.CompletionClient, retriever *Retriever, userSvc *users.Service) *Service {
	return &Service{
		repo:       repo,
		completion: completion,
		retriever:  retriever,
		users:      userSvc,
	}
}

// GenerateGuidelines asks the model for exactly three guiding sub-questions
// for the given prompt question. Format violations surface as
// ErrGuidelineFormat; the caller may re-invoke but the service never
// retries on its own.
func (s *Service) GenerateGuidelines(ctx context.Context, question string) ([]string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}

	raw, err := s.completion.Complete(ctx, GuidelinePrompt(question))
	if err != nil {
		return nil, fmt.Errorf("%w: completion: %v", ErrUpstream, err)
	}

	guidelines, err := ParseGuidelines(raw)
	if err != nil {
		metrics.IncGuidelineFormatError()
		telemetry.Warn("guidelines.format_error", map[string]any{"error": err.Error()})
		return nil, err
	}
	return guidelines, nil
}

// Generate runs the full generation workflow and persists the resulting
// document with its first conversation turn. A hard retrieval or
// completion failure aborts the whole operation; nothing partial is ever
// persisted.
func (s *Service) Generate(ctx context.Context, userID string, req GenerateRequest) (Resume, error) {
	if err := validateGenerateRequest(req); err != nil {
		return Resume{}, err
	}

	metrics.IncGenerationStarted()
	started := time.Now()

	combined := CombineAnswers(req.Guidelines, req.Answers, req.FreeAnswer)

	examples, err := s.retriever.Retrieve(ctx, combined)
	if err != nil {
		metrics.IncGenerationFailed()
		return Resume{}, err
	}

	prompt := GenerationPrompt(req.Question, combined, req.FavorInfo, examples)

	content, err := s.completion.Complete(ctx, prompt)
	if err != nil {
		metrics.IncGenerationFailed()
		return Resume{}, fmt.Errorf("%w: completion: %v", ErrUpstream, err)
	}

	resume, err := s.repo.CreateWithFirstTurn(ctx, Resume{
		ID:       uuid.NewString(),
		UserID:   userID,
		Title:    req.Title,
		Position: req.Position,
		Company:  req.Company,
		Question: req.Question,
		Content:  content,
		DueDate:  req.DueDate,
	}, ConversationTurn{
		ID:       uuid.NewString(),
		Query:    prompt,
		Response: content,
	})
	if err != nil {
		metrics.IncGenerationFailed()
		return Resume{}, err
	}

	metrics.IncGenerationCompleted()
	metrics.ObserveGenerationDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("resume.generated", map[string]any{
		"resume_id": resume.ID,
		"examples":  len(examples),
	})
	return resume, nil
}

// Refine appends one refinement turn to an existing document. The latest
// turn's response is the draft under discussion; the new response becomes
// the document's content.
func (s *Service) Refine(ctx context.Context, userID, resumeID, instruction string) (ConversationTurn, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return ConversationTurn{}, fmt.Errorf("%w: query is required", ErrInvalidInput)
	}

	resume, err := s.repo.Get(ctx, userID, resumeID)
	if err != nil {
		return ConversationTurn{}, err
	}

	if _, err := s.users.ConsumeChatCredit(ctx, userID); err != nil {
		return ConversationTurn{}, err
	}

	turns, err := s.repo.ListTurns(ctx, resume.ID)
	if err != nil {
		s.refundChatCredit(ctx, userID)
		return ConversationTurn{}, err
	}
	draft := latestDraft(turns, resume.Content)

	response, err := s.completion.Complete(ctx, RefinementPrompt(draft, instruction))
	if err != nil {
		s.refundChatCredit(ctx, userID)
		return ConversationTurn{}, fmt.Errorf("%w: completion: %v", ErrUpstream, err)
	}

	turn, err := s.repo.AppendTurn(ctx, ConversationTurn{
		ID:       uuid.NewString(),
		ResumeID: resume.ID,
		Query:    instruction,
		Response: response,
	})
	if err != nil {
		s.refundChatCredit(ctx, userID)
		return ConversationTurn{}, err
	}

	metrics.IncRefinement()
	telemetry.Info("resume.refined", map[string]any{"resume_id": resume.ID})
	return turn, nil
}

// refundChatCredit gives back the credit taken for a refinement that failed
// after the quota check. The refund itself is best effort.
func (s *Service) refundChatCredit(ctx context.Context, userID string) {
	if err := s.users.RefundChatCredit(ctx, userID); err != nil {
		telemetry.Warn("chat.refund_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

// Get fetches one of the user's resumes.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (Resume, error) {
	return s.repo.Get(ctx, userID, resumeID)
}

// GetWithTurns fetches a resume together with its conversation log.
func (s *Service) GetWithTurns(ctx context.Context, userID, resumeID string) (Resume, []ConversationTurn, error) {
	resume, err := s.repo.Get(ctx, userID, resumeID)
	if err != nil {
		return Resume{}, nil, err
	}
	turns, err := s.repo.ListTurns(ctx, resume.ID)
	if err != nil {
		return Resume{}, nil, err
	}
	return resume, turns, nil
}

// List returns the user's resumes, newest first.
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Resume, error) {
	return s.repo.List(ctx, userID, filter)
}

// Update applies a partial document update.
func (s *Service) Update(ctx context.Context, userID, resumeID string, update ResumeUpdate) (Resume, error) {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return Resume{}, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	return s.repo.Update(ctx, userID, resumeID, update)
}

// ToggleLiked flips the bookmark flag.
func (s *Service) ToggleLiked(ctx context.Context, userID, resumeID string) (Resume, error) {
	return s.repo.ToggleLiked(ctx, userID, resumeID)
}

// Delete removes a resume and its turns.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	return s.repo.Delete(ctx, userID, resumeID)
}

func validateGenerateRequest(req GenerateRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Question) == "" {
		return fmt.Errorf("%w: question is required", ErrInvalidInput)
	}
	if len(req.Guidelines) != len(req.Answers) {
		return fmt.Errorf("%w: guidelines and answers must be the same length", ErrInvalidInput)
	}
	return nil
}

// latestDraft folds the ordered turn log down to the most recent non-empty
// response. Falls back to the stored content for documents whose log
// predates it.
func latestDraft(turns []ConversationTurn, fallback string) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Response != "" {
			return turns[i].Response
		}
	}
	return fallback
}
