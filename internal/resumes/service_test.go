package resumes

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resumai-backend/internal/users"
	"resumai-backend/internal/vector"
)

type fakeCompletion struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (f *fakeCompletion) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestUser(t *testing.T, svc *users.Service) users.User {
	t.Helper()
	user, err := svc.UpsertFromKakao(context.Background(), users.User{
		KakaoOID: 12345,
		Email:    "test@example.com",
		Username: "tester",
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

type serviceFixture struct {
	svc        *Service
	repo       *MemoryRepo
	completion *fakeCompletion
	embedding  *fakeEmbedding
	index      *fakeIndex
	user       users.User
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	repo := NewMemoryRepo()
	completion := &fakeCompletion{response: "생성된 자기소개서"}
	embedding := &fakeEmbedding{}
	index := &fakeIndex{matches: []vector.Match{
		{ID: "1", Score: 0.9, Metadata: map[string]string{"question": "지원 동기", "answer": "예시 답변"}},
	}}
	userSvc := users.NewService(users.NewMemoryRepo())
	user := newTestUser(t, userSvc)

	return &serviceFixture{
		svc:        NewService(repo, completion, &Retriever{Embeddings: embedding, Index: index, TopK: 3}, userSvc),
		repo:       repo,
		completion: completion,
		embedding:  embedding,
		index:      index,
		user:       user,
	}
}

func TestGenerateGuidelines(t *testing.T) {
	f := newFixture(t)
	f.completion.response = `['계기를 작성해 주세요.', '과정을 서술해 주세요.', '목표를 작성해 주세요.']`

	guidelines, err := f.svc.GenerateGuidelines(context.Background(), "성장 과정")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(guidelines) != 3 {
		t.Fatalf("expected 3 guidelines, got %d", len(guidelines))
	}
	if f.completion.calls != 1 {
		t.Fatalf("expected 1 completion call, got %d", f.completion.calls)
	}
}

func TestGenerateGuidelinesFormatErrorNoRetry(t *testing.T) {
	f := newFixture(t)
	f.completion.response = "리스트가 아닌 답변"

	_, err := f.svc.GenerateGuidelines(context.Background(), "성장 과정")
	if !errors.Is(err, ErrGuidelineFormat) {
		t.Fatalf("expected ErrGuidelineFormat, got %v", err)
	}
	if f.completion.calls != 1 {
		t.Fatalf("expected no retry, got %d calls", f.completion.calls)
	}
}

func TestGenerateGuidelinesRequiresQuestion(t *testing.T) {
	f := newFixture(t)
	if _, err := f.svc.GenerateGuidelines(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGenerateEndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resume, err := f.svc.Generate(ctx, f.user.ID, GenerateRequest{
		Title:      "네이버 자소서",
		Question:   "지원 동기",
		Guidelines: []string{"G1", "G2", "G3"},
		Answers:    []string{"이 직무가 좋아서", "", "개발을 잘해서"},
		FreeAnswer: "",
		FavorInfo:  "성실함",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resume.ID == "" {
		t.Fatal("expected a document id")
	}
	if resume.Content != "생성된 자기소개서" {
		t.Fatalf("unexpected content: %q", resume.Content)
	}
	if resume.IsFinished || resume.IsLiked {
		t.Fatal("expected fresh flags to be false")
	}

	// combined text omits the guideline whose answer is empty
	if f.embedding.calls != 1 {
		t.Fatalf("expected 1 embedding call, got %d", f.embedding.calls)
	}
	combined := f.embedding.texts[0]
	if strings.Contains(combined, "G2") {
		t.Fatalf("combined text should omit unanswered guideline: %q", combined)
	}
	if !strings.Contains(combined, "G1\n이 직무가 좋아서") || !strings.Contains(combined, "G3\n개발을 잘해서") {
		t.Fatalf("unexpected combined text: %q", combined)
	}

	if f.index.calls != 1 {
		t.Fatalf("expected 1 vector query, got %d", f.index.calls)
	}
	if f.completion.calls != 1 {
		t.Fatalf("expected 1 completion call, got %d", f.completion.calls)
	}

	// the returned id resolves, with exactly one turn holding the prompt
	got, turns, err := f.svc.GetWithTurns(ctx, f.user.ID, resume.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != resume.ID {
		t.Fatalf("id mismatch: %q vs %q", got.ID, resume.ID)
	}
	if len(turns) != 1 {
		t.Fatalf("expected exactly 1 turn, got %d", len(turns))
	}
	if turns[0].Query != f.completion.prompts[0] {
		t.Fatal("first turn query should be the full generation prompt")
	}
	if turns[0].Response != "생성된 자기소개서" {
		t.Fatalf("unexpected turn response: %q", turns[0].Response)
	}
}

func TestGenerateRetrieverFailurePersistsNothing(t *testing.T) {
	f := newFixture(t)
	f.index.err = errors.New("connection refused")

	_, err := f.svc.Generate(context.Background(), f.user.ID, GenerateRequest{
		Title:      "t",
		Question:   "q",
		Guidelines: []string{"G1"},
		Answers:    []string{"A1"},
	})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if f.completion.calls != 0 {
		t.Fatal("completion must not be called after retrieval failure")
	}

	resumes, err := f.svc.List(context.Background(), f.user.ID, ListFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resumes) != 0 {
		t.Fatalf("expected zero persisted resumes, got %d", len(resumes))
	}
}

func TestGenerateCompletionFailurePersistsNothing(t *testing.T) {
	f := newFixture(t)
	f.completion.err = errors.New("429")

	_, err := f.svc.Generate(context.Background(), f.user.ID, GenerateRequest{
		Title:      "t",
		Question:   "q",
		Guidelines: []string{"G1"},
		Answers:    []string{"A1"},
	})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}

	resumes, _ := f.svc.List(context.Background(), f.user.ID, ListFilter{})
	if len(resumes) != 0 {
		t.Fatalf("expected zero persisted resumes, got %d", len(resumes))
	}
}

func TestGenerateProceedsWithoutMatches(t *testing.T) {
	f := newFixture(t)
	f.index.matches = nil

	resume, err := f.svc.Generate(context.Background(), f.user.ID, GenerateRequest{
		Title:      "t",
		Question:   "q",
		Guidelines: []string{"G1"},
		Answers:    []string{"A1"},
	})
	if err != nil {
		t.Fatalf("expected generation to proceed without examples, got %v", err)
	}
	if resume.ID == "" {
		t.Fatal("expected a document id")
	}
}

func TestGenerateValidatesInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []GenerateRequest{
		{Question: "q", Guidelines: []string{"g"}, Answers: []string{"a"}},            // missing title
		{Title: "t", Guidelines: []string{"g"}, Answers: []string{"a"}},               // missing question
		{Title: "t", Question: "q", Guidelines: []string{"g", "g2"}, Answers: []string{"a"}}, // length mismatch
	}
	for i, req := range cases {
		if _, err := f.svc.Generate(ctx, f.user.ID, req); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestRefineAppendsExactlyOneTurn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resume, err := f.svc.Generate(ctx, f.user.ID, GenerateRequest{
		Title:      "t",
		Question:   "q",
		Guidelines: []string{"G1"},
		Answers:    []string{"A1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, before, err := f.svc.GetWithTurns(ctx, f.user.ID, resume.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.completion.response = "다듬어진 자기소개서"
	turn, err := f.svc.Refine(ctx, f.user.ID, resume.ID, "더 간결하게 써 주세요")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn.Response != "다듬어진 자기소개서" {
		t.Fatalf("unexpected response: %q", turn.Response)
	}
	if turn.Query != "더 간결하게 써 주세요" {
		t.Fatalf("turn query should be the raw instruction, got %q", turn.Query)
	}

	_, after, err := f.svc.GetWithTurns(ctx, f.user.ID, resume.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("expected exactly one appended turn: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("existing turn %d changed: %+v vs %+v", i, before[i], after[i])
		}
	}

	// refinement prompt embeds the latest draft
	last := f.completion.prompts[len(f.completion.prompts)-1]
	if !strings.Contains(last, "생성된 자기소개서") {
		t.Fatalf("refinement prompt missing current draft: %q", last)
	}

	// document content follows the newest response
	updated, err := f.svc.Get(ctx, f.user.ID, resume.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Content != "다듬어진 자기소개서" {
		t.Fatalf("content not updated: %q", updated.Content)
	}
}

func TestRefineOwnershipIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resume, err := f.svc.Generate(ctx, f.user.ID, GenerateRequest{
		Title:      "t",
		Question:   "q",
		Guidelines: []string{"G1"},
		Answers:    []string{"A1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.svc.Refine(ctx, "someone-else", resume.ID, "고쳐줘"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRefineQuotaExhausted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resume, err := f.svc.Generate(ctx, f.user.ID, GenerateRequest{
		Title:      "t",
		Question:   "q",
		Guidelines: []string{"G1"},
		Answers:    []string{"A1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < users.DefaultChatCredits; i++ {
		if _, err := f.svc.Refine(ctx, f.user.ID, resume.ID, "고쳐줘"); err != nil {
			t.Fatalf("refine %d: %v", i, err)
		}
	}
	if _, err := f.svc.Refine(ctx, f.user.ID, resume.ID, "고쳐줘"); !errors.Is(err, users.ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
}

func TestRefineUpstreamFailureRefundsCredit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resume, err := f.svc.Generate(ctx, f.user.ID, GenerateRequest{
		Title:      "t",
		Question:   "q",
		Guidelines: []string{"G1"},
		Answers:    []string{"A1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.completion.err = errors.New("503")
	if _, err := f.svc.Refine(ctx, f.user.ID, resume.ID, "고쳐줘"); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	f.completion.err = nil

	// the failed attempt delivered nothing, so the full daily allowance
	// must still be spendable
	for i := 0; i < users.DefaultChatCredits; i++ {
		if _, err := f.svc.Refine(ctx, f.user.ID, resume.ID, "고쳐줘"); err != nil {
			t.Fatalf("refine %d after failed attempt: %v", i, err)
		}
	}
	if _, err := f.svc.Refine(ctx, f.user.ID, resume.ID, "고쳐줘"); !errors.Is(err, users.ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
}

func TestRefineAppendFailureRefundsCredit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resume, err := f.svc.Generate(ctx, f.user.ID, GenerateRequest{
		Title:      "t",
		Question:   "q",
		Guidelines: []string{"G1"},
		Answers:    []string{"A1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.repo.FailTurnWrites = true
	if _, err := f.svc.Refine(ctx, f.user.ID, resume.ID, "고쳐줘"); err == nil {
		t.Fatal("expected refine to fail when the turn write fails")
	}
	f.repo.FailTurnWrites = false

	for i := 0; i < users.DefaultChatCredits; i++ {
		if _, err := f.svc.Refine(ctx, f.user.ID, resume.ID, "고쳐줘"); err != nil {
			t.Fatalf("refine %d after failed write: %v", i, err)
		}
	}
	if _, err := f.svc.Refine(ctx, f.user.ID, resume.ID, "고쳐줘"); !errors.Is(err, users.ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
}

func TestToggleLiked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resume, err := f.svc.Generate(ctx, f.user.ID, GenerateRequest{
		Title:      "t",
		Question:   "q",
		Guidelines: []string{"G1"},
		Answers:    []string{"A1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	toggled, err := f.svc.ToggleLiked(ctx, f.user.ID, resume.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !toggled.IsLiked {
		t.Fatal("expected liked after first toggle")
	}
	toggled, err = f.svc.ToggleLiked(ctx, f.user.ID, resume.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toggled.IsLiked {
		t.Fatal("expected unliked after second toggle")
	}
}

func TestDeleteRemovesTurns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resume, err := f.svc.Generate(ctx, f.user.ID, GenerateRequest{
		Title:      "t",
		Question:   "q",
		Guidelines: []string{"G1"},
		Answers:    []string{"A1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := f.svc.Delete(ctx, f.user.ID, resume.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Get(ctx, f.user.ID, resume.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	turns, err := f.repo.ListTurns(ctx, resume.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected turns removed, got %d", len(turns))
	}
}
