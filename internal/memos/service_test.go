package memos

import (
	"context"
	"errors"
	"testing"
)

func TestCreateRequiresTitle(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	_, err := svc.Create(context.Background(), "u1", "   ", "body")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", "면접 준비", "STAR 기법 정리")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := svc.Get(ctx, "u1", created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "면접 준비" || got.Content != "STAR 기법 정리" {
		t.Fatalf("unexpected memo: %+v", got)
	}
}

func TestGetIsOwnerScoped(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", "title", "content")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Get(ctx, "u2", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user, got %v", err)
	}
	if err := svc.Delete(ctx, "u2", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user's delete, got %v", err)
	}
	if _, err := svc.Update(ctx, "u2", created.ID, "x", "y"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other user's update, got %v", err)
	}
}

func TestListFiltersByKeyword(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u1", "포트폴리오 링크", "github.com/me"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Create(ctx, "u1", "자소서 초안", "지원 동기 메모"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Create(ctx, "u2", "자소서", "남의 메모"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	memos, err := svc.List(ctx, "u1", ListFilter{Keyword: "자소서"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(memos) != 1 {
		t.Fatalf("expected 1 memo, got %d", len(memos))
	}
	if memos[0].Title != "자소서 초안" {
		t.Fatalf("unexpected memo: %+v", memos[0])
	}
}

func TestListPaging(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := svc.Create(ctx, "u1", "memo", "content"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	page, err := svc.List(ctx, "u1", ListFilter{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 1 {
		t.Fatalf("expected 1 memo on last page, got %d", len(page))
	}

	empty, err := svc.List(ctx, "u1", ListFilter{Offset: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty page, got %d", len(empty))
	}
}

func TestUpdateRewritesFields(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", "old", "old body")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.Update(ctx, "u1", created.ID, "new", "new body")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "new" || updated.Content != "new body" {
		t.Fatalf("unexpected memo: %+v", updated)
	}
}
