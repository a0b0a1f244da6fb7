package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/Geti23/quiz-app/internal/domain"
)

func newTestStore(t *testing.T) *QuizStore {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return NewQuizStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func sampleQuiz(t *testing.T, title string) *domain.Quiz {
	t.Helper()
	quiz := domain.NewQuiz(title)
	question, err := domain.NewQuestion("What is 2 + 2?", []string{"3", "4", "5", "6"}, "4")
	if err != nil {
		t.Fatalf("new question: %v", err)
	}
	quiz.AddQuestion(question)
	return quiz
}

func TestRedisRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	original := sampleQuiz(t, "Science Quiz")
	original.SetTimeLimit(600)
	original.SubmitAnswer(0, "4")

	id, err := store.Add(ctx, original)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if original.ID != "" {
		t.Fatalf("add must not stamp the caller's object")
	}

	quiz, found, err := store.Get(ctx, id)
	if err != nil || !found {
		t.Fatalf("get: found=%v err=%v", found, err)
	}
	if quiz.ID != id || quiz.Title != "Science Quiz" {
		t.Fatalf("unexpected quiz %q/%q", quiz.ID, quiz.Title)
	}
	if *quiz.TimeLimitSeconds != 600 {
		t.Fatalf("time limit lost: %v", quiz.TimeLimitSeconds)
	}
	if quiz.Answers[0] != "4" {
		t.Fatalf("answer ledger lost: %v", quiz.Answers)
	}
	if quiz.StartTime == nil {
		t.Fatalf("timer state lost in round trip")
	}
	if result := quiz.Result(); result.Score != 1 || result.Total != 1 {
		t.Fatalf("rebuilt quiz scores wrong: %+v", result)
	}

	// The retrieved copy is independent of the stored snapshot.
	quiz.Title = "Hijacked"
	again, _, _ := store.Get(ctx, id)
	if again.Title != "Science Quiz" {
		t.Fatalf("retrieved-copy mutation leaked into the store")
	}
}

func TestRedisGetUnknownID(t *testing.T) {
	store := newTestStore(t)
	quiz, found, err := store.Get(context.Background(), "nonexistent-id")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if found || quiz != nil {
		t.Fatalf("expected absent result")
	}
}

func TestRedisUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	id, _ := store.Add(ctx, sampleQuiz(t, "Original"))

	if updated, err := store.Update(ctx, "nonexistent-id", sampleQuiz(t, "Ghost")); err != nil || updated {
		t.Fatalf("update on unknown id: updated=%v err=%v", updated, err)
	}

	replacement := sampleQuiz(t, "Updated")
	replacement.ID = "wrong-id"
	if updated, err := store.Update(ctx, id, replacement); err != nil || !updated {
		t.Fatalf("update: updated=%v err=%v", updated, err)
	}
	quiz, _, _ := store.Get(ctx, id)
	if quiz.Title != "Updated" || quiz.ID != id {
		t.Fatalf("update result wrong: %q/%q", quiz.Title, quiz.ID)
	}

	if deleted, err := store.Delete(ctx, id); err != nil || !deleted {
		t.Fatalf("delete: deleted=%v err=%v", deleted, err)
	}
	if deleted, _ := store.Delete(ctx, id); deleted {
		t.Fatalf("second delete must report failure")
	}
	if size, _ := store.Size(ctx); size != 0 {
		t.Fatalf("expected empty store, got %d", size)
	}
}

func TestRedisListClearSize(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	store.Add(ctx, sampleQuiz(t, "First"))
	store.Add(ctx, sampleQuiz(t, "Second"))

	quizzes, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(quizzes) != 2 || quizzes[0].Title != "First" || quizzes[1].Title != "Second" {
		t.Fatalf("unexpected list %v", quizzes)
	}
	if size, _ := store.Size(ctx); size != 2 {
		t.Fatalf("expected size 2, got %d", size)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if size, _ := store.Size(ctx); size != 0 {
		t.Fatalf("expected size 0 after clear, got %d", size)
	}
}
