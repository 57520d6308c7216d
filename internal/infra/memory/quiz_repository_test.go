package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hunter-quiz-service/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{QuizLoader: NewDefaultQuizLoader()}
	repo := NewQuizRepository(loader, time.Minute)

	quiz, err := repo.GetQuiz(context.Background(), domain.DefaultQuizID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if len(quiz.Questions) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(quiz.Questions))
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls.Load())
	}

	if _, err := repo.GetQuiz(context.Background(), domain.DefaultQuizID); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls.Load() != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls.Load())
	}
}

func TestQuizRepositoryReloadsAfterExpiry(t *testing.T) {
	loader := &countingLoader{QuizLoader: NewDefaultQuizLoader()}
	repo := NewQuizRepository(loader, time.Minute)
	now := time.Date(2024, 11, 22, 0, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return now }

	_, _ = repo.GetQuiz(context.Background(), domain.DefaultQuizID)
	now = now.Add(2 * time.Minute)
	_, _ = repo.GetQuiz(context.Background(), domain.DefaultQuizID)

	if loader.calls.Load() != 2 {
		t.Fatalf("expected reload after ttl, loader calls %d", loader.calls.Load())
	}
}

func TestQuizRepositoryConcurrentMissLoadsOnce(t *testing.T) {
	release := make(chan struct{})
	loader := &countingLoader{QuizLoader: NewDefaultQuizLoader(), block: release}
	repo := NewQuizRepository(loader, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.GetQuiz(context.Background(), domain.DefaultQuizID)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if loader.calls.Load() != 1 {
		t.Fatalf("expected a single load, got %d", loader.calls.Load())
	}
}

func TestStaticQuizLoaderUnknownQuiz(t *testing.T) {
	_, err := NewDefaultQuizLoader().LoadQuiz(context.Background(), "nope")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

type countingLoader struct {
	QuizLoader
	calls atomic.Int32
	block chan struct{}
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls.Add(1)
	if l.block != nil {
		<-l.block
	}
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}
