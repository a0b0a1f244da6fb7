package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Geti23/quiz-app/internal/domain"
)

// QuizStore is the in-memory implementation of app.QuizStore.
//
// Every pass-through clones the quiz in both directions: the store never
// hands out an alias to its internal state, and a caller's lingering
// reference can never mutate a stored entry. That clone discipline is the
// store's correctness contract, not an optimization.
type QuizStore struct {
	mu      sync.RWMutex
	quizzes map[string]*domain.Quiz
	order   []string
}

func NewQuizStore() *QuizStore {
	return &QuizStore{
		quizzes: make(map[string]*domain.Quiz),
	}
}

// Add stores a copy of quiz under a fresh UUID and returns the id. The stored
// copy carries the id; the caller's object is left untouched.
func (s *QuizStore) Add(_ context.Context, quiz *domain.Quiz) (string, error) {
	id := uuid.NewString()
	stored := quiz.Clone()
	stored.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[id] = stored
	s.order = append(s.order, id)
	return id, nil
}

// Get returns a copy of the stored quiz, or found=false for unknown ids.
func (s *QuizStore) Get(_ context.Context, id string) (*domain.Quiz, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.quizzes[id]
	if !ok {
		return nil, false, nil
	}
	return stored.Clone(), true, nil
}

// Update replaces the entry under id with a copy of quiz, restamping its id
// over whatever the caller's object carried. Unknown ids are a no-op.
func (s *QuizStore) Update(_ context.Context, id string, quiz *domain.Quiz) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[id]; !ok {
		return false, nil
	}
	stored := quiz.Clone()
	stored.ID = id
	s.quizzes[id] = stored
	return true, nil
}

// Delete removes the entry and reports whether it existed.
func (s *QuizStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quizzes[id]; !ok {
		return false, nil
	}
	delete(s.quizzes, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

// List returns copies of all stored quizzes in insertion order.
func (s *QuizStore) List(_ context.Context) ([]*domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quizzes := make([]*domain.Quiz, 0, len(s.order))
	for _, id := range s.order {
		quizzes = append(quizzes, s.quizzes[id].Clone())
	}
	return quizzes, nil
}

// Clear removes all entries.
func (s *QuizStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes = make(map[string]*domain.Quiz)
	s.order = nil
	return nil
}

// Size returns the number of stored quizzes.
func (s *QuizStore) Size(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quizzes), nil
}
