package app

import (
	"context"
	"sync"

	"github.com/Geti23/quiz-app/internal/domain"
)

// QuizStore abstracts how quizzes are persisted (in-memory, Redis, etc).
//
// Every implementation must honor the copy-on-write contract: a quiz handed
// in or out is an independent copy, so no caller ever observes a mutation
// made by another holder (or by the store itself). Not-found is reported via
// the boolean, never via the error; the error is reserved for infrastructure
// failures.
type QuizStore interface {
	Add(ctx context.Context, quiz *domain.Quiz) (string, error)
	Get(ctx context.Context, id string) (*domain.Quiz, bool, error)
	Update(ctx context.Context, id string, quiz *domain.Quiz) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*domain.Quiz, error)
	Clear(ctx context.Context) error
	Size(ctx context.Context) (int, error)
}

// AnswerFeedback is what a client learns after submitting an answer.
type AnswerFeedback struct {
	QuestionIndex int    `json:"question_index"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
}

// QuizResults bundles the score with review data for the results endpoint.
type QuizResults struct {
	Result           domain.QuizResult `json:"result"`
	Passed           bool              `json:"passed"`
	Perfect          bool              `json:"perfect"`
	IncorrectIndices []int             `json:"incorrect_indices"`
}

// QuizService contains the quiz use cases. It is the request boundary's
// collaborator: index bounds checks and title validation live here, while the
// domain layer stays deliberately lenient about out-of-range answer indices.
type QuizService struct {
	store QuizStore

	mu       sync.Mutex
	watchers map[string]map[chan domain.QuizResult]struct{}
}

func NewQuizService(store QuizStore) *QuizService {
	return &QuizService{
		store:    store,
		watchers: make(map[string]map[chan domain.QuizResult]struct{}),
	}
}

// Create builds a quiz from the given parts and persists it. Questions are
// validated and deduplicated through the domain constructors; the returned
// quiz carries the store-assigned id.
func (s *QuizService) Create(ctx context.Context, title string, timeLimitSeconds *float64, questions []domain.Question) (*domain.Quiz, error) {
	quiz, err := buildQuiz(title, timeLimitSeconds, questions)
	if err != nil {
		return nil, err
	}

	id, err := s.store.Add(ctx, quiz)
	if err != nil {
		return nil, err
	}
	quiz.ID = id
	return quiz, nil
}

// Get returns the stored quiz or domain.ErrQuizNotFound.
func (s *QuizService) Get(ctx context.Context, id string) (*domain.Quiz, error) {
	quiz, found, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrQuizNotFound
	}
	return quiz, nil
}

// List returns all stored quizzes.
func (s *QuizService) List(ctx context.Context) ([]*domain.Quiz, error) {
	return s.store.List(ctx)
}

// Replace swaps the stored quiz under id for a freshly built one. The answer
// ledger and timer start over, matching a full PUT of the resource.
func (s *QuizService) Replace(ctx context.Context, id, title string, timeLimitSeconds *float64, questions []domain.Question) (*domain.Quiz, error) {
	quiz, err := buildQuiz(title, timeLimitSeconds, questions)
	if err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, quiz)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, domain.ErrQuizNotFound
	}
	quiz.ID = id
	return quiz, nil
}

// Delete removes the quiz or reports domain.ErrQuizNotFound.
func (s *QuizService) Delete(ctx context.Context, id string) error {
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrQuizNotFound
	}
	return nil
}

// SubmitAnswer records an answer against the quiz. Unlike the domain layer,
// the boundary rejects indices outside the question count with
// domain.ErrAnswerIndexOutOfRange before anything is recorded.
func (s *QuizService) SubmitAnswer(ctx context.Context, id string, questionIndex int, answer string) (AnswerFeedback, error) {
	quiz, found, err := s.store.Get(ctx, id)
	if err != nil {
		return AnswerFeedback{}, err
	}
	if !found {
		return AnswerFeedback{}, domain.ErrQuizNotFound
	}

	question, err := quiz.QuestionAt(questionIndex)
	if err != nil {
		return AnswerFeedback{}, domain.ErrAnswerIndexOutOfRange
	}

	quiz.SubmitAnswer(questionIndex, answer)
	if _, err := s.store.Update(ctx, id, quiz); err != nil {
		return AnswerFeedback{}, err
	}

	s.broadcast(id, quiz.Result())

	return AnswerFeedback{
		QuestionIndex: questionIndex,
		Correct:       question.CheckAnswer(answer),
		CorrectAnswer: question.CorrectAnswer,
	}, nil
}

// Results computes the score and review data for the quiz.
func (s *QuizService) Results(ctx context.Context, id string) (QuizResults, error) {
	quiz, found, err := s.store.Get(ctx, id)
	if err != nil {
		return QuizResults{}, err
	}
	if !found {
		return QuizResults{}, domain.ErrQuizNotFound
	}

	result := quiz.Result()
	return QuizResults{
		Result:           result,
		Passed:           result.IsPassing(domain.DefaultPassingThreshold),
		Perfect:          result.IsPerfect(),
		IncorrectIndices: quiz.IncorrectIndices(),
	}, nil
}

// ClearAll drops every stored quiz.
func (s *QuizService) ClearAll(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// Size returns the number of stored quizzes.
func (s *QuizService) Size(ctx context.Context) (int, error) {
	return s.store.Size(ctx)
}

// WatchResults returns a channel that receives a result snapshot after every
// answer submission for the quiz, starting with the current one. The caller
// must invoke the returned cancel function to avoid leaks.
func (s *QuizService) WatchResults(ctx context.Context, id string) (<-chan domain.QuizResult, func(), error) {
	quiz, found, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !found {
		return nil, nil, domain.ErrQuizNotFound
	}

	ch := make(chan domain.QuizResult, 8)

	s.mu.Lock()
	subs, ok := s.watchers[id]
	if !ok {
		subs = make(map[chan domain.QuizResult]struct{})
		s.watchers[id] = subs
	}
	subs[ch] = struct{}{}
	s.mu.Unlock()

	ch <- quiz.Result()

	cancel := func() {
		s.mu.Lock()
		if subs, ok := s.watchers[id]; ok {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(s.watchers, id)
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

func (s *QuizService) broadcast(id string, result domain.QuizResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.watchers[id] {
		select {
		case ch <- result:
		default:
			// Drop the stale snapshot so a slow watcher never blocks submissions.
			select {
			case <-ch:
			default:
			}
			ch <- result
		}
	}
}

func buildQuiz(title string, timeLimitSeconds *float64, questions []domain.Question) (*domain.Quiz, error) {
	quiz := domain.NewQuiz(title)
	if timeLimitSeconds != nil {
		quiz.SetTimeLimit(*timeLimitSeconds)
	}
	for _, question := range questions {
		if err := question.Validate(); err != nil {
			return nil, err
		}
		quiz.AddQuestion(question)
	}
	return quiz, nil
}
