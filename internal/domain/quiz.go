package domain

import (
	"sort"
	"time"
)

// Quiz is the aggregate: an ordered question list plus the answer ledger and
// timer state for one run through the quiz. The store owns a Quiz once it is
// persisted; everything handed back out is a copy.
//
// Title is not validated here; the HTTP boundary enforces non-empty titles
// through its request schema.
type Quiz struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	TimeLimitSeconds *float64       `json:"time_limit_seconds,omitempty"`
	Questions        []Question     `json:"questions"`
	Answers          map[int]string `json:"answers"`
	StartTime        *time.Time     `json:"start_time,omitempty"`

	now func() time.Time
}

// AnswerDetail is the review record for a single question.
type AnswerDetail struct {
	Question        Question `json:"question"`
	SubmittedAnswer *string  `json:"submitted_answer"`
	CorrectAnswer   string   `json:"correct_answer"`
	IsCorrect       bool     `json:"is_correct"`
}

// CategoryScore is the per-category slice of a quiz result.
type CategoryScore struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// NewQuiz creates an empty quiz with the wall clock.
func NewQuiz(title string) *Quiz {
	return NewQuizWithClock(title, time.Now)
}

// NewQuizWithClock allows deterministic timestamps in tests.
func NewQuizWithClock(title string, now func() time.Time) *Quiz {
	return &Quiz{
		Title:   title,
		Answers: make(map[int]string),
		now:     now,
	}
}

// clock tolerates quizzes rebuilt from a serialized snapshot, which come back
// without an injected clock.
func (q *Quiz) clock() time.Time {
	if q.now == nil {
		return time.Now()
	}
	return q.now()
}

// SetTimeLimit sets the limit in seconds. A quiz without a limit never expires.
func (q *Quiz) SetTimeLimit(seconds float64) {
	q.TimeLimitSeconds = &seconds
}

// AddQuestion appends question unless a structurally equal one is already
// present, in which case it silently does nothing.
func (q *Quiz) AddQuestion(question Question) {
	for _, existing := range q.Questions {
		if existing.Equal(question) {
			return
		}
	}
	q.Questions = append(q.Questions, question)
}

// QuestionAt returns the question at index, or ErrQuestionIndexOutOfRange.
func (q *Quiz) QuestionAt(index int) (Question, error) {
	if index < 0 || index >= len(q.Questions) {
		return Question{}, ErrQuestionIndexOutOfRange
	}
	return q.Questions[index], nil
}

// SubmitAnswer records answer against index and starts the timer on the first
// submission. The index is not bounds-checked: an out-of-range entry is kept
// in the ledger but never contributes to scoring or review. Rejecting bad
// indices is the boundary's job, not the domain's.
func (q *Quiz) SubmitAnswer(index int, answer string) {
	if q.Answers == nil {
		q.Answers = make(map[int]string)
	}
	if q.StartTime == nil {
		started := q.clock()
		q.StartTime = &started
	}
	q.Answers[index] = answer
}

// ElapsedTime returns seconds since the first submission, or 0 if the timer
// has not started.
func (q *Quiz) ElapsedTime() float64 {
	if q.StartTime == nil {
		return 0
	}
	return q.clock().Sub(*q.StartTime).Seconds()
}

// TimeExpired reports whether the elapsed time exceeds the limit. A quiz with
// no limit, or one whose timer has not started, is never expired. The
// comparison is strictly greater: a submission exactly at the limit still counts.
func (q *Quiz) TimeExpired() bool {
	if q.TimeLimitSeconds == nil || q.StartTime == nil {
		return false
	}
	return q.ElapsedTime() > *q.TimeLimitSeconds
}

// Result scores the ledger against the question list. Entries recorded under
// out-of-range indices are skipped entirely: they count toward neither score
// nor total.
func (q *Quiz) Result() QuizResult {
	score := 0
	for index, answer := range q.Answers {
		if index < 0 || index >= len(q.Questions) {
			continue
		}
		if q.Questions[index].CheckAnswer(answer) {
			score++
		}
	}
	return NewQuizResult(score, len(q.Questions))
}

// IncorrectIndices returns the indices answered incorrectly, in ascending
// order. Out-of-range entries are invisible here too: they are neither
// correct nor incorrect.
func (q *Quiz) IncorrectIndices() []int {
	indices := make([]int, 0, len(q.Answers))
	for index, answer := range q.Answers {
		if index < 0 || index >= len(q.Questions) {
			continue
		}
		if !q.Questions[index].CheckAnswer(answer) {
			indices = append(indices, index)
		}
	}
	sort.Ints(indices)
	return indices
}

// AnswerDetails returns the review record for the question at index.
//
// An empty submitted answer short-circuits IsCorrect to false without
// consulting CheckAnswer, even when the correct answer is itself empty.
// See DESIGN.md.
func (q *Quiz) AnswerDetails(index int) (AnswerDetail, error) {
	question, err := q.QuestionAt(index)
	if err != nil {
		return AnswerDetail{}, err
	}

	detail := AnswerDetail{
		Question:      question,
		CorrectAnswer: question.CorrectAnswer,
	}
	if answer, ok := q.Answers[index]; ok {
		detail.SubmittedAnswer = &answer
		detail.IsCorrect = answer != "" && question.CheckAnswer(answer)
	}
	return detail, nil
}

// QuestionsByDifficulty filters by exact difficulty match.
func (q *Quiz) QuestionsByDifficulty(level string) []Question {
	matched := make([]Question, 0)
	for _, question := range q.Questions {
		if question.Difficulty == level {
			matched = append(matched, question)
		}
	}
	return matched
}

// QuestionsByCategory filters by exact category match. The empty string is a
// valid filter key and selects uncategorized questions.
func (q *Quiz) QuestionsByCategory(category string) []Question {
	matched := make([]Question, 0)
	for _, question := range q.Questions {
		if question.Category == category {
			matched = append(matched, question)
		}
	}
	return matched
}

// ScoreByCategory scores only the questions in the given category. Questions
// without a recorded answer count toward the total but not the score.
func (q *Quiz) ScoreByCategory(category string) CategoryScore {
	score, total := 0, 0
	for index, question := range q.Questions {
		if question.Category != category {
			continue
		}
		total++
		if answer, ok := q.Answers[index]; ok && question.CheckAnswer(answer) {
			score++
		}
	}
	percentage := 0.0
	if total > 0 {
		percentage = float64(score) / float64(total) * 100
	}
	return CategoryScore{Score: score, Total: total, Percentage: percentage}
}

// Clone returns a deep copy sharing no mutable state with the original. The
// store relies on this for its copy-on-write isolation contract.
func (q *Quiz) Clone() *Quiz {
	clone := &Quiz{
		ID:    q.ID,
		Title: q.Title,
		now:   q.now,
	}
	if q.TimeLimitSeconds != nil {
		limit := *q.TimeLimitSeconds
		clone.TimeLimitSeconds = &limit
	}
	if q.StartTime != nil {
		started := *q.StartTime
		clone.StartTime = &started
	}
	clone.Questions = make([]Question, 0, len(q.Questions))
	for _, question := range q.Questions {
		clone.Questions = append(clone.Questions, question.Clone())
	}
	clone.Answers = make(map[int]string, len(q.Answers))
	for index, answer := range q.Answers {
		clone.Answers[index] = answer
	}
	return clone
}
