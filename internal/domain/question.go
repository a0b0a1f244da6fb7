package domain

import "strings"

// DefaultDifficulty is assigned when a question is created without one.
const DefaultDifficulty = "medium"

// Question is a single multiple-choice question. It is immutable in practice:
// nothing mutates a Question after construction.
//
// Options and CorrectAnswer are intentionally not validated: an empty option
// list is allowed, and the correct answer does not have to appear among the
// options. Callers that want stricter schemas enforce them at the boundary.
type Question struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Difficulty    string   `json:"difficulty"`
	Category      string   `json:"category,omitempty"`
}

// NewQuestion builds a question with the default difficulty and no category.
// It fails with ErrQuestionTextEmpty when text is empty or whitespace-only.
func NewQuestion(text string, options []string, correctAnswer string) (Question, error) {
	q := Question{
		Text:          text,
		Options:       options,
		CorrectAnswer: correctAnswer,
		Difficulty:    DefaultDifficulty,
	}
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}

// Validate checks the construction invariant. An empty Difficulty is
// normalized to the default rather than rejected.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return ErrQuestionTextEmpty
	}
	if q.Difficulty == "" {
		q.Difficulty = DefaultDifficulty
	}
	return nil
}

// CheckAnswer reports whether answer matches the correct answer exactly.
// No normalization: comparison is case- and whitespace-sensitive.
func (q Question) CheckAnswer(answer string) bool {
	return answer == q.CorrectAnswer
}

// Equal defines structural identity over (text, options, correct answer).
// Difficulty and category do not participate: two questions that differ only
// there are duplicates of each other.
func (q Question) Equal(other Question) bool {
	if q.Text != other.Text || q.CorrectAnswer != other.CorrectAnswer {
		return false
	}
	if len(q.Options) != len(other.Options) {
		return false
	}
	for i := range q.Options {
		if q.Options[i] != other.Options[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no slice storage with the original.
func (q Question) Clone() Question {
	clone := q
	if q.Options != nil {
		clone.Options = make([]string, len(q.Options))
		copy(clone.Options, q.Options)
	}
	return clone
}
