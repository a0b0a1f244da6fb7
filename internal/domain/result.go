package domain

import "fmt"

// DefaultPassingThreshold is the percentage required by IsPassing callers
// that have no opinion of their own.
const DefaultPassingThreshold = 60

// QuizResult is a value computed from a score/total pair. It is built fresh
// on every query and never persisted.
type QuizResult struct {
	Score      int     `json:"score"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// NewQuizResult derives the percentage, treating total == 0 as 0.0 instead of
// dividing by zero.
func NewQuizResult(score, total int) QuizResult {
	percentage := 0.0
	if total > 0 {
		percentage = float64(score) / float64(total) * 100
	}
	return QuizResult{Score: score, Total: total, Percentage: percentage}
}

// IsPerfect reports whether every question was answered correctly.
func (r QuizResult) IsPerfect() bool {
	return r.Score == r.Total
}

// IsPassing reports whether the percentage meets the threshold.
func (r QuizResult) IsPassing(threshold float64) bool {
	return r.Percentage >= threshold
}

// Summary renders a human-readable one-liner, e.g. "Score: 8/10 (80.0%)".
func (r QuizResult) Summary() string {
	return fmt.Sprintf("Score: %d/%d (%.1f%%)", r.Score, r.Total, r.Percentage)
}
