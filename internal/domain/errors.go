package domain

import "errors"

var (
	// ErrQuizNotFound indicates the requested quiz does not exist in the store.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionTextEmpty is returned when a question is built with blank text.
	ErrQuestionTextEmpty = errors.New("question text must not be empty")
	// ErrQuestionIndexOutOfRange is returned by direct question lookups with a bad index.
	// Answer submission deliberately does NOT return this; see Quiz.SubmitAnswer.
	ErrQuestionIndexOutOfRange = errors.New("question index out of range")
	// ErrAnswerIndexOutOfRange is the boundary-level rejection of an answer whose
	// index does not point at an existing question.
	ErrAnswerIndexOutOfRange = errors.New("answer index out of range")
)
