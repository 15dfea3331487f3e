package live

import "errors"

// ErrSessionNotFound is returned when no live session exists for a code
var ErrSessionNotFound = errors.New("live session not found")

// ErrQuestionNotFound is returned when a question ID does not belong to the session's quiz
var ErrQuestionNotFound = errors.New("question not found in quiz")

// ErrInvalidView is returned for a view tag outside quiz_board/question/answer
var ErrInvalidView = errors.New("invalid view")

// ErrCodeExhausted is returned when unique code generation ran out of retries
var ErrCodeExhausted = errors.New("failed to generate unique session code")
