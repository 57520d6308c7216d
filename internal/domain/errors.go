package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session id is unknown.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidQuiz indicates loaded quiz content breaks a question invariant.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrNameRequired is returned by start when the participant name is blank.
	ErrNameRequired = errors.New("participant name is required")
	// ErrNoSelection is returned by advance when no option has been chosen yet.
	ErrNoSelection = errors.New("no option selected")
	// ErrInvalidPhase is returned when an operation is not allowed in the current phase.
	ErrInvalidPhase = errors.New("operation not allowed in current phase")
)
