package http

import (
	"encoding/json"
	"errors"

	"hunter-quiz-service/internal/domain"
)

// Inbound websocket message types.
const (
	msgStart   = "start"
	msgSelect  = "select"
	msgAdvance = "advance"
	msgRestart = "restart"
	msgState   = "state"
)

// Outbound websocket message types.
const (
	msgSession      = "session"
	msgAnswerResult = "answerResult"
	msgLeaderboard  = "leaderboard"
	msgError        = "error"
)

// Error codes sent to clients.
const (
	codeNameRequired = "name_required"
	codeNoSelection  = "no_selection"
	codeInvalidPhase = "invalid_phase"
	codeNotFound     = "not_found"
	codeBadRequest   = "bad_request"
	codeInternal     = "internal"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Name string `json:"name"`
}

type selectPayload struct {
	Index *int `json:"index"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type quizPayload struct {
	QuizID    string                `json:"quizId"`
	Questions []domain.QuestionView `json:"questions"`
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return codeNameRequired
	case errors.Is(err, domain.ErrNoSelection):
		return codeNoSelection
	case errors.Is(err, domain.ErrInvalidPhase):
		return codeInvalidPhase
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrQuizNotFound):
		return codeNotFound
	default:
		return codeInternal
	}
}
