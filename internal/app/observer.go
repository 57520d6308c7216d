package app

import "hunter-quiz-service/internal/domain"

// Observer receives session lifecycle events, e.g. for metrics.
type Observer interface {
	SessionCreated()
	SessionClosed()
	SessionStarted()
	AnswerScored(correct bool)
	SessionFinished(p domain.Participant, leaderboardSize int)
}

type nopObserver struct{}

func (nopObserver) SessionCreated()                         {}
func (nopObserver) SessionClosed()                          {}
func (nopObserver) SessionStarted()                         {}
func (nopObserver) AnswerScored(bool)                       {}
func (nopObserver) SessionFinished(domain.Participant, int) {}
