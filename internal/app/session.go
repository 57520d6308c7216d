package app

import (
	"strings"
	"sync"

	"hunter-quiz-service/internal/domain"
)

// Recorder stores the result of a finished session.
type Recorder interface {
	Record(p domain.Participant) domain.Leaderboard
}

// Session is the quiz state machine for one participant:
// NotStarted -> InProgress (start) -> Finished (advance on the last question) -> NotStarted (restart).
// Every method runs under the session lock and either applies all of its effects or none.
type Session struct {
	id       string
	quiz     domain.Quiz
	recorder Recorder

	mu              sync.Mutex
	phase           domain.Phase
	currentIndex    int
	selected        *int
	runningScore    int
	participantName string
}

// NewSession creates a session in the NotStarted phase. The quiz must already be validated.
func NewSession(id string, quiz domain.Quiz, recorder Recorder) *Session {
	return &Session{
		id:       id,
		quiz:     quiz,
		recorder: recorder,
		phase:    domain.PhaseNotStarted,
	}
}

func (s *Session) ID() string {
	return s.id
}

// CanStart reports whether Start(name) would be accepted.
func CanStart(name string) bool {
	return strings.TrimSpace(name) != ""
}

// Start begins a new attempt for name, resetting counters even if a previous attempt exists.
func (s *Session) Start(name string) error {
	if !CanStart(name) {
		return domain.ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.participantName = name
	s.runningScore = 0
	s.currentIndex = 0
	s.selected = nil
	s.phase = domain.PhaseInProgress
	return nil
}

// SelectOption records the chosen option for the current question. The index is not checked
// against the options; an out-of-range choice simply scores as wrong.
func (s *Session) SelectOption(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != domain.PhaseInProgress {
		return domain.ErrInvalidPhase
	}
	s.selected = &index
	return nil
}

// CanAdvance reports whether Advance would be accepted.
func (s *Session) CanAdvance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canAdvanceLocked()
}

func (s *Session) canAdvanceLocked() bool {
	return s.phase == domain.PhaseInProgress && s.selected != nil
}

// Advance scores the current selection and moves to the next question, or finishes the
// session after the last one.
func (s *Session) Advance() (domain.AdvanceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseInProgress {
		return domain.AdvanceResult{}, domain.ErrInvalidPhase
	}
	if s.selected == nil {
		return domain.AdvanceResult{}, domain.ErrNoSelection
	}

	correct := *s.selected == s.quiz.Questions[s.currentIndex].CorrectOptionIndex
	if correct {
		s.runningScore++
	}

	if s.currentIndex < len(s.quiz.Questions)-1 {
		s.currentIndex++
		s.selected = nil
	} else {
		s.finishLocked()
	}

	return domain.AdvanceResult{
		Correct:      correct,
		Finished:     s.phase == domain.PhaseFinished,
		RunningScore: s.runningScore,
	}, nil
}

// finishLocked records the attempt. The last answer was already scored by Advance, so the
// running score is final here.
func (s *Session) finishLocked() {
	if s.recorder != nil {
		s.recorder.Record(domain.Participant{
			Name:       s.participantName,
			FinalScore: s.runningScore,
		})
	}
	s.phase = domain.PhaseFinished
}

// Restart returns the session to NotStarted from any phase. Recorded results are kept.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = domain.PhaseNotStarted
	s.participantName = ""
	s.selected = nil
	s.currentIndex = 0
	s.runningScore = 0
}

// Phase returns the current phase.
func (s *Session) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// View returns a snapshot for rendering.
func (s *Session) View() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := domain.SessionView{
		SessionID:       s.id,
		Phase:           s.phase,
		ParticipantName: s.participantName,
		CurrentIndex:    s.currentIndex,
		TotalQuestions:  len(s.quiz.Questions),
		RunningScore:    s.runningScore,
		CanAdvance:      s.canAdvanceLocked(),
	}
	if s.selected != nil {
		selected := *s.selected
		view.SelectedOptionIndex = &selected
	}
	if s.phase == domain.PhaseInProgress {
		q := s.quiz.Questions[s.currentIndex].View()
		view.Question = &q
		view.IsLastQuestion = s.currentIndex == len(s.quiz.Questions)-1
	}
	return view
}
