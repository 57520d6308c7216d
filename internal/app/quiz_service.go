package app

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"hunter-quiz-service/internal/domain"
)

// SessionRepository abstracts where active sessions live (in-memory, Redis-marked, etc).
type SessionRepository interface {
	Save(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// QuizService contains the quiz use cases. Each participant drives an isolated Session held
// in the session arena; the Leaderboard is the only state shared between them.
type QuizService struct {
	quizID      string
	sessions    SessionRepository
	quizzes     QuizRepository
	leaderboard *Leaderboard
	observer    Observer
	log         logrus.FieldLogger
	newID       func() string
}

// Option customizes a QuizService.
type Option func(*QuizService)

// WithObserver reports lifecycle events to o.
func WithObserver(o Observer) Option {
	return func(s *QuizService) { s.observer = o }
}

// WithLogger sets the logger used for session transitions.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *QuizService) { s.log = log }
}

// WithIDGenerator replaces the uuid session id generator; useful in tests.
func WithIDGenerator(gen func() string) Option {
	return func(s *QuizService) { s.newID = gen }
}

func NewQuizService(quizID string, store SessionRepository, quizzes QuizRepository, leaderboard *Leaderboard, opts ...Option) *QuizService {
	discard := logrus.New()
	discard.Out = io.Discard
	s := &QuizService{
		quizID:      quizID,
		sessions:    store,
		quizzes:     quizzes,
		leaderboard: leaderboard,
		observer:    nopObserver{},
		log:         discard,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Warm loads and validates the question set so a broken dataset fails at startup.
func (s *QuizService) Warm(ctx context.Context) error {
	_, err := s.loadQuiz(ctx)
	return err
}

// Questions returns the question set without the answers.
func (s *QuizService) Questions(ctx context.Context) ([]domain.QuestionView, error) {
	quiz, err := s.loadQuiz(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]domain.QuestionView, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		views = append(views, q.View())
	}
	return views, nil
}

// QuizID returns the id of the question set served by this service.
func (s *QuizService) QuizID() string {
	return s.quizID
}

// CreateSession opens a NotStarted session in the arena.
func (s *QuizService) CreateSession(ctx context.Context) (domain.SessionView, error) {
	quiz, err := s.loadQuiz(ctx)
	if err != nil {
		return domain.SessionView{}, err
	}
	session := NewSession(s.newID(), quiz, s.leaderboard)
	s.sessions.Save(session)
	s.observer.SessionCreated()
	s.log.WithField("session", session.ID()).Debug("session created")
	return session.View(), nil
}

// CloseSession drops a session from the arena. Recorded results stay on the leaderboard.
func (s *QuizService) CloseSession(_ context.Context, sessionID string) {
	if _, ok := s.sessions.Get(sessionID); !ok {
		return
	}
	s.sessions.Delete(sessionID)
	s.observer.SessionClosed()
	s.log.WithField("session", sessionID).Debug("session closed")
}

// Start begins an attempt for name.
func (s *QuizService) Start(_ context.Context, sessionID, name string) (domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}
	if err := session.Start(name); err != nil {
		return session.View(), err
	}
	s.observer.SessionStarted()
	s.log.WithFields(logrus.Fields{"session": sessionID, "name": name}).Info("quiz started")
	return session.View(), nil
}

// SelectOption records the participant's current choice.
func (s *QuizService) SelectOption(_ context.Context, sessionID string, index int) (domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}
	err := session.SelectOption(index)
	return session.View(), err
}

// Advance scores the current answer and moves on, recording the result after the last question.
func (s *QuizService) Advance(_ context.Context, sessionID string) (domain.SessionView, domain.AdvanceResult, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.AdvanceResult{}, domain.ErrSessionNotFound
	}
	result, err := session.Advance()
	view := session.View()
	if err != nil {
		return view, result, err
	}

	s.observer.AnswerScored(result.Correct)
	if result.Finished {
		participant := domain.Participant{Name: view.ParticipantName, FinalScore: result.RunningScore}
		s.observer.SessionFinished(participant, s.leaderboard.Len())
		s.log.WithFields(logrus.Fields{
			"session": sessionID,
			"name":    participant.Name,
			"score":   participant.FinalScore,
			"total":   view.TotalQuestions,
		}).Info("quiz finished")
	}
	return view, result, nil
}

// Restart returns the session to NotStarted.
func (s *QuizService) Restart(_ context.Context, sessionID string) (domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}
	session.Restart()
	return session.View(), nil
}

// View returns the current snapshot of a session.
func (s *QuizService) View(_ context.Context, sessionID string) (domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}
	return session.View(), nil
}

// Leaderboard returns at most limit entries of the ranking; limit <= 0 means all.
func (s *QuizService) Leaderboard(limit int) domain.Leaderboard {
	return s.leaderboard.Top(limit)
}

// SubscribeLeaderboard streams ranking updates. The caller must invoke cancel.
func (s *QuizService) SubscribeLeaderboard() (<-chan domain.Leaderboard, func()) {
	return s.leaderboard.Subscribe()
}

func (s *QuizService) loadQuiz(ctx context.Context) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, s.quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if err := quiz.Validate(); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}
