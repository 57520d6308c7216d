package domain

import (
	"fmt"
	"time"
)

// Phase is the stage of a quiz session.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText renders the phase as its string form in JSON payloads.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses the string form produced by MarshalText.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "not_started":
		*p = PhaseNotStarted
	case "in_progress":
		*p = PhaseInProgress
	case "finished":
		*p = PhaseFinished
	default:
		return fmt.Errorf("unknown phase %q", string(text))
	}
	return nil
}

// Question models a multiple-choice question. The position in Options is the choice identifier.
type Question struct {
	ID                 int      `json:"id" validate:"gt=0"`
	Text               string   `json:"text" validate:"required"`
	Options            []string `json:"options" validate:"min=2,dive,required"`
	CorrectOptionIndex int      `json:"correctOptionIndex" validate:"gte=0"`
	ImageRef           string   `json:"imageRef,omitempty"`
}

// View strips the answer so the question can be sent to clients.
func (q Question) View() QuestionView {
	options := make([]string, len(q.Options))
	copy(options, q.Options)
	return QuestionView{
		ID:       q.ID,
		Text:     q.Text,
		Options:  options,
		ImageRef: q.ImageRef,
	}
}

// QuestionView is a question as rendered by the presentation layer.
type QuestionView struct {
	ID       int      `json:"id"`
	Text     string   `json:"text"`
	Options  []string `json:"options"`
	ImageRef string   `json:"imageRef,omitempty"`
}

// Quiz is the fixed ordered question set.
type Quiz struct {
	ID        string     `json:"id" validate:"required"`
	Questions []Question `json:"questions" validate:"min=1,dive"`
}

// Participant is a user who completed a session.
type Participant struct {
	Name       string `json:"name"`
	FinalScore int    `json:"finalScore"`
}

// Leaderboard captures the ordered results of every finished session.
type Leaderboard struct {
	QuizID    string        `json:"quizId"`
	Entries   []Participant `json:"entries"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// SessionView is a read-only snapshot of a session for rendering.
type SessionView struct {
	SessionID           string        `json:"sessionId"`
	Phase               Phase         `json:"phase"`
	ParticipantName     string        `json:"participantName"`
	CurrentIndex        int           `json:"currentIndex"`
	TotalQuestions      int           `json:"totalQuestions"`
	SelectedOptionIndex *int          `json:"selectedOptionIndex"`
	RunningScore        int           `json:"runningScore"`
	IsLastQuestion      bool          `json:"isLastQuestion"`
	CanAdvance          bool          `json:"canAdvance"`
	Question            *QuestionView `json:"question,omitempty"`
}

// AdvanceResult summarizes the outcome of scoring one answer.
type AdvanceResult struct {
	Correct      bool `json:"correct"`
	Finished     bool `json:"finished"`
	RunningScore int  `json:"runningScore"`
}
