package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the question invariants: at least two options, a correct index inside the
// options and question ids unique within the quiz.
func (q Quiz) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuiz, err)
	}
	seen := make(map[int]struct{}, len(q.Questions))
	for _, question := range q.Questions {
		if question.CorrectOptionIndex >= len(question.Options) {
			return fmt.Errorf("%w: question %d correct option %d out of range", ErrInvalidQuiz, question.ID, question.CorrectOptionIndex)
		}
		if _, dup := seen[question.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %d", ErrInvalidQuiz, question.ID)
		}
		seen[question.ID] = struct{}{}
	}
	return nil
}
