package migrations

import (
	"context"
	"encoding/json"

	"github.com/uptrace/bun"

	"hunter-quiz-service/internal/domain"
)

// QuizRow is a question set stored as a JSONB document.
type QuizRow struct {
	bun.BaseModel `bun:"table:quizzes"`

	ID   string          `bun:"id,pk"`
	Data json.RawMessage `bun:"data,type:jsonb"`
}

// NewQuizRow encodes quiz for storage.
func NewQuizRow(quiz domain.Quiz) (QuizRow, error) {
	data, err := json.Marshal(quiz)
	if err != nil {
		return QuizRow{}, err
	}
	return QuizRow{ID: quiz.ID, Data: data}, nil
}

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			row, err := NewQuizRow(domain.DefaultQuiz())
			if err != nil {
				return err
			}
			_, err = db.NewInsert().Model(&row).On("CONFLICT (id) DO NOTHING").Exec(ctx)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.NewDelete().Model((*QuizRow)(nil)).Where("id = ?", domain.DefaultQuizID).Exec(ctx)
			return err
		},
	)
}
