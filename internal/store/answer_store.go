package store

import (
	"context"
	"time"
)

// AnswerStore persists the Q&A board answers.
type AnswerStore struct {
	db DB
}

func NewAnswerStore(db DB) *AnswerStore {
	return &AnswerStore{db: db}
}

type Answer struct {
	ID          string    `db:"id"`
	QuestionID  string    `db:"question_id"`
	UserID      string    `db:"user_id"`
	Content     string    `db:"content"`
	SubmittedAt time.Time `db:"submitted_at"`
}

func (s *AnswerStore) Create(ctx context.Context, tx Execer, id, questionID, userID, content string, submittedAt time.Time) error {
	query := `
		INSERT INTO answers (id, question_id, user_id, content, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query, id, questionID, userID, content, submittedAt)
	return err
}

func (s *AnswerStore) List(ctx context.Context) ([]Answer, error) {
	var rows []Answer
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, question_id, user_id, content, submitted_at
		FROM answers
		ORDER BY submitted_at, id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AnswerStore) ListByQuestion(ctx context.Context, questionID string) ([]Answer, error) {
	var rows []Answer
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, question_id, user_id, content, submitted_at
		FROM answers
		WHERE question_id = $1
		ORDER BY submitted_at, id
	`, questionID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AnswerStore) ListByUser(ctx context.Context, userID string) ([]Answer, error) {
	var rows []Answer
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, question_id, user_id, content, submitted_at
		FROM answers
		WHERE user_id = $1
		ORDER BY submitted_at, id
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AnswerStore) DeleteAll(ctx context.Context, tx Execer) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM answers`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
