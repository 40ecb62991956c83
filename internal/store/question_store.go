package store

import (
	"context"
	"time"
)

// QuestionStore persists the Q&A board questions.
type QuestionStore struct {
	db DB
}

func NewQuestionStore(db DB) *QuestionStore {
	return &QuestionStore{db: db}
}

type Question struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Content     string    `db:"content"`
	SubmittedAt time.Time `db:"submitted_at"`
}

func (s *QuestionStore) Create(ctx context.Context, tx Execer, id, userID, content string, submittedAt time.Time) error {
	query := `
		INSERT INTO questions (id, user_id, content, submitted_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := tx.ExecContext(ctx, query, id, userID, content, submittedAt)
	return err
}

func (s *QuestionStore) List(ctx context.Context) ([]Question, error) {
	var rows []Question
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, content, submitted_at
		FROM questions
		ORDER BY submitted_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *QuestionStore) GetByID(ctx context.Context, questionID string) (Question, error) {
	var row Question
	err := s.db.GetContext(ctx, &row, `
		SELECT id, user_id, content, submitted_at
		FROM questions
		WHERE id = $1
	`, questionID)
	if err != nil {
		return Question{}, err
	}
	return row, nil
}

func (s *QuestionStore) ListByUser(ctx context.Context, userID string) ([]Question, error) {
	var rows []Question
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, content, submitted_at
		FROM questions
		WHERE user_id = $1
		ORDER BY submitted_at DESC, id
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Search returns questions whose content contains the keyword,
// case-insensitively.
func (s *QuestionStore) Search(ctx context.Context, keyword string) ([]Question, error) {
	var rows []Question
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, content, submitted_at
		FROM questions
		WHERE content ILIKE '%' || $1 || '%'
		ORDER BY submitted_at DESC, id
	`, keyword)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes a question and its answers in one transaction.
func (s *QuestionStore) Delete(ctx context.Context, tx Execer, questionID string) (int64, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE question_id = $1`, questionID); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, questionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *QuestionStore) DeleteAll(ctx context.Context, tx Execer) (int64, error) {
	if _, err := tx.ExecContext(ctx, `DELETE FROM answers`); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM questions`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
