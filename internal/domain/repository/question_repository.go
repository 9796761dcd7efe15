package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"learnex_quiz/internal/domain/model"
)

type QuestionRepository interface {
	DeleteAll(ctx context.Context, tx *sql.Tx) error
	InsertQuestions(ctx context.Context, tx *sql.Tx, questions []model.Question) error
	ListAll(ctx context.Context) ([]model.Question, error)
}

type pgQuestionRepository struct {
	db *sql.DB
}

func NewPgQuestionRepository(db *sql.DB) QuestionRepository {
	return &pgQuestionRepository{db: db}
}

// DeleteAll must run inside tx. It locks the table first so concurrent
// replacements queue behind each other instead of merging their inserts.
// Readers are not blocked.
func (r *pgQuestionRepository) DeleteAll(ctx context.Context, tx *sql.Tx) error {
	if tx == nil {
		return errors.New("pgQuestionRepository.DeleteAll: requires a transaction")
	}
	if _, err := tx.ExecContext(ctx, `LOCK TABLE questions IN EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("pgQuestionRepository.DeleteAll: lock: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("pgQuestionRepository.DeleteAll: %w", err)
	}
	return nil
}

// InsertQuestions stores questions in slice order; Position is assigned from the index.
func (r *pgQuestionRepository) InsertQuestions(ctx context.Context, tx *sql.Tx, questions []model.Question) error {
	query := `INSERT INTO questions (position, question_text, options, correct_answer)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	c := conn(r.db, tx)
	for i := range questions {
		q := &questions[i]
		q.Position = i
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("pgQuestionRepository.InsertQuestions: marshal options: %w", err)
		}
		if err := c.QueryRowContext(ctx, query, q.Position, q.Text, string(options), q.Answer).Scan(&q.ID); err != nil {
			return fmt.Errorf("pgQuestionRepository.InsertQuestions: question %d: %w", i, err)
		}
	}
	return nil
}

func (r *pgQuestionRepository) ListAll(ctx context.Context) ([]model.Question, error) {
	query := `SELECT id, position, question_text, options, correct_answer
	          FROM questions ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.ListAll: %w", err)
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		var options []byte
		if err := rows.Scan(&q.ID, &q.Position, &q.Text, &options, &q.Answer); err != nil {
			return nil, fmt.Errorf("pgQuestionRepository.ListAll: scan: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("pgQuestionRepository.ListAll: options of question %d: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.ListAll: %w", err)
	}
	return questions, nil
}
