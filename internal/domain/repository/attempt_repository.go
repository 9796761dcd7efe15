package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"learnex_quiz/internal/common"
	"learnex_quiz/internal/domain/model"
)

type AttemptRepository interface {
	CreateAttempt(ctx context.Context, tx *sql.Tx, attempt *model.QuizAttempt) error
	CreateAnswers(ctx context.Context, tx *sql.Tx, attemptID int64, answers []model.QuizAttemptAnswer) error
	ListByUser(ctx context.Context, userID int64) ([]model.QuizAttempt, error)
	FindByID(ctx context.Context, id int64) (*model.QuizAttempt, error)
	ListAnswers(ctx context.Context, attemptID int64) ([]model.QuizAttemptAnswer, error)
}

type pgAttemptRepository struct {
	db *sql.DB
}

func NewPgAttemptRepository(db *sql.DB) AttemptRepository {
	return &pgAttemptRepository{db: db}
}

func (r *pgAttemptRepository) CreateAttempt(ctx context.Context, tx *sql.Tx, a *model.QuizAttempt) error {
	query := `INSERT INTO quiz_attempts (user_id, score, total_questions, time_taken, level)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id, created_at`
	err := conn(r.db, tx).QueryRowContext(ctx, query, a.UserID, a.Score, a.TotalQuestions, a.TimeTaken, a.Level).
		Scan(&a.ID, &a.Timestamp)
	if err != nil {
		return fmt.Errorf("pgAttemptRepository.CreateAttempt: %w", err)
	}
	return nil
}

func (r *pgAttemptRepository) CreateAnswers(ctx context.Context, tx *sql.Tx, attemptID int64, answers []model.QuizAttemptAnswer) error {
	query := `INSERT INTO quiz_attempt_answers
	          (attempt_id, position, question_id, question_text, user_answer, correct_answer, is_correct)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	c := conn(r.db, tx)
	for i := range answers {
		a := &answers[i]
		a.AttemptID = attemptID
		a.Position = i
		err := c.QueryRowContext(ctx, query, attemptID, a.Position, a.QuestionID, a.QuestionText, a.UserAnswer, a.CorrectAnswer, a.IsCorrect).
			Scan(&a.ID)
		if err != nil {
			return fmt.Errorf("pgAttemptRepository.CreateAnswers: answer %d: %w", i, err)
		}
	}
	return nil
}

const attemptColumns = `id, user_id, score, total_questions, time_taken, level, created_at`

func scanAttempt(row interface{ Scan(...any) error }, a *model.QuizAttempt) error {
	return row.Scan(&a.ID, &a.UserID, &a.Score, &a.TotalQuestions, &a.TimeTaken, &a.Level, &a.Timestamp)
}

func (r *pgAttemptRepository) ListByUser(ctx context.Context, userID int64) ([]model.QuizAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM quiz_attempts
	          WHERE user_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	attempts := []model.QuizAttempt{}
	for rows.Next() {
		var a model.QuizAttempt
		if err := scanAttempt(rows, &a); err != nil {
			return nil, fmt.Errorf("pgAttemptRepository.ListByUser: scan: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListByUser: %w", err)
	}
	return attempts, nil
}

func (r *pgAttemptRepository) FindByID(ctx context.Context, id int64) (*model.QuizAttempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM quiz_attempts WHERE id = $1`
	a := &model.QuizAttempt{}
	if err := scanAttempt(r.db.QueryRowContext(ctx, query, id), a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAttemptRepository.FindByID: %w", err)
	}
	return a, nil
}

func (r *pgAttemptRepository) ListAnswers(ctx context.Context, attemptID int64) ([]model.QuizAttemptAnswer, error) {
	query := `SELECT id, attempt_id, position, question_id, question_text, user_answer, correct_answer, is_correct
	          FROM quiz_attempt_answers WHERE attempt_id = $1 ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, query, attemptID)
	if err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListAnswers: %w", err)
	}
	defer rows.Close()

	answers := []model.QuizAttemptAnswer{}
	for rows.Next() {
		var a model.QuizAttemptAnswer
		var questionID sql.NullInt64
		var userAnswer sql.NullString
		if err := rows.Scan(&a.ID, &a.AttemptID, &a.Position, &questionID, &a.QuestionText, &userAnswer, &a.CorrectAnswer, &a.IsCorrect); err != nil {
			return nil, fmt.Errorf("pgAttemptRepository.ListAnswers: scan: %w", err)
		}
		if questionID.Valid {
			a.QuestionID = &questionID.Int64
		}
		if userAnswer.Valid {
			a.UserAnswer = &userAnswer.String
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAttemptRepository.ListAnswers: %w", err)
	}
	return answers, nil
}
