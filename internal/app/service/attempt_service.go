package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"learnex_quiz/internal/common"
	"learnex_quiz/internal/domain/model"
	"learnex_quiz/internal/domain/repository"
)

type AttemptService struct {
	attemptRepo repository.AttemptRepository
	tx          repository.Transactor
}

func NewAttemptService(attemptRepo repository.AttemptRepository, tx repository.Transactor) *AttemptService {
	return &AttemptService{attemptRepo: attemptRepo, tx: tx}
}

type AnswerInput struct {
	QuestionID    *int64  `json:"question_id"`
	QuestionText  string  `json:"question_text"`
	UserAnswer    *string `json:"user_answer"`
	CorrectAnswer string  `json:"correct_answer"`
	IsCorrect     bool    `json:"is_correct"`
}

type SubmitAttemptRequest struct {
	Score          *int          `json:"score"`
	TotalQuestions *int          `json:"total_questions"`
	TimeTaken      *float64      `json:"time_taken"`
	Level          string        `json:"level"`
	Answers        []AnswerInput `json:"answers"`
}

type SubmitAttemptResponse struct {
	Message   string `json:"message"`
	AttemptID int64  `json:"attempt_id"`
}

var errInvalidAttempt = fmt.Errorf("%w: invalid data", common.ErrValidation)

// Submit records the attempt and its answers atomically.
func (s *AttemptService) Submit(ctx context.Context, userID int64, req SubmitAttemptRequest) (*model.QuizAttempt, error) {
	if req.Score == nil || len(req.Answers) == 0 {
		return nil, errInvalidAttempt
	}

	attempt := &model.QuizAttempt{
		UserID:         userID,
		Score:          *req.Score,
		TotalQuestions: len(req.Answers),
		Level:          req.Level,
	}
	if req.TotalQuestions != nil {
		attempt.TotalQuestions = *req.TotalQuestions
	}
	if req.TimeTaken != nil {
		attempt.TimeTaken = *req.TimeTaken
	}
	if attempt.TotalQuestions < 0 || attempt.Score < 0 || attempt.Score > attempt.TotalQuestions {
		return nil, fmt.Errorf("%w: score must be between 0 and total_questions", common.ErrValidation)
	}
	if attempt.TimeTaken < 0 {
		return nil, fmt.Errorf("%w: time_taken must not be negative", common.ErrValidation)
	}

	answers := make([]model.QuizAttemptAnswer, len(req.Answers))
	for i, a := range req.Answers {
		answers[i] = model.QuizAttemptAnswer{
			QuestionID:    a.QuestionID,
			QuestionText:  a.QuestionText,
			UserAnswer:    a.UserAnswer,
			CorrectAnswer: a.CorrectAnswer,
			IsCorrect:     a.IsCorrect,
		}
	}

	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.attemptRepo.CreateAttempt(ctx, tx, attempt); err != nil {
			return err
		}
		return s.attemptRepo.CreateAnswers(ctx, tx, attempt.ID, answers)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}
	log.Printf("INFO: Attempt %d recorded for user %d (%d/%d)", attempt.ID, userID, attempt.Score, attempt.TotalQuestions)
	return attempt, nil
}
