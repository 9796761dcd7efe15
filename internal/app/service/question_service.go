package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"learnex_quiz/internal/common"
	"learnex_quiz/internal/domain/model"
	"learnex_quiz/internal/domain/repository"
)

type QuestionService struct {
	questionRepo repository.QuestionRepository
	tx           repository.Transactor
}

func NewQuestionService(questionRepo repository.QuestionRepository, tx repository.Transactor) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, tx: tx}
}

// ReplaceAll swaps the whole question set in one transaction and returns how
// many questions were stored. A nil slice means the caller sent no list at all.
func (s *QuestionService) ReplaceAll(ctx context.Context, items []model.QuestionInput) (int, error) {
	if items == nil {
		return 0, fmt.Errorf("%w: invalid data format, expected a list of questions", common.ErrValidation)
	}

	questions := make([]model.Question, 0, len(items))
	for i, item := range items {
		if strings.TrimSpace(item.Text) == "" || len(item.Options) == 0 || strings.TrimSpace(item.Answer) == "" {
			return 0, fmt.Errorf("%w: question %d needs question, options and answer", common.ErrValidation, i)
		}
		questions = append(questions, model.Question{Text: item.Text, Options: item.Options, Answer: item.Answer})
	}

	err := s.tx.WithinTx(ctx, func(tx *sql.Tx) error {
		if err := s.questionRepo.DeleteAll(ctx, tx); err != nil {
			return err
		}
		return s.questionRepo.InsertQuestions(ctx, tx, questions)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to replace questions: %w", err)
	}
	log.Printf("INFO: Question set replaced with %d questions", len(questions))
	return len(questions), nil
}

func (s *QuestionService) ListAll(ctx context.Context) ([]model.Question, error) {
	questions, err := s.questionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, nil
}
