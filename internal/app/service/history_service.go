package service

import (
	"context"
	"fmt"

	"learnex_quiz/internal/common"
	"learnex_quiz/internal/domain/model"
	"learnex_quiz/internal/domain/repository"
)

type HistoryService struct {
	attemptRepo repository.AttemptRepository
}

func NewHistoryService(attemptRepo repository.AttemptRepository) *HistoryService {
	return &HistoryService{attemptRepo: attemptRepo}
}

// ListForUser returns the user's attempts, most recent first.
func (s *HistoryService) ListForUser(ctx context.Context, userID int64) ([]model.QuizAttempt, error) {
	attempts, err := s.attemptRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return attempts, nil
}

func (s *HistoryService) GetDetail(ctx context.Context, userID, attemptID int64) (*model.AttemptDetail, error) {
	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempt %d: %w", attemptID, err)
	}
	if attempt.UserID != userID {
		return nil, fmt.Errorf("%w: attempt belongs to another user", common.ErrForbidden)
	}

	answers, err := s.attemptRepo.ListAnswers(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to load answers for attempt %d: %w", attemptID, err)
	}
	return &model.AttemptDetail{Summary: *attempt, Answers: answers}, nil
}
