package service

import (
	"context"
	"fmt"

	"learnex_quiz/internal/domain/model"
	"learnex_quiz/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type ProfileResponse struct {
	Username             string `json:"username"`
	Email                string `json:"email"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}

// UpdateSettingsRequest uses pointers so absent fields leave the stored value alone.
type UpdateSettingsRequest struct {
	NotificationsEnabled *bool `json:"notifications_enabled"`
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &ProfileResponse{
		Username:             user.Username,
		Email:                user.Email,
		NotificationsEnabled: user.NotificationsEnabled,
	}, nil
}

func (s *UserService) UpdateSettings(ctx context.Context, userID int64, req UpdateSettingsRequest) error {
	if req.NotificationsEnabled == nil {
		if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		return nil
	}
	if err := s.userRepo.UpdateSettings(ctx, userID, *req.NotificationsEnabled); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
