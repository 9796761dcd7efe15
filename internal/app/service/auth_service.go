package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"learnex_quiz/internal/common"
	"learnex_quiz/internal/common/security"
	"learnex_quiz/internal/domain/model"
	"learnex_quiz/internal/domain/repository"
)

// Column widths of the users table.
const (
	MaxUsernameLength = 20
	MaxEmailLength    = 120
)

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	Email       string `json:"email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: missing required fields", common.ErrValidation)
	}
	if utf8.RuneCountInString(req.Username) > MaxUsernameLength {
		return nil, fmt.Errorf("%w: username must be at most %d characters", common.ErrValidation, MaxUsernameLength)
	}
	if utf8.RuneCountInString(req.Email) > MaxEmailLength {
		return nil, fmt.Errorf("%w: email must be at most %d characters", common.ErrValidation, MaxEmailLength)
	}
	if err := checkPasswordLength(req.Password); err != nil {
		return nil, err
	}

	if err := s.ensureFree(ctx, s.userRepo.FindByUsername, req.Username, "username"); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, s.userRepo.FindByEmail, req.Email, "email"); err != nil {
		return nil, err
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username:             req.Username,
		Email:                req.Email,
		HashedPassword:       hashedPassword,
		NotificationsEnabled: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) ensureFree(ctx context.Context, find func(context.Context, string) (*model.User, error), value, field string) error {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s already exists", common.ErrConflict, field)
	case errors.Is(err, common.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to look up %s: %w", field, err)
	}
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: missing required fields", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errLoginFailed
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, errLoginFailed
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &LoginResponse{AccessToken: token, Username: user.Username, Email: user.Email}, nil
}

func checkPasswordLength(password string) error {
	if len(password) > security.MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrValidation, security.MaxPasswordBytes)
	}
	return nil
}

var errLoginFailed = fmt.Errorf("%w: login unsuccessful, please check email and password", common.ErrUnauthorized)

// Authenticate resolves a bearer token to the user id it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (int64, error) {
	userID, err := s.tokens.ParseToken(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}
	return userID, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fmt.Errorf("%w: missing required fields", common.ErrValidation)
	}
	if err := checkPasswordLength(req.NewPassword); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if !security.CheckPasswordHash(req.CurrentPassword, user.HashedPassword) {
		return fmt.Errorf("%w: incorrect current password", common.ErrUnauthorized)
	}

	hashedPassword, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
