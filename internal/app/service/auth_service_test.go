package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnex_quiz/internal/common"
	"learnex_quiz/internal/common/security"
)

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	return NewAuthService(repo, security.NewTokenIssuer([]byte("test-secret"), time.Hour)), repo
}

func TestRegisterThenLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.True(t, user.NotificationsEnabled)
	assert.NotEqual(t, "pw1", user.HashedPassword)

	resp, err := svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "a@x.com", resp.Email)

	userID, err := svc.Authenticate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterRequest{Username: "alice", Email: "other@x.com", Password: "pw2"})
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Contains(t, err.Error(), "username already exists")

	_, err = svc.Register(ctx, RegisterRequest{Username: "bob", Email: "a@x.com", Password: "pw2"})
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.Contains(t, err.Error(), "email already exists")
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "alice", Password: "pw"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRegisterFieldLimits(t *testing.T) {
	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"long username", RegisterRequest{Username: strings.Repeat("u", MaxUsernameLength+1), Email: "a@x.com", Password: "pw"}},
		{"long email", RegisterRequest{Username: "alice", Email: strings.Repeat("e", MaxEmailLength) + "@x.com", Password: "pw"}},
		{"long password", RegisterRequest{Username: "alice", Email: "a@x.com", Password: strings.Repeat("p", security.MaxPasswordBytes+1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestAuthService(t)
			_, err := svc.Register(context.Background(), tt.req)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Empty(t, repo.users)
		})
	}

	svc, _ := newTestAuthService(t)
	_, err := svc.Register(context.Background(), RegisterRequest{
		Username: strings.Repeat("ü", MaxUsernameLength),
		Email:    "a@x.com",
		Password: strings.Repeat("p", security.MaxPasswordBytes),
	})
	assert.NoError(t, err)
}

func TestLoginFailures(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw1"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@x.com", Password: "pw1"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Authenticate(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "old"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "new"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{CurrentPassword: "old"})
	assert.ErrorIs(t, err, common.ErrValidation)

	err = svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{CurrentPassword: "old", NewPassword: strings.Repeat("n", security.MaxPasswordBytes+1)})
	assert.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, ChangePasswordRequest{CurrentPassword: "old", NewPassword: "new"}))

	_, err = svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "old"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	_, err = svc.Login(ctx, LoginRequest{Email: "a@x.com", Password: "new"})
	assert.NoError(t, err)
}

func TestUserServiceSettings(t *testing.T) {
	auth, repo := newTestAuthService(t)
	svc := NewUserService(repo)
	ctx := context.Background()
	user, err := auth.Register(ctx, RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)

	off := false
	require.NoError(t, svc.UpdateSettings(ctx, user.ID, UpdateSettingsRequest{NotificationsEnabled: &off}))
	profile, err := svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, profile.NotificationsEnabled)

	require.NoError(t, svc.UpdateSettings(ctx, user.ID, UpdateSettingsRequest{}))
	profile, err = svc.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, profile.NotificationsEnabled)

	err = svc.UpdateSettings(ctx, 999, UpdateSettingsRequest{})
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = svc.GetProfile(ctx, 999)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
