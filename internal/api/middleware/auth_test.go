package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnex_quiz/internal/app/service"
	"learnex_quiz/internal/common/security"
	"learnex_quiz/internal/domain/repository"
)

type recordingAuth struct {
	calls  []string
	userID int64
	err    error
}

func (a *recordingAuth) Authenticate(_ context.Context, token string) (int64, error) {
	a.calls = append(a.calls, token)
	return a.userID, a.err
}

func serveProtected(auth TokenAuthenticator, header string) (*httptest.ResponseRecorder, int64) {
	var seen int64
	h := Verify(auth)(Authenticator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))
	req := httptest.NewRequest(http.MethodGet, "/quiz", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func TestVerifyDelegatesToAuthenticator(t *testing.T) {
	auth := &recordingAuth{userID: 42}

	rec, userID := serveProtected(auth, "Bearer abc.def.ghi")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, []string{"abc.def.ghi"}, auth.calls)
}

func TestAuthenticatorMissingAndRejectedTokens(t *testing.T) {
	auth := &recordingAuth{err: errors.New("bad signature")}

	rec, _ := serveProtected(auth, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrCodeAuthorizationRequired)
	assert.Empty(t, auth.calls)

	rec, _ = serveProtected(auth, "Bearer forged")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), ErrCodeInvalidToken)
}

func TestAuthenticatorRejectsExpiredToken(t *testing.T) {
	tokens := security.NewTokenIssuer([]byte("middleware-secret"), -time.Minute)
	auth := service.NewAuthService(repository.UserRepository(nil), tokens)

	expired, err := tokens.GenerateToken(7)
	require.NoError(t, err)

	rec, _ := serveProtected(auth, "Bearer "+expired)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
