package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"learnex_quiz/internal/common"
)

type contextKey string

const (
	UserIDCtxKey  contextKey = "userID"
	authResultKey contextKey = "authResult"
)

const (
	ErrCodeAuthorizationRequired = "authorization_required"
	ErrCodeInvalidToken          = "invalid_token"
)

// TokenAuthenticator resolves a bearer token to a user id.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (int64, error)
}

type authResult struct {
	userID int64
	err    error
}

// Verify checks the bearer token, if any, and records the outcome for
// Authenticator. It never rejects a request on its own.
func Verify(auth TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := jwtauth.TokenFromHeader(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, err := auth.Authenticate(r.Context(), token)
			ctx := context.WithValue(r.Context(), authResultKey, authResult{userID: userID, err: err})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authenticator requires a token accepted by Verify and stores the user id in
// the request context. A missing token is 401, a token that fails verification is 422.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, ok := r.Context().Value(authResultKey).(authResult)
		if !ok {
			common.RespondWithErrorCode(w, http.StatusUnauthorized, ErrCodeAuthorizationRequired,
				"Request does not contain an access token.")
			return
		}
		if res.err != nil {
			common.RespondWithErrorCode(w, http.StatusUnprocessableEntity, ErrCodeInvalidToken,
				"Signature verification failed")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDCtxKey, res.userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(int64)
	return userID, ok
}
