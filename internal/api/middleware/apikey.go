package middleware

import (
	"crypto/subtle"
	"net/http"

	"learnex_quiz/internal/common"
)

const APIKeyHeader = "X-API-Key"

// RequireAPIKey guards loader endpoints. An empty key leaves them open.
func RequireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				common.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
