package middleware

import (
	"context"
	"log"
	"net"
	"net/http"
	"strconv"

	"learnex_quiz/internal/common"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit keys on the authenticated user when there is one, the client IP
// otherwise. Limiter failures let the request through.
func RateLimit(l Limiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + clientKey(r)
			ok, err := l.Allow(r.Context(), key)
			if err != nil {
				log.Printf("WARN: rate limiter unavailable for %s: %v", key, err)
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				common.RespondWithError(w, http.StatusTooManyRequests, "Too many requests, please slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if userID, ok := GetUserIDFromContext(r.Context()); ok {
		return "user:" + strconv.FormatInt(userID, 10)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
