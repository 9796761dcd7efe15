package security

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const userIDClaim = "user_id"

// TokenIssuer signs and verifies HS256 bearer tokens carrying the user id.
type TokenIssuer struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

func NewTokenIssuer(key []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		auth: jwtauth.New("HS256", key, nil),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (t *TokenIssuer) GenerateToken(userID int64) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		userIDClaim: strconv.FormatInt(userID, 10),
		"exp":       now.Add(t.ttl).Unix(),
		"iat":       now.Unix(),
	}
	_, tokenString, err := t.auth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("security.GenerateToken: %w", err)
	}
	return tokenString, nil
}

// ParseToken verifies the signature and expiry and returns the user id.
func (t *TokenIssuer) ParseToken(ctx context.Context, tokenString string) (int64, error) {
	token, err := jwtauth.VerifyToken(t.auth, tokenString)
	if err != nil {
		return 0, err
	}
	claims, err := token.AsMap(ctx)
	if err != nil {
		return 0, err
	}
	return GetUserIDFromClaims(claims)
}

func GetUserIDFromClaims(claims jwt.MapClaims) (int64, error) {
	raw, ok := claims[userIDClaim].(string)
	if !ok {
		return 0, errors.New("user_id claim is missing or not a string")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("user_id claim is not numeric: %w", err)
	}
	return id, nil
}
