package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionIssuer   = "tipjar"
	sessionAudience = "tipjar-clients"
)

// SessionClaims are the local session token claims. Subject carries the
// external identity id; UserID the local surrogate id.
type SessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

type sessionKey string

const (
	externalIDKey sessionKey = "external_id"
	userIDKey     sessionKey = "user_id"
)

// SignSession issues a session token for an authenticated identity.
func SignSession(secret, externalID, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   externalID,
			Issuer:    sessionIssuer,
			Audience:  jwt.ClaimStrings{sessionAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseSession validates a session token and returns its claims.
func ParseSession(secret, token string) (*SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer(sessionIssuer))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*SessionClaims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// AuthSession requires a valid bearer session token and stores the
// authenticated identity in the request context.
func AuthSession(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization", http.StatusUnauthorized)
				return
			}
			claims, err := ParseSession(secret, parts[1])
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), externalIDKey, claims.Subject)
			ctx = context.WithValue(ctx, userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExternalIDFromContext returns the authenticated external identity id.
func ExternalIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(externalIDKey).(string); ok {
		return v
	}
	return ""
}

// UserIDFromContext returns the authenticated local user id.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}
