package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type identityKeyType string

const identityKey identityKeyType = "authenticatedIdentity"

// Claims is the token shape the identity provider issues.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Photo  string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Identity is what handlers read from the request context. A zero UserID
// means the request is anonymous.
type Identity struct {
	UserID string
	Email  string
	Name   string
	Photo  string
}

func IdentityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey).(Identity); ok {
		return id
	}
	return Identity{}
}

func withIdentity(r *http.Request, id Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, id))
}

func parseBearer(r *http.Request, jwtSecret string) (Identity, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return Identity{}, fmt.Errorf("authorization header is not provided")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return Identity{}, fmt.Errorf("authorization header format must be Bearer <token>")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return Identity{}, fmt.Errorf("invalid token")
	}

	uid := claims.UserID
	if uid == "" {
		uid = claims.Subject
	}
	if uid == "" {
		return Identity{}, fmt.Errorf("token carries no user id")
	}

	return Identity{
		UserID: uid,
		Email:  claims.Email,
		Name:   claims.Name,
		Photo:  claims.Photo,
	}, nil
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := parseBearer(r, jwtSecret)
			if err != nil {
				logger.Debug("Rejected unauthenticated request",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, withIdentity(r, id))
		})
	}
}

// OptionalAuth attaches an identity when a valid token is present and lets
// anonymous requests through untouched. Read endpoints for toggle state must
// stay usable for anonymous viewers.
func OptionalAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, err := parseBearer(r, jwtSecret); err == nil {
				r = withIdentity(r, id)
			}
			next.ServeHTTP(w, r)
		})
	}
}
