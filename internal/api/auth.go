package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aquasentry/aquasentry/internal/domain"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Identity is the authenticated caller extracted from the bearer token.
type Identity struct {
	UserID int64
	Role   domain.Role
}

// identityMiddleware validates the Authorization bearer token and injects
// the caller's Identity into the request context.
func (s *Server) identityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if !strings.HasPrefix(authz, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		id, err := parseToken(s.jwtSecret, strings.TrimPrefix(authz, "Bearer "))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// callerIdentity returns the Identity stored by identityMiddleware.
func callerIdentity(r *http.Request) Identity {
	id, _ := r.Context().Value(identityKey).(Identity)
	return id
}

// parseToken validates an HS256 token and extracts the uid and role claims.
func parseToken(secret, tokenStr string) (Identity, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, errors.New("invalid token")
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("malformed claims")
	}

	uid, ok := claims["uid"].(float64)
	if !ok {
		return Identity{}, errors.New("missing uid claim")
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return Identity{}, errors.New("missing role claim")
	}

	role := domain.Role(roleStr)
	switch role {
	case domain.RoleCitizen, domain.RoleAnalyst, domain.RoleAuthority:
	default:
		return Identity{}, errors.New("unknown role")
	}

	return Identity{UserID: int64(uid), Role: role}, nil
}
