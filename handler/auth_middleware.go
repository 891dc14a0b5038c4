package handler

import (
	"context"
	"go-content-api/common"
	"go-content-api/model"
	"go-content-api/repository"
	"go-content-api/service"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserUIDKey   contextKey = "userUID"
	UserEmailKey contextKey = "userEmail"
)

// AuthMiddleware verifies the Bearer access token and stores the claims
// in the request context.
func AuthMiddleware(issuer *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				err := common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil)
				err.Send(w)
				return
			}

			headerParts := strings.Split(authHeader, " ")
			if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
				err := common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil)
				err.Send(w)
				return
			}

			claims, err := issuer.Verify(headerParts[1])
			if err != nil {
				appErr := common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", nil)
				appErr.Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserUIDKey, claims.UID)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware resolves the authenticated user and requires the admin
// role. The role lives in the database rather than the token, so a role
// change takes effect without waiting for token expiry.
func AdminMiddleware(users repository.IUserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := r.Context().Value(UserUIDKey).(string)
			if !ok {
				err := common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
				err.Send(w)
				return
			}

			user, err := users.GetByUID(uid)
			if err != nil || user == nil || user.Role != model.RoleAdmin {
				appErr := common.NewAppError(http.StatusForbidden, "Access denied. Admin privileges required.", nil)
				appErr.Send(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
