package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/projectdesk/projectdesk-api/internal/apperr"
	"github.com/projectdesk/projectdesk-api/internal/models"
	"github.com/projectdesk/projectdesk-api/internal/utils"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	ContextKeyAuthContext ContextKey = "authContext"
)

// UserResolver looks up the user behind a verified token subject.
type UserResolver interface {
	GetUserByID(id primitive.ObjectID) (*models.User, error)
}

// AuthMiddleware is the authentication and role-authorization gate. It
// resolves the bearer token to a principal, then enforces the required
// permission set against the static registry. Ownership checks are a later
// stage, in the services.
type AuthMiddleware struct {
	jwtSecret []byte
	users     UserResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(secret []byte, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: secret,
		users:     users,
	}
}

// Authenticate verifies the bearer token, attaches the principal to the
// request context, and requires ALL of requiredPerms to be granted to the
// principal's role. With no required permissions the endpoint is
// authentication-only. Denials list exactly the permissions that are missing.
func (m *AuthMiddleware) Authenticate(next http.HandlerFunc, requiredPerms ...models.Permission) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.RespondWithAppError(w, apperr.Unauthenticated("missing authorization header"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondWithAppError(w, apperr.Unauthenticated("invalid authorization header format"))
			return
		}

		userID, err := utils.ParseToken(parts[1], m.jwtSecret)
		if err != nil {
			utils.RespondWithAppError(w, err)
			return
		}

		user, err := m.users.GetUserByID(userID)
		if err != nil {
			// A vanished subject is a credential failure, not a resource
			// lookup failure. Anything else (store outage) keeps its kind
			// so it surfaces as 500, never as session invalidation.
			if apperr.KindOf(err) == apperr.KindNotFound {
				err = apperr.Unauthenticated("user no longer exists")
			}
			utils.RespondWithAppError(w, err)
			return
		}

		if !user.IsActive {
			utils.RespondWithAppError(w, apperr.AccountDisabled())
			return
		}

		authContext := &models.AuthContext{
			UserID:   user.ID,
			Email:    user.Email,
			Role:     user.Role,
			IsActive: user.IsActive,
		}

		if missing := authContext.MissingPermissions(requiredPerms); len(missing) > 0 {
			names := make([]string, len(missing))
			for i, p := range missing {
				names[i] = string(p)
			}
			utils.RespondWithAppError(w, apperr.MissingPermissions(names))
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyAuthContext, authContext)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetAuthContext retrieves the principal from the request's context. A
// missing principal means the handler ran without the gate, which surfaces
// as Unauthenticated rather than Forbidden.
func GetAuthContext(r *http.Request) (*models.AuthContext, error) {
	val := r.Context().Value(ContextKeyAuthContext)
	authContext, ok := val.(*models.AuthContext)
	if !ok || authContext == nil {
		return nil, apperr.Unauthenticated("authentication context not found in request")
	}
	return authContext, nil
}
