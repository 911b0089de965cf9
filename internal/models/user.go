package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NormalizeEmail canonicalizes the email natural key. Every insert and every
// lookup goes through this so the unique index is case-insensitive in effect.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// User represents an account in the system. Accounts are never hard-deleted;
// IsActive is the soft-disable flag toggled by a SuperAdmin.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name" validate:"required,max=100"`
	Email     string             `bson:"email" json:"email" validate:"required,email"`
	Password  string             `bson:"password" json:"-"` // bcrypt hash; empty means external-auth-only
	GoogleID  string             `bson:"google_id,omitempty" json:"-"`
	Role      Role               `bson:"role" json:"role"`
	IsActive  bool               `bson:"is_active" json:"is_active"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=SuperAdmin Manager Staff"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest carries the Google ID token for POST /auth/google-login.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

// CreateUserRequest is the body for SuperAdmin-initiated user creation.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=SuperAdmin Manager Staff"`
}

// UpdateUserRoleRequest is the body for PUT /users/{id}/role.
type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=SuperAdmin Manager Staff"`
}

// LoginResponse is returned by the login and register endpoints.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// AuthContext is the authenticated principal attached to a request after the
// authentication gate resolves the bearer token.
type AuthContext struct {
	UserID   primitive.ObjectID
	Email    string
	Role     Role
	IsActive bool
}

// HasPermission checks the principal's role against the static registry.
func (ac *AuthContext) HasPermission(perm Permission) bool {
	return RoleGrants(ac.Role, perm)
}

// MissingPermissions returns the subset of required permissions the
// principal's role does not hold. Authorization is conjunctive: an empty
// result is the only pass.
func (ac *AuthContext) MissingPermissions(required []Permission) []Permission {
	var missing []Permission
	for _, perm := range required {
		if !RoleGrants(ac.Role, perm) {
			missing = append(missing, perm)
		}
	}
	return missing
}
