package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/projectdesk/projectdesk-api/internal/apperr"
	"github.com/projectdesk/projectdesk-api/internal/models"
)

// HashPassword hashes a plain-text password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plain-text password with a hashed password.
// An empty hash (external-auth-only account) never matches.
func CheckPasswordHash(password, hash string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken generates a new JWT bearer token for the user
func GenerateToken(userID primitive.ObjectID, email string, role models.Role, secretKey []byte) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.Hex(),
		"email":   email,
		"role":    string(role),
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
		"iss":     "projectdesk-api",
		"aud":     "projectdesk-clients",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ParseToken validates signature and expiry of a bearer token and returns the
// subject user ID. All failure modes collapse to Unauthenticated.
func ParseToken(tokenString string, secretKey []byte) (primitive.ObjectID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return primitive.NilObjectID, apperr.Unauthenticated("token expired, please login again")
		}
		return primitive.NilObjectID, apperr.Wrap(apperr.KindUnauthenticated, "invalid token", err)
	}
	if !token.Valid {
		return primitive.NilObjectID, apperr.Unauthenticated("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return primitive.NilObjectID, apperr.Unauthenticated("invalid token claims")
	}

	userIDHex, ok := claims["user_id"].(string)
	if !ok {
		return primitive.NilObjectID, apperr.Unauthenticated("user ID claim missing")
	}

	userID, err := primitive.ObjectIDFromHex(userIDHex)
	if err != nil {
		return primitive.NilObjectID, apperr.Unauthenticated("invalid user ID in token")
	}

	return userID, nil
}

// StatusForError maps a typed failure kind to an HTTP status code. This is the
// only place the HTTP layer interprets errors.
func StatusForError(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindUnauthenticated, apperr.KindAccountDisabled:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidationFailed, apperr.KindConflict, apperr.KindUnverifiedIdentity:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithAppError writes a typed failure as a JSON error response,
// including the missing-permission list on authorization denials.
func RespondWithAppError(w http.ResponseWriter, err error) {
	payload := map[string]interface{}{"error": true, "message": err.Error()}
	if missing := apperr.MissingOf(err); len(missing) > 0 {
		payload["missing_permissions"] = missing
	}
	RespondWithJSON(w, StatusForError(err), payload)
}

// RespondWithError sends a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]interface{}{"error": true, "message": message})
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Error marshalling JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
