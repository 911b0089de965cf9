package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/projectdesk/projectdesk-api/internal/apperr"
	"github.com/projectdesk/projectdesk-api/internal/models"
	"github.com/projectdesk/projectdesk-api/internal/utils"
)

var testSecret = []byte("middleware-test-secret")

// fakeResolver is an in-memory UserResolver.
type fakeResolver struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeResolver) GetUserByID(id primitive.ObjectID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("user not found")
}

func newFixture(t *testing.T, role models.Role, active bool) (*AuthMiddleware, *models.User, string) {
	t.Helper()
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Name:     "Test User",
		Email:    "user@example.com",
		Role:     role,
		IsActive: active,
	}
	resolver := &fakeResolver{users: map[primitive.ObjectID]*models.User{user.ID: user}}
	token, err := utils.GenerateToken(user.ID, user.Email, user.Role, testSecret)
	require.NoError(t, err)
	return NewAuthMiddleware(testSecret, resolver), user, token
}

func doRequest(m *AuthMiddleware, authHeader string, perms ...models.Permission) (*httptest.ResponseRecorder, *models.AuthContext) {
	var captured *models.AuthContext
	handler := m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = GetAuthContext(r)
		w.WriteHeader(http.StatusOK)
	}, perms...)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec, captured
}

func TestMissingHeader(t *testing.T) {
	m, _, _ := newFixture(t, models.RoleStaff, true)
	rec, _ := doRequest(m, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMalformedHeader(t *testing.T) {
	m, _, token := newFixture(t, models.RoleStaff, true)

	for _, header := range []string{"Token " + token, token, "Bearer"} {
		rec, _ := doRequest(m, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestInvalidSignature(t *testing.T) {
	m, user, _ := newFixture(t, models.RoleStaff, true)
	forged, err := utils.GenerateToken(user.ID, user.Email, user.Role, []byte("wrong-secret"))
	require.NoError(t, err)

	rec, _ := doRequest(m, "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubjectNoLongerExists(t *testing.T) {
	m, _, _ := newFixture(t, models.RoleStaff, true)
	ghost, err := utils.GenerateToken(primitive.NewObjectID(), "ghost@example.com", models.RoleStaff, testSecret)
	require.NoError(t, err)

	rec, _ := doRequest(m, "Bearer "+ghost)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// brokenResolver simulates a user store that cannot serve lookups.
type brokenResolver struct{}

func (brokenResolver) GetUserByID(id primitive.ObjectID) (*models.User, error) {
	return nil, apperr.New(apperr.KindInternal, "failed to fetch user")
}

func TestStoreFailureIsNotAuthFailure(t *testing.T) {
	// A store outage must surface as 500, not invalidate the session.
	m := NewAuthMiddleware(testSecret, brokenResolver{})
	token, err := utils.GenerateToken(primitive.NewObjectID(), "user@example.com", models.RoleStaff, testSecret)
	require.NoError(t, err)

	rec, _ := doRequest(m, "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestDisabledAccountRejected(t *testing.T) {
	// A deactivated account fails authentication even with a valid token.
	m, _, token := newFixture(t, models.RoleManager, false)

	rec, _ := doRequest(m, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["message"], "deactivated")
}

func TestAuthenticationOnlyEndpoint(t *testing.T) {
	m, user, token := newFixture(t, models.RoleStaff, true)

	rec, principal := doRequest(m, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, user.ID, principal.UserID)
	assert.Equal(t, models.RoleStaff, principal.Role)
}

func TestPermissionGranted(t *testing.T) {
	m, _, token := newFixture(t, models.RoleManager, true)

	rec, _ := doRequest(m, "Bearer "+token, models.PermCreateProject, models.PermAssignProject)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDenialListsExactlyMissingPermissions(t *testing.T) {
	m, _, token := newFixture(t, models.RoleManager, true)

	// Manager holds create_project but not the other two.
	rec, _ := doRequest(m, "Bearer "+token,
		models.PermCreateProject, models.PermViewAllUsers, models.PermToggleUserActive)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body struct {
		MissingPermissions []string `json:"missing_permissions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"view_all_users", "toggle_user_active"}, body.MissingPermissions)
}

func TestStaffDeniedManagerPermission(t *testing.T) {
	m, _, token := newFixture(t, models.RoleStaff, true)

	rec, _ := doRequest(m, "Bearer "+token, models.PermAssignProject)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoleChangeTakesEffectOnNextRequest(t *testing.T) {
	m, user, token := newFixture(t, models.RoleStaff, true)

	rec, _ := doRequest(m, "Bearer "+token, models.PermAssignProject)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The store is the source of truth for the role, not the token.
	user.Role = models.RoleManager
	rec, _ = doRequest(m, "Bearer "+token, models.PermAssignProject)
	assert.Equal(t, http.StatusOK, rec.Code)

	// And the prior Staff-only permission now fails.
	rec, _ = doRequest(m, "Bearer "+token, models.PermUpdateProjectStatus)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetAuthContextWithoutGate(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	_, err := GetAuthContext(req)
	require.Error(t, err)
	// A missing principal is a credential failure, not Forbidden.
	assert.Equal(t, apperr.KindUnauthenticated, apperr.KindOf(err))
}
