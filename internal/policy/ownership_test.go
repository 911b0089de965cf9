package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/projectdesk/projectdesk-api/internal/apperr"
	"github.com/projectdesk/projectdesk-api/internal/models"
)

func principal(role models.Role) *models.AuthContext {
	return &models.AuthContext{UserID: primitive.NewObjectID(), Role: role, IsActive: true}
}

func projectOf(creator primitive.ObjectID, assignee *primitive.ObjectID) *models.ProjectRequest {
	return &models.ProjectRequest{
		ID:         primitive.NewObjectID(),
		Title:      "Quarterly report tooling",
		Status:     models.StatusPending,
		CreatedBy:  creator,
		AssignedTo: assignee,
	}
}

func TestSuperAdminAlwaysAllowed(t *testing.T) {
	admin := principal(models.RoleSuperAdmin)
	other := primitive.NewObjectID()
	project := projectOf(other, nil)

	for _, action := range []Action{ActionView, ActionUpdateStatus, ActionAssign} {
		assert.NoError(t, Check(admin, project, action))
	}
}

func TestManagerViewAndAssignOwnership(t *testing.T) {
	m1 := principal(models.RoleManager)
	m2 := principal(models.RoleManager)

	own := projectOf(m1.UserID, nil)
	foreign := projectOf(m2.UserID, nil)

	// M1 created the project: view and assign succeed.
	assert.NoError(t, Check(m1, own, ActionView))
	assert.NoError(t, Check(m1, own, ActionAssign))

	// A different manager is denied both.
	err := Check(m2, own, ActionView)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	err = Check(m1, foreign, ActionAssign)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestManagerCannotUpdateStatus(t *testing.T) {
	// Even on a project they created: status updates belong to the assignee
	// or a SuperAdmin.
	m := principal(models.RoleManager)
	project := projectOf(m.UserID, nil)

	err := Check(m, project, ActionUpdateStatus)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestStaffStatusUpdateRequiresAssignment(t *testing.T) {
	creator := primitive.NewObjectID()
	s1 := principal(models.RoleStaff)
	s2 := principal(models.RoleStaff)

	assigned := projectOf(creator, &s1.UserID)
	unassigned := projectOf(creator, nil)

	// The assignee may update status.
	assert.NoError(t, Check(s1, assigned, ActionUpdateStatus))
	assert.NoError(t, Check(s1, assigned, ActionView))

	// A different staff member is denied.
	err := Check(s2, assigned, ActionUpdateStatus)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// No assignee never matches Staff.
	err = Check(s1, unassigned, ActionUpdateStatus)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	err = Check(s2, unassigned, ActionView)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestStaffCannotAssign(t *testing.T) {
	s := principal(models.RoleStaff)
	project := projectOf(primitive.NewObjectID(), &s.UserID)

	err := Check(s, project, ActionAssign)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestUnknownRoleDenied(t *testing.T) {
	ghost := principal(models.Role("Contractor"))
	project := projectOf(ghost.UserID, &ghost.UserID)

	for _, action := range []Action{ActionView, ActionUpdateStatus, ActionAssign} {
		err := Check(ghost, project, action)
		require.Error(t, err)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	}
}

func TestScopeFilter(t *testing.T) {
	admin := principal(models.RoleSuperAdmin)
	manager := principal(models.RoleManager)
	staff := principal(models.RoleStaff)

	filter, err := ScopeFilter(admin)
	require.NoError(t, err)
	assert.Equal(t, bson.M{}, filter)

	filter, err = ScopeFilter(manager)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"created_by": manager.UserID}, filter)

	filter, err = ScopeFilter(staff)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"assigned_to": staff.UserID}, filter)

	_, err = ScopeFilter(principal(models.Role("Contractor")))
	assert.Error(t, err)
}

func TestDecisionIsIdempotent(t *testing.T) {
	m := principal(models.RoleManager)
	project := projectOf(m.UserID, nil)

	require.NoError(t, Check(m, project, ActionAssign))
	require.NoError(t, Check(m, project, ActionAssign))
}
