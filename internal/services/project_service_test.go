package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/projectdesk/projectdesk-api/internal/apperr"
	"github.com/projectdesk/projectdesk-api/internal/models"
)

func TestUsableAssignee(t *testing.T) {
	active := &models.User{Role: models.RoleStaff, IsActive: true}
	assert.NoError(t, usableAssignee(active))

	// Assigning to a deactivated account is rejected at validation time.
	disabled := &models.User{Role: models.RoleStaff, IsActive: false}
	err := usableAssignee(disabled)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidationFailed, apperr.KindOf(err))
}
