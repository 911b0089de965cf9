// Package policy implements the per-resource ownership checks that run after
// role-level authorization, and the scope filters applied to list queries.
package policy

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/projectdesk/projectdesk-api/internal/apperr"
	"github.com/projectdesk/projectdesk-api/internal/models"
)

// Action is the family of project operations that need an ownership check on
// top of the role check.
type Action int

const (
	ActionView Action = iota
	ActionUpdateStatus
	ActionAssign
)

// Check decides whether the principal may perform action on the given project.
// Role-level authorization has already passed by the time this runs; Check
// only evaluates the creator/assignee ownership predicates. Comparisons are
// between raw ObjectIDs on both sides.
func Check(principal *models.AuthContext, project *models.ProjectRequest, action Action) error {
	if principal.Role == models.RoleSuperAdmin {
		return nil
	}

	switch action {
	case ActionView:
		switch principal.Role {
		case models.RoleManager:
			if project.CreatedBy != principal.UserID {
				return apperr.Forbidden("you can only view projects you created")
			}
			return nil
		case models.RoleStaff:
			// An unassigned project never matches Staff.
			if project.AssignedTo == nil || *project.AssignedTo != principal.UserID {
				return apperr.Forbidden("you can only view projects assigned to you")
			}
			return nil
		}

	case ActionUpdateStatus:
		// Only Staff has an affirmative path: the assignee may update status.
		// Manager cannot update status even on projects they created.
		if principal.Role == models.RoleStaff {
			if project.AssignedTo == nil || *project.AssignedTo != principal.UserID {
				return apperr.Forbidden("you can only update projects assigned to you")
			}
			return nil
		}
		return apperr.Forbidden("your role cannot update project status")

	case ActionAssign:
		if principal.Role == models.RoleManager {
			if project.CreatedBy != principal.UserID {
				return apperr.Forbidden("you can only assign projects you created")
			}
			return nil
		}
		return apperr.Forbidden("your role cannot assign projects")
	}

	return apperr.Forbidden("you do not have access to this project")
}

// ScopeFilter returns the query-boundary filter limiting a project list to
// what the principal may see: everything for SuperAdmin, self-created for
// Manager, self-assigned for Staff. The filter is applied by the store query,
// not by post-hoc trimming of a full result set.
func ScopeFilter(principal *models.AuthContext) (bson.M, error) {
	switch principal.Role {
	case models.RoleSuperAdmin:
		return bson.M{}, nil
	case models.RoleManager:
		return bson.M{"created_by": principal.UserID}, nil
	case models.RoleStaff:
		return bson.M{"assigned_to": principal.UserID}, nil
	}
	return nil, apperr.Newf(apperr.KindForbidden, "unrecognized role %q", principal.Role)
}
