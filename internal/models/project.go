package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectStatus is the lifecycle state of a project request.
type ProjectStatus string

const (
	StatusPending  ProjectStatus = "pending"
	StatusApproved ProjectStatus = "approved"
	StatusRejected ProjectStatus = "rejected"
)

// ParseProjectStatus validates a status value from a request.
func ParseProjectStatus(s string) (ProjectStatus, bool) {
	switch ProjectStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return ProjectStatus(s), true
	}
	return "", false
}

// ProjectRequest is a tracked project record. CreatedBy is immutable after
// creation; AssignedTo is optional and mutable. Both are weak references into
// the users collection — ownership checks compare the raw ObjectIDs, never
// resolved snapshots.
type ProjectRequest struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string              `bson:"title" json:"title" validate:"required,max=200"`
	Description string              `bson:"description" json:"description" validate:"required,max=2000"`
	Status      ProjectStatus       `bson:"status" json:"status"`
	CreatedBy   primitive.ObjectID  `bson:"created_by" json:"created_by"`
	AssignedTo  *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}

// UserRef is a resolved snapshot of a weak user reference, for display only.
type UserRef struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Role  Role               `json:"role"`
}

// ProjectResponse is a project with its creator/assignee references resolved.
type ProjectResponse struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      ProjectStatus      `json:"status"`
	CreatedBy   *UserRef           `json:"created_by"`
	AssignedTo  *UserRef           `json:"assigned_to,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// CreateProjectRequest is the body for POST /projects.
type CreateProjectRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=2000"`
	AssignedTo  string `json:"assigned_to" validate:"omitempty,len=24,hexadecimal"`
}

// UpdateProjectStatusRequest is the body for PUT /projects/{id}/status.
type UpdateProjectStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// AssignProjectRequest is the body for PUT /projects/{id}/assign.
type AssignProjectRequest struct {
	AssignedTo string `json:"assigned_to" validate:"required,len=24,hexadecimal"`
}
