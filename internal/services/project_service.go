package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/projectdesk/projectdesk-api/internal/apperr"
	"github.com/projectdesk/projectdesk-api/internal/models"
	"github.com/projectdesk/projectdesk-api/internal/policy"
)

// ProjectService provides methods for project request operations. Role-level
// authorization has already run in the middleware by the time these are
// called; this service applies the ownership policy on top.
type ProjectService struct {
	projectsCollection *mongo.Collection
	userService        *UserService
}

// NewProjectService creates a new ProjectService
func NewProjectService(db *mongo.Database, us *UserService) *ProjectService {
	return &ProjectService{
		projectsCollection: db.Collection("projects"),
		userService:        us,
	}
}

// usableAssignee rejects assignment to deactivated accounts; a disabled user
// cannot act on the project anyway.
func usableAssignee(user *models.User) error {
	if !user.IsActive {
		return apperr.New(apperr.KindValidationFailed, "assignee account is deactivated")
	}
	return nil
}

// CreateProject creates a new project request with the caller as creator.
// An optional initial assignee must resolve to an existing active user.
func (s *ProjectService) CreateProject(principal *models.AuthContext, req models.CreateProjectRequest) (*models.ProjectResponse, error) {
	var assignedTo *primitive.ObjectID
	if req.AssignedTo != "" {
		id, err := primitive.ObjectIDFromHex(req.AssignedTo)
		if err != nil {
			return nil, apperr.New(apperr.KindValidationFailed, "invalid assigned_to ID format")
		}
		assignee, err := s.userService.GetUserByID(id)
		if err != nil {
			return nil, apperr.NotFound("assignee not found")
		}
		if err := usableAssignee(assignee); err != nil {
			return nil, err
		}
		assignedTo = &id
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now()
	project := &models.ProjectRequest{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusPending,
		CreatedBy:   principal.UserID,
		AssignedTo:  assignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.projectsCollection.InsertOne(ctx, project); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create project", err)
	}

	return s.populate(project)
}

// ListProjects returns the projects visible to the principal, newest first.
// The scope filter is part of the store query, not applied after the fact.
func (s *ProjectService) ListProjects(principal *models.AuthContext) ([]models.ProjectResponse, error) {
	filter, err := policy.ScopeFilter(principal)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.projectsCollection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to list projects", err)
	}
	defer cursor.Close(ctx)

	var projects []models.ProjectRequest
	if err = cursor.All(ctx, &projects); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to decode projects", err)
	}

	return s.populateAll(projects)
}

// GetProjectByID retrieves a single project after the ownership view check.
// NotFound and Forbidden stay distinct: a project that exists but is out of
// scope is reported as Forbidden, never hidden.
func (s *ProjectService) GetProjectByID(principal *models.AuthContext, id primitive.ObjectID) (*models.ProjectResponse, error) {
	project, err := s.findProject(id)
	if err != nil {
		return nil, err
	}

	if err := policy.Check(principal, project, policy.ActionView); err != nil {
		return nil, err
	}

	return s.populate(project)
}

// UpdateProjectStatus moves a project through its lifecycle. Only the
// assignee (if Staff) or a SuperAdmin may do this.
func (s *ProjectService) UpdateProjectStatus(principal *models.AuthContext, id primitive.ObjectID, status models.ProjectStatus) (*models.ProjectResponse, error) {
	project, err := s.findProject(id)
	if err != nil {
		return nil, err
	}

	if err := policy.Check(principal, project, policy.ActionUpdateStatus); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}}
	if _, err := s.projectsCollection.UpdateByID(ctx, project.ID, update); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to update project status", err)
	}

	project.Status = status
	return s.populate(project)
}

// AssignProject sets the project's assignee. Only the creator (if Manager) or
// a SuperAdmin may do this, and the assignee must be an existing active user.
func (s *ProjectService) AssignProject(principal *models.AuthContext, id, assigneeID primitive.ObjectID) (*models.ProjectResponse, error) {
	project, err := s.findProject(id)
	if err != nil {
		return nil, err
	}

	if err := policy.Check(principal, project, policy.ActionAssign); err != nil {
		return nil, err
	}

	assignee, err := s.userService.GetUserByID(assigneeID)
	if err != nil {
		return nil, apperr.NotFound("assignee not found")
	}
	if err := usableAssignee(assignee); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"assigned_to": assigneeID,
		"updated_at":  time.Now(),
	}}
	if _, err := s.projectsCollection.UpdateByID(ctx, project.ID, update); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to assign project", err)
	}

	project.AssignedTo = &assigneeID
	return s.populate(project)
}

func (s *ProjectService) findProject(id primitive.ObjectID) (*models.ProjectRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var project models.ProjectRequest
	err := s.projectsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("project not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to retrieve project", err)
	}
	return &project, nil
}

// populate resolves the creator/assignee weak references to display
// snapshots. A dangling reference shows up as a nil ref rather than an error.
func (s *ProjectService) populate(project *models.ProjectRequest) (*models.ProjectResponse, error) {
	resp := &models.ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Status:      project.Status,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}

	if ref, err := s.userService.UserRefByID(project.CreatedBy); err == nil {
		resp.CreatedBy = ref
	}
	if project.AssignedTo != nil {
		if ref, err := s.userService.UserRefByID(*project.AssignedTo); err == nil {
			resp.AssignedTo = ref
		}
	}
	return resp, nil
}

func (s *ProjectService) populateAll(projects []models.ProjectRequest) ([]models.ProjectResponse, error) {
	// Resolve each distinct user once; lists routinely share creators and
	// assignees.
	refs := make(map[primitive.ObjectID]*models.UserRef)
	resolve := func(id primitive.ObjectID) *models.UserRef {
		if ref, ok := refs[id]; ok {
			return ref
		}
		ref, err := s.userService.UserRefByID(id)
		if err != nil {
			ref = nil
		}
		refs[id] = ref
		return ref
	}

	responses := make([]models.ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = models.ProjectResponse{
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			Status:      p.Status,
			CreatedBy:   resolve(p.CreatedBy),
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		}
		if p.AssignedTo != nil {
			responses[i].AssignedTo = resolve(*p.AssignedTo)
		}
	}
	return responses, nil
}
