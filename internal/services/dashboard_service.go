package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/projectdesk/projectdesk-api/internal/apperr"
	"github.com/projectdesk/projectdesk-api/internal/models"
)

// DashboardService assembles the role-scoped dashboards. It consumes the same
// scope semantics as the project list: SuperAdmin sees everything, Manager
// sees self-created, Staff sees self-assigned.
type DashboardService struct {
	usersCollection    *mongo.Collection
	projectsCollection *mongo.Collection
	userService        *UserService
	projectService     *ProjectService
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(db *mongo.Database, us *UserService, ps *ProjectService) *DashboardService {
	return &DashboardService{
		usersCollection:    db.Collection("users"),
		projectsCollection: db.Collection("projects"),
		userService:        us,
		projectService:     ps,
	}
}

// GetDashboard returns the dashboard matching the principal's role. The role
// branch is chosen once and covers the whole closed role set; anything else
// is an explicit error, never a crash.
func (s *DashboardService) GetDashboard(principal *models.AuthContext) (*models.Dashboard, error) {
	switch principal.Role {
	case models.RoleSuperAdmin:
		data, err := s.superAdminDashboard()
		if err != nil {
			return nil, err
		}
		return &models.Dashboard{Role: principal.Role, SuperAdmin: data}, nil

	case models.RoleManager:
		data, err := s.scopedDashboard(principal)
		if err != nil {
			return nil, err
		}
		return &models.Dashboard{Role: principal.Role, Manager: data}, nil

	case models.RoleStaff:
		data, err := s.scopedDashboard(principal)
		if err != nil {
			return nil, err
		}
		return &models.Dashboard{Role: principal.Role, Staff: data}, nil
	}

	return nil, apperr.Newf(apperr.KindInternal, "no dashboard for role %q", principal.Role)
}

// superAdminDashboard aggregates global totals plus one summary row per
// Manager covering the projects that manager created.
func (s *DashboardService) superAdminDashboard() (*models.SuperAdminDashboard, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	totalUsers, err := s.usersCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to count users", err)
	}

	globalCounts, err := s.statusCounts(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	managers, err := s.userService.ListUsersByRole(models.RoleManager)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ManagerSummary, 0, len(managers))
	for _, manager := range managers {
		counts, err := s.statusCounts(ctx, bson.M{"created_by": manager.ID})
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.ManagerSummary{
			Manager: models.UserRef{
				ID:    manager.ID,
				Name:  manager.Name,
				Email: manager.Email,
				Role:  manager.Role,
			},
			Counts: counts,
		})
	}

	return &models.SuperAdminDashboard{
		TotalUsers: totalUsers,
		Projects:   globalCounts,
		Managers:   summaries,
	}, nil
}

// scopedDashboard builds the Manager/Staff dashboard from the principal's
// scope-filtered project list grouped by status.
func (s *DashboardService) scopedDashboard(principal *models.AuthContext) (*models.ScopedDashboard, error) {
	projects, err := s.projectService.ListProjects(principal)
	if err != nil {
		return nil, err
	}

	grouped := map[models.ProjectStatus][]models.ProjectResponse{
		models.StatusPending:  {},
		models.StatusApproved: {},
		models.StatusRejected: {},
	}
	counts := models.StatusCounts{Total: int64(len(projects))}
	for _, p := range projects {
		grouped[p.Status] = append(grouped[p.Status], p)
		switch p.Status {
		case models.StatusPending:
			counts.Pending++
		case models.StatusApproved:
			counts.Approved++
		case models.StatusRejected:
			counts.Rejected++
		}
	}

	return &models.ScopedDashboard{
		Counts:   counts,
		Projects: grouped,
	}, nil
}

// statusCounts runs a status breakdown at the store via an aggregation
// pipeline rather than scanning documents into memory.
func (s *DashboardService) statusCounts(ctx context.Context, filter bson.M) (models.StatusCounts, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: filter}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := s.projectsCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return models.StatusCounts{}, apperr.Wrap(apperr.KindInternal, "failed to aggregate project counts", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.ProjectStatus `bson:"_id"`
		Count  int64                `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return models.StatusCounts{}, apperr.Wrap(apperr.KindInternal, "failed to decode project counts", err)
	}

	var counts models.StatusCounts
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case models.StatusPending:
			counts.Pending = row.Count
		case models.StatusApproved:
			counts.Approved = row.Count
		case models.StatusRejected:
			counts.Rejected = row.Count
		}
	}
	return counts, nil
}
