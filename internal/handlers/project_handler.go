package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/projectdesk/projectdesk-api/internal/middleware"
	"github.com/projectdesk/projectdesk-api/internal/models"
	"github.com/projectdesk/projectdesk-api/internal/services"
	"github.com/projectdesk/projectdesk-api/internal/utils"
)

// ProjectHandler handles project request HTTP requests
type ProjectHandler struct {
	projectService *services.ProjectService
	validator      *validator.Validate
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(ps *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: ps,
		validator:      validator.New(),
	}
}

// CreateProject handles POST /projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	project, err := h.projectService.CreateProject(authContext, req)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, project)
}

// GetProjects handles GET /projects. Visibility is the scope filter: all for
// SuperAdmin, self-created for Manager, self-assigned for Staff.
func (h *ProjectHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	projects, err := h.projectService.ListProjects(authContext)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

// GetProjectByID handles GET /projects/{id}
func (h *ProjectHandler) GetProjectByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	project, err := h.projectService.GetProjectByID(authContext, id)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, project)
}

// UpdateProjectStatus handles PUT /projects/{id}/status
func (h *ProjectHandler) UpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	var req models.UpdateProjectStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	status, ok := models.ParseProjectStatus(req.Status)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Status must be pending, approved, or rejected")
		return
	}

	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	project, err := h.projectService.UpdateProjectStatus(authContext, id, status)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, project)
}

// AssignProject handles PUT /projects/{id}/assign
func (h *ProjectHandler) AssignProject(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid project ID format")
		return
	}

	var req models.AssignProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	assigneeID, err := primitive.ObjectIDFromHex(req.AssignedTo)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid assigned_to ID format")
		return
	}

	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	project, err := h.projectService.AssignProject(authContext, id, assigneeID)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, project)
}
