package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/projectdesk/projectdesk-api/internal/models"
	"github.com/projectdesk/projectdesk-api/internal/services"
	"github.com/projectdesk/projectdesk-api/internal/utils"
)

// UserHandler handles user management HTTP requests. Permission checks run in
// the middleware; these handlers only perform the data operation.
type UserHandler struct {
	userService *services.UserService
	validator   *validator.Validate
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(us *services.UserService) *UserHandler {
	return &UserHandler{
		userService: us,
		validator:   validator.New(),
	}
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers()
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// ListUsersByRole handles GET /users/role/{role}. Managers use it to list
// Staff candidates when assigning projects.
func (h *UserHandler) ListUsersByRole(w http.ResponseWriter, r *http.Request) {
	role, err := models.ParseRole(mux.Vars(r)["role"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	users, err := h.userService.ListUsersByRole(role)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// GetUserByID handles GET /users/{id}
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// CreateUser handles POST /users (SuperAdmin-initiated creation)
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := h.userService.CreateUserWithPassword(req.Name, req.Email, req.Password, role)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

// ChangeUserRole handles PUT /users/{id}/role
func (h *UserHandler) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req models.UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	user, err := h.userService.ChangeUserRole(id, role)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// ToggleUserActive handles PUT /users/{id}/toggle-active
func (h *UserHandler) ToggleUserActive(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	user, err := h.userService.ToggleUserActive(id)
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	message := "User deactivated successfully"
	if user.IsActive {
		message = "User activated successfully"
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"message": message, "user": user})
}
