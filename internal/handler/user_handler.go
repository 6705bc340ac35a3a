package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nnhurricane156/phygen-portal/internal/api"
	"github.com/nnhurricane156/phygen-portal/internal/domain"
	"github.com/nnhurricane156/phygen-portal/internal/response"
)

// UserHandler serves the admin user management surface.
type UserHandler struct {
	users *api.UserAPI
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users *api.UserAPI) *UserHandler {
	return &UserHandler{users: users}
}

// List returns all managed users
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, users)
}

// Get returns one managed user
// GET /api/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, user)
}

// ListByRole filters users by role number
// GET /api/users/by-role/:role
func (h *UserHandler) ListByRole(c *gin.Context) {
	role, err := strconv.Atoi(c.Param("role"))
	if err != nil {
		response.BadRequest(c, "role must be a number")
		return
	}

	users, err := h.users.ListByRole(c.Request.Context(), domain.Role(role))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, users)
}

// Update saves edits to a managed user
// PUT /api/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var user domain.ManagedUser
	if err := c.ShouldBindJSON(&user); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.users.Update(c.Request.Context(), c.Param("id"), &user)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, updated)
}

// Deactivate disables a managed user account
// PATCH /api/users/:id/deactivate
func (h *UserHandler) Deactivate(c *gin.Context) {
	if err := h.users.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"deactivated": true})
}
