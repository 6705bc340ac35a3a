package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nnhurricane156/phygen-portal/internal/domain"
	"github.com/nnhurricane156/phygen-portal/internal/response"
	"github.com/nnhurricane156/phygen-portal/internal/session"
)

// AuthHandler exposes the session lifecycle over the portal's local API.
type AuthHandler struct {
	controller *session.Controller
	redirector *session.Redirector
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(controller *session.Controller, redirector *session.Redirector) *AuthHandler {
	return &AuthHandler{controller: controller, redirector: redirector}
}

// LoginRequest is the local login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the local registration payload.
type RegisterRequest struct {
	UserName string `json:"userName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// GoogleLoginRequest carries the identity obtained from the Google popup.
type GoogleLoginRequest struct {
	UID         string `json:"uid" binding:"required"`
	IDToken     string `json:"idToken"`
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

// SessionResponse is returned by login endpoints and /auth/me.
type SessionResponse struct {
	User     *domain.UserProfile `json:"user"`
	State    string              `json:"state"`
	Redirect string              `json:"redirect,omitempty"`
}

// Login handles email and password login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.controller.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, SessionResponse{
		User:     profile,
		State:    h.controller.CurrentState().String(),
		Redirect: profile.Role.RedirectPath(),
	})
}

// GoogleLogin bridges a popup sign-in into a backend session
// POST /api/auth/google-login
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ident := &domain.GoogleIdentity{
		UID:         req.UID,
		IDToken:     req.IDToken,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	}
	profile, err := h.controller.LoginWithGoogle(c.Request.Context(), ident)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, SessionResponse{
		User:     profile,
		State:    h.controller.CurrentState().String(),
		Redirect: profile.Role.RedirectPath(),
	})
}

// Register creates a backend account without starting a session
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.controller.Register(c.Request.Context(), req.UserName, req.Email, req.Password); err != nil {
		writeError(c, err)
		return
	}

	response.Created(c, gin.H{"registered": true})
}

// Logout tears the session down
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.controller.Logout(c.Request.Context())
	response.Success(c, gin.H{"loggedOut": true})
}

// Me reports the current session, including any pending navigation the
// UI shell should perform.
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	h.controller.RefreshUser(c.Request.Context())

	resp := SessionResponse{
		User:  h.controller.CurrentUser(),
		State: h.controller.CurrentState().String(),
	}
	// A pending redirect is delivered once. After re-login any stale one
	// is dropped in favor of the role's landing page.
	target, _, ok := h.redirector.Consume()
	if resp.User != nil {
		resp.Redirect = resp.User.Role.RedirectPath()
	} else if ok {
		resp.Redirect = target
	}
	response.Success(c, resp)
}
