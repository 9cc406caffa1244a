package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-auth-service/internal/application"
	"go-auth-service/internal/domain/entity"
	"go-auth-service/internal/interface/middleware"
	"go-auth-service/pkg/apperr"
	"go-auth-service/pkg/validation"
)

// AuthHandler serves registration, login and the current-user endpoints.
type AuthHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=1"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required,min=1"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func toUserResponse(u *entity.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Username: u.Username, CreatedAt: u.CreatedAt}
}

// bindError maps a JSON bind failure to its response. A body that hit the
// size cap mid-read is a 413, everything else is a validation error.
func bindError(err error) *apperr.Error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperr.PayloadTooLarge()
	}
	return apperr.Validation("invalid payload", validation.ToDetails(err))
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, h.Logger, bindError(err))
		return
	}

	u, tok, err := h.Svc.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse{User: toUserResponse(u), Token: tok})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, h.Logger, bindError(err))
		return
	}

	u, tok, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{User: toUserResponse(u), Token: tok})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperr.Respond(c, h.Logger, apperr.Unauthorized("missing authorization header"))
		return
	}

	u, err := h.Svc.GetUserByID(c.Request.Context(), user.ID)
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}

// ChangePassword handles PUT /api/v1/auth/password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperr.Respond(c, h.Logger, apperr.Unauthorized("missing authorization header"))
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, h.Logger, bindError(err))
		return
	}

	if err := h.Svc.ChangePassword(c.Request.Context(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteMe handles DELETE /api/v1/auth/me.
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apperr.Respond(c, h.Logger, apperr.Unauthorized("missing authorization header"))
		return
	}

	if err := h.Svc.DeleteAccount(c.Request.Context(), user.ID); err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
