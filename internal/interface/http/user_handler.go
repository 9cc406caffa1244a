package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-auth-service/internal/application"
	"go-auth-service/pkg/apperr"
	"go-auth-service/pkg/pagination"
)

// UserHandler serves the account listing endpoints.
type UserHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(c *gin.Context) {
	var params pagination.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		apperr.Respond(c, h.Logger, apperr.BadRequest("invalid pagination parameters"))
		return
	}
	page, perPage := params.Normalize()

	users, total, err := h.Svc.ListUsers(c.Request.Context(), perPage, pagination.Offset(page, perPage))
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}

	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}
	c.JSON(http.StatusOK, pagination.NewResponse(items, page, perPage, total))
}

// GetByID handles GET /api/v1/users/:id.
func (h *UserHandler) GetByID(c *gin.Context) {
	u, err := h.Svc.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		apperr.Respond(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}
