package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"go-auth-service/internal/container"
	handlers "go-auth-service/internal/interface/http"
	"go-auth-service/internal/interface/middleware"
	"go-auth-service/pkg/token"
)

type UsersModule struct {
	Handler *handlers.UserHandler
	Tokens  *token.Manager
}

func NewUsersModule(h *handlers.UserHandler, tokens *token.Manager) *UsersModule {
	return &UsersModule{Handler: h, Tokens: tokens}
}

func (m *UsersModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(m.Tokens, container.GetLogger()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP()))
	{
		auth.GET("/users", m.Handler.List)
		auth.GET("/users/:id", m.Handler.GetByID)
	}
}
