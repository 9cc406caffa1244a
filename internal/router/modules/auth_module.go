package modules

import (
	"github.com/gin-gonic/gin"

	"go-auth-service/internal/container"
	handlers "go-auth-service/internal/interface/http"
	"go-auth-service/internal/interface/middleware"
	"go-auth-service/pkg/token"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Tokens  *token.Manager
}

func NewAuthModule(h *handlers.AuthHandler, tokens *token.Manager) *AuthModule {
	return &AuthModule{Handler: h, Tokens: tokens}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	cfg := container.GetConfig()

	// Credential endpoints share one per-IP-per-path budget so attempts on
	// register do not eat the login budget.
	credLimiter := middleware.RateLimit(
		container.GetRedis(),
		cfg.AuthRateLimit,
		cfg.AuthRateWindow,
		middleware.KeyByIPAndPath(),
	)

	rg.POST("/auth/register", credLimiter, m.Handler.Register)
	rg.POST("/auth/login", credLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuth(m.Tokens, container.GetLogger()))
	{
		auth.GET("/auth/me", m.Handler.Me)
		auth.PUT("/auth/password", m.Handler.ChangePassword)
		auth.DELETE("/auth/me", m.Handler.DeleteMe)
	}
}
