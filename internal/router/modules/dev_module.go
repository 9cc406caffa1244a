package modules

import (
	"github.com/gin-gonic/gin"

	handlers "go-auth-service/internal/interface/http"
)

// DevModule exposes the /dev toolbox. Only add it in development.
type DevModule struct {
	Handler *handlers.DevHandler
}

func NewDevModule(h *handlers.DevHandler) *DevModule {
	return &DevModule{Handler: h}
}

func (m *DevModule) Register(rg *gin.RouterGroup) {
	dev := rg.Group("/dev")
	{
		dev.GET("/state", m.Handler.State)
		dev.GET("/health", m.Handler.Health)
		dev.POST("/echo", m.Handler.Echo)
		dev.GET("/error/:type", m.Handler.SimulateError)
		dev.POST("/token", m.Handler.TestToken)
		dev.GET("/db-info", m.Handler.DBInfo)
	}
}
