package router

import "github.com/gin-gonic/gin"

// Module is a route-owning feature unit (auth, users, health). Each one
// registers its endpoints on the group it is handed.
type Module interface {
	Register(rg *gin.RouterGroup)
}
