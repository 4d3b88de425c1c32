package v1

import (
	"github.com/gin-gonic/gin"

	"rms/internal/infrastructure/http/v1/middleware"
)

// RouteRegistrar is implemented by every handler that mounts its own routes.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// mount registers handler under group. With authentication on, roles
// restrict the group to users holding one of them (admins always pass).
func mount(group *gin.RouterGroup, handler RouteRegistrar, authEnabled bool, roles ...string) {
	if authEnabled && len(roles) > 0 {
		group.Use(middleware.RequireRole(roles...))
	}
	handler.RegisterRoutes(group)
}
