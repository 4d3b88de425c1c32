package handlers

import (
	"github.com/gin-gonic/gin"

	"rms/internal/core/apperror"
	"rms/internal/desk"
	"rms/internal/metadata"
)

// DeskHandler serves the desk menus and doctype metadata.
type DeskHandler struct {
	*BaseHandler
	registry *metadata.Registry
}

// NewDeskHandler creates the handler.
func NewDeskHandler(base *BaseHandler, registry *metadata.Registry) *DeskHandler {
	return &DeskHandler{BaseHandler: base, registry: registry}
}

// Modules handles GET /desk/modules
func (h *DeskHandler) Modules(c *gin.Context) {
	h.OK(c, gin.H{"modules": desk.Modules()})
}

// Module handles GET /desk/modules/:module and returns its sections.
func (h *DeskHandler) Module(c *gin.Context) {
	name := c.Param("module")
	m, ok := desk.Get(name)
	if !ok {
		h.Error(c, apperror.NewNotFound("Module", name))
		return
	}
	h.OK(c, m)
}

// ListEntities handles GET /meta
func (h *DeskHandler) ListEntities(c *gin.Context) {
	h.OK(c, h.registry.List())
}

// GetEntity handles GET /meta/:name
func (h *DeskHandler) GetEntity(c *gin.Context) {
	name := c.Param("name")
	def, ok := h.registry.Get(name)
	if !ok {
		h.Error(c, apperror.NewNotFound("DocType", name))
		return
	}
	h.OK(c, def)
}

// RegisterRoutes registers /desk and /meta under rg.
func (h *DeskHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/desk/modules", h.Modules)
	rg.GET("/desk/modules/:module", h.Module)
	rg.GET("/meta", h.ListEntities)
	rg.GET("/meta/:name", h.GetEntity)
}
