package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"rms/internal/core/id"
	"rms/internal/domain"
)

// DocumentService is implemented by the document services. F is the
// doctype's list filter.
type DocumentService[T any, F any] interface {
	GetByID(ctx context.Context, id id.ID) (T, error)
	Create(ctx context.Context, doc T) error
	Update(ctx context.Context, doc T) error
	Delete(ctx context.Context, id id.ID) error
	List(ctx context.Context, filter F) (domain.ListResult[T], error)
	Submit(ctx context.Context, id id.ID) (T, error)
	Cancel(ctx context.Context, id id.ID) (T, error)
}

// BaseDocumentHandler provides generic HTTP handlers for documents.
type BaseDocumentHandler[T any, F any, Req any] struct {
	*BaseHandler
	service DocumentService[T, F]

	mapRequest  func(req Req, target T) T
	parseFilter func(c *gin.Context, base domain.ListFilter) (F, error)
	defaultSort string
}

// BaseDocumentHandlerConfig configures the document handler.
type BaseDocumentHandlerConfig[T any, F any, Req any] struct {
	Service DocumentService[T, F]

	// MapRequest applies a request onto a document; zero target means create.
	MapRequest func(req Req, target T) T

	// ParseFilter adds doctype specific query parameters to the common filter.
	ParseFilter func(c *gin.Context, base domain.ListFilter) (F, error)

	// DefaultSort is the list order when the client passes none.
	DefaultSort string
}

// NewBaseDocumentHandler creates a new base document handler.
func NewBaseDocumentHandler[T any, F any, Req any](
	base *BaseHandler,
	cfg BaseDocumentHandlerConfig[T, F, Req],
) *BaseDocumentHandler[T, F, Req] {
	sort := cfg.DefaultSort
	if sort == "" {
		sort = "-created_at"
	}
	return &BaseDocumentHandler[T, F, Req]{
		BaseHandler: base,
		service:     cfg.Service,
		mapRequest:  cfg.MapRequest,
		parseFilter: cfg.ParseFilter,
		defaultSort: sort,
	}
}

// List handles GET /{doctype}
func (h *BaseDocumentHandler[T, F, Req]) List(c *gin.Context) {
	base, ok := h.ParseListFilter(c, h.defaultSort)
	if !ok {
		return
	}
	filter, err := h.parseFilter(c, base)
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, listResponse(result))
}

// Get handles GET /{doctype}/:id
func (h *BaseDocumentHandler[T, F, Req]) Get(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Create handles POST /{doctype}
func (h *BaseDocumentHandler[T, F, Req]) Create(c *gin.Context) {
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	var zero T
	doc := h.mapRequest(req, zero)
	if err := h.service.Create(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc)
}

// Update handles PUT /{doctype}/:id
func (h *BaseDocumentHandler[T, F, Req]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	doc = h.mapRequest(req, doc)
	if err := h.service.Update(ctx, doc); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Delete handles DELETE /{doctype}/:id
func (h *BaseDocumentHandler[T, F, Req]) Delete(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), docID); err != nil {
		h.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Submit handles POST /{doctype}/:id/submit
func (h *BaseDocumentHandler[T, F, Req]) Submit(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.Submit(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Cancel handles POST /{doctype}/:id/cancel
func (h *BaseDocumentHandler[T, F, Req]) Cancel(c *gin.Context) {
	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.Cancel(c.Request.Context(), docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// RegisterRoutes registers CRUD plus submit and cancel.
func (h *BaseDocumentHandler[T, F, Req]) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.POST("/:id/submit", h.Submit)
	rg.POST("/:id/cancel", h.Cancel)
}
