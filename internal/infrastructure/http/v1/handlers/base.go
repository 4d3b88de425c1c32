// Package handlers provides HTTP request handlers.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"rms/internal/core/apperror"
	appctx "rms/internal/core/context"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/domain"
	domainFilter "rms/internal/domain/filter"
	"rms/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers the error on the gin context and aborts the request.
// The JSON body is produced by middleware.ErrorHandler.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseIntQuery parses integer query parameter with default value.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseID reads the :id path parameter.
func (h *BaseHandler) ParseID(c *gin.Context) (id.ID, bool) {
	parsed, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return id.Nil(), false
	}
	return parsed, true
}

// ParseListFilter reads the common list query parameters:
// search, limit, offset, orderBy, includeDeleted, docstatus, from, to and
// filter (a JSON array of {field, operator, value}).
func (h *BaseHandler) ParseListFilter(c *gin.Context, defaultOrder string) (domain.ListFilter, bool) {
	filter := domain.DefaultListFilter()
	filter.Search = c.Query("search")
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", defaultOrder)
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if raw := c.Query("docstatus"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < int(entity.DocStatusDraft) || n > int(entity.DocStatusCancelled) {
			h.Error(c, apperror.NewValidation("docstatus must be 0, 1 or 2"))
			return filter, false
		}
		st := entity.DocStatus(n)
		filter.DocStatus = &st
	}

	for key, target := range map[string]**time.Time{"from": &filter.DateFrom, "to": &filter.DateTo} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		t, err := dto.ParseDate(raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid date in "+key).WithDetail("value", raw))
			return filter, false
		}
		*target = &t
	}

	if raw := c.Query("filter"); raw != "" {
		var items []domainFilter.Item
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			h.Error(c, apperror.NewValidation("invalid filter format (json expected)"))
			return filter, false
		}
		for _, it := range items {
			if err := it.Validate(); err != nil {
				h.Error(c, apperror.NewValidation(err.Error()))
				return filter, false
			}
		}
		filter.AdvancedFilters = items
	}
	return filter, true
}

// GetUserID extracts user ID from request context.
func (h *BaseHandler) GetUserID(c *gin.Context) string {
	return appctx.GetUserID(c.Request.Context())
}

// Created sends 201 response with data.
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Success sends success response.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}

// listResponse maps a domain page to the wire shape.
func listResponse[T any](res domain.ListResult[T]) dto.ListResponse {
	return dto.ListResponse{
		Items:      res.Items,
		TotalCount: res.TotalCount,
		Limit:      res.Limit,
		Offset:     res.Offset,
	}
}
