package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shelfd/shelfd/internal/pkg/errcode"
	"github.com/shelfd/shelfd/internal/pkg/response"
	"github.com/shelfd/shelfd/internal/repo"
	"github.com/shelfd/shelfd/internal/service"
)

type SourceHandler struct {
	sources     *service.SourceService
	collections *service.CollectionService
	auth        *service.AuthService
}

func NewSourceHandler(sources *service.SourceService, collections *service.CollectionService, auth *service.AuthService) *SourceHandler {
	return &SourceHandler{sources: sources, collections: collections, auth: auth}
}

type sourceRequest struct {
	Name                  string              `json:"name"`
	Description           string              `json:"description"`
	Category              string              `json:"category"`
	CoverImage            string              `json:"cover_image"`
	CoverImageAspectRatio string              `json:"cover_image_aspect_ratio"`
	Tags                  []string            `json:"tags"`
	Items                 []sourceItemRequest `json:"items"`
}

type sourceItemRequest struct {
	Name   string `json:"name"`
	Number *int   `json:"number"`
	Image  string `json:"image"`
}

func (r sourceRequest) toInput() service.SourceInput {
	return service.SourceInput{
		Name:                  r.Name,
		Description:           r.Description,
		Category:              r.Category,
		CoverImage:            r.CoverImage,
		CoverImageAspectRatio: r.CoverImageAspectRatio,
		Tags:                  r.Tags,
	}
}

func toItemInputs(items []sourceItemRequest) []service.SourceItemInput {
	inputs := make([]service.SourceItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.SourceItemInput{Name: item.Name, Number: item.Number, Image: item.Image})
	}
	return inputs
}

func (h *SourceHandler) List(c *gin.Context) {
	limit := uint(0)
	if value := c.Query("limit"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			limit = uint(parsed)
		}
	}
	offset := uint(0)
	if value := c.Query("offset"); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			offset = uint(parsed)
		}
	}
	filter := repo.SourceFilter{
		Kind:     c.Query("kind"),
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}
	items, err := h.sources.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *SourceHandler) Get(c *gin.Context) {
	detail, err := h.sources.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, detail)
}

func (h *SourceHandler) Clone(c *gin.Context) {
	detail, err := h.collections.Clone(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, detail)
}

func (h *SourceHandler) Publish(c *gin.Context) {
	detail, err := h.sources.Publish(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, detail)
}

func (h *SourceHandler) CreateRecommended(c *gin.Context) {
	if err := h.auth.RequireAdmin(c.Request.Context(), getUserID(c)); err != nil {
		handleError(c, err)
		return
	}
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	detail, err := h.sources.CreateRecommended(c.Request.Context(), getUserID(c), req.toInput(), toItemInputs(req.Items))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, detail)
}

func (h *SourceHandler) UpdateRecommended(c *gin.Context) {
	if err := h.auth.RequireAdmin(c.Request.Context(), getUserID(c)); err != nil {
		handleError(c, err)
		return
	}
	var req sourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	if err := h.sources.UpdateRecommended(c.Request.Context(), c.Param("id"), req.toInput()); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *SourceHandler) ReplaceItems(c *gin.Context) {
	if err := h.auth.RequireAdmin(c.Request.Context(), getUserID(c)); err != nil {
		handleError(c, err)
		return
	}
	var req struct {
		Items []sourceItemRequest `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	items, err := h.sources.ReplaceItems(c.Request.Context(), c.Param("id"), toItemInputs(req.Items))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *SourceHandler) Remove(c *gin.Context) {
	if err := h.auth.RequireAdmin(c.Request.Context(), getUserID(c)); err != nil {
		handleError(c, err)
		return
	}
	if err := h.sources.Remove(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
