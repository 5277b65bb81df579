package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfd/shelfd/internal/pkg/errcode"
	"github.com/shelfd/shelfd/internal/pkg/response"
	"github.com/shelfd/shelfd/internal/service"
)

type CollectionHandler struct {
	collections *service.CollectionService
}

func NewCollectionHandler(collections *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{collections: collections}
}

type collectionRequest struct {
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	Category              string   `json:"category"`
	CoverImage            string   `json:"cover_image"`
	CoverImageAspectRatio string   `json:"cover_image_aspect_ratio"`
	Tags                  []string `json:"tags"`
}

type collectionItemRequest struct {
	Name     string `json:"name"`
	Number   *int   `json:"number"`
	Image    string `json:"image"`
	Position int    `json:"position"`
}

func (r collectionRequest) toInput() service.CollectionInput {
	return service.CollectionInput{
		Name:                  r.Name,
		Description:           r.Description,
		Category:              r.Category,
		CoverImage:            r.CoverImage,
		CoverImageAspectRatio: r.CoverImageAspectRatio,
		Tags:                  r.Tags,
	}
}

func (h *CollectionHandler) Create(c *gin.Context) {
	var req collectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	col, err := h.collections.Create(c.Request.Context(), getUserID(c), req.toInput())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, col)
}

func (h *CollectionHandler) List(c *gin.Context) {
	items, err := h.collections.List(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *CollectionHandler) Get(c *gin.Context) {
	detail, err := h.collections.Get(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, detail)
}

func (h *CollectionHandler) Update(c *gin.Context) {
	var req collectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	if err := h.collections.Update(c.Request.Context(), getUserID(c), c.Param("id"), req.toInput()); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *CollectionHandler) Delete(c *gin.Context) {
	if err := h.collections.Delete(c.Request.Context(), getUserID(c), c.Param("id")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *CollectionHandler) AddItem(c *gin.Context) {
	var req collectionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	item, err := h.collections.AddItem(c.Request.Context(), getUserID(c), c.Param("id"), service.CollectionItemInput{
		Name:     req.Name,
		Number:   req.Number,
		Image:    req.Image,
		Position: req.Position,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, item)
}

func (h *CollectionHandler) UpdateItem(c *gin.Context) {
	var req collectionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	if err := h.collections.UpdateItem(c.Request.Context(), getUserID(c), c.Param("itemId"), service.CollectionItemInput{
		Name:     req.Name,
		Number:   req.Number,
		Image:    req.Image,
		Position: req.Position,
	}); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *CollectionHandler) RemoveItem(c *gin.Context) {
	if err := h.collections.RemoveItem(c.Request.Context(), getUserID(c), c.Param("itemId")); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *CollectionHandler) Sync(c *gin.Context) {
	detail, err := h.collections.Sync(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, detail)
}

// CheckUpdates answers "does my collection need attention". The source
// snapshot rides along so the client can show what changed before the user
// decides to sync.
func (h *CollectionHandler) CheckUpdates(c *gin.Context) {
	result, err := h.collections.CheckUpdates(c.Request.Context(), getUserID(c), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	body := gin.H{
		"has_update":    result.HasUpdate,
		"is_customized": result.IsCustomized,
	}
	if result.Source != nil {
		body["recommended_collection"] = gin.H{
			"name":                     result.Source.Name,
			"description":              result.Source.Description,
			"category":                 result.Source.Category,
			"cover_image":              result.Source.CoverImage,
			"cover_image_aspect_ratio": result.Source.CoverImageAspectRatio,
			"tags":                     result.Source.Tags,
			"updated_at":               result.Source.Mtime,
		}
		body["last_synced_at"] = result.LastSyncedAt
	}
	response.Success(c, body)
}
