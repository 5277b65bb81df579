package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shelfd/shelfd/internal/pkg/errcode"
	"github.com/shelfd/shelfd/internal/pkg/response"
	"github.com/shelfd/shelfd/internal/service"
)

type ReportHandler struct {
	reports *service.ReportService
	auth    *service.AuthService
}

func NewReportHandler(reports *service.ReportService, auth *service.AuthService) *ReportHandler {
	return &ReportHandler{reports: reports, auth: auth}
}

type reportRequest struct {
	Reason string `json:"reason"`
}

type resolveRequest struct {
	RemoveSource bool `json:"remove_source"`
}

func (h *ReportHandler) Create(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	report, err := h.reports.Create(c.Request.Context(), getUserID(c), c.Param("id"), req.Reason)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, report)
}

func (h *ReportHandler) ListOwn(c *gin.Context) {
	items, err := h.reports.ListOwn(c.Request.Context(), getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *ReportHandler) ListOpen(c *gin.Context) {
	if err := h.auth.RequireAdmin(c.Request.Context(), getUserID(c)); err != nil {
		handleError(c, err)
		return
	}
	items, err := h.reports.ListOpen(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, items)
}

func (h *ReportHandler) Resolve(c *gin.Context) {
	if err := h.auth.RequireAdmin(c.Request.Context(), getUserID(c)); err != nil {
		handleError(c, err)
		return
	}
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, errcode.ErrInvalid, "invalid request")
		return
	}
	if err := h.reports.Resolve(c.Request.Context(), c.Param("id"), req.RemoveSource); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
