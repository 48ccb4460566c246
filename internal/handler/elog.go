package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantops/backend/internal/model"
	"github.com/plantops/backend/internal/service"
)

type ElogHandler struct {
	svc *service.ElogService
}

func NewElogHandler(svc *service.ElogService) *ElogHandler {
	return &ElogHandler{svc: svc}
}

func (h *ElogHandler) Create(c *gin.Context) {
	ident := GetIdentity(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.LogWriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	entry, err := h.svc.CreateEntry(c.Request.Context(), *ident, req.EntryType, req.Body, req.Metadata)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.LogWriteResponse{Success: true, EntryID: entry.ID})
}

func (h *ElogHandler) List(c *gin.Context) {
	ident := GetIdentity(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, offset := pagination(c)
	entries, total, err := h.svc.List(c.Request.Context(), *ident, c.Query("entry_type"), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if entries == nil {
		entries = []model.LogEntry{}
	}
	c.JSON(http.StatusOK, model.LogListResponse{Entries: entries, Total: total})
}
