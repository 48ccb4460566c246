package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/plantops/backend/internal/model"
	"github.com/plantops/backend/internal/service"
)

type AlertHandler struct {
	svc *service.AlertService
}

func NewAlertHandler(svc *service.AlertService) *AlertHandler {
	return &AlertHandler{svc: svc}
}

func (h *AlertHandler) List(c *gin.Context) {
	ident := GetIdentity(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status := c.Query("status")
	limit, offset := pagination(c)

	alerts, total, err := h.svc.List(c.Request.Context(), *ident, status, limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if alerts == nil {
		alerts = []model.AlertRecord{}
	}
	c.JSON(http.StatusOK, model.AlertListResponse{Alerts: alerts, Total: total})
}

func (h *AlertHandler) Get(c *gin.Context) {
	ident := GetIdentity(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	alert, err := h.svc.Get(c.Request.Context(), *ident, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

type alertActionRequest struct {
	Action string `json:"action" binding:"required"`
}

// Transition - 운영자 주도 전이 (dismiss | log-only)
func (h *AlertHandler) Transition(c *gin.Context) {
	ident := GetIdentity(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req alertActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	alert, err := h.svc.Transition(c.Request.Context(), *ident, c.Param("id"), req.Action)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// pagination - limit/offset 쿼리 파싱 (기본 50, 최대 200)
func pagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
