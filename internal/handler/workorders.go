package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantops/backend/internal/model"
	"github.com/plantops/backend/internal/service"
)

type WorkOrderHandler struct {
	svc *service.WorkOrderService
}

func NewWorkOrderHandler(svc *service.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{svc: svc}
}

func (h *WorkOrderHandler) List(c *gin.Context) {
	ident := GetIdentity(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, offset := pagination(c)
	workOrders, total, err := h.svc.List(c.Request.Context(), *ident, limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if workOrders == nil {
		workOrders = []model.WorkOrderRecord{}
	}
	c.JSON(http.StatusOK, model.WorkOrderListResponse{WorkOrders: workOrders, Total: total})
}

// Create - alert에서 CMMS 작업 지시 생성
// dispatch 소진 실패는 502 + success=false로 보고 (요청 자체는 유효했으므로)
func (h *WorkOrderHandler) Create(c *gin.Context) {
	ident := GetIdentity(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.WorkOrderCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	resp, err := h.svc.CreateFromAlert(c.Request.Context(), *ident, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if !resp.Success {
		c.JSON(http.StatusBadGateway, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
