package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantops/backend/internal/model"
)

// auditLister - 감사 기록 조회 (읽기 전용)
type auditLister interface {
	ListAuditEntries(ctx context.Context, plantID, action string, limit, offset int) ([]model.AuditEntry, int, error)
}

type AuditHandler struct {
	store auditLister
}

func NewAuditHandler(store auditLister) *AuditHandler {
	return &AuditHandler{store: store}
}

// List - 감사 기록 조회. supervisor 이상만 접근 가능
func (h *AuditHandler) List(c *gin.Context) {
	ident := GetIdentity(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if !ident.CanApprove() {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	limit, offset := pagination(c)
	entries, total, err := h.store.ListAuditEntries(c.Request.Context(), ident.Scope(), c.Query("action"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	if entries == nil {
		entries = []model.AuditEntry{}
	}
	c.JSON(http.StatusOK, model.AuditListResponse{Entries: entries, Total: total})
}
