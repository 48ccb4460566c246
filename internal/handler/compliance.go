package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plantops/backend/internal/model"
	"github.com/plantops/backend/internal/service"
)

type ComplianceHandler struct {
	svc *service.ComplianceService
	now func() time.Time
}

func NewComplianceHandler(svc *service.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{svc: svc, now: time.Now}
}

// Export - 컴플라이언스 내보내기 파일 다운로드 (?format=csv|xlsx, 기본 csv)
func (h *ComplianceHandler) Export(c *gin.Context) {
	ident := GetIdentity(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	format := c.DefaultQuery("format", service.ExportFormatCSV)
	data, err := h.svc.BuildExport(c.Request.Context(), *ident, format)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("compliance_export_%s.%s", h.now().UTC().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	// 본문을 직접 스트리밍하므로 쓰기 시작 이후의 실패는 로그로만 남음
	switch format {
	case service.ExportFormatXLSX:
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := h.svc.WriteXLSX(c.Writer, data); err != nil {
			_ = c.Error(err)
		}
	default:
		c.Header("Content-Type", "text/csv")
		if err := h.svc.WriteCSV(c.Writer, data); err != nil {
			_ = c.Error(err)
		}
	}
}

// ApproveMorningReview - 아침 측정값 승인 + WIMS 동기화
func (h *ComplianceHandler) ApproveMorningReview(c *gin.Context) {
	ident := GetIdentity(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req model.MorningReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	resp, err := h.svc.ApproveMorningReview(c.Request.Context(), *ident, req.Overrides)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
