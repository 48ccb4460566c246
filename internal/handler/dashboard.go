// 대시보드: 외부 시스템 연결 상태와 태그별 최신 측정값

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plantops/backend/internal/connector"
	"github.com/plantops/backend/internal/model"
)

// latestReadingsStore - 대시보드가 쓰는 최신 측정값 조회
type latestReadingsStore interface {
	LatestReadings(ctx context.Context, plantID, source string) ([]model.NormalizedReading, error)
}

type DashboardHandler struct {
	connectors []connector.Connector
	readings   latestReadingsStore
	now        func() time.Time
}

func NewDashboardHandler(connectors []connector.Connector, readings latestReadingsStore) *DashboardHandler {
	return &DashboardHandler{
		connectors: connectors,
		readings:   readings,
		now:        time.Now,
	}
}

// Systems - 등록된 connector 전체의 연결 상태
// 연결 실패도 200으로 보고 (상태 조회 자체는 성공이므로)
func (h *DashboardHandler) Systems(c *gin.Context) {
	statuses := make([]model.SystemStatus, 0, len(h.connectors))
	for _, conn := range h.connectors {
		connected, reason := conn.TestConnection(c.Request.Context())
		status := model.SystemStatus{
			Name:        conn.Name(),
			Connected:   connected,
			LastChecked: h.now().UTC(),
		}
		if !connected {
			status.Error = reason
		}
		statuses = append(statuses, status)
	}
	c.JSON(http.StatusOK, gin.H{"systems": statuses})
}

// Readings - 호출자 plant 범위의 태그별 최신 측정값
func (h *DashboardHandler) Readings(c *gin.Context) {
	ident := GetIdentity(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	latest, err := h.readings.LatestReadings(c.Request.Context(), ident.Scope(), model.SourceScada)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	out := make([]model.ReadingOut, 0, len(latest))
	for _, r := range latest {
		out = append(out, model.ReadingOut{
			PlantID:     r.PlantID,
			Tag:         r.Tag,
			Value:       r.Value,
			Unit:        r.Unit,
			Source:      r.Source,
			LastUpdated: r.Timestamp,
		})
	}
	c.JSON(http.StatusOK, gin.H{"readings": out})
}
