package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/plantops/backend/internal/model"
	"github.com/plantops/backend/internal/service"
)

// pipelineRunner - ingest 1회 실행
type pipelineRunner interface {
	Run(ctx context.Context, plantID string) (*service.PipelineResult, error)
}

type PipelineHandler struct {
	pipeline pipelineRunner
}

func NewPipelineHandler(pipeline pipelineRunner) *PipelineHandler {
	return &PipelineHandler{pipeline: pipeline}
}

// RunIngest - SCADA 폴링 파이프라인을 호출자 plant에 대해 1회 실행
func (h *PipelineHandler) RunIngest(c *gin.Context) {
	ident := GetIdentity(c)
	if ident == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.pipeline.Run(c.Request.Context(), ident.PlantID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	alertIDs := result.NewAlertIDs
	if alertIDs == nil {
		alertIDs = []string{}
	}
	c.JSON(http.StatusOK, model.PipelineRunResponse{
		ReadingsStored:  result.ReadingsStored,
		ReadingsSkipped: result.ReadingsSkipped,
		NewAlerts:       len(result.NewAlertIDs),
		AlertIDs:        alertIDs,
	})
}
