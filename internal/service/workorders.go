// Alert에서 CMMS 작업 지시 생성
//
// 흐름: alert 조회(범위 검사) → dispatcher로 CMMS push (재시도 포함) →
// 성공 시 WorkOrderRecord 저장 + 운전일지 + 감사 기록 + alert를 wo_created로 전이
// dispatch 실패는 dispatcher가 이미 감사 기록을 남겼으므로 여기서는 결과만 반환

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/plantops/backend/internal/connector"
	"github.com/plantops/backend/internal/db"
	"github.com/plantops/backend/internal/model"
	"go.uber.org/zap"
)

// workOrderRepo - 작업 지시 기록 저장소
type workOrderRepo interface {
	CreateWorkOrder(ctx context.Context, w *model.WorkOrderRecord) error
	ListWorkOrders(ctx context.Context, plantID string, limit, offset int) ([]model.WorkOrderRecord, int, error)
}

// workOrderDispatcher - 재시도 정책을 가진 outbound 경로
type workOrderDispatcher interface {
	Dispatch(ctx context.Context, conn connector.Connector, plantID string, payload map[string]any) DispatchResult
}

// workOrderLogWriter - 생성 성공 시 운전일지 기록
type workOrderLogWriter interface {
	LogWorkOrderCreated(ctx context.Context, ident model.Identity, assetName, woNumber, description string) error
}

type WorkOrderService struct {
	alerts     alertRepo
	workOrders workOrderRepo
	dispatcher workOrderDispatcher
	cmms       connector.Connector
	elog       workOrderLogWriter
	audit      auditRecorder
	now        func() time.Time
	logger     *zap.Logger
}

func NewWorkOrderService(
	alerts alertRepo,
	workOrders workOrderRepo,
	dispatcher workOrderDispatcher,
	cmms connector.Connector,
	elog workOrderLogWriter,
	audit auditRecorder,
	logger *zap.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		alerts:     alerts,
		workOrders: workOrders,
		dispatcher: dispatcher,
		cmms:       cmms,
		elog:       elog,
		audit:      audit,
		now:        time.Now,
		logger:     logger,
	}
}

func (s *WorkOrderService) List(ctx context.Context, ident model.Identity, limit, offset int) ([]model.WorkOrderRecord, int, error) {
	return s.workOrders.ListWorkOrders(ctx, ident.Scope(), limit, offset)
}

// CreateFromAlert - alert 기반 작업 지시 생성
// dispatch 실패는 error가 아니라 Success=false 결과로 보고됨 (호출자가 UX를 결정)
func (s *WorkOrderService) CreateFromAlert(ctx context.Context, ident model.Identity, req model.WorkOrderCreateRequest) (*model.WorkOrderCreatedResponse, error) {
	alert, err := s.alerts.GetAlert(ctx, ident.Scope(), req.AlertID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if alert.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	plantID := alert.PlantID
	if plantID == "" {
		plantID = ident.PlantID
	}

	priority := req.Priority
	if priority == "" {
		priority = "high"
	}
	description := alert.Message
	if description == "" {
		description = alert.IssueType
	}

	payload := map[string]any{
		"asset_name":        alert.AssetName,
		"description":       description,
		"priority":          priority,
		"assignee_id":       req.AssigneeID,
		"source_alert_id":   alert.ID,
		"plant_id":          plantID,
		"created_by_system": true,
		"snapshot":          alert.Snapshot,
	}

	result := s.dispatcher.Dispatch(ctx, s.cmms, plantID, payload)
	if !result.OK {
		// 소진 실패의 감사 기록은 dispatcher가 남김 - 여기서 중복 기록하지 않음
		return &model.WorkOrderCreatedResponse{Success: false, Message: result.Error}, nil
	}

	record := &model.WorkOrderRecord{
		ID:          uuid.NewString(),
		AlertID:     alert.ID,
		PlantID:     plantID,
		ExternalID:  result.ExternalID,
		PayloadSent: payload,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.workOrders.CreateWorkOrder(ctx, record); err != nil {
		return nil, err
	}

	if err := s.elog.LogWorkOrderCreated(ctx, ident, alert.AssetName, result.ExternalID, description); err != nil {
		s.logger.Error("failed to write work order log entry", zap.Error(err))
	}

	if err := s.audit.Record(ctx, plantID, model.AuditActionWorkOrderCreated, ident.OperatorID, ident.Role, map[string]any{
		"work_order_id": record.ID,
		"external_id":   result.ExternalID,
		"alert_id":      alert.ID,
		"attempts":      result.Attempts,
	}); err != nil {
		s.logger.Error("failed to audit work order creation", zap.Error(err))
	}

	if _, err := s.alerts.TransitionAlert(ctx, ident.Scope(), alert.ID, model.AlertStatusWOCreated, s.now().UTC()); err != nil {
		// WO는 이미 생성됨 - 전이 실패는 기록만 하고 성공 결과를 유지
		s.logger.Error("failed to transition alert to wo_created",
			zap.String("alert_id", alert.ID),
			zap.Error(err),
		)
	}

	return &model.WorkOrderCreatedResponse{
		Success:     true,
		WorkOrderID: record.ID,
		ExternalID:  result.ExternalID,
		Message:     "Work order created.",
	}, nil
}
