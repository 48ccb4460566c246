// Alert 상태 전이 처리
// open -> dismissed | logged_only | wo_created 세 가지 전이만 존재하고 모두 종결 상태
// 상태를 바꾸는 모든 동작은 감사 기록을 남김

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/plantops/backend/internal/db"
	"github.com/plantops/backend/internal/model"
	"go.uber.org/zap"
)

// 운영자가 요청할 수 있는 전이 action
const (
	AlertActionDismiss = "dismiss"
	AlertActionLogOnly = "log-only"
)

// alertRepo - alert 조회/전이 저장소
type alertRepo interface {
	GetAlert(ctx context.Context, plantID, alertID string) (*model.AlertRecord, error)
	ListAlerts(ctx context.Context, plantID, status string, limit, offset int) ([]model.AlertRecord, int, error)
	TransitionAlert(ctx context.Context, plantID, alertID, newStatus string, resolvedAt time.Time) (*model.AlertRecord, error)
}

// alertLogWriter - log-only 경로에서 남기는 운전일지
type alertLogWriter interface {
	LogAlertOnly(ctx context.Context, ident model.Identity, assetName, summary string) error
}

type AlertService struct {
	repo   alertRepo
	elog   alertLogWriter
	audit  auditRecorder
	now    func() time.Time
	logger *zap.Logger
}

func NewAlertService(repo alertRepo, elog alertLogWriter, audit auditRecorder, logger *zap.Logger) *AlertService {
	return &AlertService{
		repo:   repo,
		elog:   elog,
		audit:  audit,
		now:    time.Now,
		logger: logger,
	}
}

func (s *AlertService) List(ctx context.Context, ident model.Identity, status string, limit, offset int) ([]model.AlertRecord, int, error) {
	return s.repo.ListAlerts(ctx, ident.Scope(), status, limit, offset)
}

func (s *AlertService) Get(ctx context.Context, ident model.Identity, alertID string) (*model.AlertRecord, error) {
	alert, err := s.repo.GetAlert(ctx, ident.Scope(), alertID)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return alert, nil
}

// Transition - 운영자 주도 전이 (dismiss, log-only)
// wo_created 전이는 work order 생성 흐름 내부에서만 일어남
func (s *AlertService) Transition(ctx context.Context, ident model.Identity, alertID, action string) (*model.AlertRecord, error) {
	var newStatus string
	switch action {
	case AlertActionDismiss:
		newStatus = model.AlertStatusDismissed
	case AlertActionLogOnly:
		newStatus = model.AlertStatusLoggedOnly
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}

	alert, err := s.repo.TransitionAlert(ctx, ident.Scope(), alertID, newStatus, s.now().UTC())
	if err != nil {
		switch {
		case db.IsNoRows(err):
			return nil, ErrNotFound
		case err == db.ErrAlertNotOpen:
			return nil, ErrInvalidTransition
		default:
			return nil, err
		}
	}

	// log-only 경로는 운전일지에도 남김
	if newStatus == model.AlertStatusLoggedOnly {
		summary := alert.Message
		if summary == "" {
			summary = alert.IssueType
		}
		if err := s.elog.LogAlertOnly(ctx, ident, alert.AssetName, summary); err != nil {
			s.logger.Error("failed to write alert log entry", zap.Error(err))
		}
	}

	if err := s.audit.Record(ctx, alert.PlantID, model.AuditActionAlertTransitioned, ident.OperatorID, ident.Role, map[string]any{
		"alert_id": alert.ID,
		"to":       newStatus,
	}); err != nil {
		s.logger.Error("failed to audit alert transition", zap.Error(err))
	}

	return alert, nil
}
