package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/plantops/backend/internal/db"
	"github.com/plantops/backend/internal/model"
	"go.uber.org/zap"
)

// fakeAlertRepo - 인메모리 alert 저장소 (상태 머신 규칙 포함)
type fakeAlertRepo struct {
	alerts map[string]*model.AlertRecord
}

func (f *fakeAlertRepo) get(plantID, alertID string) (*model.AlertRecord, error) {
	a, ok := f.alerts[alertID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if plantID != "" && a.PlantID != plantID {
		return nil, pgx.ErrNoRows
	}
	return a, nil
}

func (f *fakeAlertRepo) GetAlert(ctx context.Context, plantID, alertID string) (*model.AlertRecord, error) {
	return f.get(plantID, alertID)
}

func (f *fakeAlertRepo) ListAlerts(ctx context.Context, plantID, status string, limit, offset int) ([]model.AlertRecord, int, error) {
	var out []model.AlertRecord
	for _, a := range f.alerts {
		if plantID != "" && a.PlantID != plantID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (f *fakeAlertRepo) TransitionAlert(ctx context.Context, plantID, alertID, newStatus string, resolvedAt time.Time) (*model.AlertRecord, error) {
	a, err := f.get(plantID, alertID)
	if err != nil {
		return nil, err
	}
	if a.Status != model.AlertStatusOpen {
		return nil, db.ErrAlertNotOpen
	}
	a.Status = newStatus
	a.ResolvedAt = &resolvedAt
	copied := *a
	return &copied, nil
}

// captureElog - 운전일지 기록 호출을 수집 (service 테스트 공용)
type captureElog struct {
	alertOnly  []string
	workOrders []string
	handoffs   []string
	approved   int
	err        error
}

func (c *captureElog) LogAlertOnly(ctx context.Context, ident model.Identity, assetName, summary string) error {
	c.alertOnly = append(c.alertOnly, assetName)
	return c.err
}

func (c *captureElog) LogWorkOrderCreated(ctx context.Context, ident model.Identity, assetName, woNumber, description string) error {
	c.workOrders = append(c.workOrders, woNumber)
	return c.err
}

func (c *captureElog) LogShiftHandoff(ctx context.Context, ident model.Identity, notes string) error {
	c.handoffs = append(c.handoffs, notes)
	return c.err
}

func (c *captureElog) LogReadingsApproved(ctx context.Context, ident model.Identity, metadata map[string]any) error {
	c.approved++
	return c.err
}

func openAlert(id, plantID string) *model.AlertRecord {
	return &model.AlertRecord{
		ID:        id,
		PlantID:   plantID,
		AssetName: "Pump3 Vibration",
		IssueType: "vibration_high",
		Severity:  model.SeverityWarning,
		Message:   "pump3_vibration = 0.85 in/s (max 0.8)",
		Status:    model.AlertStatusOpen,
		CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func operatorIdent() model.Identity {
	return model.Identity{OperatorID: "op-7", OperatorName: "J. Rivera", PlantID: "plant-1", Role: model.RoleOperator}
}

func TestAlertTransitionDismiss(t *testing.T) {
	repo := &fakeAlertRepo{alerts: map[string]*model.AlertRecord{"a1": openAlert("a1", "plant-1")}}
	elog := &captureElog{}
	audit := &recordingAudit{}
	s := NewAlertService(repo, elog, audit, zap.NewNop())

	alert, err := s.Transition(context.Background(), operatorIdent(), "a1", AlertActionDismiss)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if alert.Status != model.AlertStatusDismissed {
		t.Errorf("status = %q, want dismissed", alert.Status)
	}
	if alert.ResolvedAt == nil {
		t.Error("resolved_at should be set on terminal transition")
	}
	if len(elog.alertOnly) != 0 {
		t.Error("dismiss should not write a log entry")
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.AuditActionAlertTransitioned {
		t.Errorf("expected one alert_transitioned audit entry, got %v", audit.entries)
	}
}

func TestAlertTransitionLogOnlyWritesElog(t *testing.T) {
	repo := &fakeAlertRepo{alerts: map[string]*model.AlertRecord{"a1": openAlert("a1", "plant-1")}}
	elog := &captureElog{}
	audit := &recordingAudit{}
	s := NewAlertService(repo, elog, audit, zap.NewNop())

	alert, err := s.Transition(context.Background(), operatorIdent(), "a1", AlertActionLogOnly)
	if err != nil {
		t.Fatalf("transition failed: %v", err)
	}
	if alert.Status != model.AlertStatusLoggedOnly {
		t.Errorf("status = %q, want logged_only", alert.Status)
	}
	if len(elog.alertOnly) != 1 || elog.alertOnly[0] != "Pump3 Vibration" {
		t.Errorf("log-only path should write a log entry, got %v", elog.alertOnly)
	}
}

func TestAlertTransitionRejectsTerminal(t *testing.T) {
	closed := openAlert("a1", "plant-1")
	closed.Status = model.AlertStatusDismissed
	repo := &fakeAlertRepo{alerts: map[string]*model.AlertRecord{"a1": closed}}
	s := NewAlertService(repo, &captureElog{}, &recordingAudit{}, zap.NewNop())

	if _, err := s.Transition(context.Background(), operatorIdent(), "a1", AlertActionLogOnly); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestAlertTransitionUnknownAction(t *testing.T) {
	repo := &fakeAlertRepo{alerts: map[string]*model.AlertRecord{"a1": openAlert("a1", "plant-1")}}
	s := NewAlertService(repo, &captureElog{}, &recordingAudit{}, zap.NewNop())

	if _, err := s.Transition(context.Background(), operatorIdent(), "a1", "reopen"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestAlertGetScopedByPlant(t *testing.T) {
	repo := &fakeAlertRepo{alerts: map[string]*model.AlertRecord{"a1": openAlert("a1", "plant-2")}}
	s := NewAlertService(repo, &captureElog{}, &recordingAudit{}, zap.NewNop())

	// 다른 plant 운영자에게는 보이지 않음
	if _, err := s.Get(context.Background(), operatorIdent(), "a1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for out-of-scope alert", err)
	}

	// admin(빈 scope)은 전 plant 조회 가능
	admin := model.Identity{OperatorID: "admin", Role: model.RoleAdmin}
	if _, err := s.Get(context.Background(), admin, "a1"); err != nil {
		t.Fatalf("admin get failed: %v", err)
	}
}

func TestAlertGetNotFound(t *testing.T) {
	repo := &fakeAlertRepo{alerts: map[string]*model.AlertRecord{}}
	s := NewAlertService(repo, &captureElog{}, &recordingAudit{}, zap.NewNop())

	if _, err := s.Get(context.Background(), operatorIdent(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
