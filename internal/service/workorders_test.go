package service

import (
	"context"
	"errors"
	"testing"

	"github.com/plantops/backend/internal/connector"
	"github.com/plantops/backend/internal/model"
	"go.uber.org/zap"
)

type fakeWorkOrderRepo struct {
	created []*model.WorkOrderRecord
	err     error
}

func (f *fakeWorkOrderRepo) CreateWorkOrder(ctx context.Context, w *model.WorkOrderRecord) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, w)
	return nil
}

func (f *fakeWorkOrderRepo) ListWorkOrders(ctx context.Context, plantID string, limit, offset int) ([]model.WorkOrderRecord, int, error) {
	var out []model.WorkOrderRecord
	for _, w := range f.created {
		if plantID != "" && w.PlantID != plantID {
			continue
		}
		out = append(out, *w)
	}
	return out, len(out), nil
}

type fakeWODispatcher struct {
	result   DispatchResult
	payloads []map[string]any
}

func (f *fakeWODispatcher) Dispatch(ctx context.Context, conn connector.Connector, plantID string, payload map[string]any) DispatchResult {
	f.payloads = append(f.payloads, payload)
	return f.result
}

func newTestWorkOrderService(repo *fakeAlertRepo, wos *fakeWorkOrderRepo, disp *fakeWODispatcher, elog *captureElog, audit *recordingAudit) *WorkOrderService {
	cmms := newFlakyConnector("cmms", 0)
	return NewWorkOrderService(repo, wos, disp, cmms, elog, audit, zap.NewNop())
}

func TestCreateFromAlertSuccess(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[string]*model.AlertRecord{"a1": openAlert("a1", "plant-1")}}
	wos := &fakeWorkOrderRepo{}
	disp := &fakeWODispatcher{result: DispatchResult{OK: true, ExternalID: "WO-MC-STUB-2026-0001", Attempts: 1}}
	elog := &captureElog{}
	audit := &recordingAudit{}
	s := newTestWorkOrderService(alerts, wos, disp, elog, audit)

	resp, err := s.CreateFromAlert(context.Background(), operatorIdent(), model.WorkOrderCreateRequest{AlertID: "a1"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got message %q", resp.Message)
	}
	if resp.ExternalID != "WO-MC-STUB-2026-0001" {
		t.Errorf("external id = %q", resp.ExternalID)
	}

	if len(wos.created) != 1 {
		t.Fatalf("work orders stored = %d, want 1", len(wos.created))
	}
	record := wos.created[0]
	if record.AlertID != "a1" || record.PlantID != "plant-1" {
		t.Errorf("record = %+v, want alert a1 in plant-1", record)
	}

	// payload에는 우선순위 기본값과 alert 스냅샷이 들어감
	payload := disp.payloads[0]
	if payload["priority"] != "high" {
		t.Errorf("priority = %v, want default high", payload["priority"])
	}
	if payload["asset_name"] != "Pump3 Vibration" {
		t.Errorf("asset_name = %v", payload["asset_name"])
	}

	if len(elog.workOrders) != 1 {
		t.Error("success should write a work order log entry")
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != model.AuditActionWorkOrderCreated {
		t.Errorf("expected one work_order_created audit entry, got %v", audit.entries)
	}

	// alert는 wo_created로 전이됨
	if alerts.alerts["a1"].Status != model.AlertStatusWOCreated {
		t.Errorf("alert status = %q, want wo_created", alerts.alerts["a1"].Status)
	}
}

func TestCreateFromAlertDispatchFailure(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[string]*model.AlertRecord{"a1": openAlert("a1", "plant-1")}}
	wos := &fakeWorkOrderRepo{}
	disp := &fakeWODispatcher{result: DispatchResult{OK: false, Error: "connection refused", Attempts: 3}}
	elog := &captureElog{}
	audit := &recordingAudit{}
	s := newTestWorkOrderService(alerts, wos, disp, elog, audit)

	resp, err := s.CreateFromAlert(context.Background(), operatorIdent(), model.WorkOrderCreateRequest{AlertID: "a1"})
	if err != nil {
		t.Fatalf("dispatch failure must not be a hard error: %v", err)
	}
	if resp.Success {
		t.Fatal("expected Success=false on dispatch failure")
	}
	if resp.Message != "connection refused" {
		t.Errorf("message = %q, want last dispatch error", resp.Message)
	}

	if len(wos.created) != 0 {
		t.Error("no work order record should be stored on failure")
	}
	if len(elog.workOrders) != 0 {
		t.Error("no log entry should be written on failure")
	}
	// 소진 실패 감사 기록은 dispatcher 몫 - 여기서 중복 기록하지 않음
	if len(audit.entries) != 0 {
		t.Errorf("service wrote %d audit entries on failure, want 0", len(audit.entries))
	}
	if alerts.alerts["a1"].Status != model.AlertStatusOpen {
		t.Errorf("alert status = %q, should stay open on failure", alerts.alerts["a1"].Status)
	}
}

func TestCreateFromAlertRejectsTerminalAlert(t *testing.T) {
	closed := openAlert("a1", "plant-1")
	closed.Status = model.AlertStatusLoggedOnly
	alerts := &fakeAlertRepo{alerts: map[string]*model.AlertRecord{"a1": closed}}
	disp := &fakeWODispatcher{result: DispatchResult{OK: true}}
	s := newTestWorkOrderService(alerts, &fakeWorkOrderRepo{}, disp, &captureElog{}, &recordingAudit{})

	if _, err := s.CreateFromAlert(context.Background(), operatorIdent(), model.WorkOrderCreateRequest{AlertID: "a1"}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if len(disp.payloads) != 0 {
		t.Error("nothing should be dispatched for a terminal alert")
	}
}

func TestCreateFromAlertNotFound(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[string]*model.AlertRecord{}}
	s := newTestWorkOrderService(alerts, &fakeWorkOrderRepo{}, &fakeWODispatcher{}, &captureElog{}, &recordingAudit{})

	if _, err := s.CreateFromAlert(context.Background(), operatorIdent(), model.WorkOrderCreateRequest{AlertID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreateFromAlertScopedByPlant(t *testing.T) {
	alerts := &fakeAlertRepo{alerts: map[string]*model.AlertRecord{"a1": openAlert("a1", "plant-2")}}
	s := newTestWorkOrderService(alerts, &fakeWorkOrderRepo{}, &fakeWODispatcher{}, &captureElog{}, &recordingAudit{})

	if _, err := s.CreateFromAlert(context.Background(), operatorIdent(), model.WorkOrderCreateRequest{AlertID: "a1"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for out-of-scope alert", err)
	}
}
