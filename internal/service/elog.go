// 전자 운전일지(E-Log) 서비스
//
// 플랫폼 표준 entry type:
//  - readings_approved: 아침 측정값 승인/WIMS 동기화
//  - wo_created: alert에서 작업 지시 생성
//  - alert_log_only: 작업 지시 없이 일지만 기록
//  - shift_handoff: 교대 인수인계
//  - general: 일반 항목

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/plantops/backend/internal/model"
	"go.uber.org/zap"
)

const (
	EntryTypeReadingsApproved = "readings_approved"
	EntryTypeWorkOrderCreated = "wo_created"
	EntryTypeAlertLogOnly     = "alert_log_only"
	EntryTypeShiftHandoff     = "shift_handoff"
	EntryTypeGeneral          = "general"
)

const maxLogBodyLength = 2000

// logStore - 일지 저장소 (append + 조회만)
type logStore interface {
	CreateLogEntry(ctx context.Context, e *model.LogEntry) error
	ListLogEntries(ctx context.Context, plantID, entryType string, limit, offset int) ([]model.LogEntry, int, error)
}

type ElogService struct {
	store  logStore
	now    func() time.Time
	logger *zap.Logger
}

func NewElogService(store logStore, logger *zap.Logger) *ElogService {
	return &ElogService{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// CreateEntry - 일지 항목 1건 기록. 신원은 인증 레이어가 공급한 Identity만 사용
func (s *ElogService) CreateEntry(ctx context.Context, ident model.Identity, entryType, body string, metadata map[string]any) (*model.LogEntry, error) {
	if entryType == "" || body == "" {
		return nil, fmt.Errorf("%w: entry_type and body are required", ErrInvalidInput)
	}
	if len(body) > maxLogBodyLength {
		return nil, fmt.Errorf("%w: body exceeds %d characters", ErrInvalidInput, maxLogBodyLength)
	}
	if hasControlChars(entryType) || hasControlChars(body) {
		return nil, fmt.Errorf("%w: control characters not allowed", ErrInvalidInput)
	}

	entry := &model.LogEntry{
		ID:           uuid.NewString(),
		PlantID:      ident.PlantID,
		OperatorID:   ident.OperatorID,
		OperatorName: ident.OperatorName,
		EntryType:    entryType,
		Body:         body,
		Metadata:     metadata,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.store.CreateLogEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *ElogService) List(ctx context.Context, ident model.Identity, entryType string, limit, offset int) ([]model.LogEntry, int, error) {
	return s.store.ListLogEntries(ctx, ident.Scope(), entryType, limit, offset)
}

func (s *ElogService) LogReadingsApproved(ctx context.Context, ident model.Identity, metadata map[string]any) error {
	_, err := s.CreateEntry(ctx, ident, EntryTypeReadingsApproved,
		"Morning readings recorded and synced to WIMS.", metadata)
	return err
}

func (s *ElogService) LogWorkOrderCreated(ctx context.Context, ident model.Identity, assetName, woNumber, description string) error {
	body := fmt.Sprintf("Work order %s created for %s.", woNumber, assetName)
	_, err := s.CreateEntry(ctx, ident, EntryTypeWorkOrderCreated, body, map[string]any{
		"asset_name":  assetName,
		"wo_number":   woNumber,
		"description": description,
	})
	return err
}

func (s *ElogService) LogAlertOnly(ctx context.Context, ident model.Identity, assetName, summary string) error {
	body := fmt.Sprintf("Alert logged for %s: %s", assetName, summary)
	_, err := s.CreateEntry(ctx, ident, EntryTypeAlertLogOnly, body, map[string]any{
		"asset_name": assetName,
	})
	return err
}

func (s *ElogService) LogShiftHandoff(ctx context.Context, ident model.Identity, notes string) error {
	if notes == "" {
		notes = "Shift handoff complete."
	}
	_, err := s.CreateEntry(ctx, ident, EntryTypeShiftHandoff, notes, map[string]any{
		"event": "shift_sign_off",
	})
	return err
}

func hasControlChars(s string) bool {
	for _, c := range s {
		if (c < 32 && c != '\n' && c != '\t') || c == 127 {
			return true
		}
	}
	return false
}
