// 교대 인수인계 요약/사인오프
// 요약은 DB 집계로 계산: WIMS 동기화 횟수, 처리한 alert 수, 생성한 작업 지시 수

package service

import (
	"context"

	"github.com/plantops/backend/internal/model"
)

// 수작업 대비 절감 시간 추정치 (작업 항목당 분)
const (
	minutesSavedPerSync      = 15
	minutesSavedPerWorkOrder = 10
)

// shiftCounts - 요약에 필요한 집계 조회
type shiftCounts interface {
	CountLogEntries(ctx context.Context, plantID, entryType string) (int, error)
	CountAlertsHandled(ctx context.Context, plantID string) (int, error)
	CountWorkOrders(ctx context.Context, plantID string) (int, error)
}

// shiftLogWriter - 사인오프 일지 기록
type shiftLogWriter interface {
	LogShiftHandoff(ctx context.Context, ident model.Identity, notes string) error
}

type ShiftService struct {
	counts shiftCounts
	elog   shiftLogWriter
}

func NewShiftService(counts shiftCounts, elog shiftLogWriter) *ShiftService {
	return &ShiftService{counts: counts, elog: elog}
}

func (s *ShiftService) Summary(ctx context.Context, ident model.Identity) (*model.ShiftSummaryResponse, error) {
	scope := ident.Scope()

	syncs, err := s.counts.CountLogEntries(ctx, scope, EntryTypeReadingsApproved)
	if err != nil {
		return nil, err
	}
	alertsHandled, err := s.counts.CountAlertsHandled(ctx, scope)
	if err != nil {
		return nil, err
	}
	workOrders, err := s.counts.CountWorkOrders(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &model.ShiftSummaryResponse{
		OperatorID:        ident.OperatorID,
		OperatorName:      ident.OperatorName,
		SyncsCount:        syncs,
		AlertsHandled:     alertsHandled,
		WorkOrdersCreated: workOrders,
		TimeSavedMinutes:  syncs*minutesSavedPerSync + workOrders*minutesSavedPerWorkOrder,
	}, nil
}

func (s *ShiftService) SignOff(ctx context.Context, ident model.Identity, notes string) error {
	return s.elog.LogShiftHandoff(ctx, ident, notes)
}
