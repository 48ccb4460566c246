// Audit Trail Writer - 감사 기록의 유일한 쓰기 경로
//
// 컴플라이언스와 관련된 모든 행위(내보내기, 승인, dispatch 실패, 일지 기록)는
// 반드시 이 경로를 거쳐야 감사 추적이 완전한 불변 장부로 유지됨
// append 전용: 수정/삭제 메서드는 어디에도 없음

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/plantops/backend/internal/model"
	"go.uber.org/zap"
)

// auditStore - 감사 기록 insert 전용 인터페이스
type auditStore interface {
	InsertAuditEntry(ctx context.Context, e *model.AuditEntry) error
}

type AuditWriter struct {
	store  auditStore
	now    func() time.Time
	logger *zap.Logger
}

func NewAuditWriter(store auditStore, logger *zap.Logger) *AuditWriter {
	return &AuditWriter{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// Record - 감사 기록 1건 append
// actorID/actorRole은 시스템 주도 동작(예: dispatch 실패)에서는 빈 값일 수 있음
func (w *AuditWriter) Record(ctx context.Context, plantID, action, actorID, actorRole string, payload map[string]any) error {
	entry := &model.AuditEntry{
		ID:        uuid.NewString(),
		PlantID:   plantID,
		Action:    action,
		ActorID:   actorID,
		ActorRole: actorRole,
		Payload:   payload,
		CreatedAt: w.now().UTC(),
	}

	if err := w.store.InsertAuditEntry(ctx, entry); err != nil {
		w.logger.Error("failed to write audit entry",
			zap.String("plant_id", plantID),
			zap.String("action", action),
			zap.Error(err),
		)
		return err
	}
	return nil
}
