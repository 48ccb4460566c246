// Outbound Dispatcher - 외부 시스템으로의 쓰기(작업 지시 생성 등)를 담당
//
// 정책:
//  1. 최대 3회 시도. 실패하면 대기 후 재시도 (1번째 실패 후 1단위, 2번째 실패 후 2단위)
//  2. 어느 시도든 성공하면 남은 시도를 건너뜀
//  3. 전부 실패하면 감사 기록을 정확히 1건 남김 ("<connector>_create_failed",
//     payload 스냅샷 + 마지막 에러 + 시도 횟수) - 실패의 유일한 기록이므로
//     호출자는 추가로 기록하지 않는다
//  4. 실패를 orchestrator로 hard fault로 올리지 않고 항상 결과값으로 보고
//
// 재시도 대기는 호출한 작업 단위만 블로킹하며, 동시 dispatch끼리
// backoff 상태를 공유하지 않음 (시도 카운터는 호출마다 독립)

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/plantops/backend/internal/connector"
	"github.com/plantops/backend/internal/observability"
	"go.uber.org/zap"
)

// auditRecorder - dispatcher가 쓰는 감사 기록 경로
type auditRecorder interface {
	Record(ctx context.Context, plantID, action, actorID, actorRole string, payload map[string]any) error
}

type DispatchResult struct {
	OK         bool
	ExternalID string
	Error      string
	Attempts   int
}

type Dispatcher struct {
	audit       auditRecorder
	maxAttempts int
	backoffBase time.Duration
	sleep       func(time.Duration)
	metrics     *observability.Metrics
	logger      *zap.Logger
}

func NewDispatcher(audit auditRecorder, maxAttempts int, backoffBase time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Dispatcher {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if backoffBase <= 0 {
		backoffBase = time.Second
	}
	return &Dispatcher{
		audit:       audit,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		sleep:       time.Sleep,
		metrics:     metrics,
		logger:      logger,
	}
}

// Dispatch - connector에 payload를 push
func (d *Dispatcher) Dispatch(ctx context.Context, conn connector.Connector, plantID string, payload map[string]any) DispatchResult {
	var lastErr error

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		d.metrics.IncDispatchAttempts()

		externalID, err := conn.PushData(ctx, payload)
		if err == nil {
			return DispatchResult{OK: true, ExternalID: externalID, Attempts: attempt}
		}
		lastErr = err

		d.logger.Warn("dispatch attempt failed",
			zap.String("connector", conn.Name()),
			zap.String("plant_id", plantID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		// 마지막 시도 이후에는 대기하지 않음
		if attempt < d.maxAttempts {
			d.sleep(d.backoffBase * time.Duration(attempt))
		}
	}

	d.metrics.IncDispatchFailures()

	// 소진 실패의 유일한 기록
	action := fmt.Sprintf("%s_create_failed", conn.Name())
	if err := d.audit.Record(ctx, plantID, action, "", "", map[string]any{
		"payload":  payload,
		"error":    lastErr.Error(),
		"attempts": d.maxAttempts,
	}); err != nil {
		d.logger.Error("failed to record dispatch exhaustion", zap.Error(err))
	}

	return DispatchResult{OK: false, Error: lastErr.Error(), Attempts: d.maxAttempts}
}
