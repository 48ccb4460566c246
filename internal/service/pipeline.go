// Pipeline Orchestrator - ingest 1회 실행의 순서와 실패 격리를 정의
//
// 실행 순서 (엄격히 순차적):
//  1. connector.FetchData로 원시 레코드 조회
//  2. connector.Normalize + 태그 정규화
//  3. 정규화된 측정값 전체를 단일 트랜잭션으로 저장 (부분 커밋 없음)
//  4. 저장된 최신 상태 위에서 alert 평가 - 부분 커밋된 배치 위에서는 절대 실행되지 않음
//  5. 저장/생성 건수 반환
//
// 검증 실패(비정상 값)는 해당 레코드만 건너뛰고 배치 전체를 실패시키지 않으며
// 건너뛴 개수를 결과로 보고함

package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/plantops/backend/internal/connector"
	"github.com/plantops/backend/internal/model"
	"github.com/plantops/backend/internal/normalizer"
	"github.com/plantops/backend/internal/observability"
	"go.uber.org/zap"
)

// readingBatchStore - 파이프라인 1회분 저장 (단일 트랜잭션)
type readingBatchStore interface {
	InsertReadings(ctx context.Context, readings []model.NormalizedReading) error
}

// alertEvaluator - 저장 완료 후 평가 단계
type alertEvaluator interface {
	Evaluate(ctx context.Context, plantID string) ([]string, error)
}

type PipelineResult struct {
	ReadingsStored  int
	ReadingsSkipped int
	NewAlertIDs     []string
}

type Pipeline struct {
	source     connector.Connector
	normalizer *normalizer.Normalizer
	store      readingBatchStore
	evaluator  alertEvaluator
	now        func() time.Time
	metrics    *observability.Metrics
	logger     *zap.Logger
}

func NewPipeline(source connector.Connector, norm *normalizer.Normalizer, store readingBatchStore, evaluator alertEvaluator, metrics *observability.Metrics, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		source:     source,
		normalizer: norm,
		store:      store,
		evaluator:  evaluator,
		now:        time.Now,
		metrics:    metrics,
		logger:     logger,
	}
}

// Run - plant 하나에 대한 ingest → normalize → store → evaluate 1회 실행
// 연결 실패는 error로 보고할 뿐 재시도하지 않음 (재시도는 dispatcher 정책에만 존재)
func (p *Pipeline) Run(ctx context.Context, plantID string) (*PipelineResult, error) {
	p.metrics.IncPipelineRuns()

	raw, err := p.source.FetchData(ctx, plantID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", p.source.Name(), err)
	}

	normalized := p.source.Normalize(raw)

	readings := make([]model.NormalizedReading, 0, len(normalized))
	skipped := 0
	for _, r := range normalized {
		if !validReading(r) {
			skipped++
			p.logger.Warn("skipping malformed reading",
				zap.String("plant_id", plantID),
				zap.String("raw_tag", r.RawTag),
				zap.Float64("value", r.Value),
			)
			continue
		}

		r = p.normalizer.Apply(r)
		r.PlantID = plantID
		if r.Timestamp.IsZero() {
			r.Timestamp = p.now().UTC()
		}
		readings = append(readings, r)
	}

	if err := p.store.InsertReadings(ctx, readings); err != nil {
		return nil, fmt.Errorf("failed to store readings: %w", err)
	}

	// 평가는 배치 커밋 이후에만 실행됨
	newIDs, err := p.evaluator.Evaluate(ctx, plantID)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate alerts: %w", err)
	}

	p.metrics.AddReadingsStored(len(readings))
	p.metrics.AddReadingsSkipped(skipped)

	p.logger.Info("pipeline run complete",
		zap.String("plant_id", plantID),
		zap.Int("readings_stored", len(readings)),
		zap.Int("readings_skipped", skipped),
		zap.Int("new_alerts", len(newIDs)),
	)

	return &PipelineResult{
		ReadingsStored:  len(readings),
		ReadingsSkipped: skipped,
		NewAlertIDs:     newIDs,
	}, nil
}

// validReading - 정규화/평가가 불가능한 레코드 판별
func validReading(r model.NormalizedReading) bool {
	if r.Tag == "" {
		return false
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return false
	}
	return true
}
