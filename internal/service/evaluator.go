// Alert Evaluator - 태그별 최신 측정값을 임계값 규칙과 비교
//
// 평가 규칙:
//  - 태그별 최신 측정값 1건만 평가 (최신 = ts 최대, 동률이면 나중에 저장된 행)
//  - max를 min보다 먼저 검사하고, 한 번의 평가 패스에서 태그당 alert 1건만 생성
//    (양쪽 경계가 모두 걸려도 먼저 걸린 쪽만)
//  - 같은 (plant, tag, issue_type)에 열린 alert가 있으면 건너뜀 (중복 방지 가드)

package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/plantops/backend/internal/config"
	"github.com/plantops/backend/internal/model"
	"github.com/plantops/backend/internal/observability"
	"go.uber.org/zap"
)

// readingSource - 태그별 최신 측정값 조회
type readingSource interface {
	LatestReadings(ctx context.Context, plantID, source string) ([]model.NormalizedReading, error)
}

// alertSink - alert 생성과 중복 가드
type alertSink interface {
	CreateAlert(ctx context.Context, a *model.AlertRecord) error
	HasOpenAlert(ctx context.Context, plantID, tag, issueType string) (bool, error)
}

type Evaluator struct {
	readings readingSource
	alerts   alertSink
	rules    map[string]config.Rule
	now      func() time.Time
	metrics  *observability.Metrics
	logger   *zap.Logger
}

func NewEvaluator(readings readingSource, alerts alertSink, rules map[string]config.Rule, metrics *observability.Metrics, logger *zap.Logger) *Evaluator {
	return &Evaluator{
		readings: readings,
		alerts:   alerts,
		rules:    rules,
		now:      time.Now,
		metrics:  metrics,
		logger:   logger,
	}
}

// Evaluate - plant 범위의 최신 측정값을 평가하고 생성한 alert ID 목록을 반환
func (e *Evaluator) Evaluate(ctx context.Context, plantID string) ([]string, error) {
	latest, err := e.readings.LatestReadings(ctx, plantID, model.SourceScada)
	if err != nil {
		return nil, fmt.Errorf("failed to load latest readings: %w", err)
	}

	byTag := make(map[string]model.NormalizedReading, len(latest))
	for _, r := range latest {
		byTag[r.Tag] = r
	}

	// 규칙 순회 순서를 고정해서 결과를 결정적으로 만듦
	tags := make([]string, 0, len(e.rules))
	for tag := range e.rules {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	var newIDs []string
	for _, tag := range tags {
		rule := e.rules[tag]
		reading, ok := byTag[tag]
		if !ok {
			continue
		}

		violation, bound := checkRule(rule, reading.Value)
		if !violation {
			continue
		}

		// 중복 가드: 같은 (plant, tag, issue_type)에 열린 alert가 있으면 생성하지 않음
		exists, err := e.alerts.HasOpenAlert(ctx, plantID, tag, rule.IssueType)
		if err != nil {
			return newIDs, fmt.Errorf("failed to check open alert for %s: %w", tag, err)
		}
		if exists {
			e.logger.Debug("skipping duplicate alert",
				zap.String("plant_id", plantID),
				zap.String("tag", tag),
				zap.String("issue_type", rule.IssueType),
			)
			continue
		}

		alert := e.buildAlert(plantID, tag, rule, reading, bound)
		if err := e.alerts.CreateAlert(ctx, alert); err != nil {
			return newIDs, fmt.Errorf("failed to create alert for %s: %w", tag, err)
		}
		newIDs = append(newIDs, alert.ID)
	}

	e.metrics.AddAlertsCreated(len(newIDs))
	return newIDs, nil
}

// checkRule - 위반 여부와 걸린 경계("max" | "min") 반환. max를 먼저 검사
func checkRule(rule config.Rule, value float64) (bool, string) {
	if rule.Max != nil && value > *rule.Max {
		return true, "max"
	}
	if rule.Min != nil && value < *rule.Min {
		return true, "min"
	}
	return false, ""
}

func (e *Evaluator) buildAlert(plantID, tag string, rule config.Rule, reading model.NormalizedReading, bound string) *model.AlertRecord {
	severity := rule.Severity
	if severity == "" {
		severity = model.SeverityWarning
	}

	var message string
	if bound == "max" {
		message = fmt.Sprintf("%s = %g %s (max %g)", tag, reading.Value, rule.Unit, *rule.Max)
	} else {
		message = fmt.Sprintf("%s = %g %s (min %g)", tag, reading.Value, rule.Unit, *rule.Min)
	}

	return &model.AlertRecord{
		ID:        uuid.NewString(),
		PlantID:   plantID,
		AssetName: assetNameForTag(tag),
		IssueType: rule.IssueType,
		Severity:  severity,
		Message:   message,
		Snapshot: map[string]any{
			"tag":   tag,
			"value": reading.Value,
			"unit":  reading.Unit,
			"bound": bound,
		},
		Status:    model.AlertStatusOpen,
		CreatedAt: e.now().UTC(),
	}
}

// assetNameForTag - 표시용 자산 이름 ("pump3_vibration" -> "Pump3 Vibration")
func assetNameForTag(tag string) string {
	parts := strings.Split(tag, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
