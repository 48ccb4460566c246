// alerts 테이블 - 임계값 평가가 생성한 알림 레코드
// status/resolved_at만 정의된 전이를 통해 변경 가능하고 행 삭제는 없음

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/plantops/backend/internal/model"
)

func (p *Postgres) EnsureAlertSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS alerts (
			id          TEXT         PRIMARY KEY,
			plant_id    TEXT         NOT NULL DEFAULT '',
			asset_name  TEXT         NOT NULL DEFAULT '',
			issue_type  TEXT         NOT NULL,
			severity    TEXT         NOT NULL DEFAULT 'warning',
			message     TEXT         NOT NULL DEFAULT '',
			snapshot    JSONB        NOT NULL DEFAULT '{}',
			status      TEXT         NOT NULL DEFAULT 'open',
			created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			resolved_at TIMESTAMPTZ
		)
		`,
		`CREATE INDEX IF NOT EXISTS alerts_plant_status_idx ON alerts(plant_id, status)`,
		`CREATE INDEX IF NOT EXISTS alerts_created_at_idx ON alerts(created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := p.Pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to ensure alerts schema: %w", err)
		}
	}
	return nil
}

func (p *Postgres) CreateAlert(ctx context.Context, a *model.AlertRecord) error {
	_, err := p.Pool.Exec(ctx, `
		INSERT INTO alerts (id, plant_id, asset_name, issue_type, severity, message, snapshot, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.PlantID, a.AssetName, a.IssueType, a.Severity, a.Message, a.Snapshot, a.Status, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// HasOpenAlert - (plant, canonical tag, issue_type)에 대해 열린 alert가 이미 있는지
// 평가 패스마다 중복 alert가 쌓이는 것을 막는 가드
func (p *Postgres) HasOpenAlert(ctx context.Context, plantID, tag, issueType string) (bool, error) {
	var exists bool
	err := p.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM alerts
			WHERE plant_id = $1 AND issue_type = $2 AND status = 'open' AND snapshot->>'tag' = $3
		)
	`, plantID, issueType, tag).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check open alert: %w", err)
	}
	return exists, nil
}

func (p *Postgres) GetAlert(ctx context.Context, plantID, alertID string) (*model.AlertRecord, error) {
	var a model.AlertRecord
	err := p.Pool.QueryRow(ctx, `
		SELECT id, plant_id, asset_name, issue_type, severity, message, snapshot, status, created_at, resolved_at
		FROM alerts
		WHERE id = $1 AND ($2 = '' OR plant_id = $2)
	`, alertID, plantID).Scan(
		&a.ID, &a.PlantID, &a.AssetName, &a.IssueType, &a.Severity,
		&a.Message, &a.Snapshot, &a.Status, &a.CreatedAt, &a.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (p *Postgres) ListAlerts(ctx context.Context, plantID, status string, limit, offset int) ([]model.AlertRecord, int, error) {
	var total int
	err := p.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM alerts
		WHERE ($1 = '' OR plant_id = $1) AND ($2 = '' OR status = $2)
	`, plantID, status).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count alerts: %w", err)
	}

	rows, err := p.Pool.Query(ctx, `
		SELECT id, plant_id, asset_name, issue_type, severity, message, snapshot, status, created_at, resolved_at
		FROM alerts
		WHERE ($1 = '' OR plant_id = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, plantID, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var list []model.AlertRecord
	for rows.Next() {
		var a model.AlertRecord
		if err := rows.Scan(
			&a.ID, &a.PlantID, &a.AssetName, &a.IssueType, &a.Severity,
			&a.Message, &a.Snapshot, &a.Status, &a.CreatedAt, &a.ResolvedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan alert: %w", err)
		}
		list = append(list, a)
	}

	if list == nil {
		list = []model.AlertRecord{}
	}
	return list, total, rows.Err()
}

// TransitionAlert - open 상태에서만 전이 허용, resolved_at은 이 시점에 한 번 설정됨
// 대상이 이미 종결 상태이면 ErrAlertNotOpen, 없으면 pgx.ErrNoRows
func (p *Postgres) TransitionAlert(ctx context.Context, plantID, alertID, newStatus string, resolvedAt time.Time) (*model.AlertRecord, error) {
	var a model.AlertRecord
	err := p.Pool.QueryRow(ctx, `
		UPDATE alerts
		SET status = $3, resolved_at = $4
		WHERE id = $1 AND ($2 = '' OR plant_id = $2) AND status = 'open'
		RETURNING id, plant_id, asset_name, issue_type, severity, message, snapshot, status, created_at, resolved_at
	`, alertID, plantID, newStatus, resolvedAt).Scan(
		&a.ID, &a.PlantID, &a.AssetName, &a.IssueType, &a.Severity,
		&a.Message, &a.Snapshot, &a.Status, &a.CreatedAt, &a.ResolvedAt,
	)
	if err == nil {
		return &a, nil
	}
	if !IsNoRows(err) {
		return nil, fmt.Errorf("failed to transition alert: %w", err)
	}

	// 행이 안 잡힌 이유 구분: 없는 alert인지, 이미 종결된 alert인지
	if _, getErr := p.GetAlert(ctx, plantID, alertID); getErr != nil {
		return nil, getErr
	}
	return nil, ErrAlertNotOpen
}

// CountAlertsHandled - open이 아닌(처리 완료된) alert 수
func (p *Postgres) CountAlertsHandled(ctx context.Context, plantID string) (int, error) {
	var count int
	err := p.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM alerts
		WHERE ($1 = '' OR plant_id = $1) AND status != $2
	`, plantID, model.AlertStatusOpen).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count handled alerts: %w", err)
	}
	return count, nil
}
