// work_order_records 테이블 - dispatch 성공 시에만 생성되는 불변 기록
// alert_id는 약한 참조: 대상 alert가 없어도 조회/생성에 제약 없음 (FK 미사용)

package db

import (
	"context"
	"fmt"

	"github.com/plantops/backend/internal/model"
)

func (p *Postgres) EnsureWorkOrderSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS work_order_records (
			id           TEXT         PRIMARY KEY,
			alert_id     TEXT         NOT NULL DEFAULT '',
			plant_id     TEXT         NOT NULL DEFAULT '',
			external_id  TEXT         NOT NULL DEFAULT '',
			payload_sent JSONB        NOT NULL DEFAULT '{}',
			created_at   TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS work_order_records_plant_idx ON work_order_records(plant_id)`,
		`CREATE INDEX IF NOT EXISTS work_order_records_alert_idx ON work_order_records(alert_id) WHERE alert_id != ''`,
	}

	for _, query := range queries {
		if _, err := p.Pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to ensure work order schema: %w", err)
		}
	}
	return nil
}

func (p *Postgres) CreateWorkOrder(ctx context.Context, w *model.WorkOrderRecord) error {
	_, err := p.Pool.Exec(ctx, `
		INSERT INTO work_order_records (id, alert_id, plant_id, external_id, payload_sent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, w.ID, w.AlertID, w.PlantID, w.ExternalID, w.PayloadSent, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert work order record: %w", err)
	}
	return nil
}

func (p *Postgres) ListWorkOrders(ctx context.Context, plantID string, limit, offset int) ([]model.WorkOrderRecord, int, error) {
	var total int
	err := p.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM work_order_records WHERE ($1 = '' OR plant_id = $1)
	`, plantID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count work orders: %w", err)
	}

	rows, err := p.Pool.Query(ctx, `
		SELECT id, alert_id, plant_id, external_id, payload_sent, created_at
		FROM work_order_records
		WHERE ($1 = '' OR plant_id = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, plantID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query work orders: %w", err)
	}
	defer rows.Close()

	var list []model.WorkOrderRecord
	for rows.Next() {
		var w model.WorkOrderRecord
		if err := rows.Scan(&w.ID, &w.AlertID, &w.PlantID, &w.ExternalID, &w.PayloadSent, &w.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan work order: %w", err)
		}
		list = append(list, w)
	}

	if list == nil {
		list = []model.WorkOrderRecord{}
	}
	return list, total, rows.Err()
}

func (p *Postgres) CountWorkOrders(ctx context.Context, plantID string) (int, error) {
	var count int
	err := p.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM work_order_records WHERE ($1 = '' OR plant_id = $1)
	`, plantID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count work orders: %w", err)
	}
	return count, nil
}
