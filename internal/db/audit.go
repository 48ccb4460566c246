// audit_logs 테이블 - 컴플라이언스 감사 기록
// insert와 조회만 존재함. UPDATE/DELETE 경로는 시스템 어디에도 노출하지 않는다

package db

import (
	"context"
	"fmt"

	"github.com/plantops/backend/internal/model"
)

func (p *Postgres) EnsureAuditSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS audit_logs (
			id         TEXT         PRIMARY KEY,
			plant_id   TEXT         NOT NULL DEFAULT '',
			action     TEXT         NOT NULL,
			actor_id   TEXT         NOT NULL DEFAULT '',
			actor_role TEXT         NOT NULL DEFAULT '',
			payload    JSONB        NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS audit_logs_plant_action_idx ON audit_logs(plant_id, action)`,
		`CREATE INDEX IF NOT EXISTS audit_logs_created_at_idx ON audit_logs(created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := p.Pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to ensure audit schema: %w", err)
		}
	}
	return nil
}

func (p *Postgres) InsertAuditEntry(ctx context.Context, e *model.AuditEntry) error {
	_, err := p.Pool.Exec(ctx, `
		INSERT INTO audit_logs (id, plant_id, action, actor_id, actor_role, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.PlantID, e.Action, e.ActorID, e.ActorRole, e.Payload, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

func (p *Postgres) ListAuditEntries(ctx context.Context, plantID, action string, limit, offset int) ([]model.AuditEntry, int, error) {
	var total int
	err := p.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM audit_logs
		WHERE ($1 = '' OR plant_id = $1) AND ($2 = '' OR action = $2)
	`, plantID, action).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	rows, err := p.Pool.Query(ctx, `
		SELECT id, plant_id, action, actor_id, actor_role, payload, created_at
		FROM audit_logs
		WHERE ($1 = '' OR plant_id = $1) AND ($2 = '' OR action = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, plantID, action, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var list []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.PlantID, &e.Action, &e.ActorID, &e.ActorRole, &e.Payload, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		list = append(list, e)
	}

	if list == nil {
		list = []model.AuditEntry{}
	}
	return list, total, rows.Err()
}
