// log_entries 테이블 - 전자 운전일지(E-Log)
// 운영자/플랫폼이 남기는 불변 기록. audit_logs와 별개로 운영 이력을 담음

package db

import (
	"context"
	"fmt"

	"github.com/plantops/backend/internal/model"
)

func (p *Postgres) EnsureLogSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS log_entries (
			id            TEXT         PRIMARY KEY,
			plant_id      TEXT         NOT NULL DEFAULT '',
			operator_id   TEXT         NOT NULL,
			operator_name TEXT         NOT NULL DEFAULT '',
			entry_type    TEXT         NOT NULL,
			body          TEXT         NOT NULL,
			metadata      JSONB        NOT NULL DEFAULT '{}',
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS log_entries_plant_type_idx ON log_entries(plant_id, entry_type)`,
		`CREATE INDEX IF NOT EXISTS log_entries_created_at_idx ON log_entries(created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := p.Pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to ensure log schema: %w", err)
		}
	}
	return nil
}

func (p *Postgres) CreateLogEntry(ctx context.Context, e *model.LogEntry) error {
	_, err := p.Pool.Exec(ctx, `
		INSERT INTO log_entries (id, plant_id, operator_id, operator_name, entry_type, body, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.PlantID, e.OperatorID, e.OperatorName, e.EntryType, e.Body, e.Metadata, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}
	return nil
}

func (p *Postgres) ListLogEntries(ctx context.Context, plantID, entryType string, limit, offset int) ([]model.LogEntry, int, error) {
	var total int
	err := p.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM log_entries
		WHERE ($1 = '' OR plant_id = $1) AND ($2 = '' OR entry_type = $2)
	`, plantID, entryType).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count log entries: %w", err)
	}

	rows, err := p.Pool.Query(ctx, `
		SELECT id, plant_id, operator_id, operator_name, entry_type, body, metadata, created_at
		FROM log_entries
		WHERE ($1 = '' OR plant_id = $1) AND ($2 = '' OR entry_type = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`, plantID, entryType, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query log entries: %w", err)
	}
	defer rows.Close()

	var list []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		if err := rows.Scan(&e.ID, &e.PlantID, &e.OperatorID, &e.OperatorName, &e.EntryType, &e.Body, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan log entry: %w", err)
		}
		list = append(list, e)
	}

	if list == nil {
		list = []model.LogEntry{}
	}
	return list, total, rows.Err()
}

func (p *Postgres) CountLogEntries(ctx context.Context, plantID, entryType string) (int, error) {
	var count int
	err := p.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM log_entries
		WHERE ($1 = '' OR plant_id = $1) AND ($2 = '' OR entry_type = $2)
	`, plantID, entryType).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count log entries: %w", err)
	}
	return count, nil
}
