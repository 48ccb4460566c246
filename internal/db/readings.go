// readings 테이블 - 정규화된 측정값 append-only 저장소
// 행은 수정/삭제되지 않으며 같은 태그의 새 측정값이 이전 값을 대체(supersede)함

package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/plantops/backend/internal/model"
)

func (p *Postgres) EnsureReadingSchema(ctx context.Context) error {
	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS readings (
			id          BIGSERIAL    PRIMARY KEY,
			plant_id    TEXT         NOT NULL DEFAULT '',
			source      TEXT         NOT NULL,
			tag         TEXT         NOT NULL,
			raw_tag     TEXT         NOT NULL DEFAULT '',
			value       DOUBLE PRECISION NOT NULL,
			unit        TEXT         NOT NULL DEFAULT '',
			quality     TEXT         NOT NULL DEFAULT 'good',
			alarm_state TEXT         NOT NULL DEFAULT '',
			ts          TIMESTAMPTZ  NOT NULL,
			created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
		`,
		`CREATE INDEX IF NOT EXISTS readings_plant_tag_idx ON readings(plant_id, tag, ts DESC)`,
		`CREATE INDEX IF NOT EXISTS readings_source_idx ON readings(source)`,
	}

	for _, query := range queries {
		if _, err := p.Pool.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to ensure readings schema: %w", err)
		}
	}
	return nil
}

// InsertReadings - 한 번의 파이프라인 실행분을 단일 트랜잭션으로 저장
// 부분 성공은 허용하지 않음: 전부 저장되거나 전부 롤백 (latest-per-tag 일관성 유지)
func (p *Postgres) InsertReadings(ctx context.Context, readings []model.NormalizedReading) error {
	if len(readings) == 0 {
		return nil
	}

	tx, err := p.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin readings tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range readings {
		_, err := tx.Exec(ctx, `
			INSERT INTO readings (plant_id, source, tag, raw_tag, value, unit, quality, alarm_state, ts)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, r.PlantID, r.Source, r.Tag, r.RawTag, r.Value, r.Unit, r.Quality, r.AlarmState, r.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to insert reading %s: %w", r.Tag, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit readings tx: %w", err)
	}
	return nil
}

// LatestReadings - 태그별 최신 측정값 1건씩 조회
// 최신 = ts 최대, 동률이면 나중에 저장된 행(id가 큰 행)이 이김
// plantID가 빈 문자열이면 전체 plant 조회 (admin 호출자만 허용되는 승격 경로)
// cross-plant 조회에서는 (plant, tag) 쌍마다 1건 - plant끼리 태그 이름이 같아도
// 서로의 최신값을 가리지 않음
func (p *Postgres) LatestReadings(ctx context.Context, plantID, source string) ([]model.NormalizedReading, error) {
	var rows pgx.Rows
	var err error
	if plantID == "" {
		rows, err = p.Pool.Query(ctx, `
			SELECT DISTINCT ON (plant_id, tag)
				id, plant_id, source, tag, raw_tag, value, unit, quality, alarm_state, ts, created_at
			FROM readings
			WHERE source = $1
			ORDER BY plant_id, tag, ts DESC, id DESC
		`, source)
	} else {
		rows, err = p.Pool.Query(ctx, `
			SELECT DISTINCT ON (tag)
				id, plant_id, source, tag, raw_tag, value, unit, quality, alarm_state, ts, created_at
			FROM readings
			WHERE source = $1 AND plant_id = $2
			ORDER BY tag, ts DESC, id DESC
		`, source, plantID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest readings: %w", err)
	}
	defer rows.Close()

	var out []model.NormalizedReading
	for rows.Next() {
		var r model.NormalizedReading
		if err := rows.Scan(
			&r.ID, &r.PlantID, &r.Source, &r.Tag, &r.RawTag,
			&r.Value, &r.Unit, &r.Quality, &r.AlarmState, &r.Timestamp, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		out = append(out, r)
	}

	if out == nil {
		out = []model.NormalizedReading{}
	}
	return out, rows.Err()
}
