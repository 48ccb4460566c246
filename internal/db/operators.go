package db

import (
	"context"
	"fmt"

	"github.com/plantops/backend/internal/model"
)

func (p *Postgres) EnsureOperatorSchema(ctx context.Context) error {
	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS operators (
			id            BIGSERIAL    PRIMARY KEY,
			login_id      TEXT         NOT NULL UNIQUE,
			name          TEXT         NOT NULL DEFAULT '',
			password_hash TEXT         NOT NULL,
			plant_id      TEXT         NOT NULL DEFAULT '',
			role          TEXT         NOT NULL DEFAULT 'operator',
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure operators schema: %w", err)
	}
	return nil
}

func (p *Postgres) CreateOperator(ctx context.Context, loginID, name, passwordHash, plantID, role string) (*model.Operator, error) {
	var op model.Operator
	err := p.Pool.QueryRow(ctx, `
		INSERT INTO operators (login_id, name, password_hash, plant_id, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, login_id, name, password_hash, plant_id, role, created_at
	`, loginID, name, passwordHash, plantID, role).Scan(
		&op.ID, &op.LoginID, &op.Name, &op.PasswordHash, &op.PlantID, &op.Role, &op.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}
	return &op, nil
}

func (p *Postgres) GetOperatorByLoginID(ctx context.Context, loginID string) (*model.Operator, error) {
	var op model.Operator
	err := p.Pool.QueryRow(ctx, `
		SELECT id, login_id, name, password_hash, plant_id, role, created_at
		FROM operators
		WHERE login_id = $1
	`, loginID).Scan(
		&op.ID, &op.LoginID, &op.Name, &op.PasswordHash, &op.PlantID, &op.Role, &op.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &op, nil
}
