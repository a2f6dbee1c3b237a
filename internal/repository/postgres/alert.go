package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
	apperrors "github.com/matricare/mcare-api/pkg/errors"
)

type alertRepository struct {
	db *sqlx.DB
}

func NewAlertRepository(db *sqlx.DB) repository.AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *model.Alert) error {
	query := `
		INSERT INTO alerts (id, mother_id, type, severity, message, resolved, resolved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	alert.CreatedAt = time.Now()
	alert.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		alert.ID,
		alert.MotherID,
		alert.Type,
		alert.Severity,
		alert.Message,
		alert.Resolved,
		alert.ResolvedAt,
		alert.CreatedAt,
		alert.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

func (r *alertRepository) Get(ctx context.Context, id uuid.UUID) (*model.Alert, error) {
	query := `SELECT * FROM alerts WHERE id = $1`
	var alert model.Alert
	err := r.db.GetContext(ctx, &alert, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("alert", err)
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return &alert, nil
}

func (r *alertRepository) Update(ctx context.Context, alert *model.Alert) error {
	query := `
		UPDATE alerts
		SET severity = $1, resolved = $2, resolved_at = $3, updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query,
		alert.Severity,
		alert.Resolved,
		alert.ResolvedAt,
		time.Now(),
		alert.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update alert: %w", err)
	}
	return nil
}

func (r *alertRepository) ListByMother(ctx context.Context, motherID uuid.UUID) ([]*model.Alert, error) {
	query := `SELECT * FROM alerts WHERE mother_id = $1 ORDER BY created_at DESC`
	var alerts []*model.Alert
	if err := r.db.SelectContext(ctx, &alerts, query, motherID); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}
