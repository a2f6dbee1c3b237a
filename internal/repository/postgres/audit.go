package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
)

type auditRepository struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, log *model.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, entity, action, before_snapshot, after_snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	log.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		log.ID,
		log.ActorID,
		log.Entity,
		log.Action,
		log.Before,
		log.After,
		log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (r *auditRepository) ListByEntity(ctx context.Context, entity string, entityID uuid.UUID) ([]*model.AuditLog, error) {
	query := `
		SELECT * FROM audit_logs
		WHERE entity = $1 AND (after_snapshot->>'id' = $2 OR before_snapshot->>'id' = $2)
		ORDER BY created_at DESC
	`
	var logs []*model.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, entity, entityID.String()); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}

func (r *auditRepository) ListByActor(ctx context.Context, actorID uuid.UUID) ([]*model.AuditLog, error) {
	query := `SELECT * FROM audit_logs WHERE actor_id = $1 ORDER BY created_at DESC`
	var logs []*model.AuditLog
	if err := r.db.SelectContext(ctx, &logs, query, actorID); err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}
