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

type planRepository struct {
	db *sqlx.DB
}

func NewPlanRepository(db *sqlx.DB) repository.PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) Create(ctx context.Context, plan *model.NutritionPlan) error {
	query := `
		INSERT INTO nutrition_plans (id, mother_id, created_by, title, status, weeks, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		plan.ID,
		plan.MotherID,
		plan.CreatedBy,
		plan.Title,
		plan.Status,
		plan.WeeksJSON,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create nutrition plan: %w", err)
	}
	return nil
}

func (r *planRepository) Get(ctx context.Context, id uuid.UUID) (*model.NutritionPlan, error) {
	query := `SELECT * FROM nutrition_plans WHERE id = $1`
	var plan model.NutritionPlan
	err := r.db.GetContext(ctx, &plan, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("nutrition plan", err)
		}
		return nil, fmt.Errorf("failed to get nutrition plan: %w", err)
	}
	return &plan, nil
}

func (r *planRepository) Update(ctx context.Context, plan *model.NutritionPlan) error {
	query := `
		UPDATE nutrition_plans
		SET title = $1, status = $2, weeks = $3, updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query,
		plan.Title,
		plan.Status,
		plan.WeeksJSON,
		time.Now(),
		plan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update nutrition plan: %w", err)
	}
	return nil
}

func (r *planRepository) ListByMother(ctx context.Context, motherID uuid.UUID) ([]*model.NutritionPlan, error) {
	query := `SELECT * FROM nutrition_plans WHERE mother_id = $1 ORDER BY created_at DESC`
	var plans []*model.NutritionPlan
	if err := r.db.SelectContext(ctx, &plans, query, motherID); err != nil {
		return nil, fmt.Errorf("failed to list nutrition plans: %w", err)
	}
	return plans, nil
}
