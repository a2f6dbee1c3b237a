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

type mealRepository struct {
	db *sqlx.DB
}

func NewMealRepository(db *sqlx.DB) repository.MealRepository {
	return &mealRepository{db: db}
}

func (r *mealRepository) Create(ctx context.Context, meal *model.Meal) error {
	query := `
		INSERT INTO meals (id, mother_id, meal_type, meal_date, image_url, nutrients, labels, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	meal.CreatedAt = time.Now()
	meal.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		meal.ID,
		meal.MotherID,
		meal.MealType,
		meal.MealDate,
		meal.ImageURL,
		meal.NutrientsJSON,
		meal.LabelsJSON,
		meal.Status,
		meal.CreatedAt,
		meal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}
	return nil
}

func (r *mealRepository) Get(ctx context.Context, id uuid.UUID) (*model.Meal, error) {
	query := `SELECT * FROM meals WHERE id = $1`
	var meal model.Meal
	err := r.db.GetContext(ctx, &meal, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("meal", err)
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return &meal, nil
}

func (r *mealRepository) Update(ctx context.Context, meal *model.Meal) error {
	query := `
		UPDATE meals
		SET nutrients = $1, labels = $2, status = $3, updated_at = $4
		WHERE id = $5
	`
	_, err := r.db.ExecContext(ctx, query,
		meal.NutrientsJSON,
		meal.LabelsJSON,
		meal.Status,
		time.Now(),
		meal.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	return nil
}

func (r *mealRepository) ListByMother(ctx context.Context, motherID uuid.UUID) ([]*model.Meal, error) {
	query := `SELECT * FROM meals WHERE mother_id = $1 ORDER BY meal_date DESC`
	var meals []*model.Meal
	if err := r.db.SelectContext(ctx, &meals, query, motherID); err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}
