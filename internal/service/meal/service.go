package meal

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
	"github.com/matricare/mcare-api/internal/service/audit"
	apperrors "github.com/matricare/mcare-api/pkg/errors"
)

type Service struct {
	repo       repository.MealRepository
	motherRepo repository.MotherRepository
	auditor    *audit.Service
}

func NewService(repo repository.MealRepository, motherRepo repository.MotherRepository, auditor *audit.Service) *Service {
	return &Service{
		repo:       repo,
		motherRepo: motherRepo,
		auditor:    auditor,
	}
}

// CreateMeal stores a meal photo record. Nutrients and labels stay empty
// until the classifier reports back.
func (s *Service) CreateMeal(ctx context.Context, motherID uuid.UUID, req *model.CreateMealRequest) (*model.Meal, error) {
	mealType := model.MealType(req.MealType)
	if !mealType.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid meal type: %s", req.MealType))
	}
	if req.ImageURL == "" {
		return nil, apperrors.Validation("image_url is required")
	}
	if req.MealDate.IsZero() {
		return nil, apperrors.Validation("meal_date is required")
	}

	if _, err := s.motherRepo.Get(ctx, motherID); err != nil {
		return nil, err
	}

	meal := &model.Meal{
		Base: model.Base{
			ID: uuid.New(),
		},
		MotherID: motherID,
		MealType: mealType,
		MealDate: req.MealDate,
		ImageURL: req.ImageURL,
		Status:   model.MealStatusPending,
	}

	if err := s.repo.Create(ctx, meal); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityMeal, model.AuditActionCreate, nil, meal)
	return meal, nil
}

func (s *Service) GetMeal(ctx context.Context, id uuid.UUID) (*model.Meal, error) {
	meal, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONFields(meal); err != nil {
		return nil, fmt.Errorf("failed to unmarshal meal fields: %w", err)
	}
	return meal, nil
}

func (s *Service) ListMealsByMother(ctx context.Context, motherID uuid.UUID) ([]*model.Meal, error) {
	meals, err := s.repo.ListByMother(ctx, motherID)
	if err != nil {
		return nil, err
	}
	for _, meal := range meals {
		if err := unmarshalJSONFields(meal); err != nil {
			return nil, fmt.Errorf("failed to unmarshal meal %s: %w", meal.ID, err)
		}
	}
	return meals, nil
}

// ProcessMeal records the classifier result and flips the meal to
// processed.
func (s *Service) ProcessMeal(ctx context.Context, id uuid.UUID, req *model.ProcessMealRequest) (*model.Meal, error) {
	meal, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *meal

	meal.Nutrients = &req.Nutrients
	meal.Labels = &req.Labels
	meal.Status = model.MealStatusProcessed

	if err := marshalJSONFields(meal); err != nil {
		return nil, fmt.Errorf("failed to marshal meal fields: %w", err)
	}

	if err := s.repo.Update(ctx, meal); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityMeal, model.AuditActionUpdate, before, meal)
	return meal, nil
}

func marshalJSONFields(meal *model.Meal) error {
	if meal.Nutrients != nil {
		data, err := json.Marshal(meal.Nutrients)
		if err != nil {
			return err
		}
		meal.NutrientsJSON = string(data)
	}
	if meal.Labels != nil {
		data, err := json.Marshal(meal.Labels)
		if err != nil {
			return err
		}
		meal.LabelsJSON = string(data)
	}
	return nil
}

func unmarshalJSONFields(meal *model.Meal) error {
	if meal.NutrientsJSON != "" {
		var nutrients model.Nutrients
		if err := json.Unmarshal([]byte(meal.NutrientsJSON), &nutrients); err != nil {
			return err
		}
		meal.Nutrients = &nutrients
	}
	if meal.LabelsJSON != "" {
		var labels model.Labels
		if err := json.Unmarshal([]byte(meal.LabelsJSON), &labels); err != nil {
			return err
		}
		meal.Labels = &labels
	}
	return nil
}
