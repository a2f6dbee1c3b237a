package plan

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
	repo       repository.PlanRepository
	motherRepo repository.MotherRepository
	auditor    *audit.Service
}

func NewService(repo repository.PlanRepository, motherRepo repository.MotherRepository, auditor *audit.Service) *Service {
	return &Service{
		repo:       repo,
		motherRepo: motherRepo,
		auditor:    auditor,
	}
}

// CreatePlan stores a nutrition plan. The weeks/days/items hierarchy is
// kept as one document and round-trips exactly as given.
func (s *Service) CreatePlan(ctx context.Context, motherID uuid.UUID, req *model.CreatePlanRequest) (*model.NutritionPlan, error) {
	if req.Title == "" {
		return nil, apperrors.Validation("title is required")
	}

	if _, err := s.motherRepo.Get(ctx, motherID); err != nil {
		return nil, err
	}

	plan := &model.NutritionPlan{
		Base: model.Base{
			ID: uuid.New(),
		},
		MotherID:  motherID,
		CreatedBy: req.CreatedBy,
		Title:     req.Title,
		Status:    model.PlanStatusActive,
		Weeks:     req.Weeks,
	}

	if err := marshalWeeks(plan); err != nil {
		return nil, fmt.Errorf("failed to marshal plan weeks: %w", err)
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityPlan, model.AuditActionCreate, nil, plan)
	return plan, nil
}

func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (*model.NutritionPlan, error) {
	plan, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unmarshalWeeks(plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan weeks: %w", err)
	}
	return plan, nil
}

func (s *Service) ListPlansByMother(ctx context.Context, motherID uuid.UUID) ([]*model.NutritionPlan, error) {
	plans, err := s.repo.ListByMother(ctx, motherID)
	if err != nil {
		return nil, err
	}
	for _, plan := range plans {
		if err := unmarshalWeeks(plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal plan %s: %w", plan.ID, err)
		}
	}
	return plans, nil
}

func (s *Service) ArchivePlan(ctx context.Context, id uuid.UUID) (*model.NutritionPlan, error) {
	plan, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *plan
	plan.Status = model.PlanStatusArchived

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityPlan, model.AuditActionArchive, before, plan)
	return plan, nil
}

func marshalWeeks(plan *model.NutritionPlan) error {
	if plan.Weeks == nil {
		plan.Weeks = []model.PlanWeek{}
	}
	data, err := json.Marshal(plan.Weeks)
	if err != nil {
		return err
	}
	plan.WeeksJSON = string(data)
	return nil
}

func unmarshalWeeks(plan *model.NutritionPlan) error {
	if plan.WeeksJSON == "" {
		return nil
	}
	var weeks []model.PlanWeek
	if err := json.Unmarshal([]byte(plan.WeeksJSON), &weeks); err != nil {
		return err
	}
	plan.Weeks = weeks
	return nil
}
