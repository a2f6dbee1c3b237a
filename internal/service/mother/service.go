package mother

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
	"github.com/matricare/mcare-api/internal/service/audit"
	apperrors "github.com/matricare/mcare-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo     repository.MotherRepository
	userRepo repository.UserRepository
	auditor  *audit.Service
}

func NewService(repo repository.MotherRepository, userRepo repository.UserRepository, auditor *audit.Service) *Service {
	return &Service{
		repo:     repo,
		userRepo: userRepo,
		auditor:  auditor,
	}
}

// RegisterMother creates the backing user (role "mother") and the mother
// record as one atomic operation.
func (s *Service) RegisterMother(ctx context.Context, req *model.RegisterMotherRequest) (*model.Mother, error) {
	if req.Name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if req.Phone == "" {
		return nil, apperrors.Validation("phone is required")
	}

	edd, err := parseDate(req.ExpectedDeliveryDate)
	if err != nil {
		return nil, apperrors.Validation("expectedDeliveryDate must be a valid date")
	}

	parity := 0
	if req.Parity != nil {
		if *req.Parity < 0 {
			return nil, apperrors.Validation("parity must not be negative")
		}
		parity = *req.Parity
	}

	user := &model.User{
		Base: model.Base{
			ID: uuid.New(),
		},
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     model.RoleMother,
		IsActive: true,
	}

	mother := &model.Mother{
		Base: model.Base{
			ID: uuid.New(),
		},
		UserID:               user.ID,
		ExpectedDeliveryDate: edd,
		Parity:               parity,
		Address:              req.Address,
		RiskStatus:           model.RiskStatusNormal,
		Status:               model.MotherStatusRegistered,
	}

	if err := s.repo.Register(ctx, user, mother); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityMother, model.AuditActionRegister, nil, mother)
	return mother, nil
}

func (s *Service) GetMother(ctx context.Context, id uuid.UUID) (*model.Mother, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListMothers(ctx context.Context, filters *model.MotherFilters) ([]*model.Mother, error) {
	if filters != nil && filters.RiskStatus != "" && !filters.RiskStatus.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid risk status: %s", filters.RiskStatus))
	}
	if filters != nil && filters.Status != "" && !filters.Status.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid status: %s", filters.Status))
	}
	return s.repo.List(ctx, filters)
}

// AssignCaregivers links an ASHA worker and/or doctor to the mother.
// Each id must resolve to a user with the matching role.
func (s *Service) AssignCaregivers(ctx context.Context, id uuid.UUID, req *model.AssignCaregiversRequest) (*model.Mother, error) {
	mother, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *mother

	if req.AshaID != nil {
		if err := s.checkRole(ctx, *req.AshaID, model.RoleASHA); err != nil {
			return nil, err
		}
		mother.AshaID = req.AshaID
	}
	if req.DoctorID != nil {
		if err := s.checkRole(ctx, *req.DoctorID, model.RoleDoctor); err != nil {
			return nil, err
		}
		mother.DoctorID = req.DoctorID
	}

	if err := s.repo.Update(ctx, mother); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityMother, model.AuditActionUpdate, before, mother)
	return mother, nil
}

func (s *Service) UpdateRiskStatus(ctx context.Context, id uuid.UUID, req *model.UpdateRiskStatusRequest) (*model.Mother, error) {
	risk := model.RiskStatus(req.RiskStatus)
	if !risk.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid risk status: %s", req.RiskStatus))
	}

	mother, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *mother
	mother.RiskStatus = risk

	if err := s.repo.Update(ctx, mother); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityMother, model.AuditActionUpdate, before, mother)
	return mother, nil
}

// ArchiveMother soft-deletes the record; the row stays in place.
func (s *Service) ArchiveMother(ctx context.Context, id uuid.UUID) (*model.Mother, error) {
	mother, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *mother
	mother.Status = model.MotherStatusArchived

	if err := s.repo.Update(ctx, mother); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityMother, model.AuditActionArchive, before, mother)
	return mother, nil
}

func (s *Service) checkRole(ctx context.Context, userID uuid.UUID, role model.Role) error {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		return err
	}
	if user.Role != role {
		return apperrors.Validation(fmt.Sprintf("user %s does not have role %s", userID, role))
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
