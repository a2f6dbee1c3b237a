package alert

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

type Service struct {
	repo       repository.AlertRepository
	motherRepo repository.MotherRepository
	auditor    *audit.Service
}

func NewService(repo repository.AlertRepository, motherRepo repository.MotherRepository, auditor *audit.Service) *Service {
	return &Service{
		repo:       repo,
		motherRepo: motherRepo,
		auditor:    auditor,
	}
}

func (s *Service) CreateAlert(ctx context.Context, motherID uuid.UUID, req *model.CreateAlertRequest) (*model.Alert, error) {
	alertType := model.AlertType(req.Type)
	if !alertType.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid alert type: %s", req.Type))
	}
	if req.Message == "" {
		return nil, apperrors.Validation("message is required")
	}

	severity := model.AlertSeverityLow
	if req.Severity != "" {
		severity = model.AlertSeverity(req.Severity)
		if !severity.Valid() {
			return nil, apperrors.Validation(fmt.Sprintf("invalid severity: %s", req.Severity))
		}
	}

	if _, err := s.motherRepo.Get(ctx, motherID); err != nil {
		return nil, err
	}

	alert := &model.Alert{
		Base: model.Base{
			ID: uuid.New(),
		},
		MotherID: motherID,
		Type:     alertType,
		Severity: severity,
		Message:  req.Message,
	}

	if err := s.repo.Create(ctx, alert); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityAlert, model.AuditActionCreate, nil, alert)
	return alert, nil
}

func (s *Service) GetAlert(ctx context.Context, id uuid.UUID) (*model.Alert, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListAlertsByMother(ctx context.Context, motherID uuid.UUID) ([]*model.Alert, error) {
	return s.repo.ListByMother(ctx, motherID)
}

// ResolveAlert marks the alert handled and stamps the resolution time.
func (s *Service) ResolveAlert(ctx context.Context, id uuid.UUID) (*model.Alert, error) {
	alert, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if alert.Resolved {
		return alert, nil
	}

	before := *alert
	now := time.Now()
	alert.Resolved = true
	alert.ResolvedAt = &now

	if err := s.repo.Update(ctx, alert); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityAlert, model.AuditActionResolve, before, alert)
	return alert, nil
}
