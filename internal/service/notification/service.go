package notification

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
	repo    repository.NotificationRepository
	auditor *audit.Service
}

func NewService(repo repository.NotificationRepository, auditor *audit.Service) *Service {
	return &Service{
		repo:    repo,
		auditor: auditor,
	}
}

// Enqueue stores an outbound notification as pending. The dispatcher
// picks it up and talks to the delivery provider.
func (s *Service) Enqueue(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
	channel := model.NotificationChannel(req.Channel)
	if !channel.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid channel: %s", req.Channel))
	}
	if req.To == "" {
		return nil, apperrors.Validation("to is required")
	}

	notification := &model.Notification{
		Base: model.Base{
			ID: uuid.New(),
		},
		Channel:    channel,
		To:         req.To,
		TemplateID: req.TemplateID,
		Data:       req.Data,
		Status:     model.NotificationStatusPending,
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityNotification, model.AuditActionCreate, nil, notification)
	return notification, nil
}

func (s *Service) GetNotification(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListPending(ctx context.Context, limit int) ([]*model.Notification, error) {
	return s.repo.ListPending(ctx, limit)
}

// MarkSent records a successful provider handoff.
func (s *Service) MarkSent(ctx context.Context, id uuid.UUID, providerMessageID string) error {
	notification, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	notification.Status = model.NotificationStatusSent
	notification.ProviderMessageID = providerMessageID
	notification.SentAt = &now
	notification.LastError = ""

	return s.repo.Update(ctx, notification)
}

// MarkFailed records a delivery failure.
func (s *Service) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	notification, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	notification.Status = model.NotificationStatusFailed
	notification.LastError = cause

	return s.repo.Update(ctx, notification)
}
