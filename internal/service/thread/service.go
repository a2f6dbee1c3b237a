package thread

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
	repo       repository.ThreadRepository
	motherRepo repository.MotherRepository
	userRepo   repository.UserRepository
	auditor    *audit.Service
}

func NewService(repo repository.ThreadRepository, motherRepo repository.MotherRepository, userRepo repository.UserRepository, auditor *audit.Service) *Service {
	return &Service{
		repo:       repo,
		motherRepo: motherRepo,
		userRepo:   userRepo,
		auditor:    auditor,
	}
}

// OpenThread starts a conversation between a mother and a doctor.
func (s *Service) OpenThread(ctx context.Context, motherID uuid.UUID, req *model.OpenThreadRequest) (*model.Thread, error) {
	topic := model.ThreadTopicOther
	if req.Topic != "" {
		topic = model.ThreadTopic(req.Topic)
		if !topic.Valid() {
			return nil, apperrors.Validation(fmt.Sprintf("invalid topic: %s", req.Topic))
		}
	}

	if _, err := s.motherRepo.Get(ctx, motherID); err != nil {
		return nil, err
	}

	doctor, err := s.userRepo.Get(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor.Role != model.RoleDoctor {
		return nil, apperrors.Validation(fmt.Sprintf("user %s is not a doctor", req.DoctorID))
	}

	thread := &model.Thread{
		Base: model.Base{
			ID: uuid.New(),
		},
		MotherID: motherID,
		DoctorID: req.DoctorID,
		Topic:    topic,
		Status:   model.ThreadStatusOpen,
	}

	if err := s.repo.Create(ctx, thread); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityThread, model.AuditActionCreate, nil, thread)
	return thread, nil
}

func (s *Service) GetThread(ctx context.Context, id uuid.UUID) (*model.Thread, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListThreadsByMother(ctx context.Context, motherID uuid.UUID) ([]*model.Thread, error) {
	return s.repo.ListByMother(ctx, motherID)
}

// CloseThread flags the conversation closed. Replies are still accepted;
// closing only marks the thread resolved.
func (s *Service) CloseThread(ctx context.Context, id uuid.UUID) (*model.Thread, error) {
	thread, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	before := *thread
	thread.Status = model.ThreadStatusClosed

	if err := s.repo.Update(ctx, thread); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityThread, model.AuditActionClose, before, thread)
	return thread, nil
}

// PostMessage appends a message to a thread.
func (s *Service) PostMessage(ctx context.Context, threadID uuid.UUID, req *model.PostMessageRequest) (*model.Message, error) {
	if req.Body == "" {
		return nil, apperrors.Validation("body is required")
	}
	for _, att := range req.Attachments {
		if !att.Type.Valid() {
			return nil, apperrors.Validation(fmt.Sprintf("invalid attachment type: %s", att.Type))
		}
		if att.URL == "" {
			return nil, apperrors.Validation("attachment url is required")
		}
	}

	if _, err := s.repo.Get(ctx, threadID); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.Get(ctx, req.SenderID); err != nil {
		return nil, err
	}

	message := &model.Message{
		ID:          uuid.New(),
		ThreadID:    threadID,
		SenderID:    req.SenderID,
		Body:        req.Body,
		Attachments: req.Attachments,
	}

	if err := marshalAttachments(message); err != nil {
		return nil, fmt.Errorf("failed to marshal attachments: %w", err)
	}

	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityMessage, model.AuditActionCreate, nil, message)
	return message, nil
}

func (s *Service) ListMessages(ctx context.Context, threadID uuid.UUID) ([]*model.Message, error) {
	messages, err := s.repo.ListMessages(ctx, threadID)
	if err != nil {
		return nil, err
	}
	for _, message := range messages {
		if err := unmarshalAttachments(message); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message %s: %w", message.ID, err)
		}
	}
	return messages, nil
}

func marshalAttachments(message *model.Message) error {
	if message.Attachments == nil {
		message.Attachments = []model.Attachment{}
	}
	data, err := json.Marshal(message.Attachments)
	if err != nil {
		return err
	}
	message.AttachmentsJSON = string(data)
	return nil
}

func unmarshalAttachments(message *model.Message) error {
	if message.AttachmentsJSON == "" {
		return nil
	}
	var attachments []model.Attachment
	if err := json.Unmarshal([]byte(message.AttachmentsJSON), &attachments); err != nil {
		return err
	}
	message.Attachments = attachments
	return nil
}
