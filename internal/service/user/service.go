package user

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
	"github.com/matricare/mcare-api/internal/service/audit"
	apperrors "github.com/matricare/mcare-api/pkg/errors"
	"github.com/matricare/mcare-api/pkg/security"
)

type Service struct {
	repo    repository.UserRepository
	hasher  security.PasswordHasher
	auditor *audit.Service
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, auditor *audit.Service) *Service {
	return &Service{
		repo:    repo,
		hasher:  hasher,
		auditor: auditor,
	}
}

// CreateUser validates and stores a new user. Password is optional; an
// account without one authenticates with OTP.
func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if req.Name == "" {
		return nil, apperrors.Validation("name is required")
	}
	if req.Phone == "" {
		return nil, apperrors.Validation("phone is required")
	}
	role := model.Role(req.Role)
	if !role.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid role: %s", req.Role))
	}

	user := &model.User{
		Base: model.Base{
			ID: uuid.New(),
		},
		Name:     req.Name,
		Phone:    req.Phone,
		Role:     role,
		Profile:  req.Profile,
		IsActive: true,
	}

	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		user.PasswordHash = hash
	}

	if err := marshalProfile(user); err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityUser, model.AuditActionCreate, nil, user)
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unmarshalProfile(user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return user, nil
}

func (s *Service) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	user, err := s.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if err := unmarshalProfile(user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return user, nil
}

func (s *Service) ListUsers(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	if filters != nil && filters.Role != "" && !filters.Role.Valid() {
		return nil, apperrors.Validation(fmt.Sprintf("invalid role: %s", filters.Role))
	}

	users, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		if err := unmarshalProfile(user); err != nil {
			return nil, fmt.Errorf("failed to unmarshal user %s: %w", user.ID, err)
		}
	}
	return users, nil
}

// DeactivateUser flags the account inactive. Nothing is ever hard
// deleted.
func (s *Service) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	before := *user
	user.IsActive = false

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	s.auditor.Log(ctx, audit.ActorFromContext(ctx), model.AuditEntityUser, model.AuditActionUpdate, before, user)
	return nil
}

func marshalProfile(user *model.User) error {
	if user.Profile == nil {
		return nil
	}
	data, err := json.Marshal(user.Profile)
	if err != nil {
		return err
	}
	user.ProfileJSON = string(data)
	return nil
}

func unmarshalProfile(user *model.User) error {
	if user.ProfileJSON == "" {
		return nil
	}
	var profile model.Profile
	if err := json.Unmarshal([]byte(user.ProfileJSON), &profile); err != nil {
		return err
	}
	user.Profile = &profile
	return nil
}
