package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
)

type Service struct {
	repo repository.AuditRepository
}

func NewService(repo repository.AuditRepository) *Service {
	return &Service{repo: repo}
}

// Log records an immutable audit entry with optional before/after
// snapshots of the entity being changed.
func (s *Service) Log(ctx context.Context, actorID uuid.UUID, entity, action string, before, after interface{}) error {
	var beforeJSON, afterJSON json.RawMessage
	var err error

	if before != nil {
		beforeJSON, err = json.Marshal(before)
		if err != nil {
			return err
		}
	}
	if after != nil {
		afterJSON, err = json.Marshal(after)
		if err != nil {
			return err
		}
	}

	log := &model.AuditLog{
		ID:      uuid.New(),
		ActorID: actorID,
		Entity:  entity,
		Action:  action,
		Before:  beforeJSON,
		After:   afterJSON,
	}

	return s.repo.Create(ctx, log)
}

func (s *Service) ListByEntity(ctx context.Context, entity string, entityID uuid.UUID) ([]*model.AuditLog, error) {
	return s.repo.ListByEntity(ctx, entity, entityID)
}

func (s *Service) ListByActor(ctx context.Context, actorID uuid.UUID) ([]*model.AuditLog, error) {
	return s.repo.ListByActor(ctx, actorID)
}

// ActorFromContext extracts the authenticated user id placed in the
// context by the auth middleware. Returns uuid.Nil for anonymous calls.
func ActorFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if userID, ok := ctx.Value("user_id").(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}
