package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matricare/mcare-api/internal/model"
)

// All repository interfaces in one file
type (
	// Tx is a repository transaction handle. Callers hold it across a
	// claim-and-update cycle; the row locks live until Commit or
	// Rollback.
	Tx interface {
		Commit() error
		Rollback() error
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByPhone(ctx context.Context, phone string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
	}

	MotherRepository interface {
		// Register creates the backing user and the mother record in a
		// single transaction so a storage failure cannot leave an
		// orphaned user behind.
		Register(ctx context.Context, user *model.User, mother *model.Mother) error
		Get(ctx context.Context, id uuid.UUID) (*model.Mother, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Mother, error)
		Update(ctx context.Context, mother *model.Mother) error
		List(ctx context.Context, filters *model.MotherFilters) ([]*model.Mother, error)
	}

	MealRepository interface {
		Create(ctx context.Context, meal *model.Meal) error
		Get(ctx context.Context, id uuid.UUID) (*model.Meal, error)
		Update(ctx context.Context, meal *model.Meal) error
		ListByMother(ctx context.Context, motherID uuid.UUID) ([]*model.Meal, error)
	}

	PlanRepository interface {
		Create(ctx context.Context, plan *model.NutritionPlan) error
		Get(ctx context.Context, id uuid.UUID) (*model.NutritionPlan, error)
		Update(ctx context.Context, plan *model.NutritionPlan) error
		ListByMother(ctx context.Context, motherID uuid.UUID) ([]*model.NutritionPlan, error)
	}

	ThreadRepository interface {
		Create(ctx context.Context, thread *model.Thread) error
		Get(ctx context.Context, id uuid.UUID) (*model.Thread, error)
		Update(ctx context.Context, thread *model.Thread) error
		ListByMother(ctx context.Context, motherID uuid.UUID) ([]*model.Thread, error)
		CreateMessage(ctx context.Context, message *model.Message) error
		ListMessages(ctx context.Context, threadID uuid.UUID) ([]*model.Message, error)
	}

	AlertRepository interface {
		Create(ctx context.Context, alert *model.Alert) error
		Get(ctx context.Context, id uuid.UUID) (*model.Alert, error)
		Update(ctx context.Context, alert *model.Alert) error
		ListByMother(ctx context.Context, motherID uuid.UUID) ([]*model.Alert, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
		Update(ctx context.Context, notification *model.Notification) error
		ListPending(ctx context.Context, limit int) ([]*model.Notification, error)
	}

	AuditRepository interface {
		Create(ctx context.Context, log *model.AuditLog) error
		ListByEntity(ctx context.Context, entity string, entityID uuid.UUID) ([]*model.AuditLog, error)
		ListByActor(ctx context.Context, actorID uuid.UUID) ([]*model.AuditLog, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		BeginTx(ctx context.Context) (Tx, error)
		// ClaimPendingEvents locks a batch with FOR UPDATE SKIP LOCKED
		// inside tx, so concurrent pollers never claim the same rows.
		ClaimPendingEvents(ctx context.Context, tx Tx, limit int) ([]*model.OutboxEvent, error)
		UpdateStatusTx(ctx context.Context, tx Tx, id uuid.UUID, status string, errorMessage *string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
