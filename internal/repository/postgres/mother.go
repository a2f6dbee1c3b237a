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

type motherRepository struct {
	db *sqlx.DB
}

func NewMotherRepository(db *sqlx.DB) repository.MotherRepository {
	return &motherRepository{db: db}
}

// Register inserts the backing user and the mother record in one
// transaction. A duplicate phone rolls everything back, so no orphaned
// user is left behind.
func (r *motherRepository) Register(ctx context.Context, user *model.User, mother *model.Mother) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	userQuery := `
		INSERT INTO users (id, name, phone, password_hash, role, profile, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = tx.ExecContext(ctx, userQuery,
		user.ID,
		user.Name,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.ProfileJSON,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("phone number already registered", err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	mother.CreatedAt = now
	mother.UpdatedAt = now

	motherQuery := `
		INSERT INTO mothers (id, user_id, expected_delivery_date, parity, address, asha_id, doctor_id, risk_status, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.ExecContext(ctx, motherQuery,
		mother.ID,
		mother.UserID,
		mother.ExpectedDeliveryDate,
		mother.Parity,
		mother.Address,
		mother.AshaID,
		mother.DoctorID,
		mother.RiskStatus,
		mother.Status,
		mother.CreatedAt,
		mother.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create mother: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

func (r *motherRepository) Get(ctx context.Context, id uuid.UUID) (*model.Mother, error) {
	query := `SELECT * FROM mothers WHERE id = $1`
	var mother model.Mother
	err := r.db.GetContext(ctx, &mother, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("mother", err)
		}
		return nil, fmt.Errorf("failed to get mother: %w", err)
	}
	return &mother, nil
}

func (r *motherRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Mother, error) {
	query := `SELECT * FROM mothers WHERE user_id = $1`
	var mother model.Mother
	err := r.db.GetContext(ctx, &mother, query, userID)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("mother", err)
		}
		return nil, fmt.Errorf("failed to get mother by user: %w", err)
	}
	return &mother, nil
}

func (r *motherRepository) Update(ctx context.Context, mother *model.Mother) error {
	query := `
		UPDATE mothers
		SET expected_delivery_date = $1, parity = $2, address = $3, asha_id = $4,
			doctor_id = $5, risk_status = $6, status = $7, updated_at = $8
		WHERE id = $9
	`
	_, err := r.db.ExecContext(ctx, query,
		mother.ExpectedDeliveryDate,
		mother.Parity,
		mother.Address,
		mother.AshaID,
		mother.DoctorID,
		mother.RiskStatus,
		mother.Status,
		time.Now(),
		mother.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update mother: %w", err)
	}
	return nil
}

func (r *motherRepository) List(ctx context.Context, filters *model.MotherFilters) ([]*model.Mother, error) {
	query := `SELECT * FROM mothers WHERE 1=1`
	args := []interface{}{}

	if filters != nil && filters.RiskStatus != "" {
		args = append(args, filters.RiskStatus)
		query += fmt.Sprintf(" AND risk_status = $%d", len(args))
	}
	if filters != nil && filters.Status != "" {
		args = append(args, filters.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var mothers []*model.Mother
	if err := r.db.SelectContext(ctx, &mothers, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list mothers: %w", err)
	}
	return mothers, nil
}
