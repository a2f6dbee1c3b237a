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

type threadRepository struct {
	db *sqlx.DB
}

func NewThreadRepository(db *sqlx.DB) repository.ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) Create(ctx context.Context, thread *model.Thread) error {
	query := `
		INSERT INTO threads (id, mother_id, doctor_id, topic, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	thread.CreatedAt = time.Now()
	thread.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		thread.ID,
		thread.MotherID,
		thread.DoctorID,
		thread.Topic,
		thread.Status,
		thread.CreatedAt,
		thread.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}
	return nil
}

func (r *threadRepository) Get(ctx context.Context, id uuid.UUID) (*model.Thread, error) {
	query := `SELECT * FROM threads WHERE id = $1`
	var thread model.Thread
	err := r.db.GetContext(ctx, &thread, query, id)
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("thread", err)
		}
		return nil, fmt.Errorf("failed to get thread: %w", err)
	}
	return &thread, nil
}

func (r *threadRepository) Update(ctx context.Context, thread *model.Thread) error {
	query := `UPDATE threads SET topic = $1, status = $2, updated_at = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, thread.Topic, thread.Status, time.Now(), thread.ID)
	if err != nil {
		return fmt.Errorf("failed to update thread: %w", err)
	}
	return nil
}

func (r *threadRepository) ListByMother(ctx context.Context, motherID uuid.UUID) ([]*model.Thread, error) {
	query := `SELECT * FROM threads WHERE mother_id = $1 ORDER BY created_at DESC`
	var threads []*model.Thread
	if err := r.db.SelectContext(ctx, &threads, query, motherID); err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	return threads, nil
}

func (r *threadRepository) CreateMessage(ctx context.Context, message *model.Message) error {
	query := `
		INSERT INTO messages (id, thread_id, sender_id, body, attachments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	message.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		message.ID,
		message.ThreadID,
		message.SenderID,
		message.Body,
		message.AttachmentsJSON,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *threadRepository) ListMessages(ctx context.Context, threadID uuid.UUID) ([]*model.Message, error) {
	query := `SELECT * FROM messages WHERE thread_id = $1 ORDER BY created_at ASC`
	var messages []*model.Message
	if err := r.db.SelectContext(ctx, &messages, query, threadID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
