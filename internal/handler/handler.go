package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/matricare/mcare-api/internal/model"
	"github.com/matricare/mcare-api/internal/repository"
)

// BaseHandler carries the outbox hookup shared by resource handlers.
// Emit failures are logged, never surfaced; the write that triggered the
// event has already committed.
type BaseHandler struct {
	Outbox repository.OutboxRepository
}

func (b *BaseHandler) Emit(c *gin.Context, eventType string, payload interface{}) {
	if b == nil || b.Outbox == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		return
	}

	if err := b.Outbox.Create(c.Request.Context(), &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	}); err != nil {
		log.Error().Err(err).Str("event_type", eventType).Msg("failed to create outbox event")
	}
}
