package model

import (
	"encoding/json"
	"time"
)

type NotificationChannel string

const (
	NotificationChannelSMS  NotificationChannel = "sms"
	NotificationChannelPush NotificationChannel = "push"
)

func (c NotificationChannel) Valid() bool {
	switch c {
	case NotificationChannelSMS, NotificationChannelPush:
		return true
	}
	return false
}

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

// Notification is an outbound message record. ProviderMessageID is set by
// the dispatcher once the delivery provider accepts the message.
type Notification struct {
	Base
	Channel           NotificationChannel `json:"channel" db:"channel"`
	To                string              `json:"to" db:"recipient"`
	TemplateID        string              `json:"template_id" db:"template_id"`
	Data              json.RawMessage     `json:"data,omitempty" db:"data"`
	Status            NotificationStatus  `json:"status" db:"status"`
	ProviderMessageID string              `json:"provider_message_id,omitempty" db:"provider_message_id"`
	SentAt            *time.Time          `json:"sent_at,omitempty" db:"sent_at"`
	LastError         string              `json:"last_error,omitempty" db:"last_error"`
}

type CreateNotificationRequest struct {
	Channel    string          `json:"channel" binding:"required"`
	To         string          `json:"to" binding:"required"`
	TemplateID string          `json:"template_id"`
	Data       json.RawMessage `json:"data"`
}
