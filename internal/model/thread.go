package model

import (
	"time"

	"github.com/google/uuid"
)

type ThreadTopic string

const (
	ThreadTopicNutrition ThreadTopic = "nutrition"
	ThreadTopicSymptom   ThreadTopic = "symptom"
	ThreadTopicOther     ThreadTopic = "other"
)

func (t ThreadTopic) Valid() bool {
	switch t {
	case ThreadTopicNutrition, ThreadTopicSymptom, ThreadTopicOther:
		return true
	}
	return false
}

type ThreadStatus string

const (
	ThreadStatusOpen   ThreadStatus = "open"
	ThreadStatusClosed ThreadStatus = "closed"
)

// Thread is a conversation between a mother and a doctor.
type Thread struct {
	Base
	MotherID uuid.UUID    `json:"mother_id" db:"mother_id"`
	DoctorID uuid.UUID    `json:"doctor_id" db:"doctor_id"`
	Topic    ThreadTopic  `json:"topic" db:"topic"`
	Status   ThreadStatus `json:"status" db:"status"`
}

type AttachmentType string

const (
	AttachmentTypeImage AttachmentType = "image"
	AttachmentTypeFile  AttachmentType = "file"
	AttachmentTypeAudio AttachmentType = "audio"
)

func (t AttachmentType) Valid() bool {
	switch t {
	case AttachmentTypeImage, AttachmentTypeFile, AttachmentTypeAudio:
		return true
	}
	return false
}

type Attachment struct {
	Type AttachmentType `json:"type"`
	URL  string         `json:"url"`
}

type Message struct {
	ID              uuid.UUID    `json:"id" db:"id"`
	ThreadID        uuid.UUID    `json:"thread_id" db:"thread_id"`
	SenderID        uuid.UUID    `json:"sender_id" db:"sender_id"`
	Body            string       `json:"body" db:"body"`
	Attachments     []Attachment `json:"attachments,omitempty" db:"-"`
	AttachmentsJSON string       `json:"-" db:"attachments"`
	CreatedAt       time.Time    `json:"created_at" db:"created_at"`
}

type OpenThreadRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" binding:"required"`
	Topic    string    `json:"topic"`
}

type PostMessageRequest struct {
	SenderID    uuid.UUID    `json:"sender_id" binding:"required"`
	Body        string       `json:"body" binding:"required"`
	Attachments []Attachment `json:"attachments"`
}
