package model

import (
	"time"

	"github.com/google/uuid"
)

type AlertType string

const (
	AlertTypeAdherence AlertType = "adherence"
	AlertTypeRisk      AlertType = "risk"
	AlertTypeSystem    AlertType = "system"
)

func (t AlertType) Valid() bool {
	switch t {
	case AlertTypeAdherence, AlertTypeRisk, AlertTypeSystem:
		return true
	}
	return false
}

type AlertSeverity string

const (
	AlertSeverityLow    AlertSeverity = "low"
	AlertSeverityMedium AlertSeverity = "medium"
	AlertSeverityHigh   AlertSeverity = "high"
)

func (s AlertSeverity) Valid() bool {
	switch s {
	case AlertSeverityLow, AlertSeverityMedium, AlertSeverityHigh:
		return true
	}
	return false
}

type Alert struct {
	Base
	MotherID   uuid.UUID     `json:"mother_id" db:"mother_id"`
	Type       AlertType     `json:"type" db:"type"`
	Severity   AlertSeverity `json:"severity" db:"severity"`
	Message    string        `json:"message" db:"message"`
	Resolved   bool          `json:"resolved" db:"resolved"`
	ResolvedAt *time.Time    `json:"resolved_at,omitempty" db:"resolved_at"`
}

type CreateAlertRequest struct {
	Type     string `json:"type" binding:"required"`
	Severity string `json:"severity"`
	Message  string `json:"message" binding:"required"`
}
