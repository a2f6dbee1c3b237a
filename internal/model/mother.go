package model

import (
	"time"

	"github.com/google/uuid"
)

type RiskStatus string

const (
	RiskStatusNormal   RiskStatus = "normal"
	RiskStatusWarning  RiskStatus = "warning"
	RiskStatusCritical RiskStatus = "critical"
)

func (s RiskStatus) Valid() bool {
	switch s {
	case RiskStatusNormal, RiskStatusWarning, RiskStatusCritical:
		return true
	}
	return false
}

type MotherStatus string

const (
	MotherStatusRegistered MotherStatus = "registered"
	MotherStatusArchived   MotherStatus = "archived"
)

func (s MotherStatus) Valid() bool {
	switch s {
	case MotherStatusRegistered, MotherStatusArchived:
		return true
	}
	return false
}

// Mother is the central care record. It always references exactly one User
// with role "mother" and optionally the assigned caregivers.
type Mother struct {
	Base
	UserID               uuid.UUID    `json:"user_id" db:"user_id"`
	ExpectedDeliveryDate time.Time    `json:"expected_delivery_date" db:"expected_delivery_date"`
	Parity               int          `json:"parity" db:"parity"`
	Address              string       `json:"address" db:"address"`
	AshaID               *uuid.UUID   `json:"asha_id,omitempty" db:"asha_id"`
	DoctorID             *uuid.UUID   `json:"doctor_id,omitempty" db:"doctor_id"`
	RiskStatus           RiskStatus   `json:"risk_status" db:"risk_status"`
	Status               MotherStatus `json:"status" db:"status"`
}

// RegisterMotherRequest creates the backing User (role "mother") and the
// Mother record in one call. Field names follow the public API contract.
type RegisterMotherRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required,phone"`
	// Accepts "2006-01-02" or RFC3339.
	ExpectedDeliveryDate string `json:"expectedDeliveryDate" binding:"required"`
	Parity               *int   `json:"parity"`
	Address              string `json:"address"`
}

// RegisterMotherResponse is the public registration contract body.
type RegisterMotherResponse struct {
	MotherID uuid.UUID `json:"motherId"`
	Status   string    `json:"status"`
}

type AssignCaregiversRequest struct {
	AshaID   *uuid.UUID `json:"asha_id"`
	DoctorID *uuid.UUID `json:"doctor_id"`
}

type UpdateRiskStatusRequest struct {
	RiskStatus string `json:"risk_status" binding:"required"`
}

type MotherFilters struct {
	RiskStatus RiskStatus   `json:"risk_status" form:"risk_status"`
	Status     MotherStatus `json:"status" form:"status"`
}
