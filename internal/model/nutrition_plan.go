package model

import (
	"github.com/google/uuid"
)

type PlanStatus string

const (
	PlanStatusActive   PlanStatus = "active"
	PlanStatusArchived PlanStatus = "archived"
)

// PlanItem is a single entry in a day of a plan. Items, days and weeks
// have no identity of their own; the whole hierarchy is stored as one
// document on the plan.
type PlanItem struct {
	Time  string  `json:"time"`
	Name  string  `json:"name"`
	Kcal  float64 `json:"kcal"`
	Notes string  `json:"notes,omitempty"`
}

type PlanDay struct {
	Day   string     `json:"day"`
	Items []PlanItem `json:"items"`
}

type PlanWeek struct {
	Week int       `json:"week"`
	Days []PlanDay `json:"days"`
}

type NutritionPlan struct {
	Base
	MotherID  uuid.UUID  `json:"mother_id" db:"mother_id"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	Title     string     `json:"title" db:"title"`
	Status    PlanStatus `json:"status" db:"status"`
	Weeks     []PlanWeek `json:"weeks" db:"-"`
	WeeksJSON string     `json:"-" db:"weeks"`
}

type CreatePlanRequest struct {
	Title     string     `json:"title" binding:"required"`
	CreatedBy *uuid.UUID `json:"created_by"`
	Weeks     []PlanWeek `json:"weeks"`
}
