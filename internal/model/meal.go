package model

import (
	"time"

	"github.com/google/uuid"
)

type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

func (t MealType) Valid() bool {
	switch t {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack:
		return true
	}
	return false
}

type MealStatus string

const (
	MealStatusPending   MealStatus = "pending"
	MealStatusProcessed MealStatus = "processed"
)

// Nutrients is the per-meal breakdown filled in by the image classifier.
type Nutrients struct {
	Kcal     float64 `json:"kcal"`
	ProteinG float64 `json:"protein_g"`
	CarbG    float64 `json:"carb_g"`
	FatG     float64 `json:"fat_g"`
}

// Labels carries classifier tags and their confidence.
type Labels struct {
	Tags       []string `json:"tags"`
	Confidence float64  `json:"confidence"`
}

type Meal struct {
	Base
	MotherID      uuid.UUID  `json:"mother_id" db:"mother_id"`
	MealType      MealType   `json:"meal_type" db:"meal_type"`
	MealDate      time.Time  `json:"meal_date" db:"meal_date"`
	ImageURL      string     `json:"image_url" db:"image_url"`
	Nutrients     *Nutrients `json:"nutrients,omitempty" db:"-"`
	NutrientsJSON string     `json:"-" db:"nutrients"`
	Labels        *Labels    `json:"labels,omitempty" db:"-"`
	LabelsJSON    string     `json:"-" db:"labels"`
	Status        MealStatus `json:"status" db:"status"`
}

type CreateMealRequest struct {
	MealType string    `json:"meal_type" binding:"required"`
	MealDate time.Time `json:"meal_date" binding:"required"`
	ImageURL string    `json:"image_url" binding:"required"`
}

// ProcessMealRequest records the classifier result and moves the meal
// from pending to processed.
type ProcessMealRequest struct {
	Nutrients Nutrients `json:"nutrients" binding:"required"`
	Labels    Labels    `json:"labels" binding:"required"`
}
