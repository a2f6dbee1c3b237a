package model

import (
	"time"
)

type Role string

const (
	RoleMother Role = "mother"
	RoleASHA   Role = "asha"
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMother, RoleASHA, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// Profile holds role-specific user details. Specialization is set for
// doctors, Region for ASHA workers.
type Profile struct {
	Gender         string     `json:"gender,omitempty"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	Specialization string     `json:"specialization,omitempty"`
	Region         string     `json:"region,omitempty"`
	Language       string     `json:"language,omitempty"`
}

// User is the identity root for all actors: mothers, ASHA workers,
// doctors and admins.
type User struct {
	Base
	Name  string `json:"name" db:"name"`
	Phone string `json:"phone" db:"phone"`
	// Empty hash means the account authenticates with OTP only.
	PasswordHash string   `json:"-" db:"password_hash"`
	Role         Role     `json:"role" db:"role"`
	Profile      *Profile `json:"profile,omitempty" db:"-"`
	ProfileJSON  string   `json:"-" db:"profile"`
	IsActive     bool     `json:"is_active" db:"is_active"`
}

// CreateUserRequest represents user creation parameters
type CreateUserRequest struct {
	Name     string   `json:"name" binding:"required"`
	Phone    string   `json:"phone" binding:"required,phone"`
	Password string   `json:"password" binding:"omitempty,min=8"`
	Role     string   `json:"role" binding:"required"`
	Profile  *Profile `json:"profile"`
}

type UserFilters struct {
	Role       Role   `json:"role" form:"role"`
	SearchTerm string `json:"search_term" form:"search_term"`
}
