package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Applicant represents a person who may submit loan applications.
// The identifier is supplied by the caller at onboarding and is immutable.
type Applicant struct {
	ID          string          `json:"applicant_id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Phone       string          `json:"phone" db:"phone"`
	Email       string          `json:"email" db:"email"`
	Salary      decimal.Decimal `json:"salary" db:"salary"`
	CreditScore int             `json:"credit_score" db:"credit_score"`
	NationalID  string          `json:"national_id" db:"national_id"`
	Gender      string          `json:"gender" db:"gender"`
	Address     string          `json:"address" db:"address"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// DTOs for requests and responses

type CreateApplicantRequest struct {
	ApplicantID string          `json:"applicant_id" validate:"required"`
	Name        string          `json:"name" validate:"required"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email" validate:"omitempty,email"`
	Salary      decimal.Decimal `json:"salary"`
	CreditScore int             `json:"credit_score" validate:"gte=0"`
	NationalID  string          `json:"national_id"`
	Gender      string          `json:"gender" validate:"omitempty,len=1"`
	Address     string          `json:"address"`
}
