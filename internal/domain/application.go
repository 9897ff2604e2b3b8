package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanApplication represents a single loan request tied to one applicant and
// one status. Salary and credit score are point-in-time copies taken at
// submission; the applicant's live values may diverge afterwards.
type LoanApplication struct {
	ID             int64           `json:"application_id" db:"id"`
	ApplicantID    string          `json:"applicant_id" db:"applicant_id"`
	Salary         decimal.Decimal `json:"salary" db:"salary"`
	LoanAmount     decimal.Decimal `json:"loan_amount" db:"loan_amount"`
	TermMonths     int             `json:"term_months" db:"term_months"`
	CreditScore    int             `json:"credit_score" db:"credit_score"`
	StatusID       int             `json:"status_id" db:"status_id"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment" db:"monthly_payment"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// ApplicationDetail joins an application with its applicant. The applicant's
// current salary and credit score carry distinguishing names because both the
// snapshot and the live value exist.
type ApplicationDetail struct {
	ApplicationID        int64           `json:"application_id" db:"application_id"`
	ApplicantID          string          `json:"applicant_id" db:"applicant_id"`
	Salary               decimal.Decimal `json:"salary" db:"salary"`
	LoanAmount           decimal.Decimal `json:"loan_amount" db:"loan_amount"`
	TermMonths           int             `json:"term_months" db:"term_months"`
	CreditScore          int             `json:"credit_score" db:"credit_score"`
	StatusID             int             `json:"status_id" db:"status_id"`
	StatusName           string          `json:"status_name" db:"-"`
	MonthlyPayment       decimal.Decimal `json:"monthly_payment" db:"monthly_payment"`
	SubmittedAt          time.Time       `json:"submitted_at" db:"submitted_at"`
	ApplicantName        string          `json:"applicant_name" db:"applicant_name"`
	ApplicantPhone       string          `json:"applicant_phone" db:"applicant_phone"`
	ApplicantEmail       string          `json:"applicant_email" db:"applicant_email"`
	ApplicantSalary      decimal.Decimal `json:"applicant_salary" db:"applicant_salary"`
	ApplicantCreditScore int             `json:"applicant_credit_score" db:"applicant_credit_score"`
	ApplicantAddress     string          `json:"applicant_address" db:"applicant_address"`
}

// DTOs for requests and responses

type SubmitApplicationRequest struct {
	ApplicantID    string          `json:"applicant_id" validate:"required"`
	Salary         decimal.Decimal `json:"salary"`
	LoanAmount     decimal.Decimal `json:"loan_amount"`
	TermMonths     int             `json:"term_months" validate:"required,gt=0"`
	CreditScore    int             `json:"credit_score" validate:"gte=0"`
	StatusID       int             `json:"status_id"`
	MonthlyPayment decimal.Decimal `json:"monthly_payment"`
}

type SetStatusRequest struct {
	StatusID int `json:"status_id" validate:"required"`
}

type SubmitApplicationResponse struct {
	Application *LoanApplication `json:"application"`
}
