package repository

import (
	"context"

	"github.com/kreditin/loan-origination/internal/domain"
	pkgerrors "github.com/kreditin/loan-origination/pkg/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Postgres error codes the repositories translate into domain errors.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

type applicantRepository struct {
	db *sqlx.DB
}

func NewApplicantRepository(db *sqlx.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}

func (r *applicantRepository) Create(ctx context.Context, applicant *domain.Applicant) error {
	query := `
		INSERT INTO applicants (id, name, phone, email, salary, credit_score, national_id, gender, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		applicant.ID,
		applicant.Name,
		applicant.Phone,
		applicant.Email,
		applicant.Salary,
		applicant.CreditScore,
		applicant.NationalID,
		applicant.Gender,
		applicant.Address,
	).Scan(&applicant.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && string(pqErr.Code) == pqUniqueViolation {
		return pkgerrors.ErrApplicantAlreadyExists
	}

	return err
}

func (r *applicantRepository) GetByID(ctx context.Context, applicantID string) (*domain.Applicant, error) {
	query := `
		SELECT id, name, phone, email, salary, credit_score, national_id, gender, address, created_at
		FROM applicants
		WHERE id = $1
	`

	var applicant domain.Applicant
	err := r.db.GetContext(ctx, &applicant, query, applicantID)
	if err != nil {
		return nil, err
	}

	return &applicant, nil
}
