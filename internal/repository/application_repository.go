package repository

import (
	"context"
	"time"

	"github.com/kreditin/loan-origination/internal/domain"
	pkgerrors "github.com/kreditin/loan-origination/pkg/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Constraint names from migrations/001_init.sql; used to tell the two
// foreign keys on loan_applications apart.
const (
	fkApplicant = "loan_applications_applicant_id_fkey"
	fkStatus    = "loan_applications_status_id_fkey"
)

type applicationRepository struct {
	db *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *domain.LoanApplication) error {
	query := `
		INSERT INTO loan_applications (applicant_id, salary, loan_amount, term_months, credit_score, status_id, monthly_payment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		application.ApplicantID,
		application.Salary,
		application.LoanAmount,
		application.TermMonths,
		application.CreditScore,
		application.StatusID,
		application.MonthlyPayment,
	).Scan(&application.ID, &application.CreatedAt)

	return translateConstraint(err)
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, applicationID int64, statusID int) error {
	query := `
		UPDATE loan_applications
		SET status_id = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, applicationID, statusID)
	if err != nil {
		return translateConstraint(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return pkgerrors.ErrApplicationNotFound
	}

	return nil
}

func (r *applicationRepository) GetDetail(ctx context.Context, applicationID int64) (*domain.ApplicationDetail, error) {
	// Inner join: a dangling applicant reference yields no row at all.
	query := `
		SELECT la.id AS application_id,
		       la.applicant_id,
		       la.salary,
		       la.loan_amount,
		       la.term_months,
		       la.credit_score,
		       la.status_id,
		       la.monthly_payment,
		       la.created_at AS submitted_at,
		       a.name AS applicant_name,
		       a.phone AS applicant_phone,
		       a.email AS applicant_email,
		       a.salary AS applicant_salary,
		       a.credit_score AS applicant_credit_score,
		       a.address AS applicant_address
		FROM loan_applications la
		JOIN applicants a ON a.id = la.applicant_id
		WHERE la.id = $1
	`

	var detail domain.ApplicationDetail
	err := r.db.GetContext(ctx, &detail, query, applicationID)
	if err != nil {
		return nil, err
	}

	return &detail, nil
}

func (r *applicationRepository) CountByStatusOlderThan(ctx context.Context, statusID int, before time.Time) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM loan_applications
		WHERE status_id = $1 AND created_at < $2
	`

	var count int64
	err := r.db.GetContext(ctx, &count, query, statusID, before)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// translateConstraint maps Postgres constraint violations on loan_applications
// to domain errors.
func translateConstraint(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok || string(pqErr.Code) != pqForeignKeyViolation {
		return err
	}

	switch pqErr.Constraint {
	case fkApplicant:
		return pkgerrors.ErrApplicantNotFound
	case fkStatus:
		return pkgerrors.ErrUnknownStatus
	}

	return err
}
